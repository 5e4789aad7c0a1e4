package bot

import (
	"context"
	"testing"
	"time"

	"zapisnik/internal/config"
	"zapisnik/internal/database"
	"zapisnik/internal/domain"
	"zapisnik/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTelegramService struct {
	domain.TelegramService
	updatesChan chan tgbotapi.Update
	sent        []string
}

func (m *mockTelegramService) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return m.updatesChan
}

func (m *mockTelegramService) GetSelf() tgbotapi.User {
	return tgbotapi.User{UserName: "test_bot"}
}

func (m *mockTelegramService) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	m.sent = append(m.sent, text)
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error) {
	m.sent = append(m.sent, text)
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	m.sent = append(m.sent, text)
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) AnswerCallback(callbackID string, text string) error {
	return nil
}

func (m *mockTelegramService) lastSent() string {
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1]
}

type mockSessions struct {
	states map[int64]*models.SessionState
}

func (m *mockSessions) GetSession(ctx context.Context, userID int64) (*models.SessionState, error) {
	return m.states[userID], nil
}

func (m *mockSessions) SetSession(ctx context.Context, state *models.SessionState) error {
	copied := *state
	m.states[state.UserID] = &copied
	return nil
}

func (m *mockSessions) ClearSession(ctx context.Context, userID int64) error {
	delete(m.states, userID)
	return nil
}

func (m *mockSessions) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	return true, nil
}

type mockBookingService struct {
	reserveErr error
	nextID     int64
	bookings   map[int64]*models.Booking
}

func (m *mockBookingService) Reserve(ctx context.Context, userID int64, userName, service, date, timeSlot string) (*models.Booking, error) {
	if m.reserveErr != nil {
		return nil, m.reserveErr
	}
	m.nextID++
	booking := &models.Booking{
		ID: m.nextID, UserID: userID, UserName: userName,
		Service: service, Date: date, Time: timeSlot, CreatedAt: time.Now(),
	}
	m.bookings[booking.ID] = booking
	return booking, nil
}

func (m *mockBookingService) Cancel(ctx context.Context, bookingID int64) error {
	if _, ok := m.bookings[bookingID]; !ok {
		return database.ErrNotFound
	}
	delete(m.bookings, bookingID)
	return nil
}

func (m *mockBookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	booking, ok := m.bookings[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return booking, nil
}

func (m *mockBookingService) UserBookings(ctx context.Context, userID int64) ([]*models.Booking, error) {
	var out []*models.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBookingService) AllBookings(ctx context.Context) ([]*models.Booking, error) {
	var out []*models.Booking
	for _, b := range m.bookings {
		out = append(out, b)
	}
	return out, nil
}

type mockInventory struct {
	domain.InventoryManager
	services []string
	slots    []string
}

func (m *mockInventory) ListServices(ctx context.Context) ([]string, error) {
	return m.services, nil
}

func (m *mockInventory) ListTimeSlots(ctx context.Context) ([]string, error) {
	return m.slots, nil
}

func (m *mockInventory) GetSlotCapacity(ctx context.Context) (int, error) {
	return models.DefaultSlotCapacity, nil
}

func (m *mockInventory) SetRemindersEnabled(ctx context.Context, enabled bool) error {
	return nil
}

type mockUsers struct {
	domain.UserManager
	saved map[int64]*models.User
}

func (m *mockUsers) SaveUser(ctx context.Context, user *models.User) error {
	m.saved[user.TelegramID] = user
	return nil
}

func (m *mockUsers) GetUser(ctx context.Context, telegramID int64) (*models.User, error) {
	user, ok := m.saved[telegramID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return user, nil
}

func (m *mockUsers) UpdateUserActivity(ctx context.Context, telegramID int64) error {
	return nil
}

func (m *mockUsers) CountUsers(ctx context.Context) (int, error) {
	return len(m.saved), nil
}

type mockScheduler struct {
	scheduled []*models.Booking
}

func (m *mockScheduler) Schedule(ctx context.Context, booking *models.Booking) {
	m.scheduled = append(m.scheduled, booking)
}

type testMocks struct {
	tg        *mockTelegramService
	sessions  *mockSessions
	booking   *mockBookingService
	inventory *mockInventory
	users     *mockUsers
	scheduler *mockScheduler
}

func setupTestBot(t *testing.T) (*Bot, *testMocks) {
	t.Helper()
	mocks := &testMocks{
		tg:        &mockTelegramService{updatesChan: make(chan tgbotapi.Update, 1)},
		sessions:  &mockSessions{states: make(map[int64]*models.SessionState)},
		booking:   &mockBookingService{bookings: make(map[int64]*models.Booking)},
		inventory: &mockInventory{services: []string{"Маникюр", "Стрижка"}, slots: []string{"10:00", "12:00"}},
		users:     &mockUsers{saved: make(map[int64]*models.User)},
		scheduler: &mockScheduler{},
	}

	cfg := &config.Config{
		Telegram: config.TelegramConfig{BotToken: "test"},
		Bot: config.BotConfig{
			OperatorID:   555,
			BookingDays:  7,
			StoreTimeout: 5,
		},
	}

	logger := zerolog.Nop()
	b, err := NewBot(mocks.tg, cfg, mocks.sessions, mocks.booking, mocks.inventory, mocks.users, mocks.scheduler, nil, nil, &logger)
	require.NoError(t, err)
	return b, mocks
}

func TestBookingFlow_HappyPath(t *testing.T) {
	b, mocks := setupTestBot(t)
	ctx := context.Background()

	b.startBookingFlow(ctx, 1, 1)
	state := mocks.sessions.states[1]
	require.NotNil(t, state)
	assert.Equal(t, models.StateSelectService, state.Step)

	b.handleServiceChosen(ctx, 1, 1, "Маникюр")
	state = mocks.sessions.states[1]
	assert.Equal(t, models.StateSelectDate, state.Step)
	assert.Equal(t, "Маникюр", state.Service)

	date := time.Now().AddDate(0, 0, 3).Format(models.DateLayout)
	b.handleDateChosen(ctx, 1, 1, date)
	state = mocks.sessions.states[1]
	assert.Equal(t, models.StateSelectTime, state.Step)
	assert.Equal(t, date, state.Date)

	b.handleTimeChosen(ctx, 1, 1, "10:00")

	// Запись создана, напоминание поставлено, сценарий завершен
	require.Len(t, mocks.booking.bookings, 1)
	booking := mocks.booking.bookings[1]
	assert.Equal(t, "Маникюр", booking.Service)
	assert.Equal(t, date, booking.Date)
	assert.Equal(t, "10:00", booking.Time)

	require.Len(t, mocks.scheduler.scheduled, 1)
	assert.Nil(t, mocks.sessions.states[1])
	assert.Contains(t, mocks.tg.lastSent(), "Вы записаны")
}

func TestBookingFlow_BackClearsDate(t *testing.T) {
	b, mocks := setupTestBot(t)
	ctx := context.Background()

	b.startBookingFlow(ctx, 1, 1)
	b.handleServiceChosen(ctx, 1, 1, "Маникюр")
	date := time.Now().AddDate(0, 0, 2).Format(models.DateLayout)
	b.handleDateChosen(ctx, 1, 1, date)

	// Назад с выбора времени стирает дату
	b.handleBack(ctx, 1, 1)
	state := mocks.sessions.states[1]
	require.NotNil(t, state)
	assert.Equal(t, models.StateSelectDate, state.Step)
	assert.Empty(t, state.Date)
	assert.Equal(t, "Маникюр", state.Service)

	// Назад с выбора даты стирает услугу
	b.handleBack(ctx, 1, 1)
	state = mocks.sessions.states[1]
	require.NotNil(t, state)
	assert.Equal(t, models.StateSelectService, state.Step)
	assert.Empty(t, state.Service)

	// Повторный проход не тянет за собой старую дату
	b.handleServiceChosen(ctx, 1, 1, "Стрижка")
	newDate := time.Now().AddDate(0, 0, 5).Format(models.DateLayout)
	b.handleDateChosen(ctx, 1, 1, newDate)
	b.handleTimeChosen(ctx, 1, 1, "12:00")

	require.Len(t, mocks.booking.bookings, 1)
	booking := mocks.booking.bookings[1]
	assert.Equal(t, "Стрижка", booking.Service)
	assert.Equal(t, newDate, booking.Date)
}

func TestBookingFlow_SlotTakenKeepsState(t *testing.T) {
	b, mocks := setupTestBot(t)
	ctx := context.Background()

	b.startBookingFlow(ctx, 1, 1)
	b.handleServiceChosen(ctx, 1, 1, "Маникюр")
	date := time.Now().AddDate(0, 0, 2).Format(models.DateLayout)
	b.handleDateChosen(ctx, 1, 1, date)

	mocks.booking.reserveErr = database.ErrSlotTaken
	b.handleTimeChosen(ctx, 1, 1, "10:00")

	// Отказ по вместимости оставляет пользователя на выборе времени той же даты
	state := mocks.sessions.states[1]
	require.NotNil(t, state)
	assert.Equal(t, models.StateSelectTime, state.Step)
	assert.Equal(t, date, state.Date)

	// Другое время той же даты проходит без повторного выбора даты
	mocks.booking.reserveErr = nil
	b.handleTimeChosen(ctx, 1, 1, "12:00")
	require.Len(t, mocks.booking.bookings, 1)
	assert.Equal(t, "12:00", mocks.booking.bookings[1].Time)
	assert.Nil(t, mocks.sessions.states[1])
}

func TestBookingFlow_NoServices(t *testing.T) {
	b, mocks := setupTestBot(t)
	mocks.inventory.services = nil
	ctx := context.Background()

	b.startBookingFlow(ctx, 1, 1)

	assert.Nil(t, mocks.sessions.states[1])
	assert.Contains(t, mocks.tg.lastSent(), "запись недоступна")
}

func TestBookingFlow_NoTimeSlots(t *testing.T) {
	b, mocks := setupTestBot(t)
	mocks.inventory.slots = nil
	ctx := context.Background()

	b.startBookingFlow(ctx, 1, 1)
	b.handleServiceChosen(ctx, 1, 1, "Маникюр")
	b.handleDateChosen(ctx, 1, 1, time.Now().AddDate(0, 0, 2).Format(models.DateLayout))

	// Без слотов сценарий завершается, состояние чистое
	assert.Nil(t, mocks.sessions.states[1])
	assert.Contains(t, mocks.tg.lastSent(), "нет доступного времени")
}

func TestBookingFlow_RestartResets(t *testing.T) {
	b, mocks := setupTestBot(t)
	ctx := context.Background()

	b.startBookingFlow(ctx, 1, 1)
	b.handleServiceChosen(ctx, 1, 1, "Маникюр")
	b.handleDateChosen(ctx, 1, 1, time.Now().AddDate(0, 0, 2).Format(models.DateLayout))

	// Повторный вход в сценарий стирает прежний прогресс
	b.startBookingFlow(ctx, 1, 1)
	state := mocks.sessions.states[1]
	require.NotNil(t, state)
	assert.Equal(t, models.StateSelectService, state.Step)
	assert.Empty(t, state.Service)
	assert.Empty(t, state.Date)
}

func TestBookingFlow_UnknownServiceRejected(t *testing.T) {
	b, mocks := setupTestBot(t)
	ctx := context.Background()

	b.startBookingFlow(ctx, 1, 1)
	b.handleServiceChosen(ctx, 1, 1, "Несуществующая")

	// Шаг не продвинулся
	state := mocks.sessions.states[1]
	require.NotNil(t, state)
	assert.Equal(t, models.StateSelectService, state.Step)
	assert.Empty(t, state.Service)
}

func TestSelfCancel_OwnershipCheck(t *testing.T) {
	b, mocks := setupTestBot(t)
	ctx := context.Background()

	mocks.booking.bookings[1] = &models.Booking{ID: 1, UserID: 42, Service: "Маникюр", Date: "15.09", Time: "10:00"}

	// Чужая запись не отменяется
	b.handleSelfCancel(ctx, 7, 7, "1")
	assert.Len(t, mocks.booking.bookings, 1)

	// Своя отменяется
	b.handleSelfCancel(ctx, 42, 42, "1")
	assert.Empty(t, mocks.booking.bookings)
}

func TestOperatorDelete_Authorization(t *testing.T) {
	b, mocks := setupTestBot(t)
	ctx := context.Background()

	mocks.booking.bookings[1] = &models.Booking{ID: 1, UserID: 42, Service: "Маникюр", Date: "15.09", Time: "10:00"}

	update := tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb1",
			From:    &tgbotapi.User{ID: 7},
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 7}},
			Data:    cbDeleteBooking + "1",
		},
	}
	b.handleCallbackQuery(ctx, update)

	// Не оператор получает отказ, запись на месте
	assert.Len(t, mocks.booking.bookings, 1)
	assert.Contains(t, mocks.tg.lastSent(), "только оператору")

	update.CallbackQuery.From.ID = 555
	update.CallbackQuery.Message.Chat.ID = 555
	b.handleCallbackQuery(ctx, update)
	assert.Empty(t, mocks.booking.bookings)
}

func TestOperatorCommands(t *testing.T) {
	b, mocks := setupTestBot(t)
	ctx := context.Background()

	msg := func(text string) tgbotapi.Update {
		return tgbotapi.Update{
			Message: &tgbotapi.Message{
				From: &tgbotapi.User{ID: 555},
				Chat: &tgbotapi.Chat{ID: 555},
				Text: text,
			},
		}
	}

	handled := b.handleOperatorCommand(ctx, msg("/stats"))
	assert.True(t, handled)
	assert.Contains(t, mocks.tg.lastSent(), "Статистика")

	handled = b.handleOperatorCommand(ctx, msg("/reminders off"))
	assert.True(t, handled)

	// Обычный текст оператором не перехватывается
	handled = b.handleOperatorCommand(ctx, msg("привет"))
	assert.False(t, handled)
}

func TestBotStart_ProcessesUpdate(t *testing.T) {
	b, mocks := setupTestBot(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Start(ctx)

	mocks.tg.updatesChan <- tgbotapi.Update{
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: 123, UserName: "testuser"},
			Chat: &tgbotapi.Chat{ID: 123},
			Text: "/start",
		},
	}

	require.Eventually(t, func() bool {
		_, ok := mocks.users.saved[123]
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data string
		kind ActionKind
		val  string
	}{
		{cbService + "Маникюр", ActionChooseService, "Маникюр"},
		{cbDate + "15.09", ActionChooseDate, "15.09"},
		{cbTime + "10:00", ActionChooseTime, "10:00"},
		{cbBack, ActionBack, ""},
		{cbCancel, ActionCancel, ""},
		{cbCancelBooking + "7", ActionCancelBooking, "7"},
		{cbDeleteBooking + "7", ActionDeleteBooking, "7"},
		{cbPayStub, ActionPayStub, ""},
		{"garbage", ActionUnknown, "garbage"},
	}

	for _, tc := range tests {
		action := ParseCallback(tc.data)
		assert.Equal(t, tc.kind, action.Kind, tc.data)
		assert.Equal(t, tc.val, action.Value, tc.data)
	}
}
