package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"zapisnik/internal/database"
	"zapisnik/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// startBookingFlow запускает сценарий записи с чистого листа. Повторный вход
// из любого шага приводит к тому же результату: прежний прогресс стирается.
func (b *Bot) startBookingFlow(ctx context.Context, chatID, userID int64) {
	storeCtx, cancel := b.storeCtx(ctx)
	defer cancel()

	services, err := b.inventoryService.ListServices(storeCtx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", userID).Msg("list services error")
		b.sendMessage(chatID, getErrorMessage(err))
		return
	}

	if len(services) == 0 {
		// Пустой ассортимент не меняет состояние: пользователь остается в меню.
		b.clearSession(ctx, userID)
		b.sendMessage(chatID, "😔 Сейчас запись недоступна: список услуг пуст. Загляните позже.")
		return
	}

	state := &models.SessionState{
		UserID:   userID,
		Step:     models.StateSelectService,
		UserName: b.resolveUserName(ctx, userID),
	}
	b.setSession(ctx, state)

	if _, err := b.tgService.SendWithInlineKeyboard(chatID, "Выберите услугу:", serviceKeyboard(services)); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("send services error")
	}
}

func (b *Bot) handleServiceChosen(ctx context.Context, chatID, userID int64, service string) {
	state := b.getSession(ctx, userID)
	if state == nil || state.Step != models.StateSelectService {
		b.handleMainMenu(ctx, chatID, userID)
		return
	}

	storeCtx, cancel := b.storeCtx(ctx)
	defer cancel()

	services, err := b.inventoryService.ListServices(storeCtx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("list services error")
		b.sendMessage(chatID, getErrorMessage(err))
		return
	}

	// Услуга могла быть удалена оператором между показом клавиатуры и нажатием.
	if !contains(services, service) {
		b.sendMessage(chatID, "⚠️ Такой услуги больше нет. Выберите из актуального списка:")
		if _, err := b.tgService.SendWithInlineKeyboard(chatID, "Выберите услугу:", serviceKeyboard(services)); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("send services error")
		}
		return
	}

	state.Service = service
	state.Step = models.StateSelectDate
	b.setSession(ctx, state)

	b.sendDateStep(ctx, chatID, service)
}

func (b *Bot) sendDateStep(ctx context.Context, chatID int64, service string) {
	text := fmt.Sprintf("Услуга: %s\nВыберите дату:", service)
	if _, err := b.tgService.SendWithInlineKeyboard(chatID, text, dateKeyboard(b.candidateDates())); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("send dates error")
	}
}

func (b *Bot) handleDateChosen(ctx context.Context, chatID, userID int64, date string) {
	state := b.getSession(ctx, userID)
	if state == nil || state.Step != models.StateSelectDate || !state.HasService() {
		b.handleMainMenu(ctx, chatID, userID)
		return
	}

	storeCtx, cancel := b.storeCtx(ctx)
	defer cancel()

	slots, err := b.inventoryService.ListTimeSlots(storeCtx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("list time slots error")
		b.sendMessage(chatID, getErrorMessage(err))
		return
	}

	if len(slots) == 0 {
		// Без настроенных слотов шаг времени невозможен, сценарий завершается.
		b.clearSession(ctx, userID)
		b.sendMessage(chatID, "😔 На выбранную дату нет доступного времени. Попробуйте позже.")
		return
	}

	state.Date = date
	state.Step = models.StateSelectTime
	b.setSession(ctx, state)

	b.sendTimeStep(ctx, chatID, date, slots)
}

func (b *Bot) sendTimeStep(ctx context.Context, chatID int64, date string, slots []string) {
	text := fmt.Sprintf("Дата: %s\nВыберите время:", date)
	if _, err := b.tgService.SendWithInlineKeyboard(chatID, text, timeKeyboard(slots)); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("send time slots error")
	}
}

func (b *Bot) handleTimeChosen(ctx context.Context, chatID, userID int64, timeSlot string) {
	state := b.getSession(ctx, userID)
	if state == nil || state.Step != models.StateSelectTime || !state.HasService() || !state.HasDate() {
		b.handleMainMenu(ctx, chatID, userID)
		return
	}

	storeCtx, cancel := b.storeCtx(ctx)
	defer cancel()

	slots, err := b.inventoryService.ListTimeSlots(storeCtx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("list time slots error")
		b.sendMessage(chatID, getErrorMessage(err))
		return
	}
	if !contains(slots, timeSlot) {
		b.sendMessage(chatID, "⚠️ Этого времени больше нет. Выберите из актуального списка:")
		b.sendTimeStep(ctx, chatID, state.Date, slots)
		return
	}

	booking, err := b.bookingService.Reserve(storeCtx, userID, state.UserName, state.Service, state.Date, timeSlot)
	if errors.Is(err, database.ErrSlotTaken) {
		if b.metrics != nil {
			b.metrics.BookingsRejected.Inc()
		}
		// Отказ по вместимости не откатывает сценарий: пользователь остается
		// на шаге выбора времени с той же датой.
		b.sendMessage(chatID, getErrorMessage(err))
		b.sendTimeStep(ctx, chatID, state.Date, slots)
		return
	}
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", userID).Msg("reserve error")
		b.clearSession(ctx, userID)
		b.sendMessage(chatID, getErrorMessage(err))
		return
	}

	if b.metrics != nil {
		b.metrics.BookingsCreated.WithLabelValues(booking.Service).Inc()
	}

	b.reminders.Schedule(ctx, booking)
	b.clearSession(ctx, userID)
	b.sendConfirmation(ctx, chatID, booking)
}

func (b *Bot) sendConfirmation(ctx context.Context, chatID int64, booking *models.Booking) {
	text := fmt.Sprintf("✅ Вы записаны!\n\n%s\n\nЖдем вас. Напоминание придет накануне.", formatBooking(booking))

	if b.config.Bot.PaymentLink != "" {
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("💳 Оплатить", b.config.Bot.PaymentLink),
			),
		)
		if _, err := b.tgService.SendWithInlineKeyboard(chatID, text, keyboard); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("send confirmation error")
		}
		return
	}

	b.sendMessage(chatID, text)
}

// handleBack возвращает сценарий на предыдущий шаг, стирая ровно те поля,
// которые этот шаг заполнял. Дата, выбранная до возврата к услугам, не
// переживает повторный проход.
func (b *Bot) handleBack(ctx context.Context, chatID, userID int64) {
	state := b.getSession(ctx, userID)
	if state == nil {
		b.handleMainMenu(ctx, chatID, userID)
		return
	}

	switch state.Step {
	case models.StateSelectTime:
		state.Date = ""
		state.Step = models.StateSelectDate
		b.setSession(ctx, state)
		b.sendDateStep(ctx, chatID, state.Service)

	case models.StateSelectDate:
		state.Service = ""
		state.Date = ""
		state.Step = models.StateSelectService
		b.setSession(ctx, state)

		storeCtx, cancel := b.storeCtx(ctx)
		defer cancel()
		services, err := b.inventoryService.ListServices(storeCtx)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("list services error")
			b.sendMessage(chatID, getErrorMessage(err))
			return
		}
		if _, err := b.tgService.SendWithInlineKeyboard(chatID, "Выберите услугу:", serviceKeyboard(services)); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("send services error")
		}

	default:
		b.handleMainMenu(ctx, chatID, userID)
	}
}

func (b *Bot) handleCancelAction(ctx context.Context, chatID, userID int64) {
	b.clearSession(ctx, userID)
	b.sendMessage(chatID, "Запись отменена.")
	b.handleMainMenu(ctx, chatID, userID)
}

func (b *Bot) showUserBookings(ctx context.Context, chatID, userID int64) {
	storeCtx, cancel := b.storeCtx(ctx)
	defer cancel()

	bookings, err := b.bookingService.UserBookings(storeCtx, userID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("user_id", userID).Msg("list user bookings error")
		b.sendMessage(chatID, getErrorMessage(err))
		return
	}

	if len(bookings) == 0 {
		b.sendMessage(chatID, "У вас пока нет записей. Нажмите «"+btnBook+"», чтобы записаться.")
		return
	}

	for _, booking := range bookings {
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("❌ Отменить запись",
					cbCancelBooking+strconv.FormatInt(booking.ID, 10)),
			),
		)
		if _, err := b.tgService.SendWithInlineKeyboard(chatID, formatBooking(booking), keyboard); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("send booking error")
		}
	}
}

func (b *Bot) handleSelfCancel(ctx context.Context, chatID, userID int64, rawID string) {
	bookingID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		b.sendMessage(chatID, getErrorMessage(database.ErrNotFound))
		return
	}

	storeCtx, cancel := b.storeCtx(ctx)
	defer cancel()

	booking, err := b.bookingService.GetBooking(storeCtx, bookingID)
	if err != nil {
		b.sendMessage(chatID, getErrorMessage(err))
		return
	}

	// Свои записи может отменять только их владелец.
	if booking.UserID != userID {
		b.sendMessage(chatID, getErrorMessage(database.ErrNotFound))
		return
	}

	if err := b.bookingService.Cancel(storeCtx, bookingID); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("booking_id", bookingID).Msg("cancel booking error")
		b.sendMessage(chatID, getErrorMessage(err))
		return
	}

	if b.metrics != nil {
		b.metrics.BookingsCanceled.Inc()
	}
	b.sendMessage(chatID, fmt.Sprintf("Запись отменена:\n%s", formatBooking(booking)))
}

func (b *Bot) resolveUserName(ctx context.Context, userID int64) string {
	storeCtx, cancel := b.storeCtx(ctx)
	defer cancel()

	user, err := b.userService.GetUser(storeCtx, userID)
	if err != nil || user == nil {
		return strconv.FormatInt(userID, 10)
	}
	return user.DisplayName()
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
