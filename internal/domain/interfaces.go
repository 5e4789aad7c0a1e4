package domain

import (
	"context"
	"time"

	"zapisnik/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Ledger — журнал записей с атомарной проверкой занятости слота.
type Ledger interface {
	CreateBookingWithLock(ctx context.Context, booking *models.Booking) error
	CountByDateTime(ctx context.Context, date, timeSlot string) (int, error)
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	GetUserBookings(ctx context.Context, userID int64) ([]*models.Booking, error)
	GetAllBookings(ctx context.Context) ([]*models.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
	CountBookings(ctx context.Context) (int, error)
}

// Inventory — ассортимент (услуги, слоты времени) и настройки оператора.
type Inventory interface {
	ListServices(ctx context.Context) ([]string, error)
	AddService(ctx context.Context, name string) error
	RemoveService(ctx context.Context, name string) error
	ListTimeSlots(ctx context.Context) ([]string, error)
	AddTimeSlot(ctx context.Context, value string) error
	RemoveTimeSlot(ctx context.Context, value string) error
	GetSetting(ctx context.Context, name string) (string, error)
	SetSetting(ctx context.Context, name, value string) error
	GetSlotCapacity(ctx context.Context) (int, error)
	RemindersEnabled(ctx context.Context) (bool, error)
}

// UserStore — реестр пользователей бота.
type UserStore interface {
	CreateOrUpdateUser(ctx context.Context, user *models.User) error
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	UpdateUserActivity(ctx context.Context, telegramID int64) error
	CountUsers(ctx context.Context) (int, error)
}

// StateRepository хранит состояние сценария записи по пользователю.
type StateRepository interface {
	GetState(ctx context.Context, userID int64) (*models.SessionState, error)
	SetState(ctx context.Context, state *models.SessionState) error
	ClearState(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

// SessionManager — интерфейс состояния для машины сценария.
type SessionManager interface {
	GetSession(ctx context.Context, userID int64) (*models.SessionState, error)
	SetSession(ctx context.Context, state *models.SessionState) error
	ClearSession(ctx context.Context, userID int64) error
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

// BookingService — движок резервирования слотов.
type BookingService interface {
	Reserve(ctx context.Context, userID int64, userName, service, date, timeSlot string) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID int64) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UserBookings(ctx context.Context, userID int64) ([]*models.Booking, error)
	AllBookings(ctx context.Context) ([]*models.Booking, error)
}

// InventoryManager — операции оператора с валидацией ввода.
type InventoryManager interface {
	ListServices(ctx context.Context) ([]string, error)
	AddService(ctx context.Context, name string) error
	RemoveService(ctx context.Context, name string) error
	ListTimeSlots(ctx context.Context) ([]string, error)
	AddTimeSlot(ctx context.Context, value string) error
	RemoveTimeSlot(ctx context.Context, value string) error
	SetSlotCapacity(ctx context.Context, raw string) error
	SetRemindersEnabled(ctx context.Context, enabled bool) error
	GetSlotCapacity(ctx context.Context) (int, error)
	RemindersEnabled(ctx context.Context) (bool, error)
}

// UserManager — реестр пользователей для транспортного слоя.
type UserManager interface {
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, telegramID int64) (*models.User, error)
	UpdateUserActivity(ctx context.Context, telegramID int64) error
	CountUsers(ctx context.Context) (int, error)
}

// ReminderScheduler планирует одноразовое напоминание по записи.
type ReminderScheduler interface {
	Schedule(ctx context.Context, booking *models.Booking)
}

// Notifier — односторонняя доставка сообщений (best effort).
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// EventPublisher — публикация доменных событий.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// TelegramSender — тонкая обертка над Bot API для подмены в тестах.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

// TelegramService — высокоуровневые операции отправки.
type TelegramService interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error)
	SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	AnswerCallback(callbackID string, text string) error
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

// SheetsWriter — зеркало журнала записей в Google Sheets.
type SheetsWriter interface {
	AppendBooking(ctx context.Context, booking *models.Booking) error
	DeleteBookingRow(ctx context.Context, bookingID int64) error
}

// ExportWorker принимает задачи на асинхронную синхронизацию с Sheets.
type ExportWorker interface {
	EnqueueAppend(booking *models.Booking)
	EnqueueDelete(bookingID int64)
}
