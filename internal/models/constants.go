package models

const (
	// Шаги сценария записи. Пустое состояние означает главное меню.
	StateSelectService = "select_service"
	StateSelectDate    = "select_date"
	StateSelectTime    = "select_time"
)

const (
	// SettingSlotCapacity — максимум одновременных записей на один слот (дата+время).
	SettingSlotCapacity = "slot_capacity"
	// SettingRemindersEnabled — включены ли напоминания о записи.
	SettingRemindersEnabled = "reminders_enabled"

	DefaultSlotCapacity = 2
)

const (
	// DateLayout — формат даты записи, без года. Дата всегда трактуется
	// в текущем году, прошедшие в этом году даты не переносятся на следующий.
	DateLayout = "02.01"
	// TimeLayout — канонический формат слота времени.
	TimeLayout = "15:04"

	// ReminderHour — час отправки напоминания накануне записи.
	ReminderHour = 9

	// BookingDays — сколько дней вперед предлагается при выборе даты.
	BookingDays = 7

	// DefaultSessionTTL время жизни состояния сценария в Redis, секунды.
	DefaultSessionTTL = 24 * 60 * 60

	// RateLimitMessages количество сообщений в окне
	RateLimitMessages = 20
	// RateLimitWindow окно ограничения частоты сообщений, секунды
	RateLimitWindow = 60
)

const (
	ParseModeMarkdown = "Markdown"
	ParseModeHTML     = "HTML"
)
