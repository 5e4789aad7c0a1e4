package reminder

import (
	"context"
	"fmt"
	"time"

	"zapisnik/internal/domain"
	"zapisnik/internal/models"

	"github.com/rs/zerolog"
)

// Scheduler планирует одноразовые напоминания: в 09:00 накануне записи
// уведомляются клиент и оператор. Таймеры живут только в памяти процесса
// и не отменяются при удалении записи.
type Scheduler struct {
	inventory  domain.Inventory
	notifier   domain.Notifier
	operatorID int64
	hour       int
	metrics    *Metrics
	logger     *zerolog.Logger

	// now подменяется в тестах
	now func() time.Time
}

func NewScheduler(inventory domain.Inventory, notifier domain.Notifier, operatorID int64, hour int, metrics *Metrics, logger *zerolog.Logger) *Scheduler {
	if hour <= 0 || hour > 23 {
		hour = models.ReminderHour
	}
	return &Scheduler{
		inventory:  inventory,
		notifier:   notifier,
		operatorID: operatorID,
		hour:       hour,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// Schedule ставит таймер напоминания по записи. Ошибки не возвращаются:
// запись уже создана, сбой планирования её не отменяет.
func (s *Scheduler) Schedule(ctx context.Context, booking *models.Booking) {
	enabled, err := s.inventory.RemindersEnabled(ctx)
	if err != nil {
		s.logger.Error().Err(err).Int64("booking_id", booking.ID).Msg("reminder: settings read error, skipping")
		return
	}
	if !enabled {
		s.logger.Debug().Int64("booking_id", booking.ID).Msg("reminder: disabled, skipping")
		return
	}

	fireAt, err := s.FireTime(booking.Date)
	if err != nil {
		s.logger.Warn().Err(err).Int64("booking_id", booking.ID).Str("date", booking.Date).Msg("reminder: not scheduled")
		return
	}

	delay := fireAt.Sub(s.now())
	b := *booking
	time.AfterFunc(delay, func() {
		s.fire(&b)
	})

	if s.metrics != nil {
		s.metrics.Scheduled.Inc()
	}
	s.logger.Info().Int64("booking_id", booking.ID).Time("fire_at", fireAt).Msg("reminder scheduled")
}

// FireTime вычисляет момент напоминания: 09:00 за день до даты записи.
// Дата ДД.ММ разрешается в текущем году; уже прошедшая в этом году дата
// не переносится на следующий год, а отклоняется.
func (s *Scheduler) FireTime(date string) (time.Time, error) {
	parsed, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid booking date %q: %w", date, err)
	}

	now := s.now()
	appointment := time.Date(now.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	daysUntil := int(appointment.Sub(today).Hours() / 24)
	if daysUntil < 0 {
		return time.Time{}, fmt.Errorf("date %s already passed this year", date)
	}
	if daysUntil == 0 {
		return time.Time{}, fmt.Errorf("appointment %s is today, nothing to remind", date)
	}

	fireAt := appointment.AddDate(0, 0, -1).Add(time.Duration(s.hour) * time.Hour)
	if !fireAt.After(now) {
		return time.Time{}, fmt.Errorf("reminder time %s already passed", fireAt.Format(time.RFC3339))
	}
	return fireAt, nil
}

// fire доставляет оба уведомления независимо: сбой одного не гасит второе,
// повторов нет.
func (s *Scheduler) fire(booking *models.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userText := fmt.Sprintf("🔔 Напоминание: завтра в %s у вас запись — %s (%s).",
		booking.Time, booking.Service, booking.Date)
	operatorText := fmt.Sprintf("🔔 Завтра запись: %s — %s, %s %s.",
		booking.UserName, booking.Service, booking.Date, booking.Time)

	s.deliver(ctx, booking.UserID, userText)
	s.deliver(ctx, s.operatorID, operatorText)

	if s.metrics != nil {
		s.metrics.Fired.Inc()
	}
}

func (s *Scheduler) deliver(ctx context.Context, chatID int64, text string) {
	if err := s.notifier.Notify(ctx, chatID, text); err != nil {
		if s.metrics != nil {
			s.metrics.DeliveryErrors.Inc()
		}
		s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("reminder: delivery error")
	}
}
