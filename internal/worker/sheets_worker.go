package worker

import (
	"context"
	"time"

	"zapisnik/internal/domain"
	"zapisnik/internal/models"

	"github.com/rs/zerolog"
)

const (
	TaskAppend = "append"
	TaskDelete = "delete"

	queueSize = 128
)

// SheetTask — единица работы для зеркала в Google Sheets.
type SheetTask struct {
	Type      string
	BookingID int64
	Booking   *models.Booking
	CreatedAt time.Time
}

// SheetsWorker асинхронно применяет задачи к Google Sheets, не блокируя
// обработку действий пользователей. Переполненная очередь роняет задачу
// с записью в лог: таблица — зеркало, источник истины в SQLite.
type SheetsWorker struct {
	sheets      domain.SheetsWriter
	retryPolicy RetryPolicy
	queue       chan SheetTask
	logger      *zerolog.Logger
}

// NewSheetsWorker builds a worker with sane defaults.
func NewSheetsWorker(sheets domain.SheetsWriter, retry RetryPolicy, logger *zerolog.Logger) *SheetsWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &SheetsWorker{
		sheets:      sheets,
		retryPolicy: retry,
		queue:       make(chan SheetTask, queueSize),
		logger:      logger,
	}
}

func (w *SheetsWorker) EnqueueAppend(booking *models.Booking) {
	b := *booking
	w.enqueue(SheetTask{Type: TaskAppend, BookingID: b.ID, Booking: &b, CreatedAt: time.Now()})
}

func (w *SheetsWorker) EnqueueDelete(bookingID int64) {
	w.enqueue(SheetTask{Type: TaskDelete, BookingID: bookingID, CreatedAt: time.Now()})
}

func (w *SheetsWorker) enqueue(task SheetTask) {
	select {
	case w.queue <- task:
	default:
		w.logger.Warn().Str("type", task.Type).Int64("booking_id", task.BookingID).Msg("sheets queue full, task dropped")
	}
}

// Start запускает цикл обработки; блокируется до отмены контекста.
func (w *SheetsWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("sheets worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("sheets worker stopped")
			return
		case task := <-w.queue:
			w.process(ctx, task)
		}
	}
}

func (w *SheetsWorker) process(ctx context.Context, task SheetTask) {
	var lastErr error
	for attempt := 0; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.retryPolicy.Delay(attempt - 1)):
			}
		}

		lastErr = w.apply(ctx, task)
		if lastErr == nil {
			return
		}
		w.logger.Warn().Err(lastErr).Str("type", task.Type).Int64("booking_id", task.BookingID).
			Int("attempt", attempt+1).Msg("sheets task failed")
	}

	w.logger.Error().Err(lastErr).Str("type", task.Type).Int64("booking_id", task.BookingID).
		Msg("sheets task dropped after retries")
}

func (w *SheetsWorker) apply(ctx context.Context, task SheetTask) error {
	opCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch task.Type {
	case TaskAppend:
		return w.sheets.AppendBooking(opCtx, task.Booking)
	case TaskDelete:
		return w.sheets.DeleteBookingRow(opCtx, task.BookingID)
	default:
		w.logger.Error().Str("type", task.Type).Msg("unknown sheets task type")
		return nil
	}
}
