package service

import (
	"context"

	"zapisnik/internal/domain"
	"zapisnik/internal/events"
	"zapisnik/internal/models"

	"github.com/rs/zerolog"
)

// BookingService — движок резервирования: проверка занятости и вставка
// выполняются хранилищем атомарно, сервис добавляет события и зеркалирование.
type BookingService struct {
	ledger   domain.Ledger
	eventBus domain.EventPublisher
	exporter domain.ExportWorker
	logger   *zerolog.Logger
}

func NewBookingService(ledger domain.Ledger, eventBus domain.EventPublisher, exporter domain.ExportWorker, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		ledger:   ledger,
		eventBus: eventBus,
		exporter: exporter,
		logger:   logger,
	}
}

// Reserve создает запись на слот (service, date, time) для пользователя.
// Возвращает database.ErrSlotTaken, когда лимит слота исчерпан; журнал при
// любой ошибке остается без изменений.
func (s *BookingService) Reserve(ctx context.Context, userID int64, userName, service, date, timeSlot string) (*models.Booking, error) {
	booking := &models.Booking{
		UserID:   userID,
		UserName: userName,
		Service:  service,
		Date:     date,
		Time:     timeSlot,
	}

	if err := s.ledger.CreateBookingWithLock(ctx, booking); err != nil {
		return nil, err
	}

	s.publishEvent(events.EventBookingCreated, booking, "")
	if s.exporter != nil {
		s.exporter.EnqueueAppend(booking)
	}

	return booking, nil
}

// Cancel безусловно удаляет запись. Права вызывающего проверяет транспорт.
func (s *BookingService) Cancel(ctx context.Context, bookingID int64) error {
	booking, err := s.ledger.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if err := s.ledger.DeleteBooking(ctx, bookingID); err != nil {
		return err
	}

	s.publishEvent(events.EventBookingCanceled, booking, "user")
	if s.exporter != nil {
		s.exporter.EnqueueDelete(bookingID)
	}

	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	return s.ledger.GetBooking(ctx, id)
}

func (s *BookingService) UserBookings(ctx context.Context, userID int64) ([]*models.Booking, error) {
	return s.ledger.GetUserBookings(ctx, userID)
}

func (s *BookingService) AllBookings(ctx context.Context) ([]*models.Booking, error) {
	return s.ledger.GetAllBookings(ctx)
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, canceledBy string) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		UserName:   booking.UserName,
		Service:    booking.Service,
		Date:       booking.Date,
		Time:       booking.Time,
		CanceledBy: canceledBy,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
