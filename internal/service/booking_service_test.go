package service

import (
	"context"
	"encoding/json"
	"testing"

	"zapisnik/internal/database"
	"zapisnik/internal/events"
	"zapisnik/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	createErr error
	nextID    int64
	bookings  map[int64]*models.Booking
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{bookings: make(map[int64]*models.Booking)}
}

func (f *fakeLedger) CreateBookingWithLock(ctx context.Context, booking *models.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	booking.ID = f.nextID
	copied := *booking
	f.bookings[booking.ID] = &copied
	return nil
}

func (f *fakeLedger) CountByDateTime(ctx context.Context, date, timeSlot string) (int, error) {
	count := 0
	for _, b := range f.bookings {
		if b.Date == date && b.Time == timeSlot {
			count++
		}
	}
	return count, nil
}

func (f *fakeLedger) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return b, nil
}

func (f *fakeLedger) GetUserBookings(ctx context.Context, userID int64) ([]*models.Booking, error) {
	var out []*models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeLedger) GetAllBookings(ctx context.Context) ([]*models.Booking, error) {
	var out []*models.Booking
	for _, b := range f.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeLedger) DeleteBooking(ctx context.Context, id int64) error {
	if _, ok := f.bookings[id]; !ok {
		return database.ErrNotFound
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeLedger) CountBookings(ctx context.Context) (int, error) {
	return len(f.bookings), nil
}

type fakeExporter struct {
	appended []int64
	deleted  []int64
}

func (f *fakeExporter) EnqueueAppend(booking *models.Booking) {
	f.appended = append(f.appended, booking.ID)
}

func (f *fakeExporter) EnqueueDelete(bookingID int64) {
	f.deleted = append(f.deleted, bookingID)
}

func TestBookingService_Reserve(t *testing.T) {
	ledger := newFakeLedger()
	exporter := &fakeExporter{}
	bus := events.NewEventBus()
	logger := zerolog.Nop()

	var published []events.BookingEventPayload
	bus.Subscribe(events.EventBookingCreated, func(ev *events.Event) error {
		var p events.BookingEventPayload
		require.NoError(t, json.Unmarshal(ev.Payload, &p))
		published = append(published, p)
		return nil
	})

	svc := NewBookingService(ledger, bus, exporter, &logger)

	booking, err := svc.Reserve(context.Background(), 42, "Иван", "Стрижка", "15.09", "10:00")
	require.NoError(t, err)
	assert.NotZero(t, booking.ID)

	// Запись в журнале, событие опубликовано, задача зеркалирования поставлена
	assert.Len(t, ledger.bookings, 1)
	require.Len(t, published, 1)
	assert.Equal(t, booking.ID, published[0].BookingID)
	assert.Equal(t, "Стрижка", published[0].Service)
	assert.Equal(t, []int64{booking.ID}, exporter.appended)
}

func TestBookingService_Reserve_SlotTaken(t *testing.T) {
	ledger := newFakeLedger()
	ledger.createErr = database.ErrSlotTaken
	exporter := &fakeExporter{}
	logger := zerolog.Nop()

	svc := NewBookingService(ledger, events.NewEventBus(), exporter, &logger)

	_, err := svc.Reserve(context.Background(), 42, "Иван", "Стрижка", "15.09", "10:00")
	assert.ErrorIs(t, err, database.ErrSlotTaken)

	// Отказ не оставляет следов: ни записей, ни задач зеркалирования
	assert.Empty(t, ledger.bookings)
	assert.Empty(t, exporter.appended)
}

func TestBookingService_Cancel(t *testing.T) {
	ledger := newFakeLedger()
	exporter := &fakeExporter{}
	bus := events.NewEventBus()
	logger := zerolog.Nop()

	canceled := 0
	bus.Subscribe(events.EventBookingCanceled, func(ev *events.Event) error {
		canceled++
		return nil
	})

	svc := NewBookingService(ledger, bus, exporter, &logger)

	booking, err := svc.Reserve(context.Background(), 42, "Иван", "Стрижка", "15.09", "10:00")
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), booking.ID))
	assert.Empty(t, ledger.bookings)
	assert.Equal(t, 1, canceled)
	assert.Equal(t, []int64{booking.ID}, exporter.deleted)

	// Повторная отмена сообщает, что записи уже нет
	assert.ErrorIs(t, svc.Cancel(context.Background(), booking.ID), database.ErrNotFound)
}

func TestBookingService_NilCollaborators(t *testing.T) {
	ledger := newFakeLedger()
	logger := zerolog.Nop()

	// Без шины и зеркала сервис работает как есть
	svc := NewBookingService(ledger, nil, nil, &logger)

	booking, err := svc.Reserve(context.Background(), 1, "Анна", "Маникюр", "16.09", "12:00")
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(context.Background(), booking.ID))
}
