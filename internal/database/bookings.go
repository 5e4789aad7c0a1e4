package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"zapisnik/internal/models"
)

// CreateBookingWithLock атомарно проверяет занятость слота и создает запись.
// Подсчет и вставка выполняются в одной транзакции: два конкурентных запроса
// на последнее место не могут пройти оба.
func (db *DB) CreateBookingWithLock(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Лимит читаем внутри транзакции, чтобы видеть значение на момент вставки
	var capacityStr string
	err = tx.QueryRowContext(ctx, `SELECT value FROM settings WHERE name = ?`, models.SettingSlotCapacity).Scan(&capacityStr)
	if err != nil {
		return fmt.Errorf("failed to read slot capacity in tx: %w", err)
	}
	capacity, err := strconv.Atoi(capacityStr)
	if err != nil || capacity <= 0 {
		capacity = models.DefaultSlotCapacity
	}

	var booked int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE date = ? AND time = ?`,
		booking.Date, booking.Time).Scan(&booked)
	if err != nil {
		return fmt.Errorf("failed to count bookings in tx: %w", err)
	}

	if booked >= capacity {
		return ErrSlotTaken
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (user_id, user_name, service, date, time, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		booking.UserID, booking.UserName, booking.Service, booking.Date, booking.Time, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now

	return tx.Commit()
}

// CountByDateTime возвращает число живых записей на слот.
func (db *DB) CountByDateTime(ctx context.Context, date, timeSlot string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE date = ? AND time = ?`,
		date, timeSlot).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var b models.Booking
	query := `SELECT id, user_id, user_name, service, date, time, created_at FROM bookings WHERE id = ?`
	err := db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.UserID, &b.UserName, &b.Service, &b.Date, &b.Time, &b.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

// GetUserBookings возвращает записи пользователя, свежие сверху.
func (db *DB) GetUserBookings(ctx context.Context, userID int64) ([]*models.Booking, error) {
	query := `SELECT id, user_id, user_name, service, date, time, created_at
              FROM bookings WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user bookings: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetAllBookings возвращает все записи в порядке создания.
func (db *DB) GetAllBookings(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT id, user_id, user_name, service, date, time, created_at
              FROM bookings ORDER BY date, time, created_at`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// DeleteBooking безусловно удаляет запись. ErrNotFound, если её уже нет.
func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) CountBookings(ctx context.Context) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count all bookings: %w", err)
	}
	return count, nil
}

func scanBookings(rows *sql.Rows) ([]*models.Booking, error) {
	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		err := rows.Scan(&b.ID, &b.UserID, &b.UserName, &b.Service, &b.Date, &b.Time, &b.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}
