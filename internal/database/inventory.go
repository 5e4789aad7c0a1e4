package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// Операции оператора над ассортиментом: услуги и слоты времени.
// Существующие записи при удалении услуги/слота не трогаем — они хранят
// строковое значение на момент создания.

func (db *DB) ListServices(ctx context.Context) ([]string, error) {
	return db.listValues(ctx, `SELECT name FROM services ORDER BY name`)
}

func (db *DB) AddService(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("service name is empty")
	}
	_, err := db.ExecContext(ctx, `INSERT INTO services (name) VALUES (?)`, name)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to add service: %w", err)
	}
	return nil
}

func (db *DB) RemoveService(ctx context.Context, name string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM services WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to remove service: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) ListTimeSlots(ctx context.Context) ([]string, error) {
	return db.listValues(ctx, `SELECT value FROM time_slots ORDER BY value`)
}

func (db *DB) AddTimeSlot(ctx context.Context, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("time slot value is empty")
	}
	_, err := db.ExecContext(ctx, `INSERT INTO time_slots (value) VALUES (?)`, value)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to add time slot: %w", err)
	}
	return nil
}

func (db *DB) RemoveTimeSlot(ctx context.Context, value string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM time_slots WHERE value = ?`, value)
	if err != nil {
		return fmt.Errorf("failed to remove time slot: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SeedCatalog добавляет услуги и слоты из configs/catalog.yaml, пропуская существующие.
func (db *DB) SeedCatalog(ctx context.Context, services, timeSlots []string) error {
	for _, name := range services {
		if _, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO services (name) VALUES (?)`, strings.TrimSpace(name)); err != nil {
			return fmt.Errorf("failed to seed service %q: %w", name, err)
		}
	}
	for _, value := range timeSlots {
		if _, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO time_slots (value) VALUES (?)`, strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("failed to seed time slot %q: %w", value, err)
		}
	}
	return nil
}

func (db *DB) listValues(ctx context.Context, query string) ([]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list values: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}
