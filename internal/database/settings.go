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

// Настройки читаются на каждую операцию, а не кэшируются при старте:
// оператор меняет их на лету.

func (db *DB) GetSetting(ctx context.Context, name string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM settings WHERE name = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUnknownSetting
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %q: %w", name, err)
	}
	return value, nil
}

func (db *DB) SetSetting(ctx context.Context, name, value string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE settings SET value = ?, updated_at = ? WHERE name = ?`, value, time.Now(), name)
	if err != nil {
		return fmt.Errorf("failed to set setting %q: %w", name, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrUnknownSetting
	}
	return nil
}

// GetSlotCapacity возвращает лимит записей на слот, с откатом на дефолт
// при испорченном значении.
func (db *DB) GetSlotCapacity(ctx context.Context) (int, error) {
	raw, err := db.GetSetting(ctx, models.SettingSlotCapacity)
	if err != nil {
		return 0, err
	}
	capacity, err := strconv.Atoi(raw)
	if err != nil || capacity <= 0 {
		return models.DefaultSlotCapacity, nil
	}
	return capacity, nil
}

func (db *DB) RemindersEnabled(ctx context.Context) (bool, error) {
	raw, err := db.GetSetting(ctx, models.SettingRemindersEnabled)
	if err != nil {
		return false, err
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		return true, nil
	}
	return enabled, nil
}
