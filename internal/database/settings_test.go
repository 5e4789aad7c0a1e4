package database

import (
	"context"
	"testing"

	"zapisnik/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Defaults(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	capacity, err := db.GetSlotCapacity(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSlotCapacity, capacity)

	enabled, err := db.RemindersEnabled(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestSettings_SetAndGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SetSetting(ctx, models.SettingSlotCapacity, "5"))
	capacity, err := db.GetSlotCapacity(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, capacity)

	require.NoError(t, db.SetSetting(ctx, models.SettingRemindersEnabled, "false"))
	enabled, err := db.RemindersEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestSettings_Unknown(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.GetSetting(ctx, "no_such_setting")
	assert.ErrorIs(t, err, ErrUnknownSetting)

	// Набор настроек фиксирован: новые ключи через SetSetting не появляются
	err = db.SetSetting(ctx, "no_such_setting", "1")
	assert.ErrorIs(t, err, ErrUnknownSetting)
}

func TestSettings_CorruptValueFallsBack(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SetSetting(ctx, models.SettingSlotCapacity, "garbage"))
	capacity, err := db.GetSlotCapacity(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSlotCapacity, capacity)
}
