package repository

import (
	"context"
	"testing"
	"time"

	"zapisnik/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStateRepository_SetGetClear(t *testing.T) {
	repo := NewMemoryStateRepository(time.Hour)
	ctx := context.Background()

	state, err := repo.GetState(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, state)

	in := &models.SessionState{UserID: 1, Step: models.StateSelectTime, Service: "Стрижка", Date: "15.09"}
	require.NoError(t, repo.SetState(ctx, in))

	state, err = repo.GetState(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "15.09", state.Date)

	require.NoError(t, repo.ClearState(ctx, 1))
	state, err = repo.GetState(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestMemoryStateRepository_Expiration(t *testing.T) {
	repo := NewMemoryStateRepository(10 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, repo.SetState(ctx, &models.SessionState{UserID: 5, Step: models.StateSelectService}))
	time.Sleep(20 * time.Millisecond)

	state, err := repo.GetState(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestMemoryStateRepository_RateLimit(t *testing.T) {
	repo := NewMemoryStateRepository(time.Hour)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := repo.CheckRateLimit(ctx, 7, 2, 50*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := repo.CheckRateLimit(ctx, 7, 2, 50*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, allowed)

	time.Sleep(60 * time.Millisecond)
	allowed, err = repo.CheckRateLimit(ctx, 7, 2, 50*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, allowed)
}
