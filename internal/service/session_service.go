package service

import (
	"context"
	"time"

	"zapisnik/internal/domain"
	"zapisnik/internal/models"

	"github.com/rs/zerolog"
)

// SessionService хранит состояние сценария записи поверх StateRepository.
type SessionService struct {
	stateRepo domain.StateRepository
	logger    *zerolog.Logger
}

func NewSessionService(stateRepo domain.StateRepository, logger *zerolog.Logger) *SessionService {
	return &SessionService{
		stateRepo: stateRepo,
		logger:    logger,
	}
}

func (s *SessionService) GetSession(ctx context.Context, userID int64) (*models.SessionState, error) {
	state, err := s.stateRepo.GetState(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get session state")
		return nil, err
	}
	return state, nil
}

func (s *SessionService) SetSession(ctx context.Context, state *models.SessionState) error {
	return s.stateRepo.SetState(ctx, state)
}

func (s *SessionService) ClearSession(ctx context.Context, userID int64) error {
	return s.stateRepo.ClearState(ctx, userID)
}

func (s *SessionService) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	return s.stateRepo.CheckRateLimit(ctx, userID, limit, window)
}
