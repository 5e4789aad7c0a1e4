package service

import (
	"context"

	"zapisnik/internal/domain"
	"zapisnik/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	store  domain.UserStore
	logger *zerolog.Logger
}

func NewUserService(store domain.UserStore, logger *zerolog.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger,
	}
}

func (s *UserService) SaveUser(ctx context.Context, user *models.User) error {
	return s.store.CreateOrUpdateUser(ctx, user)
}

func (s *UserService) GetUser(ctx context.Context, telegramID int64) (*models.User, error) {
	return s.store.GetUserByTelegramID(ctx, telegramID)
}

func (s *UserService) UpdateUserActivity(ctx context.Context, telegramID int64) error {
	return s.store.UpdateUserActivity(ctx, telegramID)
}

func (s *UserService) CountUsers(ctx context.Context) (int, error) {
	return s.store.CountUsers(ctx)
}
