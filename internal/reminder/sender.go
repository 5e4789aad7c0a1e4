package reminder

import (
	"context"

	"zapisnik/internal/domain"

	"golang.org/x/time/rate"
)

// Sender — Notifier поверх Telegram с token-bucket лимитом, чтобы пачка
// одновременно сработавших таймеров не уперлась в лимиты Bot API.
type Sender struct {
	tg      domain.TelegramService
	limiter *rate.Limiter
}

func NewSender(tg domain.TelegramService) *Sender {
	// ~20 сообщений в секунду с запасом на всплеск — лимит Telegram для ботов
	return &Sender{
		tg:      tg,
		limiter: rate.NewLimiter(rate.Limit(20), 30),
	}
}

func (s *Sender) Notify(ctx context.Context, chatID int64, text string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := s.tg.SendMessage(chatID, text)
	return err
}
