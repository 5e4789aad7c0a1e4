package bot

import (
	"context"
	"strings"
	"time"

	"zapisnik/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := update.Message.Text
	l := zerolog.Ctx(ctx)

	if b.metrics != nil {
		b.metrics.MessagesProcessed.Inc()
	}

	l.Debug().
		Int64("user_id", userID).
		Str("username", update.Message.From.UserName).
		Str("text", text).
		Msg("Handling message")

	if b.isOperator(userID) && b.handleOperatorCommand(ctx, update) {
		return
	}

	switch {
	case text == "/start" || strings.EqualFold(text, "сброс") || strings.EqualFold(text, "reset"):
		b.handleStartWithUserTracking(ctx, update)

	case text == "/cancel":
		b.clearSession(ctx, userID)
		b.sendMessage(chatID, "Запись отменена.")
		b.handleMainMenu(ctx, chatID, userID)

	case text == btnBook || text == "/book":
		b.startBookingFlow(ctx, chatID, userID)

	case text == btnMyBookings:
		b.showUserBookings(ctx, chatID, userID)

	case text == btnHelp || text == "/help":
		b.sendMessage(chatID, "Я помогу записаться на услуги. Нажмите «"+btnBook+"» и следуйте инструкциям.\n\n/cancel — прервать запись\n/start — начать сначала")

	default:
		// Свободный текст вне сценария просто возвращает в меню
		b.handleMainMenu(ctx, chatID, userID)
	}
}

func (b *Bot) handleStartWithUserTracking(ctx context.Context, update tgbotapi.Update) {
	user := &models.User{
		TelegramID:   update.Message.From.ID,
		Username:     update.Message.From.UserName,
		FirstName:    update.Message.From.FirstName,
		LastName:     update.Message.From.LastName,
		LanguageCode: update.Message.From.LanguageCode,
		LastActivity: time.Now(),
	}

	storeCtx, cancel := b.storeCtx(ctx)
	defer cancel()
	if err := b.userService.SaveUser(storeCtx, user); err != nil {
		b.logger.Error().Err(err).Int64("user_id", user.TelegramID).Msg("Error tracking user")
	}

	b.handleMainMenu(ctx, update.Message.Chat.ID, update.Message.From.ID)
}
