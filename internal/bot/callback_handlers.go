package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, update tgbotapi.Update) {
	query := update.CallbackQuery
	userID := query.From.ID
	chatID := query.Message.Chat.ID

	// Нажатие подтверждается сразу, чтобы кнопка не "висела" у пользователя.
	if err := b.tgService.AnswerCallback(query.ID, ""); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("answer callback error")
	}

	action := ParseCallback(query.Data)

	zerolog.Ctx(ctx).Debug().
		Int64("user_id", userID).
		Str("data", query.Data).
		Msg("Handling callback")

	switch action.Kind {
	case ActionChooseService:
		b.handleServiceChosen(ctx, chatID, userID, action.Value)
	case ActionChooseDate:
		b.handleDateChosen(ctx, chatID, userID, action.Value)
	case ActionChooseTime:
		b.handleTimeChosen(ctx, chatID, userID, action.Value)
	case ActionBack:
		b.handleBack(ctx, chatID, userID)
	case ActionCancel:
		b.handleCancelAction(ctx, chatID, userID)
	case ActionCancelBooking:
		b.handleSelfCancel(ctx, chatID, userID, action.Value)
	case ActionDeleteBooking:
		if !b.isOperator(userID) {
			b.sendMessage(chatID, "⛔ Эта команда доступна только оператору.")
			return
		}
		b.handleOperatorDelete(ctx, chatID, action.Value)
	case ActionPayStub:
		b.sendMessage(chatID, "💳 Оплата принимается на месте. Онлайн-оплата скоро появится.")
	case ActionUnknown:
		zerolog.Ctx(ctx).Warn().Str("data", query.Data).Msg("Unknown callback data")
		b.handleMainMenu(ctx, chatID, userID)
	}
}
