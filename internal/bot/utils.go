package bot

import (
	"context"
	"fmt"
	"time"

	"zapisnik/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	btnBook       = "📋 Записаться"
	btnMyBookings = "📊 Мои записи"
	btnHelp       = "ℹ️ Помощь"
)

func (b *Bot) isOperator(userID int64) bool {
	return userID == b.config.Bot.OperatorID
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.tgService.SendMessage(chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send message error")
	}
}

// storeCtx ограничивает время операции с хранилищем.
func (b *Bot) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.config.StoreTimeout())
}

// Вспомогательные методы для работы с состоянием сценария

func (b *Bot) getSession(ctx context.Context, userID int64) *models.SessionState {
	state, err := b.sessions.GetSession(ctx, userID)
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("get session error")
		return nil
	}
	return state
}

func (b *Bot) setSession(ctx context.Context, state *models.SessionState) {
	if err := b.sessions.SetSession(ctx, state); err != nil {
		b.logger.Error().Err(err).Int64("user_id", state.UserID).Msg("set session error")
	}
}

func (b *Bot) clearSession(ctx context.Context, userID int64) {
	if err := b.sessions.ClearSession(ctx, userID); err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("clear session error")
	}
}

// handleMainMenu показывает главное меню и сбрасывает сценарий.
func (b *Bot) handleMainMenu(ctx context.Context, chatID, userID int64) {
	b.clearSession(ctx, userID)

	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBook),
			tgbotapi.NewKeyboardButton(btnMyBookings),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnHelp),
		),
	}

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true

	if _, err := b.tgService.SendWithKeyboard(chatID, "Привет! Я бот для записи на услуги. Выберите действие:", keyboard); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send main menu error")
	}
}

// candidateDates возвращает ближайшие дни для выбора даты, начиная с сегодня.
func (b *Bot) candidateDates() []string {
	days := b.config.Bot.BookingDays
	if days <= 0 {
		days = models.BookingDays
	}

	now := time.Now()
	dates := make([]string, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, now.AddDate(0, 0, i).Format(models.DateLayout))
	}
	return dates
}

// Инлайн-клавиатуры шагов сценария

func serviceKeyboard(services []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(services)+1)
	for _, s := range services {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(s, cbService+s),
		})
	}
	rows = append(rows, navRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func dateKeyboard(dates []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, d := range dates {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(d, cbDate+d))
		if len(row) == 4 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, navRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func timeKeyboard(slots []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, t := range slots {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(t, cbTime+t))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, navRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func navRow() []tgbotapi.InlineKeyboardButton {
	return []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", cbBack),
		tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", cbCancel),
	}
}

func formatBooking(booking *models.Booking) string {
	return fmt.Sprintf("🗓 %s\n📅 %s в %s", booking.Service, booking.Date, booking.Time)
}
