package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// handleOperatorCommand обрабатывает команды оператора. Возвращает true, если
// сообщение было командой оператора и дальше его обрабатывать не нужно.
func (b *Bot) handleOperatorCommand(ctx context.Context, update tgbotapi.Update) bool {
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	cmd, arg := text, ""
	if idx := strings.IndexByte(text, ' '); idx > 0 {
		cmd, arg = text[:idx], strings.TrimSpace(text[idx+1:])
	}

	storeCtx, cancel := b.storeCtx(ctx)
	defer cancel()

	switch cmd {
	case "/stats":
		b.showStats(storeCtx, chatID)

	case "/all":
		b.showAllBookings(ctx, chatID)

	case "/add_service":
		if arg == "" {
			b.sendMessage(chatID, "Использование: /add_service <название>")
			return true
		}
		if err := b.inventoryService.AddService(storeCtx, arg); err != nil {
			b.sendMessage(chatID, getErrorMessage(err))
			return true
		}
		b.sendMessage(chatID, fmt.Sprintf("Услуга «%s» добавлена.", arg))

	case "/del_service":
		if arg == "" {
			b.sendMessage(chatID, "Использование: /del_service <название>")
			return true
		}
		if err := b.inventoryService.RemoveService(storeCtx, arg); err != nil {
			b.sendMessage(chatID, getErrorMessage(err))
			return true
		}
		b.sendMessage(chatID, fmt.Sprintf("Услуга «%s» удалена.", arg))

	case "/add_slot":
		if arg == "" {
			b.sendMessage(chatID, "Использование: /add_slot ЧЧ:ММ")
			return true
		}
		if err := b.inventoryService.AddTimeSlot(storeCtx, arg); err != nil {
			b.sendMessage(chatID, getErrorMessage(err))
			return true
		}
		b.sendMessage(chatID, fmt.Sprintf("Слот %s добавлен.", arg))

	case "/del_slot":
		if arg == "" {
			b.sendMessage(chatID, "Использование: /del_slot ЧЧ:ММ")
			return true
		}
		if err := b.inventoryService.RemoveTimeSlot(storeCtx, arg); err != nil {
			b.sendMessage(chatID, getErrorMessage(err))
			return true
		}
		b.sendMessage(chatID, fmt.Sprintf("Слот %s удален.", arg))

	case "/capacity":
		if arg == "" {
			capacity, err := b.inventoryService.GetSlotCapacity(storeCtx)
			if err != nil {
				b.sendMessage(chatID, getErrorMessage(err))
				return true
			}
			b.sendMessage(chatID, fmt.Sprintf("Вместимость слота: %d. Изменить: /capacity <число>", capacity))
			return true
		}
		if err := b.inventoryService.SetSlotCapacity(storeCtx, arg); err != nil {
			b.sendMessage(chatID, getErrorMessage(err))
			return true
		}
		b.sendMessage(chatID, fmt.Sprintf("Вместимость слота теперь %s.", arg))

	case "/reminders":
		switch arg {
		case "on", "off":
			if err := b.inventoryService.SetRemindersEnabled(storeCtx, arg == "on"); err != nil {
				b.sendMessage(chatID, getErrorMessage(err))
				return true
			}
			b.sendMessage(chatID, "Напоминания: "+arg)
		default:
			b.sendMessage(chatID, "Использование: /reminders on|off")
		}

	case "/export":
		b.exportBookings(ctx, chatID)

	case "/admin", "/ophelp":
		b.sendMessage(chatID, operatorHelp)

	default:
		return false
	}

	return true
}

const operatorHelp = `Команды оператора:
/stats — статистика
/all — все записи
/add_service <название> — добавить услугу
/del_service <название> — удалить услугу
/add_slot ЧЧ:ММ — добавить слот времени
/del_slot ЧЧ:ММ — удалить слот времени
/capacity <число> — вместимость слота
/reminders on|off — напоминания
/export — выгрузка записей в xlsx`

func (b *Bot) showStats(ctx context.Context, chatID int64) {
	bookings, err := b.bookingService.AllBookings(ctx)
	if err != nil {
		b.sendMessage(chatID, getErrorMessage(err))
		return
	}

	users, err := b.userService.CountUsers(ctx)
	if err != nil {
		b.sendMessage(chatID, getErrorMessage(err))
		return
	}

	capacity, err := b.inventoryService.GetSlotCapacity(ctx)
	if err != nil {
		b.sendMessage(chatID, getErrorMessage(err))
		return
	}

	byService := make(map[string]int)
	for _, booking := range bookings {
		byService[booking.Service]++
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Статистика\n\nЗаписей: %d\nПользователей: %d\nВместимость слота: %d\n", len(bookings), users, capacity)
	if len(byService) > 0 {
		sb.WriteString("\nПо услугам:\n")
		for service, count := range byService {
			fmt.Fprintf(&sb, "• %s — %d\n", service, count)
		}
	}
	b.sendMessage(chatID, sb.String())
}

func (b *Bot) showAllBookings(ctx context.Context, chatID int64) {
	storeCtx, cancel := b.storeCtx(ctx)
	defer cancel()

	bookings, err := b.bookingService.AllBookings(storeCtx)
	if err != nil {
		b.sendMessage(chatID, getErrorMessage(err))
		return
	}

	if len(bookings) == 0 {
		b.sendMessage(chatID, "Записей пока нет.")
		return
	}

	for _, booking := range bookings {
		text := fmt.Sprintf("#%d %s\n%s", booking.ID, booking.UserName, formatBooking(booking))
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить",
					cbDeleteBooking+strconv.FormatInt(booking.ID, 10)),
			),
		)
		if _, err := b.tgService.SendWithInlineKeyboard(chatID, text, keyboard); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("send booking error")
		}
	}
}

func (b *Bot) handleOperatorDelete(ctx context.Context, chatID int64, rawID string) {
	bookingID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		b.sendMessage(chatID, "⚠️ Некорректный номер записи.")
		return
	}

	storeCtx, cancel := b.storeCtx(ctx)
	defer cancel()

	booking, err := b.bookingService.GetBooking(storeCtx, bookingID)
	if err != nil {
		b.sendMessage(chatID, getErrorMessage(err))
		return
	}

	if err := b.bookingService.Cancel(storeCtx, bookingID); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("booking_id", bookingID).Msg("operator delete error")
		b.sendMessage(chatID, getErrorMessage(err))
		return
	}

	if b.metrics != nil {
		b.metrics.BookingsCanceled.Inc()
	}
	b.sendMessage(chatID, fmt.Sprintf("Запись #%d (%s) удалена.", booking.ID, booking.UserName))

	// Пользователь узнает об отмене, чтобы не приходить впустую.
	b.sendMessage(booking.UserID, fmt.Sprintf("⚠️ Ваша запись отменена оператором:\n%s", formatBooking(booking)))
}
