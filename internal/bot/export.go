package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"zapisnik/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// exportBookings создает xlsx со всеми записями и отправляет его оператору.
func (b *Bot) exportBookings(ctx context.Context, chatID int64) {
	storeCtx, cancel := b.storeCtx(ctx)
	defer cancel()

	bookings, err := b.bookingService.AllBookings(storeCtx)
	if err != nil {
		b.sendMessage(chatID, getErrorMessage(err))
		return
	}

	filePath, err := b.exportToExcel(bookings)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("export error")
		b.sendMessage(chatID, "Ошибка при создании файла экспорта")
		return
	}

	file, err := os.Open(filePath)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("file_path", filePath).Msg("export open error")
		b.sendMessage(chatID, "Ошибка при открытии файла")
		return
	}
	defer file.Close()

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileReader{
		Name:   filepath.Base(filePath),
		Reader: file,
	})
	doc.Caption = "📊 Выгрузка записей"

	if _, err := b.tgService.Send(doc); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Error sending document")
		b.sendMessage(chatID, "Ошибка при отправке файла")
	}
}

// exportToExcel пишет журнал записей в xlsx и возвращает путь к файлу.
func (b *Bot) exportToExcel(bookings []*models.Booking) (string, error) {
	if err := os.MkdirAll(b.config.Exports.Path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Записи"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Пользователь", "Услуга", "Дата", "Время", "Создана"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, booking := range bookings {
		row := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), booking.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), booking.UserName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), booking.Service)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), booking.Date)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), booking.Time)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), booking.CreatedAt.Format("02.01.2006 15:04"))
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "C", 25)
	_ = f.SetColWidth(sheetName, "D", "E", 10)
	_ = f.SetColWidth(sheetName, "F", "F", 20)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(b.config.Exports.Path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	b.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}
