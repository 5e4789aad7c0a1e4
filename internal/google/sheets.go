package google

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"zapisnik/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const bookingsRange = "Bookings!A:F"

// SheetsService зеркалирует журнал записей в Google-таблицу, как это делал
// первый вариант бота, для которого таблица была единственным хранилищем.
type SheetsService struct {
	service       *sheets.Service
	spreadsheetID string
}

func NewSheetsService(credentialsFile, spreadsheetID string) (*SheetsService, error) {
	ctx := context.Background()

	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}

	return &SheetsService{
		service:       srv,
		spreadsheetID: spreadsheetID,
	}, nil
}

// TestConnection проверяет доступ к таблице.
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, "Bookings!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	return nil
}

// AppendBooking добавляет строку записи в конец листа.
func (s *SheetsService) AppendBooking(ctx context.Context, booking *models.Booking) error {
	values := &sheets.ValueRange{
		Values: [][]interface{}{{
			booking.ID,
			booking.UserName,
			booking.Service,
			booking.Date,
			booking.Time,
			booking.CreatedAt.Format("2006-01-02 15:04:05"),
		}},
	}

	_, err := s.service.Spreadsheets.Values.
		Append(s.spreadsheetID, bookingsRange, values).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append booking row: %w", err)
	}
	return nil
}

// DeleteBookingRow очищает строку отмененной записи, найдя её по ID в колонке A.
func (s *SheetsService) DeleteBookingRow(ctx context.Context, bookingID int64) error {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, "Bookings!A:A").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read booking ids: %w", err)
	}

	target := strconv.FormatInt(bookingID, 10)
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if fmt.Sprintf("%v", row[0]) != target {
			continue
		}

		clearRange := fmt.Sprintf("Bookings!A%d:F%d", i+1, i+1)
		_, err := s.service.Spreadsheets.Values.Clear(s.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to clear booking row: %w", err)
		}
		return nil
	}

	// Строки может не быть, если append еще не прошел: не ошибка
	return nil
}
