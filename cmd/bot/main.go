package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"zapisnik/internal/bot"
	"zapisnik/internal/config"
	"zapisnik/internal/database"
	"zapisnik/internal/domain"
	"zapisnik/internal/events"
	"zapisnik/internal/google"
	"zapisnik/internal/logging"
	"zapisnik/internal/models"
	"zapisnik/internal/reminder"
	"zapisnik/internal/repository"
	"zapisnik/internal/service"
	"zapisnik/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, catalog, logger, closer, loadErr := loadConfigAndLogger()
	if loadErr != nil {
		return loadErr
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	db, err := initDatabase(cfg, catalog, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, sessions := initSessionService(ctx, cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Зеркало журнала в Google Sheets опционально: без креденшалов бот
	// работает только с локальной базой.
	var sheetsWorker *worker.SheetsWorker
	if sheetsService := initGoogleSheets(ctx, cfg, &logger); sheetsService != nil {
		retryPolicy := worker.RetryPolicy{MaxRetries: 5, InitialDelay: 2 * time.Second, MaxDelay: time.Minute, BackoffFactor: 2}
		sheetsWorker = worker.NewSheetsWorker(sheetsService, retryPolicy, &logger)
		go sheetsWorker.Start(ctx)
	}

	if cfg.Monitoring.PrometheusEnabled {
		go serveMetrics(cfg.Monitoring.PrometheusPort, &logger)
	}

	eventBus := events.NewEventBus()

	var exporter domain.ExportWorker
	if sheetsWorker != nil {
		exporter = sheetsWorker
	}
	bookingService := service.NewBookingService(db, eventBus, exporter, &logger)
	inventoryService := service.NewInventoryService(db, &logger)
	userService := service.NewUserService(db, &logger)
	metrics := bot.NewMetrics()

	return startBot(ctx, cfg, db, sessions, eventBus, bookingService, inventoryService, userService, metrics, &logger)
}

func loadConfigAndLogger() (*config.Config, *models.Catalog, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, zerolog.Logger{}, nil, err
	}
	logger := baseLogger.With().Str("component", "bot-main").Logger()

	catalogPath := os.Getenv("CATALOG_PATH")
	if catalogPath == "" {
		catalogPath = "configs/catalog.yaml"
	}
	catalogData, err := os.ReadFile(catalogPath)
	if err != nil {
		logger.Error().Err(err).Msgf("Ошибка чтения %s", catalogPath)
		return nil, nil, zerolog.Logger{}, closer, err
	}

	var catalog models.Catalog
	if err := yaml.Unmarshal(catalogData, &catalog); err != nil {
		logger.Error().Err(err).Msg("Ошибка парсинга catalog.yaml")
		return nil, nil, zerolog.Logger{}, closer, err
	}

	return cfg, &catalog, logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if cfg == nil {
		return os.ErrInvalid
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для базы данных")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для экспорта")
		return err
	}
	return nil
}

func initDatabase(cfg *config.Config, catalog *models.Catalog, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка инициализации базы данных")
		return nil, err
	}

	if err := db.SeedCatalog(context.Background(), catalog.Services, catalog.TimeSlots); err != nil {
		logger.Error().Err(err).Msg("Ошибка загрузки стартового ассортимента")
	}
	return db, nil
}

func initGoogleSheets(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if cfg.Google.CredentialsFile == "" || cfg.Google.BookingsSpreadsheetID == "" {
		logger.Info().Msg("Google Sheets не настроен, зеркалирование отключено")
		return nil
	}

	sheetsSvc, err := google.NewSheetsService(cfg.Google.CredentialsFile, cfg.Google.BookingsSpreadsheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize Google Sheets service")
		return nil
	}

	if err := sheetsSvc.TestConnection(ctx); err != nil {
		logger.Warn().Err(err).Msg("Google Sheets connection test failed")
		return nil
	}

	logger.Info().Msg("Google Sheets service initialized successfully")
	return sheetsSvc
}

func initSessionService(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *service.SessionService) {
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if errPing := repository.Ping(ctx, redisClient); errPing != nil {
			logger.Warn().Err(errPing).Msg("Redis unavailable")
		}
	}

	ttl := time.Duration(models.DefaultSessionTTL) * time.Second
	primaryRepo := repository.NewRedisStateRepository(redisClient, ttl)
	fallbackRepo := repository.NewMemoryStateRepository(ttl)
	stateRepo := repository.NewFailoverStateRepository(primaryRepo, fallbackRepo, logger)
	return redisClient, service.NewSessionService(stateRepo, logger)
}

func serveMetrics(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info().Str("addr", addr).Msg("Metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Msg("Metrics server error")
	}
}

func startBot(
	ctx context.Context,
	cfg *config.Config,
	db *database.DB,
	sessions *service.SessionService,
	eventBus *events.EventBus,
	bookingService *service.BookingService,
	inventoryService *service.InventoryService,
	userService *service.UserService,
	metrics *bot.Metrics,
	logger *zerolog.Logger,
) error {
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания BotAPI")
		return err
	}
	botAPI.Debug = cfg.Telegram.Debug

	tgService := service.NewTelegramService(bot.NewBotWrapper(botAPI))
	notifier := reminder.NewSender(tgService)
	reminderMetrics := reminder.NewMetrics()
	scheduler := reminder.NewScheduler(db, notifier, cfg.Bot.OperatorID, cfg.Bot.ReminderHour, reminderMetrics, logger)

	subscribeBookingEvents(ctx, eventBus, notifier, cfg.Bot.OperatorID, logger)

	telegramBot, err := bot.NewBot(
		tgService, cfg, sessions, bookingService,
		inventoryService, userService, scheduler,
		eventBus, metrics, logger,
	)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания бота")
		return err
	}

	logger.Info().Msg("Бот запущен...")
	telegramBot.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}

// subscribeBookingEvents держит оператора в курсе: каждая новая запись и
// каждая отмена дублируются ему в личные сообщения.
func subscribeBookingEvents(
	ctx context.Context,
	bus *events.EventBus,
	notifier domain.Notifier,
	operatorID int64,
	logger *zerolog.Logger,
) {
	if bus == nil || operatorID == 0 {
		return
	}

	decode := func(ev *events.Event) (events.BookingEventPayload, error) {
		var payload events.BookingEventPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			return payload, err
		}
		return payload, nil
	}

	bus.Subscribe(events.EventBookingCreated, func(ev *events.Event) error {
		payload, err := decode(ev)
		if err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}
		text := fmt.Sprintf("📥 Новая запись: %s — %s, %s в %s", payload.UserName, payload.Service, payload.Date, payload.Time)
		if err := notifier.Notify(ctx, operatorID, text); err != nil {
			logger.Error().Err(err).Int64("booking_id", payload.BookingID).Msg("event bus: notify operator")
		}
		return nil
	})

	bus.Subscribe(events.EventBookingCanceled, func(ev *events.Event) error {
		payload, err := decode(ev)
		if err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}
		text := fmt.Sprintf("📤 Отмена записи: %s — %s, %s в %s", payload.UserName, payload.Service, payload.Date, payload.Time)
		if err := notifier.Notify(ctx, operatorID, text); err != nil {
			logger.Error().Err(err).Int64("booking_id", payload.BookingID).Msg("event bus: notify operator")
		}
		return nil
	})
}
