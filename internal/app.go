package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	logger_adapter "engagement-service/internal/adapters/logger"
	"engagement-service/internal/adapters/marketplace_api_client"
	"engagement-service/internal/adapters/memstore"
	rabbitmq_adapter "engagement-service/internal/adapters/rabbitmq"
	"engagement-service/internal/adapters/rest"
	"engagement-service/internal/configs"
	"engagement-service/internal/constants"
	"engagement-service/internal/core/port"
	"engagement-service/internal/core/usecase"
	fluentlogger "engagement-service/pkg/fluent_logger"
	"engagement-service/pkg/rabbitmq/rabbitmq_common"
	"engagement-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
)

type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server

	rabbitConn   *rabbitmq_common.ConnectionManager
	rabbitPub    *rabbitmq_producer.Publisher
	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	// Добавляем Fluent Bit логгер, если он включен в конфигурации
	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName, // Используем имя приложения как префикс
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	// Создаем наш композитный логгер
	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. СОЗДАЕМ БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ С КОНТЕКСТОМ ---
	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 3. НИЗКОУРОВНЕВЫЕ АДАПТЕРЫ ---
	apiClient := marketplace_api_client.NewClient(appConfig.ApiClient.MARKETPLACE_API_URL)
	sessionRegistry := memstore.NewSessionRegistryAdapter(appConfig.Engagement.RecentlyViewedLimit)

	// События взаимодействий: через RabbitMQ в пайплайн ранжирования,
	// а без брокера - напрямую в marketplace API по HTTP
	var interactionLogger port.InteractionLoggerPort
	var rabbitConn *rabbitmq_common.ConnectionManager
	var rabbitPub *rabbitmq_producer.Publisher
	if appConfig.RabbitMQ.Enabled {
		rabbitConn, err = rabbitmq_common.NewManager(appConfig.RabbitMQ.URL, rabbitmq_adapter.NewPkgLoggerBridge(baseLogger))
		if err != nil {
			appLogger.Error("Failed to connect to RabbitMQ", err, nil)
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}

		rabbitPub, err = rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			ExchangeName:             constants.EngagementExchange,
			ExchangeType:             constants.EngagementExchangeType,
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(baseLogger),
		}, rabbitConn)
		if err != nil {
			appLogger.Error("Failed to create RabbitMQ publisher", err, nil)
			rabbitConn.Close()
			return nil, fmt.Errorf("failed to create RabbitMQ publisher: %w", err)
		}

		interactionLogger, err = rabbitmq_adapter.NewInteractionEnqueueAdapter(rabbitPub, constants.RoutingKeyInteractionEvents)
		if err != nil {
			appLogger.Error("Failed to create interaction enqueue adapter", err, nil)
			rabbitPub.Close()
			rabbitConn.Close()
			return nil, err
		}
		appLogger.Info("Interaction events will be published to RabbitMQ", port.Fields{
			"exchange": constants.EngagementExchange, "routing_key": constants.RoutingKeyInteractionEvents,
		})
	} else {
		interactionLogger = marketplace_api_client.NewHTTPInteractionLogger(apiClient)
		appLogger.Info("RabbitMQ is not configured, interaction events go to marketplace API over HTTP", nil)
	}

	appLogger.Info("All persistence and service adapters initialized.", nil)

	// ИНИЦИАЛИЗАЦИЯ USE CASES (ядра бизнес-логики)
	saveUC := usecase.NewSavePropertyUseCase(apiClient, interactionLogger)
	unsaveUC := usecase.NewUnsavePropertyUseCase(apiClient)
	listSavedUC := usecase.NewListSavedUseCase()
	refreshSavedUC := usecase.NewRefreshSavedUseCase(apiClient)
	addViewedUC := usecase.NewAddRecentlyViewedUseCase(interactionLogger)
	listViewedUC := usecase.NewListRecentlyViewedUseCase(apiClient)
	clearViewedUC := usecase.NewClearRecentlyViewedUseCase(apiClient)
	removeViewedUC := usecase.NewRemoveRecentlyViewedUseCase(apiClient)
	createCollectionUC := usecase.NewCreateCollectionUseCase(apiClient)
	addToCollectionUC := usecase.NewAddToCollectionUseCase(apiClient)
	removeFromCollectionUC := usecase.NewRemoveFromCollectionUseCase(apiClient)
	listCollectionsUC := usecase.NewListCollectionsUseCase(apiClient)
	personalizedUC := usecase.NewGetPersonalizedUseCase(apiClient)
	similarUC := usecase.NewGetSimilarUseCase(apiClient, interactionLogger)
	linkUC := usecase.NewLinkPropertyUseCase(apiClient)

	// REST API Server
	engagementHandlers := rest.NewEngagementHandler(
		saveUC, unsaveUC, listSavedUC, refreshSavedUC,
		addViewedUC, listViewedUC, clearViewedUC, removeViewedUC)
	collectionHandlers := rest.NewCollectionHandler(
		createCollectionUC, addToCollectionUC, removeFromCollectionUC, listCollectionsUC)
	recommendationHandlers := rest.NewRecommendationHandler(personalizedUC, similarUC)
	linkingHandlers := rest.NewLinkingHandler(linkUC)
	sessionHandlers := rest.NewSessionHandler(sessionRegistry)

	apiServer := rest.NewServer(
		appConfig.Rest.PORT,
		appConfig.Rest.AllowedOrigins,
		sessionRegistry,
		engagementHandlers,
		collectionHandlers,
		recommendationHandlers,
		linkingHandlers,
		sessionHandlers,
		baseLogger)
	appLogger.Info("REST API server configured.", nil)

	// Собираем приложение
	application := &App{
		config:    appConfig,
		apiServer: apiServer,

		rabbitConn:   rabbitConn,
		rabbitPub:    rabbitPub,
		fluentClient: fluentClient,
		logger:       appLogger,
	}

	return application, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом.
func (a *App) Run() error {
	// Создаем единый контекст для всего приложения для управления graceful shutdown
	appCtx, cancelApp := context.WithCancel(context.Background())

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.rabbitPub != nil {
			if err := a.rabbitPub.Close(); err != nil {
				a.logger.Error("Error closing RabbitMQ publisher", err, nil)
			}
		}
		if a.rabbitConn != nil {
			if err := a.rabbitConn.Close(); err != nil {
				a.logger.Error("Error closing RabbitMQ connection", err, nil)
			}
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Логируем в stdout, так как fluent может быть уже недоступен
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	// Ожидание сигнала на завершение или ошибки от одного из компонентов
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	case err := <-serverErrors:
		a.logger.Error("Server failed to start, shutting down", err, nil)
	}

	// Инициируем graceful shutdown, отменяя главный контекст
	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		// Возвращаем безопасное значение по умолчанию и логируем предупреждение
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
