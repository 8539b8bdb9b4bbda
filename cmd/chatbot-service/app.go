package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"sesheta/internal/broker"
	"sesheta/internal/chat"
	"sesheta/internal/chatbot"
	"sesheta/internal/config"
	"sesheta/internal/constants"
	"sesheta/internal/intent"
	"sesheta/internal/ledger"
	"sesheta/internal/logger"
	"sesheta/pkg/bootstrap"
	"sesheta/pkg/circuitbreaker"
	"sesheta/pkg/health"
	"sesheta/pkg/metrics"
	"sesheta/pkg/middleware"
	"sesheta/pkg/ratelimit"
	"sesheta/pkg/tracing"
)

type App struct {
	*bootstrap.Base
	dbConnector    *bootstrap.DatabaseConnector
	postgresDB     *sql.DB
	pipeline       *chatbot.Pipeline
	handler        *chatbot.Handler
	router         *gin.Engine
	server         *http.Server
	tracerProvider *tracing.TracerProvider
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	if sugaredLogger, ok := log.(*logger.SugaredLogger); ok {
		sugaredLogger.SetServiceName("chatbot-service")
	}
	return &App{
		Base:        bootstrap.NewBase(cfg, log),
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.initPostgreSQL(ctx); err != nil {
		// The ledger sink is optional. The bot keeps replying without it.
		a.Logger.WarnwCtx(ctx, "PostgreSQL initialization failed, ledger sink disabled",
			"error", err,
		)
	}

	if err := a.InitBroker(); err != nil {
		return fmt.Errorf("failed to initialize broker: %w", err)
	}

	if err := a.initPipeline(); err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	tp, err := tracing.Init(a.Config.Tracing, "chatbot-service")
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	metrics.Register(constants.Version)

	if err := a.initRouter(); err != nil {
		return fmt.Errorf("failed to initialize router: %w", err)
	}

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  a.Config.Server.ReadTimeoutSeconds * time.Second,
		WriteTimeout: a.Config.Server.WriteTimeoutSeconds * time.Second,
	}

	return nil
}

func (a *App) initPostgreSQL(ctx context.Context) error {
	db, err := a.dbConnector.InitPostgreSQL(ctx)
	if err != nil {
		return err
	}
	if db == nil {
		return nil
	}

	if a.Config.Ledger.RunMigrations {
		if err := ledger.RunMigrations(db); err != nil {
			db.Close()
			return err
		}
	}

	a.postgresDB = db
	return nil
}

func (a *App) initPipeline() error {
	var querier chatbot.IntentQuerier
	if a.Config.Intent.Endpoint != "" {
		var breaker *circuitbreaker.Wrapper
		if a.Config.CircuitBreaker.Enabled {
			breaker = circuitbreaker.NewWrapper(a.breakerConfig("intent-service"))
		}
		querier = intent.NewClient(a.Config.Intent, breaker, a.Logger)
	} else {
		a.Logger.Warnw("Intent service not configured, all messages get the fallback reply")
	}

	var ledgerSink chatbot.LedgerSink
	if a.postgresDB != nil {
		ledgerSink = ledger.NewRepository(a.postgresDB)
	}

	recordsTopic := a.Config.Broker.Kafka.RecordsTopic
	if recordsTopic == "" {
		recordsTopic = constants.DefaultRecordsTopic
	}
	queueSink := broker.NewRecordPublisher(a.Producer, recordsTopic)

	// Push mode returns the reply in the HTTP response, so only pull mode
	// wires a sender against the chat API.
	var sender *chatbot.Sender
	if a.Config.Ingress.Mode == constants.IngressModePull {
		sender = chatbot.NewSender(chat.NewClient(a.Config.Chat, a.Logger), a.Logger)
	}

	a.pipeline = chatbot.NewPipeline(
		chatbot.NewClassifier(a.Logger),
		chatbot.NewAnswerGenerator(querier, a.Logger),
		chatbot.NewDispatcher(ledgerSink, queueSink, a.Logger),
		sender,
		a.Logger,
	)
	a.handler = chatbot.NewHandler(a.pipeline, a.Logger)
	return nil
}

func (a *App) breakerConfig(name string) circuitbreaker.Config {
	cfg := circuitbreaker.DefaultConfig(name)
	if a.Config.CircuitBreaker.MaxRequests > 0 {
		cfg.MaxRequests = a.Config.CircuitBreaker.MaxRequests
	}
	if a.Config.CircuitBreaker.Interval > 0 {
		cfg.Interval = a.Config.CircuitBreaker.Interval
	}
	if a.Config.CircuitBreaker.Timeout > 0 {
		cfg.Timeout = a.Config.CircuitBreaker.Timeout
	}
	return cfg
}

func (a *App) initRouter() error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if a.Config.Tracing.Enabled {
		router.Use(tracing.GinMiddleware("chatbot-service"))
	}

	router.Use(middleware.RecoveryMiddleware(a.Logger))
	router.Use(middleware.LoggerMiddleware(a.Logger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.VersionHeaderMiddleware(constants.Version))

	if a.Config.RateLimit.Enabled {
		rateLimitConfig := ratelimit.RateLimitConfig{
			RPS:             a.Config.RateLimit.RPS,
			Burst:           a.Config.RateLimit.Burst,
			CleanupInterval: time.Duration(a.Config.RateLimit.CleanupInterval) * time.Second,
			MaxAge:          time.Duration(a.Config.RateLimit.MaxAge) * time.Second,
		}
		router.Use(ratelimit.RateLimitMiddleware(rateLimitConfig))
		a.Logger.Infow("Rate limiting enabled", "rps", rateLimitConfig.RPS, "burst", rateLimitConfig.Burst)
	}

	healthRegistry := health.NewCheckerRegistry()
	if a.postgresDB != nil {
		healthRegistry.Register(health.NewPostgreSQLChecker(a.postgresDB))
	}
	if len(a.Config.Broker.Kafka.Brokers) > 0 {
		healthRegistry.Register(health.NewKafkaChecker(a.Config.Broker.Kafka.Brokers[0]))
	}

	router.GET("/health", func(c *gin.Context) {
		h := healthRegistry.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, h)
	})

	a.handler.RegisterRoutes(router)

	a.router = router
	return nil
}

func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfowCtx(ctx, "HTTP server starting", "port", a.Config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	if a.Config.Ingress.Mode == constants.IngressModePull {
		eventsTopic := a.Config.Broker.Kafka.ChatEventsTopic
		if eventsTopic == "" {
			eventsTopic = constants.DefaultChatEventsTopic
		}

		g.Go(func() error {
			a.Logger.InfowCtx(gCtx, "Starting chat event subscription", "topic", eventsTopic)
			return a.Consumer.Consume(gCtx, eventsTopic, a.handleEvent)
		})
	}

	return g.Wait()
}

func (a *App) handleEvent(ctx context.Context, event chatbot.ChatEvent) error {
	_, err := a.pipeline.Process(ctx, event)
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	a.Logger.InfowCtx(ctx, "Shutting down chat bot")

	additionalShutdown := func(ctx context.Context) []error {
		var errs []error

		errs = append(errs, a.dbConnector.ShutdownDatabases(ctx, a.postgresDB)...)

		if a.tracerProvider != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()
			if err := a.tracerProvider.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("tracer shutdown error: %w", err))
			}
		}

		return errs
	}

	return a.Base.Shutdown(ctx, additionalShutdown)
}
