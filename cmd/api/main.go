package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/agent"
	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/lock"
	"github.com/spec-kit/helpdesk-service/internal/notify"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	articleRepo := repository.NewArticleRepository(pool)
	suggestionRepo := repository.NewSuggestionRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)

	metrics := observability.NewMetrics()

	hub := notify.NewHub()
	bridge := notify.NewRedisBridge(redis.Client, cfg.Notification.RedisChannel, hub, logger)
	defer bridge.Close()

	provider := newProvider(cfg.Triage, logger)

	triageLease := lock.NewRedisLease(redis.Client, "triage:lease:", cfg.Triage.LockTTL(), logger)

	triageService := service.NewTriageService(cfg.Triage, service.TriageDependencies{
		TicketRepo:     ticketRepo,
		ArticleRepo:    articleRepo,
		SuggestionRepo: suggestionRepo,
		AuditRepo:      auditRepo,
		SettingsRepo:   settingsRepo,
		Provider:       provider,
		Notifier:       bridge,
		Lease:          triageLease,
		Logger:         logger,
		Metrics:        metrics,
	})

	triageQueue := worker.NewTriageQueue(triageService, logger, cfg.Triage.QueueSize, cfg.Triage.Workers)
	defer triageQueue.Close()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		SuggestionRepo: suggestionRepo,
		AuditRepo:      auditRepo,
		Notifier:       bridge,
		TriageTrigger:  triageQueue,
		Logger:         logger,
	})
	authService := service.NewAuthService(*cfg, userRepo)
	kbService := service.NewKBService(articleRepo)
	settingsService := service.NewSettingsService(settingsRepo)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Agent:          handlers.NewAgentHandler(triageService, ticketService),
		KB:             handlers.NewKBHandler(kbService),
		Settings:       handlers.NewSettingsHandler(settingsService),
		Notifications:  handlers.NewNotificationsHandler(hub),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// newProvider selects the classification/drafting provider at process
// start. Only the stub ships today; a real inference-backed implementation
// plugs in here by name.
func newProvider(cfg config.TriageConfig, logger *zap.Logger) agent.Provider {
	switch cfg.Provider {
	case "stub", "":
		return agent.NewStubProvider()
	default:
		logger.Warn("unknown triage provider; falling back to stub", zap.String("provider", cfg.Provider))
		return agent.NewStubProvider()
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
