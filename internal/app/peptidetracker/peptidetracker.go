package peptidetracker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/peptide-tracker/internal/cache"
	"github.com/magabrotheeeer/peptide-tracker/internal/config"
	"github.com/magabrotheeeer/peptide-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/peptide-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/peptide-tracker/internal/migrations"
	alertservices "github.com/magabrotheeeer/peptide-tracker/internal/services/alerts"
	analyticsservices "github.com/magabrotheeeer/peptide-tracker/internal/services/analytics"
	authservices "github.com/magabrotheeeer/peptide-tracker/internal/services/auth"
	injectionservices "github.com/magabrotheeeer/peptide-tracker/internal/services/injection"
	peptideservices "github.com/magabrotheeeer/peptide-tracker/internal/services/peptide"
	progressservices "github.com/magabrotheeeer/peptide-tracker/internal/services/progress"
	protocolservices "github.com/magabrotheeeer/peptide-tracker/internal/services/protocol"
	userservices "github.com/magabrotheeeer/peptide-tracker/internal/services/user"
	wellnessservices "github.com/magabrotheeeer/peptide-tracker/internal/services/wellness"
	"github.com/magabrotheeeer/peptide-tracker/internal/storage/archive"
	"github.com/magabrotheeeer/peptide-tracker/internal/storage/repository"
)

const (
	shutdownTimeout      = 15 * time.Second
	limiterPruneInterval = time.Minute
)

// App — HTTP-сервер API.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel

	limiter     *middlewarectx.RateLimiter
	limiterIdle time.Duration
}

// New подключает хранилища, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	app := &App{
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}

	// Письма об уведомлениях, созданных через API, уходят той же очередью,
	// что и у планировщика. Без брокера уведомления только сохраняются.
	var publisher alertservices.Publisher
	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ)
	if err != nil {
		logger.Warn("rabbitmq unavailable, alert emails disabled", sl.Err(err))
	} else {
		ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ, rabbitmq.GetNotificationQueues())
		if err != nil {
			logger.Warn("failed to setup rabbitmq channel, alert emails disabled", sl.Err(err))
			_ = conn.Close()
		} else {
			app.conn, app.ch = conn, ch
			publisher = rabbitmq.NewPublisher(ch, rabbitmq.ExchangeNotifications, rabbitmq.RoutingKeyAlert)
		}
	}

	var reportArchive analyticsservices.Archive
	if cfg.ArchiveEnabled() {
		store, err := archive.New(ctx, cfg.Archive)
		if err != nil {
			app.close()
			return nil, err
		}
		reportArchive = store
	} else {
		logger.Info("report archive is not configured")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	services := Services{
		Auth:      authservices.NewAuthService(db, jwtMaker),
		User:      userservices.NewUserService(db, logger),
		Peptide:   peptideservices.NewPeptideService(db, cacheRedis, logger, cfg.CacheTTL),
		Injection: injectionservices.NewInjectionService(db, cacheRedis, logger),
		Protocol:  protocolservices.NewProtocolService(db, cacheRedis, logger),
		Progress:  progressservices.NewProgressService(db, cacheRedis, logger, cfg.CacheTTL),
		Wellness:  wellnessservices.NewWellnessService(db, logger),
		Alerts:    alertservices.NewAlertService(db, publisher, logger),
		Analytics: analyticsservices.NewAnalyticsService(db, reportArchive, logger),
		Health:    db,
	}

	router := chi.NewRouter()
	app.limiter = middlewarectx.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	app.limiterIdle = cfg.RateIdle
	RegisterRoutes(router, logger, services, app.limiter)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// Run запускает сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	go a.limiter.Run(ctx, limiterPruneInterval, a.limiterIdle)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
