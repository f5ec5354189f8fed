package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"hotlunchhub/internal/config"
	"hotlunchhub/internal/db"
	companiesdomain "hotlunchhub/internal/domain/companies"
	mealsdomain "hotlunchhub/internal/domain/meals"
	ordersdomain "hotlunchhub/internal/domain/orders"
	usersdomain "hotlunchhub/internal/domain/users"
	"hotlunchhub/internal/events"
	"hotlunchhub/internal/identity"
	"hotlunchhub/internal/metrics"
	"hotlunchhub/internal/repository/inmemory"
	companiesrepo "hotlunchhub/internal/repository/postgres/companies"
	mealsrepo "hotlunchhub/internal/repository/postgres/meals"
	ordersrepo "hotlunchhub/internal/repository/postgres/orders"
	usersrepo "hotlunchhub/internal/repository/postgres/users"
	redisrepo "hotlunchhub/internal/repository/redis"
	"hotlunchhub/internal/storage"
	"hotlunchhub/internal/transport/httpserver"
	"hotlunchhub/internal/transport/httpserver/handler"
	"hotlunchhub/internal/transport/httpserver/handler/admin"
	"hotlunchhub/internal/transport/httpserver/handler/common"
	"hotlunchhub/internal/transport/httpserver/handler/functions"
	"hotlunchhub/internal/transport/httpserver/handler/roles"
	authmw "hotlunchhub/internal/transport/httpserver/middleware"
	"hotlunchhub/pkg/logger"
)

const (
	jwksRefreshInterval = time.Hour
	sentryFlushTimeout  = 2 * time.Second
)

type App struct {
	cfg        config.Config
	log        logger.Logger
	httpServer *http.Server
	db         *gorm.DB
	redis      *goredis.Client
	events     *events.Publisher
	sentry     bool
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, log: log}
	a.sentry = initSentry(cfg.Sentry, log)

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	a.db = dbConn

	if cfg.DB.AutoMigrate {
		log.Info("app: applying migrations")
		if err := db.Migrate(cfg.DB.MigrationURL(), log); err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	log.Info("app: initializing identity provider", "provider", cfg.Auth.Provider)
	identities, err := newIdentity(ctx, cfg, dbConn, log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	options := []usersdomain.Option{usersdomain.WithMetrics(metrics.Saga{})}
	a.redis = redisrepo.NewClient(cfg.Redis, log)
	if a.redis != nil {
		options = append(options, usersdomain.WithIdempotency(redisrepo.NewIdempotencyStore(a.redis)))
	} else {
		options = append(options, usersdomain.WithIdempotency(inmemory.NewIdempotencyStore()))
	}
	if cfg.RabbitMQ.URL != "" {
		a.events = events.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		options = append(options, usersdomain.WithEvents(a.events))
	}

	usersService := usersdomain.NewService(usersrepo.NewPostgres(dbConn), identities, log, usersdomain.Options{
		UnknownRoleNoop: cfg.Users.UnknownRoleNoop,
		Compensate:      cfg.Users.Compensate,
		IdempotencyTTL:  cfg.Users.IdempotencyTTL,
	}, options...)
	companiesService := companiesdomain.NewService(companiesrepo.NewPostgres(dbConn))
	mealsService := mealsdomain.NewService(mealsrepo.NewPostgres(dbConn), storage.NewSupabase(cfg.Supabase))
	ordersService := ordersdomain.NewService(ordersrepo.NewPostgres(dbConn))

	log.Info("app: initializing router")
	auth := authmw.NewAuth(cfg.Auth, identities, usersService, log)
	handlers := handler.New(
		common.New(usersService, identities, db.NewPinger(dbConn), log),
		functions.New(usersService, auth, log),
		admin.New(companiesService, mealsService, ordersService, usersService, auth, log),
		roles.New(mealsService, ordersService, usersService, log),
	)
	router := httpserver.NewRouter(cfg, handlers, auth)

	log.Info("app: initializing http server")
	a.httpServer = httpserver.New(cfg, router)
	return a, nil
}

func newIdentity(ctx context.Context, cfg config.Config, dbConn *gorm.DB, log logger.Logger) (identity.Authenticator, error) {
	if cfg.Auth.Provider == config.AuthProviderLocal {
		return identity.NewLocal(dbConn, cfg.Auth), nil
	}

	var chain identity.ChainVerifier
	if cfg.Supabase.JWTSecret != "" {
		chain = append(chain, identity.NewHMACVerifier(cfg.Supabase.JWTSecret))
	}
	if cfg.Supabase.JWKSURL != "" {
		jwks, err := identity.NewJWKSVerifier(ctx, cfg.Supabase.JWKSURL, jwksRefreshInterval, log)
		if err != nil {
			return nil, fmt.Errorf("init jwks verifier: %w", err)
		}
		chain = append(chain, jwks)
	}

	var verifier identity.Verifier
	if len(chain) > 0 {
		verifier = chain
	} else {
		log.Warn("identity: no local token verifier configured, asking supabase for every request")
	}
	return identity.NewSupabase(cfg.Supabase, verifier), nil
}

func initSentry(cfg config.SentryConfig, log logger.Logger) bool {
	if cfg.DSN == "" {
		return false
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		SampleRate:       cfg.SampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		log.Error("sentry: init failed", "err", err)
		return false
	}
	log.Info("sentry: initialized", "environment", cfg.Environment)
	return true
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	var errs []error
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close rabbitmq: %w", err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			errs = append(errs, err)
		} else if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	if a.sentry {
		sentry.Flush(sentryFlushTimeout)
	}
	return errors.Join(errs...)
}
