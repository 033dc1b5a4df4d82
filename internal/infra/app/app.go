package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/abhishek070702/Safe-Heaven/internal/core/port"
	"github.com/abhishek070702/Safe-Heaven/internal/infra/config"
	"github.com/abhishek070702/Safe-Heaven/internal/infra/database"
	kafkainfra "github.com/abhishek070702/Safe-Heaven/internal/infra/kafka"
	"github.com/abhishek070702/Safe-Heaven/internal/infra/logger"
	redisinfra "github.com/abhishek070702/Safe-Heaven/internal/infra/redis"
	"github.com/abhishek070702/Safe-Heaven/internal/infra/security"
	"github.com/abhishek070702/Safe-Heaven/internal/infra/storage"
	postgresrepo "github.com/abhishek070702/Safe-Heaven/internal/repository/postgres"
	redisrepo "github.com/abhishek070702/Safe-Heaven/internal/repository/redis"
	"github.com/abhishek070702/Safe-Heaven/internal/transport/http/middleware"
	"github.com/abhishek070702/Safe-Heaven/internal/transport/http/routes"
	"github.com/abhishek070702/Safe-Heaven/internal/usecase"
)

type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	tokens, err := security.NewTokenService(cfg.JWT.Secret, cfg.JWT.TokenTTL)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init token service: %w", err)
	}

	files, err := storage.NewDiskStore(cfg.Uploads.Directory, log)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init upload store: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Client(), redisrepo.SlidingWindowConfig{
		KeyPrefix: cfg.Redis.RateLimitPrefix,
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	var metrics *middleware.HTTPMetrics
	if cfg.Telemetry.MetricsEnabled {
		metrics, err = middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
		if err != nil {
			pool.Close()
			_ = redisClient.Close()
			return nil, fmt.Errorf("init http metrics: %w", err)
		}
	}

	donorService := usecase.NewDonorService(repos.Donors, files, tokens, eventPublisher)
	volunteerService := usecase.NewVolunteerService(repos.Volunteers, files, tokens, eventPublisher)
	operatorService := usecase.NewOperatorService(repos.Operators, files, tokens, eventPublisher)
	adminService := usecase.NewAdminService(repos.Admins, repos.Donors, repos.Volunteers, repos.Operators, repos.Donations, tokens, eventPublisher)
	donationService := usecase.NewDonationService(repos.Donations, repos.Operators)
	communityService := usecase.NewCommunityService(repos.Events, repos.Feedback, repos.Patients, repos.Operators, repos.Volunteers)

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Metrics:     metrics,
		Tokens:      tokens,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Donors:     donorService,
			Volunteers: volunteerService,
			Operators:  operatorService,
			Admins:     adminService,
			Donations:  donationService,
			Community:  communityService,
		},
		Accounts: routes.PrincipalSources{
			Donors:     repos.Donors,
			Volunteers: repos.Volunteers,
			Operators:  repos.Operators,
			Admins:     repos.Admins,
		},
	})

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting Safe-Heaven API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
