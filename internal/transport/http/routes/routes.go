package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/abhishek070702/Safe-Heaven/internal/core/domain"
	"github.com/abhishek070702/Safe-Heaven/internal/core/port"
	"github.com/abhishek070702/Safe-Heaven/internal/infra/config"
	"github.com/abhishek070702/Safe-Heaven/internal/infra/security"
	"github.com/abhishek070702/Safe-Heaven/internal/transport/http/handlers"
	"github.com/abhishek070702/Safe-Heaven/internal/transport/http/middleware"
	"github.com/abhishek070702/Safe-Heaven/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Donors     *usecase.DonorService
	Volunteers *usecase.VolunteerService
	Operators  *usecase.OperatorService
	Admins     *usecase.AdminService
	Donations  *usecase.DonationService
	Community  *usecase.CommunityService
}

// PrincipalSources supplies the per-kind repositories the auth guard
// reads accounts from.
type PrincipalSources struct {
	Donors     port.DonorRepository
	Volunteers port.VolunteerRepository
	Operators  port.OperatorRepository
	Admins     port.AdminRepository
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Services    ServiceSet
	Accounts    PrincipalSources
	Tokens      *security.TokenService
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.App.CORSOrigins))

	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	healthOptions := make([]handlers.HealthOption, 0, 2)

	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}

	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	donorGuard := middleware.RequireIdentity(deps.Tokens, donorLoader(deps.Accounts.Donors), handlers.DonorContextKey)
	volunteerGuard := middleware.RequireIdentity(deps.Tokens, volunteerLoader(deps.Accounts.Volunteers), handlers.VolunteerContextKey)
	operatorGuard := middleware.RequireIdentity(deps.Tokens, operatorLoader(deps.Accounts.Operators), handlers.OperatorContextKey)
	adminGuard := middleware.RequireIdentity(deps.Tokens, adminLoader(deps.Accounts.Admins), handlers.AdminContextKey)
	approvedGuard := middleware.RequireApprovedOperator(handlers.OperatorContextKey)

	loginMiddlewares := buildRateLimitMiddlewares(deps, "login_ip", deps.Config.RateLimit.LoginMaxAttempts)
	registerMiddlewares := buildRateLimitMiddlewares(deps, "register_ip", deps.Config.RateLimit.RegisterMaxAttempts)

	donorHandler := handlers.NewDonorHandler(deps.Services.Donors, deps.Services.Donations)
	volunteerHandler := handlers.NewVolunteerHandler(deps.Services.Volunteers, deps.Services.Community)
	operatorHandler := handlers.NewOperatorHandler(deps.Services.Operators, deps.Services.Donations, deps.Services.Community)
	adminHandler := handlers.NewAdminHandler(
		deps.Services.Admins,
		deps.Services.Donors,
		deps.Services.Volunteers,
		deps.Services.Operators,
		deps.Services.Donations,
	)

	api := r.Group("/api")
	{
		donorPublic := api.Group("/donors")
		donorHandler.RegisterPublicRoutes(donorPublic, registerMiddlewares, loginMiddlewares)

		donorPrivate := api.Group("/donors")
		donorPrivate.Use(donorGuard)
		donorHandler.RegisterProtectedRoutes(donorPrivate)

		volunteerPublic := api.Group("/volunteers")
		volunteerHandler.RegisterPublicRoutes(volunteerPublic, registerMiddlewares, loginMiddlewares)

		volunteerPrivate := api.Group("/volunteers")
		volunteerPrivate.Use(volunteerGuard)
		volunteerHandler.RegisterProtectedRoutes(volunteerPrivate)

		operatorPublic := api.Group("/operators")
		operatorHandler.RegisterPublicRoutes(operatorPublic, registerMiddlewares, loginMiddlewares)

		operatorPrivate := api.Group("/operators")
		operatorPrivate.Use(operatorGuard)
		operatorHandler.RegisterProtectedRoutes(operatorPrivate)

		operatorApproved := api.Group("/operators")
		operatorApproved.Use(operatorGuard, approvedGuard)
		operatorHandler.RegisterApprovedRoutes(operatorApproved)
		operatorApproved.POST("/volunteers/:id/feedback", volunteerHandler.AddFeedback)

		homes := api.Group("/elder-homes")
		operatorHandler.RegisterBrowseRoutes(homes)

		homesDonor := api.Group("/elder-homes")
		homesDonor.Use(donorGuard)
		operatorHandler.RegisterDonorFeedbackRoutes(homesDonor)

		adminPublic := api.Group("/admin")
		adminHandler.RegisterPublicRoutes(adminPublic, loginMiddlewares...)

		adminPrivate := api.Group("/admin")
		adminPrivate.Use(adminGuard)
		adminHandler.RegisterProtectedRoutes(adminPrivate)
	}

	return r
}

func donorLoader(repo port.DonorRepository) middleware.PrincipalLoader {
	return func(ctx context.Context, id string) (domain.Principal, error) {
		return repo.GetByID(ctx, id)
	}
}

func volunteerLoader(repo port.VolunteerRepository) middleware.PrincipalLoader {
	return func(ctx context.Context, id string) (domain.Principal, error) {
		return repo.GetByID(ctx, id)
	}
}

func operatorLoader(repo port.OperatorRepository) middleware.PrincipalLoader {
	return func(ctx context.Context, id string) (domain.Principal, error) {
		return repo.GetByID(ctx, id)
	}
}

func adminLoader(repo port.AdminRepository) middleware.PrincipalLoader {
	return func(ctx context.Context, id string) (domain.Principal, error) {
		return repo.GetByID(ctx, id)
	}
}

func buildRateLimitMiddlewares(deps Dependencies, name string, limit int) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil || limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
