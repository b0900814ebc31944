package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ShadyM97/LearnHub-Backend/auth"
	"github.com/ShadyM97/LearnHub-Backend/config"
	"github.com/ShadyM97/LearnHub-Backend/internal/observability"
	"github.com/ShadyM97/LearnHub-Backend/middleware"
	"github.com/ShadyM97/LearnHub-Backend/preview"
	"github.com/ShadyM97/LearnHub-Backend/realtime"
	"github.com/ShadyM97/LearnHub-Backend/repositories"
	"github.com/ShadyM97/LearnHub-Backend/repositories/postgres"
	"github.com/ShadyM97/LearnHub-Backend/services/courses"
	"github.com/ShadyM97/LearnHub-Backend/services/posts"
	"github.com/ShadyM97/LearnHub-Backend/services/spaces"
	"github.com/ShadyM97/LearnHub-Backend/services/users"
	"github.com/ShadyM97/LearnHub-Backend/supabase"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config  *config.Config
	DB      *postgres.DB
	Logger  *zap.Logger
	Metrics *observability.Metrics

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Repos     *repositories.Repositories
	TxManager repositories.TransactionManager

	// Services
	Users   *users.Service
	Courses *courses.Service
	Posts   *posts.Service
	Spaces  *spaces.Service
	Preview *preview.Service

	// Auth
	KeySet         *supabase.KeySet
	Verifier       *supabase.Verifier
	Authorizer     *auth.RoleAuthorizer
	AuthMiddleware *middleware.AuthMiddleware

	// Realtime
	Hub   *realtime.Hub
	Relay *realtime.RedisRelay // nil without REDIS_URL

	redis      *redis.Client
	background *errgroup.Group
	stop       context.CancelFunc
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	factory, err := postgres.NewRepositoryFactory(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps, err := NewDependenciesWithFactory(ctx, cfg, factory, logger)
	if err != nil {
		_ = factory.Close()
		return nil, err
	}
	return deps, nil
}

// NewDependenciesWithFactory wires everything on top of an opened database
func NewDependenciesWithFactory(ctx context.Context, cfg *config.Config, factory *postgres.RepositoryFactory, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		RepoFactory: factory,
		DB:          factory.GetDB(),
	}

	if cfg.Observability.MetricsEnabled {
		deps.Metrics = observability.NewMetrics()
	}

	deps.initRepositories()

	if err := deps.initRealtime(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize realtime: %w", err)
	}

	deps.initServices(cfg)
	deps.initAuth(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	d.Repos = d.RepoFactory.NewRepositories()
	d.TxManager = d.RepoFactory.GetTransactionManager()
	d.Logger.Info("repositories initialized")
}

// initRealtime creates the hub and, when Redis is configured, the relay
// that carries broadcasts between instances
func (d *Dependencies) initRealtime(ctx context.Context, cfg *config.Config) error {
	d.Hub = realtime.NewHub(realtime.HubConfig{
		WriteTimeout:   cfg.Realtime.WriteTimeout,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, d.Logger.Named("realtime"))
	if d.Metrics != nil {
		d.Hub.SetGauge(d.Metrics)
	}

	if cfg.Realtime.RedisURL == "" {
		d.Logger.Info("redis not configured, broadcasts stay in-process")
		return nil
	}

	client, err := realtime.NewRedisClient(ctx, cfg.Realtime.RedisURL)
	if err != nil {
		return err
	}
	relay := realtime.NewRedisRelay(client, cfg.Realtime.Channel, d.Hub, d.Logger.Named("relay"))

	runCtx, stop := context.WithCancel(context.Background())
	group, runCtx := errgroup.WithContext(runCtx)

	ready := make(chan struct{})
	group.Go(func() error {
		return relay.Run(runCtx, ready)
	})

	select {
	case <-ready:
	case <-runCtx.Done():
		stop()
		_ = client.Close()
		return group.Wait()
	case <-ctx.Done():
		stop()
		_ = group.Wait()
		_ = client.Close()
		return ctx.Err()
	}

	d.redis = client
	d.Relay = relay
	d.background = group
	d.stop = stop
	return nil
}

// initServices builds the domain services
func (d *Dependencies) initServices(cfg *config.Config) {
	var publisher posts.Publisher = d.Hub
	if d.Relay != nil {
		publisher = d.Relay
	}

	d.Users = users.NewService(d.Repos.Users, d.Logger.Named("users"))
	d.Courses = courses.NewService(d.Repos, d.TxManager, d.Logger.Named("courses"))
	d.Posts = posts.NewService(d.Repos, d.TxManager, publisher, d.Logger.Named("posts"))
	d.Spaces = spaces.NewService(d.Repos, d.TxManager, d.Logger.Named("spaces"))
	d.Preview = preview.NewService(preview.Config{
		Timeout:   cfg.LinkPreview.Timeout,
		CacheSize: cfg.LinkPreview.CacheSize,
		CacheTTL:  cfg.LinkPreview.CacheTTL,
	}, nil, d.Logger.Named("preview"))

	d.Logger.Info("services initialized")
}

// initAuth wires token verification and the role authorizer
func (d *Dependencies) initAuth(cfg *config.Config) {
	logger := d.Logger.Named("auth")

	opts := []supabase.KeySetOption{supabase.WithKeySetLogger(logger)}
	if d.Metrics != nil {
		opts = append(opts, supabase.WithFetchRecorder(d.Metrics))
	}
	d.KeySet = supabase.NewKeySet(cfg.Supabase.URL, cfg.Supabase.JWKSTimeout, opts...)

	d.Verifier = supabase.NewVerifier(supabase.VerifierConfig{
		JWTSecret: cfg.Supabase.JWTSecret,
	}, d.KeySet, logger)

	d.Authorizer = auth.NewRoleAuthorizer(d.DB, auth.AuthorizerConfig{
		LookupTimeout:     cfg.Auth.RoleLookupTimeout,
		ExposeErrorDetail: cfg.Auth.ExposeErrorDetail,
	}, logger)

	if d.Metrics != nil {
		d.Verifier.SetRecorder(d.Metrics)
		d.Authorizer.SetRecorder(d.Metrics)
	}

	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Verifier, d.Authorizer, logger)

	if cfg.Supabase.JWTSecret == "" {
		logger.Warn("SUPABASE_JWT_SECRET not set, tokens are verified against JWKS only")
	}
	logger.Info("auth initialized",
		zap.String("jwks_url", d.KeySet.URL()),
		zap.Strings("strategies", d.Verifier.Strategies()))
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.Hub != nil {
		d.Hub.Close()
	}

	if d.stop != nil {
		d.stop()
		if err := d.background.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			errs = append(errs, fmt.Errorf("realtime relay: %w", err))
		}
		d.stop = nil
	}

	if d.redis != nil {
		if err := d.redis.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
		d.redis = nil
	}

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
		d.RepoFactory = nil
	}

	_ = d.Logger.Sync()

	return errors.Join(errs...)
}
