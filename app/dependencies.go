package app

import (
	"context"
	"fmt"

	"github.com/stackline/user-gateway/auth"
	"github.com/stackline/user-gateway/config"
	"github.com/stackline/user-gateway/repositories"
	"github.com/stackline/user-gateway/repositories/postgres"
	"github.com/stackline/user-gateway/services"
	"github.com/stackline/user-gateway/token"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies. This is the central
// wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repositories
	Users repositories.UserRepository

	// Security core. Codec and Authenticator are immutable after startup
	// and shared across request goroutines without synchronization.
	Codec         *token.Codec
	Authenticator *auth.Authenticator

	// Services
	AuthService *services.AuthService
	UserService *services.UserService
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	// The codec holds the signing key; a weak or missing secret fails here,
	// before the server binds its listener.
	codec, err := token.NewCodec(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Lifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}
	deps.Codec = codec
	deps.Authenticator = auth.NewAuthenticator(codec, logger)

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.Users = postgres.NewUserRepository(deps.DB, logger)
	deps.AuthService = services.NewAuthService(deps.Users, codec, logger)
	deps.UserService = services.NewUserService(deps.Users, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL connection and schema
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	db, err := postgres.NewDB(cfg.Database, d.Logger)
	if err != nil {
		return err
	}
	d.DB = db

	if err := db.InitSchema(ctx); err != nil {
		return err
	}
	return nil
}

// Close releases held resources
func (d *Dependencies) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
