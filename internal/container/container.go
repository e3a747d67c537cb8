package container

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/dmelim/userbase/app/db"
	"github.com/dmelim/userbase/app/tracer"
	"github.com/dmelim/userbase/config"
	"github.com/dmelim/userbase/internal/api"
	"github.com/dmelim/userbase/internal/api/auth"
	"github.com/dmelim/userbase/internal/api/user"
	"github.com/dmelim/userbase/internal/repository/postgres"
	"github.com/dmelim/userbase/internal/usecase"
)

// Container holds all application dependencies.
type Container struct {
	Config      *config.Config
	Logger      *slog.Logger
	Pool        *pgxpool.Pool
	TokenIssuer *auth.TokenIssuer
	AuthHandler *auth.AuthHandler
	UserHandler *user.UserHandler
}

// NewContainer wires repositories, use cases and handlers onto one
// shared pool.
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	pool, err := database.Init(database.ConnectionURL(&cfg.Repositories.Postgres), logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	txManager := postgres.NewTxManager(pool, logger)

	registerUser := usecase.NewRegisterUser(logger)
	loginUser := usecase.NewLoginUser(logger)
	getProfile := usecase.NewGetUserProfile(logger)
	listUsers := usecase.NewListAllUsers(logger)
	deleteUser := usecase.NewDeleteUser(logger)
	authenticateExternal := usecase.NewAuthenticateExternal(logger)

	issuer := auth.NewTokenIssuer(cfg.JWT)
	throttle := auth.NewLoginThrottle(cfg.Throttle)
	metrics := tracer.Get()

	authHandler := auth.NewAuthHandler(logger, txManager, issuer, throttle, metrics,
		registerUser, loginUser, getProfile, authenticateExternal)
	userHandler := user.NewUserHandler(logger, txManager, getProfile, listUsers, deleteUser)

	return &Container{
		Config:      cfg,
		Logger:      logger,
		Pool:        pool,
		TokenIssuer: issuer,
		AuthHandler: authHandler,
		UserHandler: userHandler,
	}, nil
}

// Routes collects the route tables of every handler.
func (c *Container) Routes() []api.Route {
	routes := c.AuthHandler.Routes()
	routes = append(routes, c.UserHandler.Routes()...)
	return routes
}

// Close releases pooled resources.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
