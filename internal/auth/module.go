// Package auth provides the authentication bounded context: login,
// user provisioning and role definitions.
package auth

import (
	"dealerhub_backend/internal/auth/handler"
	"dealerhub_backend/internal/auth/repository"
	"dealerhub_backend/internal/auth/service"
	apphttp "dealerhub_backend/internal/http"
	"dealerhub_backend/platform/config"
	"dealerhub_backend/platform/logger"
	"dealerhub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the auth module.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts auth routes on the provided router context.
// Login is unauthenticated and sits behind the strict auth rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/auth", ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterPublicRoutes(public)

	protected := ctx.Protected.Group("/auth")
	m.handler.RegisterRoutes(protected, ctx.AdminOnly)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
