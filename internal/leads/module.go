// Package leads provides the leads bounded context module: capture,
// distribution, scoring, pipeline and follow-ups.
package leads

import (
	"dealerhub_backend/internal/events"
	apphttp "dealerhub_backend/internal/http"
	"dealerhub_backend/internal/leads/handler"
	"dealerhub_backend/internal/leads/repository"
	"dealerhub_backend/internal/leads/service"
	"dealerhub_backend/internal/regions"
	"dealerhub_backend/platform/logger"
	"dealerhub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(
	pool *pgxpool.Pool,
	dealers service.DealerDirectory,
	eventBus events.Bus,
	graph *regions.Graph,
	log *logger.Logger,
	baseURL string,
	val *validator.Validator,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, dealers, eventBus, graph, log, baseURL)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// SetScheduler wires the follow-up reminder scheduler.
func (m *Module) SetScheduler(scheduler service.FollowUpScheduler) {
	m.service.SetScheduler(scheduler)
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	leadsGroup := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup, ctx.AdminOnly)

	// Customer follow-up pages are token-addressed, no auth.
	publicGroup := ctx.V1.Group("/public/follow-up")
	m.handler.RegisterPublicRoutes(publicGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
