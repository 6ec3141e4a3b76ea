// Package dealers provides the dealers bounded context module.
package dealers

import (
	"dealerhub_backend/internal/adapters/storage"
	"dealerhub_backend/internal/dealers/handler"
	"dealerhub_backend/internal/dealers/repository"
	"dealerhub_backend/internal/dealers/service"
	"dealerhub_backend/internal/events"
	apphttp "dealerhub_backend/internal/http"
	"dealerhub_backend/internal/regions"
	"dealerhub_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the dealers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the dealers module with all its dependencies.
func NewModule(
	pool *pgxpool.Pool,
	eventBus events.Bus,
	graph *regions.Graph,
	storageSvc storage.StorageService,
	logoBucket string,
	val *validator.Validator,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, graph, storageSvc, logoBucket)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "dealers"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts dealer routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	dealersGroup := ctx.Protected.Group("/dealers")
	m.handler.RegisterRoutes(dealersGroup, ctx.AdminOnly)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
