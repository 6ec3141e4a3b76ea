// Package insights provides the market insights bounded context:
// AI-grounded market search, insight scoring and conversion into leads.
package insights

import (
	"dealerhub_backend/internal/events"
	apphttp "dealerhub_backend/internal/http"
	"dealerhub_backend/internal/insights/handler"
	"dealerhub_backend/internal/insights/provider"
	"dealerhub_backend/internal/insights/service"
	"dealerhub_backend/internal/regions"
	"dealerhub_backend/platform/config"
	"dealerhub_backend/platform/logger"
	"dealerhub_backend/platform/validator"
)

// Module is the insights bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the insights module. When market
// search is not configured the search endpoint returns 503 but the
// convert endpoint keeps working.
func NewModule(
	cfg config.SearchConfig,
	leads service.LeadCreator,
	eventBus events.Bus,
	graph *regions.Graph,
	log *logger.Logger,
	val *validator.Validator,
) *Module {
	var searcher provider.MarketSearcher
	if cfg.IsSearchEnabled() {
		searcher = provider.NewGeminiSearcher(cfg, log)
	} else {
		log.Warn("market search disabled: no Gemini API key configured")
	}

	svc := service.New(searcher, leads, eventBus, graph, log)
	h := handler.New(svc, val)

	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "insights"
}

// RegisterRoutes mounts insight routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/insights")
	m.handler.RegisterRoutes(group, ctx.SearchRateLimiter.RateLimit())
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
