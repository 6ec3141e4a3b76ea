// Package service implements market insight search, scoring and
// conversion into leads.
package service

import (
	"context"
	"sort"
	"strings"
	"time"

	leadsservice "dealerhub_backend/internal/leads/service"
	leadstransport "dealerhub_backend/internal/leads/transport"

	"dealerhub_backend/internal/brands"
	"dealerhub_backend/internal/events"
	"dealerhub_backend/internal/insights/provider"
	"dealerhub_backend/internal/insights/transport"
	"dealerhub_backend/internal/leads/scoring"
	"dealerhub_backend/internal/regions"
	"dealerhub_backend/platform/apperr"
	"dealerhub_backend/platform/logger"
)

// LeadCreator feeds a converted insight into the lead intake pipeline.
// Satisfied by the leads service.
type LeadCreator interface {
	Create(ctx context.Context, actor *leadsservice.Actor, req leadstransport.CreateLeadRequest) (leadstransport.LeadResponse, error)
}

// Service provides market insight search and conversion.
type Service struct {
	searcher provider.MarketSearcher
	leads    LeadCreator
	eventBus events.Bus
	graph    *regions.Graph
	log      *logger.Logger
}

// New creates a new insights service. searcher may be nil when market
// search is not configured; Search then fails with an Unavailable error.
func New(searcher provider.MarketSearcher, leads LeadCreator, eventBus events.Bus, graph *regions.Graph, log *logger.Logger) *Service {
	return &Service{
		searcher: searcher,
		leads:    leads,
		eventBus: eventBus,
		graph:    graph,
		log:      log,
	}
}

// Search runs a market search and scores each returned insight.
// Insights are transient: nothing is persisted here.
func (s *Service) Search(ctx context.Context, req transport.SearchInsightsRequest) (transport.SearchInsightsResponse, error) {
	const op = "insights.Search"

	if s.searcher == nil {
		return transport.SearchInsightsResponse{}, apperr.Unavailable("market search is not configured").WithOp(op)
	}

	region, ok := s.graph.Canonical(req.Region)
	if !ok {
		return transport.SearchInsightsResponse{}, apperr.Validation("unknown region: " + req.Region).WithOp(op)
	}
	brand := brands.Canonical(req.Brand)

	insights, err := s.searcher.Search(ctx, req.Query, brand, region)
	if err != nil {
		return transport.SearchInsightsResponse{}, apperr.Wrap(apperr.KindUnavailable, "market search failed", err).WithOp(op)
	}

	for i := range insights {
		var contact transport.ExtractedContact
		if insights[i].ExtractedContact != nil {
			contact = *insights[i].ExtractedContact
		}
		score, factors := scoring.ScoreInsight(scoring.InsightInput{
			Sentiment: insights[i].Sentiment,
			Phone:     contact.Phone,
			Email:     contact.Email,
			Source:    insights[i].SourcePlatform,
			Summary:   insights[i].Summary,
			Topic:     insights[i].Topic,
		})
		insights[i].Score = score
		insights[i].ScoreFactors = factors
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Score > insights[j].Score
	})

	return transport.SearchInsightsResponse{
		Query:    req.Query,
		Region:   region,
		Insights: insights,
	}, nil
}

// ConvertToLead promotes an insight into a lead. The lead goes through
// the normal intake pipeline, so distribution and scoring run there.
func (s *Service) ConvertToLead(ctx context.Context, actor *leadsservice.Actor, req transport.ConvertInsightRequest) (transport.ConvertInsightResponse, error) {
	customerName := "Unknown prospect"
	var phone, email *string
	if req.Contact != nil {
		if name := strings.TrimSpace(req.Contact.Name); name != "" {
			customerName = name
		}
		if p := strings.TrimSpace(req.Contact.Phone); p != "" {
			phone = &p
		}
		if e := strings.TrimSpace(req.Contact.Email); e != "" {
			email = &e
		}
	}

	summary := strings.TrimSpace(req.Topic + ". " + req.Summary)

	lead, err := s.leads.Create(ctx, actor, leadstransport.CreateLeadRequest{
		CustomerName: customerName,
		Phone:        phone,
		Email:        email,
		Brand:        req.Brand,
		Model:        req.Model,
		Region:       req.Region,
		Source:       req.SourcePlatform,
		Sentiment:    req.Sentiment,
		Summary:      &summary,
		DateDetected: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		// the intake pipeline already returns typed errors
		return transport.ConvertInsightResponse{}, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.InsightConverted{
			BaseEvent: events.NewBaseEvent(),
			InsightID: lead.ID, // insights are transient; the lead id is the only durable handle
			LeadID:    lead.ID,
			Brand:     lead.Brand,
			Region:    lead.Region,
		})
	}

	s.log.Info("insight converted to lead", "leadId", lead.ID, "brand", lead.Brand, "region", lead.Region)

	return transport.ConvertInsightResponse{
		LeadID: lead.ID,
		Score:  lead.Score,
		Status: lead.Status,
	}, nil
}
