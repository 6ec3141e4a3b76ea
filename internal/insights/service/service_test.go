package service

import (
	"context"
	"testing"

	leadsservice "dealerhub_backend/internal/leads/service"
	leadstransport "dealerhub_backend/internal/leads/transport"

	"dealerhub_backend/internal/insights/transport"
	"dealerhub_backend/internal/regions"
	"dealerhub_backend/platform/apperr"
	"dealerhub_backend/platform/logger"

	"github.com/google/uuid"
)

type stubSearcher struct {
	insights []transport.MarketInsight
	query    string
	brand    string
	region   string
}

func (s *stubSearcher) Search(_ context.Context, query, brand, region string) ([]transport.MarketInsight, error) {
	s.query, s.brand, s.region = query, brand, region
	return s.insights, nil
}

type stubLeadCreator struct {
	req  leadstransport.CreateLeadRequest
	resp leadstransport.LeadResponse
}

func (s *stubLeadCreator) Create(_ context.Context, _ *leadsservice.Actor, req leadstransport.CreateLeadRequest) (leadstransport.LeadResponse, error) {
	s.req = req
	return s.resp, nil
}

func newTestService(searcher *stubSearcher, creator *stubLeadCreator) *Service {
	svc := New(nil, creator, nil, regions.MustGraph(), logger.New("development"))
	if searcher != nil {
		svc.searcher = searcher
	}
	return svc
}

func TestSearchScoresAndSortsInsights(t *testing.T) {
	searcher := &stubSearcher{insights: []transport.MarketInsight{
		{Topic: "Polo wanted", Summary: "thinking about it someday", Sentiment: "Cold", SourcePlatform: "twitter"},
		{Topic: "Golf GTI", Summary: "cash buyer, urgent", Sentiment: "HOT", SourcePlatform: "4x4community",
			ExtractedContact: &transport.ExtractedContact{Phone: "+27821234567"}},
	}}
	svc := newTestService(searcher, nil)

	resp, err := svc.Search(context.Background(), transport.SearchInsightsRequest{
		Query:  "buying intent",
		Brand:  "vw",
		Region: "gauteng",
	})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if searcher.brand != "volkswagen" {
		t.Errorf("brand not canonicalized before search: %q", searcher.brand)
	}
	if searcher.region != "Gauteng" {
		t.Errorf("region not canonicalized before search: %q", searcher.region)
	}
	if resp.Region != "Gauteng" {
		t.Errorf("response region = %q, want Gauteng", resp.Region)
	}

	if len(resp.Insights) != 2 {
		t.Fatalf("expected 2 insights, got %d", len(resp.Insights))
	}
	// HOT + phone insight must outrank the cold one and come first.
	if resp.Insights[0].Topic != "Golf GTI" {
		t.Fatalf("expected highest-scoring insight first, got %q", resp.Insights[0].Topic)
	}
	if resp.Insights[0].Score <= resp.Insights[1].Score {
		t.Fatalf("scores not descending: %d then %d", resp.Insights[0].Score, resp.Insights[1].Score)
	}
	if len(resp.Insights[0].ScoreFactors) == 0 {
		t.Fatal("expected a factor breakdown on scored insights")
	}
}

func TestSearchRejectsUnknownRegion(t *testing.T) {
	svc := newTestService(&stubSearcher{}, nil)

	_, err := svc.Search(context.Background(), transport.SearchInsightsRequest{
		Query:  "anything",
		Brand:  "toyota",
		Region: "Atlantis",
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected a validation error for an unknown region, got %v", err)
	}
}

func TestSearchUnavailableWithoutProvider(t *testing.T) {
	svc := newTestService(nil, nil)

	_, err := svc.Search(context.Background(), transport.SearchInsightsRequest{
		Query:  "anything",
		Brand:  "toyota",
		Region: "Gauteng",
	})
	if apperr.GetKind(err) != apperr.KindUnavailable {
		t.Fatalf("expected an unavailable error without a provider, got %v", err)
	}
}

func TestConvertToLeadMapsContactAndSummary(t *testing.T) {
	creator := &stubLeadCreator{resp: leadstransport.LeadResponse{
		ID:     uuid.New(),
		Brand:  "toyota",
		Region: "Gauteng",
		Score:  75,
		Status: "NEW",
	}}
	svc := newTestService(nil, creator)

	resp, err := svc.ConvertToLead(context.Background(), nil, transport.ConvertInsightRequest{
		Topic:          "Hilux buyer",
		Summary:        "Ready to buy this month",
		Sentiment:      "HOT",
		SourcePlatform: "4x4community forum",
		Contact:        &transport.ExtractedContact{Name: "Thabo M", Phone: "+27821234567"},
		Brand:          "toyota",
		Region:         "Gauteng",
	})
	if err != nil {
		t.Fatalf("ConvertToLead returned error: %v", err)
	}

	if creator.req.CustomerName != "Thabo M" {
		t.Errorf("customer name = %q, want contact name", creator.req.CustomerName)
	}
	if creator.req.Phone == nil || *creator.req.Phone != "+27821234567" {
		t.Errorf("phone not carried over: %v", creator.req.Phone)
	}
	if creator.req.Summary == nil || *creator.req.Summary != "Hilux buyer. Ready to buy this month" {
		t.Errorf("summary not combined from topic+summary: %v", creator.req.Summary)
	}
	if creator.req.Source != "4x4community forum" {
		t.Errorf("source = %q, want the insight platform", creator.req.Source)
	}
	if creator.req.DateDetected == "" {
		t.Error("dateDetected must be stamped at conversion time")
	}
	if resp.Score != 75 || resp.Status != "NEW" {
		t.Errorf("response not taken from created lead: %+v", resp)
	}
}

func TestConvertToLeadWithoutContactUsesPlaceholderName(t *testing.T) {
	creator := &stubLeadCreator{resp: leadstransport.LeadResponse{ID: uuid.New(), Status: "NEW"}}
	svc := newTestService(nil, creator)

	_, err := svc.ConvertToLead(context.Background(), nil, transport.ConvertInsightRequest{
		Topic:          "Ranger chatter",
		Summary:        "Someone asking about trade-in values",
		SourcePlatform: "facebook group",
		Brand:          "ford",
		Region:         "Western Cape",
	})
	if err != nil {
		t.Fatalf("ConvertToLead returned error: %v", err)
	}
	if creator.req.CustomerName != "Unknown prospect" {
		t.Errorf("customer name = %q, want placeholder", creator.req.CustomerName)
	}
	if creator.req.Phone != nil || creator.req.Email != nil {
		t.Error("expected no contact details without an extracted contact")
	}
}
