package transport

import "github.com/google/uuid"

type SearchInsightsRequest struct {
	Query  string `json:"query" validate:"required,min=3,max=500"`
	Brand  string `json:"brand" validate:"required,max=100"`
	Region string `json:"region" validate:"required,max=100"`
}

// ExtractedContact holds whatever contact details the search provider
// could pull out of public posts. All fields are best-effort.
type ExtractedContact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

type InsightSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// MarketInsight is a transient buying-intent signal. It is never
// persisted; it lives between a search call and either discard or
// conversion into a lead.
type MarketInsight struct {
	Topic            string             `json:"topic"`
	Summary          string             `json:"summary"`
	Sentiment        string             `json:"sentiment"`
	SourcePlatform   string             `json:"sourcePlatform"`
	ExtractedContact *ExtractedContact  `json:"extractedContact,omitempty"`
	Sources          []InsightSource    `json:"sources,omitempty"`
	Score            int                `json:"score"`
	ScoreFactors     map[string]float64 `json:"scoreFactors,omitempty"`
}

type SearchInsightsResponse struct {
	Query    string          `json:"query"`
	Region   string          `json:"region"`
	Insights []MarketInsight `json:"insights"`
}

// ConvertInsightRequest carries an insight back from the client for
// promotion into a lead. Insights are not stored server-side, so the
// client submits the full payload.
type ConvertInsightRequest struct {
	Topic          string            `json:"topic" validate:"required,max=300"`
	Summary        string            `json:"summary" validate:"required,max=4000"`
	Sentiment      string            `json:"sentiment" validate:"omitempty,max=20"`
	SourcePlatform string            `json:"sourcePlatform" validate:"required,max=200"`
	Contact        *ExtractedContact `json:"contact,omitempty"`
	Brand          string            `json:"brand" validate:"required,max=100"`
	Model          *string           `json:"model,omitempty" validate:"omitempty,max=100"`
	Region         string            `json:"region" validate:"required,max=100"`
}

type ConvertInsightResponse struct {
	LeadID uuid.UUID `json:"leadId"`
	Score  int       `json:"score"`
	Status string    `json:"status"`
}
