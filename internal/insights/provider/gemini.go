// Package provider implements the external market search call behind
// the insights module. The Gemini provider uses Google Search grounding
// to find public buying-intent signals for a brand in a region.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"dealerhub_backend/internal/insights/transport"
	"dealerhub_backend/platform/config"
	"dealerhub_backend/platform/logger"
)

// MarketSearcher supplies market insights from a natural-language
// search call. Implementations own retries and provider errors.
type MarketSearcher interface {
	Search(ctx context.Context, query, brand, region string) ([]transport.MarketInsight, error)
}

// GeminiSearcher calls the Gemini API with the GoogleSearch grounding
// tool and parses the structured insight list from the response.
type GeminiSearcher struct {
	apiKey string
	model  string
	log    *logger.Logger
}

// NewGeminiSearcher creates a Gemini-backed market searcher.
func NewGeminiSearcher(cfg config.SearchConfig, log *logger.Logger) *GeminiSearcher {
	return &GeminiSearcher{
		apiKey: cfg.GetGeminiAPIKey(),
		model:  cfg.GetGeminiModel(),
		log:    log,
	}
}

// rawInsight mirrors the JSON shape the prompt asks the model for.
type rawInsight struct {
	Topic          string `json:"topic"`
	Summary        string `json:"summary"`
	Sentiment      string `json:"sentiment"`
	SourcePlatform string `json:"sourcePlatform"`
	ContactName    string `json:"contactName"`
	ContactPhone   string `json:"contactPhone"`
	ContactEmail   string `json:"contactEmail"`
}

func (g *GeminiSearcher) Search(ctx context.Context, query, brand, region string) ([]transport.MarketInsight, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	prompt := buildSearchPrompt(query, brand, region)

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	raw, err := parseInsightJSON(resp.Text())
	if err != nil {
		g.log.Warn("market search returned unparseable output", "query", query, "error", err)
		return nil, fmt.Errorf("parse market search output: %w", err)
	}

	sources := extractGroundingSources(resp)

	insights := make([]transport.MarketInsight, 0, len(raw))
	for _, r := range raw {
		insight := transport.MarketInsight{
			Topic:          strings.TrimSpace(r.Topic),
			Summary:        strings.TrimSpace(r.Summary),
			Sentiment:      strings.TrimSpace(r.Sentiment),
			SourcePlatform: strings.TrimSpace(r.SourcePlatform),
			Sources:        sources,
		}
		if insight.Topic == "" && insight.Summary == "" {
			continue
		}
		if contact := extractContact(r); contact != nil {
			insight.ExtractedContact = contact
		}
		insights = append(insights, insight)
	}

	g.log.Info("market search completed", "query", query, "region", region, "insights", len(insights))
	return insights, nil
}

func buildSearchPrompt(query, brand, region string) string {
	var b strings.Builder
	b.WriteString("You are a market researcher for car dealerships in South Africa. ")
	b.WriteString("Search the web for recent public posts showing buying intent for ")
	b.WriteString(brand)
	b.WriteString(" vehicles in the ")
	b.WriteString(region)
	b.WriteString(" province. Focus on: ")
	b.WriteString(query)
	b.WriteString("\n\nReturn ONLY a JSON array. Each element must have these string fields: ")
	b.WriteString(`"topic", "summary", "sentiment" (HOT, Warm or Cold), "sourcePlatform", `)
	b.WriteString(`"contactName", "contactPhone", "contactEmail" (empty string when unknown). `)
	b.WriteString("No markdown, no commentary. Return [] if nothing relevant is found.")
	return b.String()
}

// parseInsightJSON tolerates markdown fences and prose around the JSON
// array, which grounded responses often include.
func parseInsightJSON(text string) ([]rawInsight, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var raw []rawInsight
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal insights: %w", err)
	}
	return raw, nil
}

func extractContact(r rawInsight) *transport.ExtractedContact {
	name := strings.TrimSpace(r.ContactName)
	phone := strings.TrimSpace(r.ContactPhone)
	email := strings.TrimSpace(r.ContactEmail)
	if name == "" && phone == "" && email == "" {
		return nil
	}
	return &transport.ExtractedContact{Name: name, Phone: phone, Email: email}
}

func extractGroundingSources(resp *genai.GenerateContentResponse) []transport.InsightSource {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	var sources []transport.InsightSource
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		sources = append(sources, transport.InsightSource{
			Title: chunk.Web.Title,
			URI:   chunk.Web.URI,
		})
	}
	return sources
}
