// Package scoring computes lead quality scores in the 0-100 range.
//
// A score is the sum of independent signal functions (sentiment,
// contactability, source quality, purchase intent, recency, region
// proximity), each contributing a bounded number of points. The signal
// tables live in an embedded data file so sales operations can tune
// them without touching the engine.
package scoring

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"dealerhub_backend/internal/regions"

	"gopkg.in/yaml.v3"
)

// Version identifies the scoring model. Stored next to each score so
// old leads can be recognized and rescored after table changes.
const Version = "v2"

//go:embed keywords.yaml
var keywordsYAML []byte

type sourceEntry struct {
	Keywords []string `yaml:"keywords"`
	Score    float64  `yaml:"score"`
}

type intentTier struct {
	Score    float64  `yaml:"score"`
	Keywords []string `yaml:"keywords"`
}

type keywordTables struct {
	Sources       []sourceEntry `yaml:"sources"`
	SourceDefault float64       `yaml:"sourceDefault"`
	Intent        struct {
		High   intentTier `yaml:"high"`
		Medium intentTier `yaml:"medium"`
	} `yaml:"intent"`
}

var tables = mustLoadTables()

func mustLoadTables() keywordTables {
	var t keywordTables
	if err := yaml.Unmarshal(keywordsYAML, &t); err != nil {
		panic(fmt.Sprintf("scoring: parse keyword tables: %v", err))
	}
	return t
}

// LeadInput carries the lead fields the scorer reads.
type LeadInput struct {
	Sentiment string
	Phone     string
	Email     string
	Source    string
	Summary   string
	Region    string
	// DateDetected is when the lead was first observed at its source.
	DateDetected time.Time
	// DetectedHasTime is false when the source only gave a calendar
	// date; the business-hours signal then stays silent rather than
	// trusting midnight.
	DetectedHasTime bool
}

// InsightInput carries the market insight fields the scorer reads.
// Insights are scraped signals, not captured leads, so contact details
// are rarer and weighted differently.
type InsightInput struct {
	Sentiment string
	Phone     string
	Email     string
	Source    string
	Summary   string
	Topic     string
}

// ScoreLead scores a captured lead. dealerRegion is the region of the
// dealer the lead was (or would be) assigned to; pass empty when the
// lead is unassigned. The factor map records each signal's
// contribution.
func ScoreLead(lead LeadInput, dealerRegion string, graph *regions.Graph, now time.Time) (int, map[string]float64) {
	factors := make(map[string]float64)
	score := 0.0

	score += addFactor(factors, "sentiment", scoreSentiment(lead.Sentiment, 25))
	score += addFactor(factors, "contact", scoreLeadContact(lead.Phone, lead.Email))
	score += addFactor(factors, "source", scoreSource(lead.Source))
	score += addFactor(factors, "intent", scoreIntent(lead.Summary))
	score += addFactor(factors, "recency", scoreRecency(lead.DateDetected, now))
	score += addFactor(factors, "businessHours", scoreBusinessHours(lead.DateDetected, lead.DetectedHasTime))
	score += addFactor(factors, "proximity", scoreProximity(lead.Region, dealerRegion, graph))

	return clampScore(score), factors
}

// ScoreInsight scores a scraped market insight.
func ScoreInsight(insight InsightInput) (int, map[string]float64) {
	factors := make(map[string]float64)
	score := 0.0

	score += addFactor(factors, "sentiment", scoreSentiment(insight.Sentiment, 30))
	score += addFactor(factors, "contact", scoreInsightContact(insight.Phone, insight.Email))
	score += addFactor(factors, "source", scoreSource(insight.Source))
	score += addFactor(factors, "intent", scoreIntent(insight.Summary+" "+insight.Topic))
	score += addFactor(factors, "baseline", 5)

	return clampScore(score), factors
}

func addFactor(factors map[string]float64, key string, value float64) float64 {
	if value != 0 {
		factors[key] = value
	}
	return value
}

// scoreSentiment rewards hot leads. The hot bonus differs between
// leads (25) and insights (30); warm and cold are shared.
func scoreSentiment(sentiment string, hotBonus float64) float64 {
	switch {
	case strings.EqualFold(sentiment, "HOT"):
		return hotBonus
	case strings.EqualFold(sentiment, "Warm"):
		return 15
	default:
		return 5
	}
}

// scoreLeadContact values a phone number over an email address, with a
// bonus when both are present.
func scoreLeadContact(phone, email string) float64 {
	hasPhone := strings.TrimSpace(phone) != ""
	hasEmail := strings.TrimSpace(email) != ""

	switch {
	case hasPhone && hasEmail:
		return 30 + 10
	case hasPhone:
		return 30
	case hasEmail:
		return 15
	default:
		return 0
	}
}

// scoreInsightContact weighs channels independently: a scraped post
// that exposes a phone number is already exceptional.
func scoreInsightContact(phone, email string) float64 {
	score := 0.0
	if strings.TrimSpace(phone) != "" {
		score += 35
	}
	if strings.TrimSpace(email) != "" {
		score += 15
	}
	return score
}

func scoreSource(source string) float64 {
	normalized := strings.ToLower(strings.TrimSpace(source))
	if normalized == "" {
		return tables.SourceDefault
	}
	for _, entry := range tables.Sources {
		if containsAny(normalized, entry.Keywords) {
			return entry.Score
		}
	}
	return tables.SourceDefault
}

// scoreIntent scans free text for purchase-intent phrases. High-intent
// phrases win outright; the tiers never stack.
func scoreIntent(text string) float64 {
	normalized := strings.ToLower(text)
	if containsAny(normalized, tables.Intent.High.Keywords) {
		return tables.Intent.High.Score
	}
	if containsAny(normalized, tables.Intent.Medium.Keywords) {
		return tables.Intent.Medium.Score
	}
	return 0
}

func scoreRecency(detected time.Time, now time.Time) float64 {
	if detected.IsZero() {
		return 0
	}
	age := now.Sub(detected)
	switch {
	case age < 12*time.Hour:
		return 20
	case age < 24*time.Hour:
		return 15
	case age < 48*time.Hour:
		return 10
	case age < 168*time.Hour:
		return 5
	default:
		return 0
	}
}

// scoreBusinessHours rewards leads that came in while showrooms are
// open (Mon-Fri, 08:00-17:59).
func scoreBusinessHours(detected time.Time, hasTime bool) float64 {
	if !hasTime || detected.IsZero() {
		return 0
	}
	weekday := detected.Weekday()
	if weekday == time.Saturday || weekday == time.Sunday {
		return 0
	}
	hour := detected.Hour()
	if hour >= 8 && hour <= 17 {
		return 5
	}
	return 0
}

// scoreProximity rewards leads close to their assigned dealer: full
// points in the same province, a smaller bonus one province over.
func scoreProximity(leadRegion, dealerRegion string, graph *regions.Graph) float64 {
	if leadRegion == "" || dealerRegion == "" || graph == nil {
		return 0
	}
	if strings.EqualFold(leadRegion, dealerRegion) {
		return 15
	}
	if graph.IsAdjacent(leadRegion, dealerRegion) {
		return 5
	}
	return 0
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

func clampScore(value float64) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return int(value)
}
