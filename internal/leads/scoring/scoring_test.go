package scoring

import (
	"testing"
	"time"

	"dealerhub_backend/internal/regions"
)

// Wednesday 2025-06-11 10:00 SAST.
var businessHour = time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

func TestScoreSentiment(t *testing.T) {
	tests := []struct {
		sentiment string
		hotBonus  float64
		want      float64
	}{
		{"HOT", 25, 25},
		{"hot", 25, 25},
		{"Warm", 25, 15},
		{"warm", 25, 15},
		{"Cold", 25, 5},
		{"", 25, 5},
		{"HOT", 30, 30},
	}
	for _, tt := range tests {
		if got := scoreSentiment(tt.sentiment, tt.hotBonus); got != tt.want {
			t.Errorf("scoreSentiment(%q, %v) = %v, want %v", tt.sentiment, tt.hotBonus, got, tt.want)
		}
	}
}

func TestScoreLeadContact(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		email string
		want  float64
	}{
		{"both", "+27821234567", "a@b.co.za", 40},
		{"phone only", "+27821234567", "", 30},
		{"email only", "", "a@b.co.za", 15},
		{"neither", "", "  ", 0},
	}
	for _, tt := range tests {
		if got := scoreLeadContact(tt.phone, tt.email); got != tt.want {
			t.Errorf("%s: scoreLeadContact = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestScoreInsightContactIsAdditive(t *testing.T) {
	if got := scoreInsightContact("+27821234567", "a@b.co.za"); got != 50 {
		t.Errorf("both channels = %v, want 50", got)
	}
	if got := scoreInsightContact("+27821234567", ""); got != 35 {
		t.Errorf("phone only = %v, want 35", got)
	}
	if got := scoreInsightContact("", "a@b.co.za"); got != 15 {
		t.Errorf("email only = %v, want 15", got)
	}
}

func TestScoreSource(t *testing.T) {
	tests := []struct {
		source string
		want   float64
	}{
		{"Website contact form", 20},
		{"AutoTrader listing", 15},
		{"cars.co.za", 15},
		{"Gumtree reply", 10},
		{"Facebook Marketplace", 10},
		{"4x4community thread", 10},
		{"some forum post", 8},
		{"Facebook Group", 5},
		{"Instagram DM", 5},
		{"Twitter", 5},
		{"web search", 5},
		{"carrier pigeon", 5},
		{"", 5},
	}
	for _, tt := range tests {
		if got := scoreSource(tt.source); got != tt.want {
			t.Errorf("scoreSource(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestScoreIntentTiersAreExclusive(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"high", "serious buyer, cash ready", 10},
		{"medium", "interested in a test drive", 5},
		{"both tiers earns only high", "pre-approved, wants a quote on price", 10},
		{"case insensitive", "READY TO BUY", 10},
		{"no match", "saw your billboard", 0},
	}
	for _, tt := range tests {
		if got := scoreIntent(tt.text); got != tt.want {
			t.Errorf("%s: scoreIntent(%q) = %v, want %v", tt.name, tt.text, got, tt.want)
		}
	}
}

func TestScoreRecencyBands(t *testing.T) {
	now := businessHour
	tests := []struct {
		age  time.Duration
		want float64
	}{
		{1 * time.Hour, 20},
		{11 * time.Hour, 20},
		{12 * time.Hour, 15},
		{23 * time.Hour, 15},
		{24 * time.Hour, 10},
		{47 * time.Hour, 10},
		{48 * time.Hour, 5},
		{167 * time.Hour, 5},
		{168 * time.Hour, 0},
		{24 * 30 * time.Hour, 0},
	}
	for _, tt := range tests {
		if got := scoreRecency(now.Add(-tt.age), now); got != tt.want {
			t.Errorf("scoreRecency(age=%v) = %v, want %v", tt.age, got, tt.want)
		}
	}
	if got := scoreRecency(time.Time{}, now); got != 0 {
		t.Errorf("zero detected time = %v, want 0", got)
	}
}

func TestScoreBusinessHours(t *testing.T) {
	weekday10 := businessHour                                        // Wednesday 10:00
	weekday7 := time.Date(2025, 6, 11, 7, 59, 0, 0, time.UTC)        // before opening
	weekday17 := time.Date(2025, 6, 11, 17, 30, 0, 0, time.UTC)      // still within
	weekday18 := time.Date(2025, 6, 11, 18, 0, 0, 0, time.UTC)       // after hours
	saturday := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)        // weekend

	tests := []struct {
		name    string
		at      time.Time
		hasTime bool
		want    float64
	}{
		{"weekday mid-morning", weekday10, true, 5},
		{"before opening", weekday7, true, 0},
		{"five-thirty still open", weekday17, true, 5},
		{"after closing", weekday18, true, 0},
		{"saturday", saturday, true, 0},
		{"date-only detection", weekday10, false, 0},
	}
	for _, tt := range tests {
		if got := scoreBusinessHours(tt.at, tt.hasTime); got != tt.want {
			t.Errorf("%s: scoreBusinessHours = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestScoreProximity(t *testing.T) {
	graph := regions.MustGraph()

	tests := []struct {
		name         string
		leadRegion   string
		dealerRegion string
		want         float64
	}{
		{"same province", "Gauteng", "gauteng", 15},
		{"neighbouring province", "Gauteng", "Free State", 5},
		{"far province", "Gauteng", "Western Cape", 0},
		{"unassigned", "Gauteng", "", 0},
	}
	for _, tt := range tests {
		if got := scoreProximity(tt.leadRegion, tt.dealerRegion, graph); got != tt.want {
			t.Errorf("%s: scoreProximity = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestScoreLeadClampsAt100(t *testing.T) {
	graph := regions.MustGraph()
	lead := LeadInput{
		Sentiment:       "HOT",
		Phone:           "+27821234567",
		Email:           "buyer@example.co.za",
		Source:          "website",
		Summary:         "cash buyer, ready to buy today",
		Region:          "Gauteng",
		DateDetected:    businessHour.Add(-1 * time.Hour),
		DetectedHasTime: true,
	}

	// Raw sum: 25+40+20+10+20+5+15 = 135.
	score, factors := ScoreLead(lead, "Gauteng", graph, businessHour)
	if score != 100 {
		t.Fatalf("score = %d, want 100 (clamped)", score)
	}
	if factors["contact"] != 40 || factors["proximity"] != 15 {
		t.Errorf("unexpected factors: %+v", factors)
	}
}

func TestScoreLeadTypical(t *testing.T) {
	graph := regions.MustGraph()
	lead := LeadInput{
		Sentiment:       "Warm",
		Email:           "someone@example.com",
		Source:          "Gumtree",
		Summary:         "asking about availability",
		Region:          "Western Cape",
		DateDetected:    businessHour.Add(-30 * time.Hour),
		DetectedHasTime: true,
	}

	// 15 (warm) + 15 (email) + 10 (gumtree) + 5 (medium intent)
	// + 10 (under 48h) + 5 (business hours) + 0 (unassigned) = 60.
	score, _ := ScoreLead(lead, "", graph, businessHour)
	if score != 60 {
		t.Fatalf("score = %d, want 60", score)
	}
}

func TestScoreInsight(t *testing.T) {
	insight := InsightInput{
		Sentiment: "HOT",
		Phone:     "+27831234567",
		Source:    "4x4community",
		Summary:   "urgent",
		Topic:     "Hilux 2.8 GD-6",
	}

	// 30 (hot) + 35 (phone) + 10 (source) + 10 (high intent) + 5 = 90.
	score, _ := ScoreInsight(insight)
	if score != 90 {
		t.Fatalf("score = %d, want 90", score)
	}

	cold := InsightInput{Sentiment: "Cold", Source: "twitter"}
	// 5 + 0 + 5 + 0 + 5 = 15.
	score, _ = ScoreInsight(cold)
	if score != 15 {
		t.Fatalf("cold score = %d, want 15", score)
	}
}
