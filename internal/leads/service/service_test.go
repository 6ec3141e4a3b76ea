package service

import (
	"context"
	"testing"
	"time"

	"dealerhub_backend/internal/leads/repository"
	"dealerhub_backend/internal/regions"
	"dealerhub_backend/platform/logger"

	"github.com/google/uuid"
)

// stubDirectory serves a single dealer for every lookup.
type stubDirectory struct {
	dealer DealerInfo
}

func (d *stubDirectory) ListByBrand(ctx context.Context, brand string) ([]DealerInfo, error) {
	return []DealerInfo{d.dealer}, nil
}

func (d *stubDirectory) Get(ctx context.Context, id uuid.UUID) (DealerInfo, error) {
	return d.dealer, nil
}

func (d *stubDirectory) ApplyAssignment(ctx context.Context, dealerID uuid.UUID) error {
	return nil
}

func (d *stubDirectory) ReleaseAssignment(ctx context.Context, dealerID uuid.UUID) error {
	return nil
}

func TestCurrentScoreFollowsContactEdits(t *testing.T) {
	dealerID := uuid.New()
	dir := &stubDirectory{dealer: DealerInfo{ID: dealerID, Region: "Gauteng"}}
	svc := New(nil, dir, nil, regions.MustGraph(), logger.New("development"), "https://app.example.com")

	now := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	lead := repository.Lead{
		ID:               uuid.New(),
		Region:           "Gauteng",
		Sentiment:        "Warm",
		Source:           "cars.co.za",
		DateDetected:     now.Add(-2 * time.Hour),
		DetectedHasTime:  true,
		AssignedDealerID: &dealerID,
	}

	before, _, err := svc.currentScore(context.Background(), lead, now)
	if err != nil {
		t.Fatalf("currentScore() error = %v", err)
	}

	// Editing in a phone number adds the contact signal, so the
	// recomputed score must move with it.
	phone := "+27821234567"
	lead.Phone = &phone
	after, factors, err := svc.currentScore(context.Background(), lead, now)
	if err != nil {
		t.Fatalf("currentScore() error = %v", err)
	}
	if after <= before {
		t.Fatalf("score after adding phone = %d, want > %d", after, before)
	}
	if factors["contact"] <= 0 {
		t.Fatalf("contact factor = %v, want > 0", factors["contact"])
	}
}

func TestCurrentScoreUnassignedLeadSkipsProximity(t *testing.T) {
	dir := &stubDirectory{dealer: DealerInfo{Region: "Gauteng"}}
	svc := New(nil, dir, nil, regions.MustGraph(), logger.New("development"), "https://app.example.com")

	lead := repository.Lead{
		ID:              uuid.New(),
		Region:          "Gauteng",
		Sentiment:       "HOT",
		DateDetected:    time.Now().Add(-time.Hour),
		DetectedHasTime: true,
	}

	_, factors, err := svc.currentScore(context.Background(), lead, time.Now())
	if err != nil {
		t.Fatalf("currentScore() error = %v", err)
	}
	if factors["proximity"] != 0 {
		t.Fatalf("proximity factor = %v for unassigned lead, want 0", factors["proximity"])
	}
}

func TestParseDateDetected(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantTime bool
		wantErr  bool
	}{
		{"rfc3339", "2025-06-11T10:30:00Z", true, false},
		{"rfc3339 with offset", "2025-06-11T10:30:00+02:00", true, false},
		{"naive timestamp", "2025-06-11T10:30:00", true, false},
		{"bare date", "2025-06-11", false, false},
		{"padded", "  2025-06-11  ", false, false},
		{"garbage", "last tuesday", false, true},
		{"empty", "", false, true},
	}

	for _, tt := range tests {
		got, hasTime, err := parseDateDetected(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error, got %v", tt.name, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
			continue
		}
		if hasTime != tt.wantTime {
			t.Errorf("%s: hasTime = %v, want %v", tt.name, hasTime, tt.wantTime)
		}
	}
}

func TestParseDateDetectedBareDateIsMidnight(t *testing.T) {
	got, _, err := parseDateDetected("2025-06-11")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("parsed %v, want %v", got, want)
	}
}

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		from, to string
		ok       bool
	}{
		{StatusNew, StatusContacted, true},
		{StatusContacted, StatusQualified, true},
		{StatusQualified, StatusConverted, true},
		{StatusNew, StatusArchived, true},
		{StatusConverted, StatusArchived, true},
		{StatusNew, StatusQualified, false},   // no skipping stages
		{StatusContacted, StatusNew, false},   // no going back
		{StatusArchived, StatusNew, false},    // archive is terminal
		{StatusNew, StatusNew, false},         // no self-transition
		{StatusConverted, StatusNew, false},
	}

	for _, tt := range tests {
		err := validateTransition(tt.from, tt.to)
		if tt.ok && err != nil {
			t.Errorf("%s -> %s: unexpected error %v", tt.from, tt.to, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%s -> %s: expected error", tt.from, tt.to)
		}
	}
}

func TestNormalizeSentiment(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"HOT", "HOT"},
		{"hot", "HOT"},
		{"Warm", "Warm"},
		{"WARM", "Warm"},
		{"cold", "Cold"},
		{"", "Cold"},
		{"lukewarm", "Cold"},
	}
	for _, tt := range tests {
		if got := normalizeSentiment(tt.input); got != tt.want {
			t.Errorf("normalizeSentiment(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
