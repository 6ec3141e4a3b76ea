package notification

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"dealerhub_backend/internal/email"
	"dealerhub_backend/internal/events"
	"dealerhub_backend/platform/logger"
)

type testNotificationConfig struct {
	adminEmail string
}

func (testNotificationConfig) GetEmailEnabled() bool           { return true }
func (testNotificationConfig) GetSMTPHost() string             { return "" }
func (testNotificationConfig) GetSMTPPort() int                { return 587 }
func (testNotificationConfig) GetSMTPUsername() string         { return "" }
func (testNotificationConfig) GetSMTPPassword() string         { return "" }
func (testNotificationConfig) GetEmailFromName() string        { return "DealerHub" }
func (testNotificationConfig) GetEmailFromAddress() string     { return "noreply@example.com" }
func (c testNotificationConfig) GetAdminAlertEmail() string    { return c.adminEmail }
func (testNotificationConfig) GetAppBaseURL() string           { return "https://app.example.com/" }

type testSender struct {
	assignedCalls   int
	reassignedCalls int
	alertCalls      int
	reminderCalls   int
}

func (s *testSender) SendLeadAssignedEmail(context.Context, string, email.LeadAssignedData) error {
	s.assignedCalls++
	return nil
}

func (s *testSender) SendFollowUpReminderEmail(context.Context, string, email.FollowUpReminderData) error {
	s.reminderCalls++
	return nil
}

func (s *testSender) SendUnassignedLeadAlertEmail(context.Context, string, email.UnassignedLeadAlertData) error {
	s.alertCalls++
	return nil
}

func (s *testSender) SendLeadReassignedEmail(context.Context, string, email.LeadReassignedData) error {
	s.reassignedCalls++
	return nil
}

func (s *testSender) SendCustomEmail(context.Context, string, string, string) error { return nil }

func TestHandleLeadAssignedSkipsWhenDealerUnresolvable(t *testing.T) {
	sender := &testSender{}
	m := New(nil, sender, testNotificationConfig{}, logger.New("development"))

	err := m.Handle(context.Background(), events.LeadAssigned{
		LeadID:         uuid.New(),
		DealerID:       uuid.New(),
		AssignmentType: "DIRECT",
		Score:          80,
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if sender.assignedCalls != 0 {
		t.Fatalf("expected no email without a resolvable dealer, got %d calls", sender.assignedCalls)
	}
}

func TestHandleLeadUnassignedSkipsWithoutAdminEmail(t *testing.T) {
	sender := &testSender{}
	m := New(nil, sender, testNotificationConfig{adminEmail: "  "}, logger.New("development"))

	err := m.Handle(context.Background(), events.LeadUnassigned{
		LeadID: uuid.New(),
		Brand:  "toyota",
		Region: "Gauteng",
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if sender.alertCalls != 0 {
		t.Fatalf("expected no admin alert without a configured address, got %d calls", sender.alertCalls)
	}
}

func TestHandleFollowUpDueSkipsWithoutPool(t *testing.T) {
	sender := &testSender{}
	m := New(nil, sender, testNotificationConfig{}, logger.New("development"))

	err := m.Handle(context.Background(), events.FollowUpDue{
		LeadID:   uuid.New(),
		DealerID: uuid.New(),
		DueAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	if sender.reminderCalls != 0 {
		t.Fatalf("expected no reminder without a resolvable dealer, got %d calls", sender.reminderCalls)
	}
}

func TestLeadURLTrimsTrailingSlash(t *testing.T) {
	m := New(nil, &testSender{}, testNotificationConfig{}, logger.New("development"))

	id := uuid.New()
	got := m.leadURL(id)
	want := "https://app.example.com/leads/" + id.String()
	if got != want {
		t.Fatalf("leadURL = %q, want %q", got, want)
	}
	if strings.Contains(got, "//leads") {
		t.Fatalf("leadURL contains a double slash: %q", got)
	}
}
