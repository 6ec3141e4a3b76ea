package email

import (
	"strings"
	"testing"
)

func TestRenderLeadAssignedTemplate(t *testing.T) {
	content, err := renderEmailTemplate("lead_assigned.html", leadAssignedEmailData{
		baseEmailData: baseEmailData{
			Title:    "New lead assigned",
			Heading:  "New lead assigned",
			CTALabel: "Open lead",
			CTAURL:   "https://app.example.com/leads/abc",
		},
		DealerName:     "Menlyn Toyota",
		CustomerName:   "Thabo M",
		VehicleModel:   "Hilux 2.8 GD-6",
		Region:         "Gauteng",
		AssignmentType: "DIRECT",
		Score:          85,
	})
	if err != nil {
		t.Fatalf("renderEmailTemplate returned error: %v", err)
	}

	for _, want := range []string{"Menlyn Toyota", "Thabo M", "Hilux 2.8 GD-6", "85/100", "https://app.example.com/leads/abc", "Open lead"} {
		if !strings.Contains(content, want) {
			t.Errorf("rendered email missing %q", want)
		}
	}
}

func TestRenderFollowUpReminderTemplate(t *testing.T) {
	content, err := renderEmailTemplate("follow_up_reminder.html", followUpReminderEmailData{
		baseEmailData: baseEmailData{
			Title:   "Follow-up reminder",
			Heading: "Follow-up reminder",
		},
		DealerName:   "Cape Town BMW",
		CustomerName: "Anita V",
		VehicleModel: "320i",
		FollowUpAt:   "Monday 2 March 2026, 09:00",
	})
	if err != nil {
		t.Fatalf("renderEmailTemplate returned error: %v", err)
	}

	if !strings.Contains(content, "Anita V") || !strings.Contains(content, "Monday 2 March 2026, 09:00") {
		t.Fatalf("rendered reminder missing expected fields:\n%s", content)
	}
	// No CTA configured, the button must not render.
	if strings.Contains(content, "<a href") {
		t.Fatalf("expected no CTA link when CTAURL is empty")
	}
}

func TestRenderEscapesHTMLInput(t *testing.T) {
	content, err := renderEmailTemplate("unassigned_lead_alert.html", unassignedLeadAlertEmailData{
		baseEmailData: baseEmailData{Title: "Alert", Heading: "Alert"},
		CustomerName:  `<script>alert("x")</script>`,
		VehicleModel:  "Ranger",
		Brand:         "ford",
		Region:        "Free State",
	})
	if err != nil {
		t.Fatalf("renderEmailTemplate returned error: %v", err)
	}
	if strings.Contains(content, "<script>") {
		t.Fatalf("customer name was not HTML-escaped")
	}
}
