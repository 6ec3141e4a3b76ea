package email

import "context"

// Sender delivers transactional notification emails. Implementations render
// the shared HTML templates and hand the result to a delivery channel.
type Sender interface {
	SendLeadAssignedEmail(ctx context.Context, toEmail string, data LeadAssignedData) error
	SendFollowUpReminderEmail(ctx context.Context, toEmail string, data FollowUpReminderData) error
	SendUnassignedLeadAlertEmail(ctx context.Context, toEmail string, data UnassignedLeadAlertData) error
	SendLeadReassignedEmail(ctx context.Context, toEmail string, data LeadReassignedData) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

// LeadAssignedData carries the fields rendered into the lead-assigned email.
type LeadAssignedData struct {
	DealerName     string
	CustomerName   string
	VehicleModel   string
	Region         string
	AssignmentType string
	Score          int
	LeadURL        string
}

// FollowUpReminderData carries the fields rendered into the follow-up reminder email.
type FollowUpReminderData struct {
	DealerName   string
	CustomerName string
	VehicleModel string
	FollowUpAt   string
	LeadURL      string
}

// UnassignedLeadAlertData carries the fields rendered into the admin pool alert.
type UnassignedLeadAlertData struct {
	CustomerName string
	VehicleModel string
	Brand        string
	Region       string
	LeadURL      string
}

// LeadReassignedData carries the fields rendered into the reassignment email.
type LeadReassignedData struct {
	DealerName   string
	CustomerName string
	VehicleModel string
	LeadURL      string
}

// NoopSender discards every email. Used when SMTP delivery is not configured
// so callers never have to nil-check the sender.
type NoopSender struct{}

func (NoopSender) SendLeadAssignedEmail(ctx context.Context, toEmail string, data LeadAssignedData) error {
	return nil
}

func (NoopSender) SendFollowUpReminderEmail(ctx context.Context, toEmail string, data FollowUpReminderData) error {
	return nil
}

func (NoopSender) SendUnassignedLeadAlertEmail(ctx context.Context, toEmail string, data UnassignedLeadAlertData) error {
	return nil
}

func (NoopSender) SendLeadReassignedEmail(ctx context.Context, toEmail string, data LeadReassignedData) error {
	return nil
}

func (NoopSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return nil
}
