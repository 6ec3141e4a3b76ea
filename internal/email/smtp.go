package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"

	"dealerhub_backend/platform/config"
)

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendLeadAssignedEmail(ctx context.Context, toEmail string, data LeadAssignedData) error {
	content, err := renderEmailTemplate("lead_assigned.html", leadAssignedEmailData{
		baseEmailData: baseEmailData{
			Title:    "New lead assigned",
			Heading:  "New lead assigned",
			CTALabel: "Open lead",
			CTAURL:   data.LeadURL,
		},
		DealerName:     data.DealerName,
		CustomerName:   data.CustomerName,
		VehicleModel:   data.VehicleModel,
		Region:         data.Region,
		AssignmentType: data.AssignmentType,
		Score:          data.Score,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectLeadAssignedFmt, data.CustomerName), content)
}

func (s *SMTPSender) SendFollowUpReminderEmail(ctx context.Context, toEmail string, data FollowUpReminderData) error {
	content, err := renderEmailTemplate("follow_up_reminder.html", followUpReminderEmailData{
		baseEmailData: baseEmailData{
			Title:    "Follow-up reminder",
			Heading:  "Follow-up reminder",
			CTALabel: "Open lead",
			CTAURL:   data.LeadURL,
		},
		DealerName:   data.DealerName,
		CustomerName: data.CustomerName,
		VehicleModel: data.VehicleModel,
		FollowUpAt:   data.FollowUpAt,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectFollowUpReminderFmt, data.CustomerName), content)
}

func (s *SMTPSender) SendUnassignedLeadAlertEmail(ctx context.Context, toEmail string, data UnassignedLeadAlertData) error {
	content, err := renderEmailTemplate("unassigned_lead_alert.html", unassignedLeadAlertEmailData{
		baseEmailData: baseEmailData{
			Title:    "Unassigned lead alert",
			Heading:  "Unassigned lead alert",
			CTALabel: "Review pool",
			CTAURL:   data.LeadURL,
		},
		CustomerName: data.CustomerName,
		VehicleModel: data.VehicleModel,
		Brand:        data.Brand,
		Region:       data.Region,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectUnassignedLeadAlert, content)
}

func (s *SMTPSender) SendLeadReassignedEmail(ctx context.Context, toEmail string, data LeadReassignedData) error {
	content, err := renderEmailTemplate("lead_reassigned.html", leadReassignedEmailData{
		baseEmailData: baseEmailData{
			Title:    "Lead transferred",
			Heading:  "Lead transferred",
			CTALabel: "Open lead",
			CTAURL:   data.LeadURL,
		},
		DealerName:   data.DealerName,
		CustomerName: data.CustomerName,
		VehicleModel: data.VehicleModel,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectLeadReassignedFmt, data.CustomerName), content)
}

func (s *SMTPSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return s.send(ctx, toEmail, subject, htmlContent)
}
