// Package notification provides event handlers for sending notifications
// in response to domain events. The module subscribes to the event bus and
// inverts the dependency: domain modules never touch email providers or
// templates directly.
package notification

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"dealerhub_backend/internal/email"
	"dealerhub_backend/internal/events"
	"dealerhub_backend/platform/config"
	"dealerhub_backend/platform/logger"
)

// Module handles all notification-related event subscriptions.
type Module struct {
	pool   *pgxpool.Pool
	sender email.Sender
	cfg    config.NotificationConfig
	log    *logger.Logger

	dealerContactCache sync.Map // map[uuid.UUID]cachedDealerContact
}

type cachedDealerContact struct {
	contact   dealerContact
	expiresAt time.Time
}

type dealerContact struct {
	Name         string
	ContactEmail string
}

// New creates a new notification module.
func New(pool *pgxpool.Pool, sender email.Sender, cfg config.NotificationConfig, log *logger.Logger) *Module {
	if sender == nil {
		sender = email.NoopSender{}
	}
	return &Module{
		pool:   pool,
		sender: sender,
		cfg:    cfg,
		log:    log,
	}
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.LeadAssigned{}.EventName(), m)
	bus.Subscribe(events.LeadReassigned{}.EventName(), m)
	bus.Subscribe(events.LeadUnassigned{}.EventName(), m)
	bus.Subscribe(events.FollowUpDue{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadAssigned:
		return m.handleLeadAssigned(ctx, e)
	case events.LeadReassigned:
		return m.handleLeadReassigned(ctx, e)
	case events.LeadUnassigned:
		return m.handleLeadUnassigned(ctx, e)
	case events.FollowUpDue:
		return m.handleFollowUpDue(ctx, e)
	default:
		return nil
	}
}

func (m *Module) handleLeadAssigned(ctx context.Context, e events.LeadAssigned) error {
	contact, ok := m.resolveDealerContact(ctx, e.DealerID)
	if !ok || contact.ContactEmail == "" {
		return nil
	}
	lead := m.resolveLeadDetails(ctx, e.LeadID)
	if lead == nil {
		return nil
	}

	err := m.sender.SendLeadAssignedEmail(ctx, contact.ContactEmail, email.LeadAssignedData{
		DealerName:     contact.Name,
		CustomerName:   lead.CustomerName,
		VehicleModel:   lead.Model,
		Region:         lead.Region,
		AssignmentType: e.AssignmentType,
		Score:          e.Score,
		LeadURL:        m.leadURL(e.LeadID),
	})
	if err != nil {
		m.log.Error("send lead-assigned email", "leadId", e.LeadID, "dealerId", e.DealerID, "error", err)
		return err
	}
	return nil
}

func (m *Module) handleLeadReassigned(ctx context.Context, e events.LeadReassigned) error {
	contact, ok := m.resolveDealerContact(ctx, e.ToDealerID)
	if !ok || contact.ContactEmail == "" {
		return nil
	}
	lead := m.resolveLeadDetails(ctx, e.LeadID)
	if lead == nil {
		return nil
	}

	err := m.sender.SendLeadReassignedEmail(ctx, contact.ContactEmail, email.LeadReassignedData{
		DealerName:   contact.Name,
		CustomerName: lead.CustomerName,
		VehicleModel: lead.Model,
		LeadURL:      m.leadURL(e.LeadID),
	})
	if err != nil {
		m.log.Error("send lead-reassigned email", "leadId", e.LeadID, "dealerId", e.ToDealerID, "error", err)
		return err
	}
	return nil
}

func (m *Module) handleLeadUnassigned(ctx context.Context, e events.LeadUnassigned) error {
	adminEmail := strings.TrimSpace(m.cfg.GetAdminAlertEmail())
	if adminEmail == "" {
		return nil
	}
	lead := m.resolveLeadDetails(ctx, e.LeadID)
	if lead == nil {
		return nil
	}

	err := m.sender.SendUnassignedLeadAlertEmail(ctx, adminEmail, email.UnassignedLeadAlertData{
		CustomerName: lead.CustomerName,
		VehicleModel: lead.Model,
		Brand:        e.Brand,
		Region:       e.Region,
		LeadURL:      m.leadURL(e.LeadID),
	})
	if err != nil {
		m.log.Error("send unassigned-lead alert email", "leadId", e.LeadID, "error", err)
		return err
	}
	return nil
}

func (m *Module) handleFollowUpDue(ctx context.Context, e events.FollowUpDue) error {
	contact, ok := m.resolveDealerContact(ctx, e.DealerID)
	if !ok || contact.ContactEmail == "" {
		return nil
	}
	lead := m.resolveLeadDetails(ctx, e.LeadID)
	if lead == nil {
		return nil
	}

	err := m.sender.SendFollowUpReminderEmail(ctx, contact.ContactEmail, email.FollowUpReminderData{
		DealerName:   contact.Name,
		CustomerName: lead.CustomerName,
		VehicleModel: lead.Model,
		FollowUpAt:   e.DueAt.Format("Monday 2 January 2006, 15:04"),
		LeadURL:      m.leadURL(e.LeadID),
	})
	if err != nil {
		m.log.Error("send follow-up reminder email", "leadId", e.LeadID, "dealerId", e.DealerID, "error", err)
		return err
	}
	return nil
}

// leadDetails holds the lead fields rendered into notification emails.
type leadDetails struct {
	CustomerName string
	Model        string
	Region       string
}

func (m *Module) resolveLeadDetails(ctx context.Context, leadID uuid.UUID) *leadDetails {
	if m.pool == nil || leadID == uuid.Nil {
		return nil
	}
	var d leadDetails
	err := m.pool.QueryRow(ctx,
		`SELECT customer_name, model, region FROM leads WHERE id = $1`,
		leadID,
	).Scan(&d.CustomerName, &d.Model, &d.Region)
	if err != nil {
		m.log.Warn("resolve lead details for notification", "leadId", leadID, "error", err)
		return nil
	}
	return &d
}

func (m *Module) resolveDealerContact(ctx context.Context, dealerID uuid.UUID) (dealerContact, bool) {
	if m.pool == nil || dealerID == uuid.Nil {
		return dealerContact{}, false
	}
	if cached, ok := m.dealerContactCache.Load(dealerID); ok {
		entry := cached.(cachedDealerContact)
		if time.Now().Before(entry.expiresAt) {
			return entry.contact, true
		}
		m.dealerContactCache.Delete(dealerID)
	}

	var c dealerContact
	err := m.pool.QueryRow(ctx,
		`SELECT name, contact_email FROM dealers WHERE id = $1`,
		dealerID,
	).Scan(&c.Name, &c.ContactEmail)
	if err != nil {
		m.log.Warn("resolve dealer contact for notification", "dealerId", dealerID, "error", err)
		return dealerContact{}, false
	}
	c.ContactEmail = strings.TrimSpace(c.ContactEmail)

	m.dealerContactCache.Store(dealerID, cachedDealerContact{contact: c, expiresAt: time.Now().Add(10 * time.Minute)})
	return c, true
}

func (m *Module) leadURL(leadID uuid.UUID) string {
	return fmt.Sprintf("%s/leads/%s", strings.TrimRight(m.cfg.GetAppBaseURL(), "/"), leadID)
}
