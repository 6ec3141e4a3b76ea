package service

import (
	"context"
	"strings"
	"time"

	"dealerhub_backend/internal/auth/roles"
	"dealerhub_backend/internal/auth/token"
	"dealerhub_backend/internal/brands"
	"dealerhub_backend/internal/events"
	"dealerhub_backend/internal/leads/distribution"
	"dealerhub_backend/internal/leads/repository"
	"dealerhub_backend/internal/leads/scoring"
	"dealerhub_backend/internal/leads/transport"
	"dealerhub_backend/internal/regions"
	"dealerhub_backend/platform/apperr"
	"dealerhub_backend/platform/logger"
	"dealerhub_backend/platform/phone"
	"dealerhub_backend/platform/sanitize"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/sync/errgroup"
)

const (
	publicTokenBytes = 24
	qrImageSize      = 256
	rescoreBatchSize = 200
)

// Actor identifies the authenticated user on whose behalf an operation
// runs. A nil actor means a trusted internal caller.
type Actor struct {
	UserID   uuid.UUID
	Role     string
	DealerID *uuid.UUID
}

// Service provides business logic for leads: capture, distribution,
// scoring, pipeline transitions and follow-ups.
type Service struct {
	repo      *repository.Repository
	dealers   DealerDirectory
	eventBus  events.Bus
	graph     *regions.Graph
	scheduler FollowUpScheduler
	log       *logger.Logger
	baseURL   string
}

// New creates a new leads service.
func New(repo *repository.Repository, dealers DealerDirectory, eventBus events.Bus, graph *regions.Graph, log *logger.Logger, baseURL string) *Service {
	return &Service{
		repo:     repo,
		dealers:  dealers,
		eventBus: eventBus,
		graph:    graph,
		log:      log,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// SetScheduler wires the follow-up scheduler. Optional; reminders are
// disabled without it.
func (s *Service) SetScheduler(scheduler FollowUpScheduler) {
	s.scheduler = scheduler
}

// Create captures a lead, routes it through distribution, scores it and
// persists the outcome.
func (s *Service) Create(ctx context.Context, actor *Actor, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	region, ok := s.graph.Canonical(req.Region)
	if !ok {
		return transport.LeadResponse{}, apperr.Validation("unknown region: " + req.Region)
	}

	detected, hasTime, err := parseDateDetected(req.DateDetected)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	brand := brands.Canonical(req.Brand)
	publicToken, err := token.GenerateRandomToken(publicTokenBytes)
	if err != nil {
		return transport.LeadResponse{}, apperr.Wrap(apperr.KindInternal, "generate public token", err)
	}

	now := time.Now()
	lead := repository.Lead{
		ID:              uuid.New(),
		CustomerName:    sanitize.Text(req.CustomerName),
		Phone:           normalizePhonePtr(req.Phone),
		Email:           normalizeEmailPtr(req.Email),
		Brand:           brand,
		Model:           sanitize.TextPtr(req.Model),
		Region:          region,
		Source:          strings.TrimSpace(req.Source),
		Sentiment:       normalizeSentiment(req.Sentiment),
		Summary:         sanitize.TextPtr(req.Summary),
		Status:          StatusNew,
		ScoreVersion:    scoring.Version,
		PublicToken:     publicToken,
		DateDetected:    detected,
		DetectedHasTime: hasTime,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if actor != nil {
		userID := actor.UserID
		lead.CreatedBy = &userID
	}

	assignment, dealerRegion, err := s.distribute(ctx, lead, actor)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if assignment != nil {
		lead.AssignedDealerID = &assignment.DealerID
		assignmentType := string(assignment.Type)
		lead.AssignmentType = &assignmentType
		assignedAt := now
		lead.AssignedAt = &assignedAt
	}

	score, factors := scoring.ScoreLead(scoringInput(lead), dealerRegion, s.graph, now)
	lead.Score = score

	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if assignment != nil {
		if err := s.dealers.ApplyAssignment(ctx, assignment.DealerID); err != nil {
			return transport.LeadResponse{}, err
		}
		s.log.Distribution(created.ID.String(), assignment.DealerID.String(), string(assignment.Type))
	} else {
		s.log.DistributionMiss(created.ID.String(), created.Brand, created.Region)
	}

	s.publishCaptureEvents(ctx, created, assignment)

	resp := mapLeadResponse(created)
	resp.ScoreFactors = factors
	return resp, nil
}

// distribute resolves the receiving dealer. It returns the assignment
// and the dealer's region for the proximity score signal.
func (s *Service) distribute(ctx context.Context, lead repository.Lead, actor *Actor) (*distribution.Assignment, string, error) {
	var distActor *distribution.Actor
	if actor != nil {
		distActor = &distribution.Actor{Role: actor.Role, DealerID: actor.DealerID}
	}

	dealers, err := s.dealers.ListByBrand(ctx, lead.Brand)
	if err != nil {
		return nil, "", err
	}

	candidates := make([]distribution.Dealer, 0, len(dealers))
	for _, d := range dealers {
		candidates = append(candidates, distribution.Dealer{
			ID:               d.ID,
			Name:             d.Name,
			Region:           d.Region,
			Active:           d.Active,
			BillingPlan:      d.BillingPlan,
			MaxLeadsCapacity: d.MaxLeadsCapacity,
			LeadsAssigned:    d.LeadsAssigned,
		})
	}

	assignment := distribution.Distribute(
		distribution.Lead{Brand: lead.Brand, Region: lead.Region},
		candidates,
		distActor,
		s.graph,
	)
	if assignment == nil {
		return nil, "", nil
	}

	dealerRegion := ""
	for _, d := range dealers {
		if d.ID == assignment.DealerID {
			dealerRegion = d.Region
			break
		}
	}
	if dealerRegion == "" {
		// Self-assigned to a dealer outside the brand's candidate set.
		dealer, err := s.dealers.Get(ctx, assignment.DealerID)
		if err != nil {
			return nil, "", err
		}
		dealerRegion = dealer.Region
	}

	return assignment, dealerRegion, nil
}

func (s *Service) publishCaptureEvents(ctx context.Context, lead repository.Lead, assignment *distribution.Assignment) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, events.LeadCaptured{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Brand:     lead.Brand,
		Region:    lead.Region,
		Source:    lead.Source,
		Score:     lead.Score,
	})
	if assignment != nil {
		s.eventBus.Publish(ctx, events.LeadAssigned{
			BaseEvent:      events.NewBaseEvent(),
			LeadID:         lead.ID,
			DealerID:       assignment.DealerID,
			AssignmentType: string(assignment.Type),
			Score:          lead.Score,
		})
	} else {
		s.eventBus.Publish(ctx, events.LeadUnassigned{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			Brand:     lead.Brand,
			Region:    lead.Region,
		})
	}
}

func (s *Service) GetByID(ctx context.Context, actor *Actor, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if err := ensureCanView(actor, lead); err != nil {
		return transport.LeadResponse{}, err
	}
	return mapLeadResponse(lead), nil
}

func (s *Service) List(ctx context.Context, actor *Actor, req transport.ListLeadsRequest) (transport.ListLeadsResponse, error) {
	params := repository.ListParams{
		DealerID:   req.DealerID,
		Status:     req.Status,
		Region:     req.Region,
		Unassigned: req.Unassigned,
		Search:     req.Search,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}
	if req.Brand != "" {
		params.Brand = brands.Canonical(req.Brand)
	}

	// Dealer-side users only ever see their own store's leads.
	if actor != nil && roles.DealerSide(actor.Role) {
		if actor.DealerID == nil {
			return transport.ListLeadsResponse{}, apperr.Forbidden("no dealership linked to this account")
		}
		params.DealerID = actor.DealerID
		params.Unassigned = false
	}

	result, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.ListLeadsResponse{}, err
	}

	items := make([]transport.LeadResponse, 0, len(result.Items))
	for _, lead := range result.Items {
		items = append(items, mapLeadResponse(lead))
	}

	return transport.ListLeadsResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

func (s *Service) Update(ctx context.Context, actor *Actor, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if err := ensureCanView(actor, lead); err != nil {
		return transport.LeadResponse{}, err
	}

	if req.CustomerName != nil {
		lead.CustomerName = sanitize.Text(*req.CustomerName)
	}
	if req.Phone != nil {
		lead.Phone = normalizePhonePtr(req.Phone)
	}
	if req.Email != nil {
		lead.Email = normalizeEmailPtr(req.Email)
	}
	if req.Model != nil {
		lead.Model = sanitize.TextPtr(req.Model)
	}
	if req.Sentiment != nil {
		lead.Sentiment = normalizeSentiment(*req.Sentiment)
	}
	if req.Summary != nil {
		lead.Summary = sanitize.TextPtr(req.Summary)
	}

	updated, err := s.repo.UpdateDetails(ctx, lead)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	// Contact details, sentiment and summary all feed the score, so the
	// stored score follows the edit.
	score, _, err := s.currentScore(ctx, updated, time.Now())
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if score != updated.Score || updated.ScoreVersion != scoring.Version {
		if err := s.repo.UpdateScore(ctx, id, score, scoring.Version); err != nil {
			return transport.LeadResponse{}, err
		}
		updated.Score = score
		updated.ScoreVersion = scoring.Version
	}

	return mapLeadResponse(updated), nil
}

// currentScore recomputes a lead's score under the current model,
// resolving the assigned dealer's region for the proximity factor.
func (s *Service) currentScore(ctx context.Context, lead repository.Lead, now time.Time) (int, map[string]float64, error) {
	dealerRegion := ""
	if lead.AssignedDealerID != nil {
		dealer, err := s.dealers.Get(ctx, *lead.AssignedDealerID)
		if err != nil {
			return 0, nil, err
		}
		dealerRegion = dealer.Region
	}
	score, factors := scoring.ScoreLead(scoringInput(lead), dealerRegion, s.graph, now)
	return score, factors, nil
}

// UpdateStatus moves a lead through the pipeline, enforcing the
// forward-only transition rules.
func (s *Service) UpdateStatus(ctx context.Context, actor *Actor, id uuid.UUID, next string) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if err := ensureCanView(actor, lead); err != nil {
		return transport.LeadResponse{}, err
	}
	if err := validateTransition(lead.Status, next); err != nil {
		return transport.LeadResponse{}, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, next)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if s.eventBus != nil {
		event := events.LeadStatusChanged{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    id,
			DealerID:  updated.AssignedDealerID,
			OldStatus: lead.Status,
			NewStatus: next,
		}
		if actor != nil {
			event.ChangedBy = actor.UserID
		}
		s.eventBus.Publish(ctx, event)
	}

	return mapLeadResponse(updated), nil
}

// Reassign moves a lead to a specific dealer, adjusting both dealers'
// ledgers. Admin only; enforced at the route level.
func (s *Service) Reassign(ctx context.Context, actor *Actor, id uuid.UUID, dealerID uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if lead.AssignedDealerID != nil && *lead.AssignedDealerID == dealerID {
		return transport.LeadResponse{}, apperr.Conflict("lead is already assigned to this dealer")
	}

	dealer, err := s.dealers.Get(ctx, dealerID)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if !dealer.Active {
		return transport.LeadResponse{}, apperr.Validation("cannot reassign to an inactive dealer")
	}

	fromDealerID := lead.AssignedDealerID
	now := time.Now()
	updated, err := s.repo.SetAssignment(ctx, id, dealerID, string(distribution.AssignmentDirect), now)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if fromDealerID != nil {
		if err := s.dealers.ReleaseAssignment(ctx, *fromDealerID); err != nil {
			return transport.LeadResponse{}, err
		}
	}
	if err := s.dealers.ApplyAssignment(ctx, dealerID); err != nil {
		return transport.LeadResponse{}, err
	}

	// Proximity changed with the dealer, so the score moves too.
	score, _ := scoring.ScoreLead(scoringInput(updated), dealer.Region, s.graph, now)
	if score != updated.Score {
		if err := s.repo.UpdateScore(ctx, id, score, scoring.Version); err != nil {
			return transport.LeadResponse{}, err
		}
		updated.Score = score
		updated.ScoreVersion = scoring.Version
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.LeadReassigned{
			BaseEvent:      events.NewBaseEvent(),
			LeadID:         id,
			FromDealerID:   fromDealerID,
			ToDealerID:     dealerID,
			AssignmentType: string(distribution.AssignmentDirect),
		})
	}

	return mapLeadResponse(updated), nil
}

// Rescore recomputes a single lead's score under the current model.
func (s *Service) Rescore(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	score, factors, err := s.currentScore(ctx, lead, time.Now())
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if err := s.repo.UpdateScore(ctx, id, score, scoring.Version); err != nil {
		return transport.LeadResponse{}, err
	}

	lead.Score = score
	lead.ScoreVersion = scoring.Version
	resp := mapLeadResponse(lead)
	resp.ScoreFactors = factors
	return resp, nil
}

// RescoreOutdated walks all leads whose score predates the current
// model version and rescores them with up to workers concurrent
// rescores per batch. Returns the number updated.
func (s *Service) RescoreOutdated(ctx context.Context, workers int) (int, error) {
	if workers < 1 {
		workers = 1
	}

	updated := 0
	afterID := uuid.Nil
	for {
		batch, err := s.repo.ListForRescore(ctx, scoring.Version, afterID, rescoreBatchSize)
		if err != nil {
			return updated, err
		}
		if len(batch) == 0 {
			return updated, nil
		}
		afterID = batch[len(batch)-1].ID

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for _, lead := range batch {
			leadID := lead.ID
			g.Go(func() error {
				_, err := s.Rescore(gctx, leadID)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return updated, err
		}
		updated += len(batch)
	}
}

// ScheduleFollowUp records a follow-up time and enqueues the reminder.
func (s *Service) ScheduleFollowUp(ctx context.Context, actor *Actor, id uuid.UUID, at time.Time) error {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := ensureCanView(actor, lead); err != nil {
		return err
	}
	if at.Before(time.Now()) {
		return apperr.Validation("follow-up time must be in the future")
	}
	if lead.Status == StatusArchived {
		return apperr.Conflict("cannot schedule a follow-up on an archived lead")
	}

	if err := s.repo.SetFollowUp(ctx, id, &at); err != nil {
		return err
	}
	if s.scheduler != nil {
		if err := s.scheduler.ScheduleFollowUp(ctx, id, at); err != nil {
			return err
		}
	}
	return nil
}

// CancelFollowUp clears a pending reminder.
func (s *Service) CancelFollowUp(ctx context.Context, actor *Actor, id uuid.UUID) error {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := ensureCanView(actor, lead); err != nil {
		return err
	}

	if err := s.repo.SetFollowUp(ctx, id, nil); err != nil {
		return err
	}
	if s.scheduler != nil {
		if err := s.scheduler.CancelFollowUp(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// HandleFollowUpDue is invoked by the scheduler worker when a reminder
// fires. It republished the fact onto the event bus for notification
// handlers.
func (s *Service) HandleFollowUpDue(ctx context.Context, leadID uuid.UUID) error {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		return err
	}
	if lead.FollowUpAt == nil || lead.AssignedDealerID == nil || lead.Status == StatusArchived {
		// Reminder was cancelled or the lead moved on; nothing to do.
		return nil
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.FollowUpDue{
			BaseEvent:    events.NewBaseEvent(),
			LeadID:       lead.ID,
			DealerID:     *lead.AssignedDealerID,
			CustomerName: lead.CustomerName,
			DueAt:        *lead.FollowUpAt,
		})
	}
	return s.repo.SetFollowUp(ctx, leadID, nil)
}

// GetPublicByToken serves the customer-facing follow-up page data.
func (s *Service) GetPublicByToken(ctx context.Context, publicToken string) (transport.PublicLeadResponse, error) {
	lead, err := s.repo.GetByPublicToken(ctx, publicToken)
	if err != nil {
		return transport.PublicLeadResponse{}, err
	}
	return transport.PublicLeadResponse{
		CustomerName: lead.CustomerName,
		Brand:        lead.Brand,
		Model:        lead.Model,
		Status:       lead.Status,
		FollowUpAt:   lead.FollowUpAt,
	}, nil
}

// FollowUpQR renders a QR code PNG pointing at the lead's public
// follow-up page, for printing on handover documents.
func (s *Service) FollowUpQR(ctx context.Context, actor *Actor, id uuid.UUID) ([]byte, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureCanView(actor, lead); err != nil {
		return nil, err
	}

	url := s.baseURL + "/follow-up/" + lead.PublicToken
	png, err := qrcode.Encode(url, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "render follow-up QR", err)
	}
	return png, nil
}

// ensureCanView hides other dealers' leads from dealer-side users.
// Admins see everything.
func ensureCanView(actor *Actor, lead repository.Lead) error {
	if actor == nil || !roles.DealerSide(actor.Role) {
		return nil
	}
	if actor.DealerID == nil {
		return apperr.Forbidden("no dealership linked to this account")
	}
	if lead.AssignedDealerID == nil || *lead.AssignedDealerID != *actor.DealerID {
		return apperr.NotFound("lead not found")
	}
	return nil
}

func scoringInput(lead repository.Lead) scoring.LeadInput {
	input := scoring.LeadInput{
		Sentiment:       lead.Sentiment,
		Source:          lead.Source,
		Region:          lead.Region,
		DateDetected:    lead.DateDetected,
		DetectedHasTime: lead.DetectedHasTime,
	}
	if lead.Phone != nil {
		input.Phone = *lead.Phone
	}
	if lead.Email != nil {
		input.Email = *lead.Email
	}
	if lead.Summary != nil {
		input.Summary = *lead.Summary
	}
	return input
}

// parseDateDetected accepts RFC 3339 timestamps and bare dates. The
// second return reports whether a time of day was present.
func parseDateDetected(value string) (time.Time, bool, error) {
	trimmed := strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", trimmed); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse("2006-01-02", trimmed); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, apperr.Validation("dateDetected must be an ISO 8601 date or timestamp")
}

func normalizeSentiment(value string) string {
	switch {
	case strings.EqualFold(value, "HOT"):
		return "HOT"
	case strings.EqualFold(value, "WARM"):
		return "Warm"
	default:
		return "Cold"
	}
}

func normalizePhonePtr(value *string) *string {
	if value == nil {
		return nil
	}
	normalized := phone.NormalizeE164(*value)
	if normalized == "" {
		return nil
	}
	return &normalized
}

func normalizeEmailPtr(value *string) *string {
	if value == nil {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*value))
	if normalized == "" {
		return nil
	}
	return &normalized
}

func mapLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:               lead.ID,
		CustomerName:     lead.CustomerName,
		Phone:            lead.Phone,
		Email:            lead.Email,
		Brand:            lead.Brand,
		Model:            lead.Model,
		Region:           lead.Region,
		Source:           lead.Source,
		Sentiment:        lead.Sentiment,
		Summary:          lead.Summary,
		Status:           lead.Status,
		Score:            lead.Score,
		ScoreVersion:     lead.ScoreVersion,
		AssignedDealerID: lead.AssignedDealerID,
		AssignmentType:   lead.AssignmentType,
		AssignedAt:       lead.AssignedAt,
		FollowUpAt:       lead.FollowUpAt,
		DateDetected:     lead.DateDetected,
		CreatedAt:        lead.CreatedAt,
		UpdatedAt:        lead.UpdatedAt,
	}
}
