package service

import (
	"context"
	"strings"
	"time"

	"dealerhub_backend/internal/adapters/storage"
	"dealerhub_backend/internal/brands"
	"dealerhub_backend/internal/dealers/repository"
	"dealerhub_backend/internal/dealers/transport"
	"dealerhub_backend/internal/events"
	"dealerhub_backend/internal/regions"
	"dealerhub_backend/platform/apperr"
	"dealerhub_backend/platform/phone"
	"dealerhub_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Service provides business logic for dealers.
type Service struct {
	repo       *repository.Repository
	eventBus   events.Bus
	graph      *regions.Graph
	storage    storage.StorageService
	logoBucket string
}

// New creates a new dealers service.
func New(repo *repository.Repository, eventBus events.Bus, graph *regions.Graph, storageSvc storage.StorageService, logoBucket string) *Service {
	return &Service{repo: repo, eventBus: eventBus, graph: graph, storage: storageSvc, logoBucket: logoBucket}
}

// Repository exposes the dealer repository for modules that need direct
// read access, such as the distribution engine.
func (s *Service) Repository() *repository.Repository {
	return s.repo
}

func (s *Service) Create(ctx context.Context, req transport.CreateDealerRequest) (transport.DealerResponse, error) {
	region, ok := s.graph.Canonical(req.Region)
	if !ok {
		return transport.DealerResponse{}, apperr.Validation("unknown region: " + req.Region)
	}

	dealer := repository.Dealer{
		ID:               uuid.New(),
		Name:             sanitize.Text(req.Name),
		Brand:            brands.Canonical(req.Brand),
		Region:           region,
		Active:           true,
		BillingPlan:      req.BillingPlan,
		MaxLeadsCapacity: req.MaxLeadsCapacity,
		CostPerLeadCents: req.CostPerLeadCents,
		ContactName:      sanitize.Text(req.ContactName),
		ContactEmail:     normalizeEmail(req.ContactEmail),
		ContactPhone:     phone.NormalizeE164(req.ContactPhone),
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	created, err := s.repo.Create(ctx, dealer)
	if err != nil {
		return transport.DealerResponse{}, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.DealerCreated{
			BaseEvent: events.NewBaseEvent(),
			DealerID:  created.ID,
			Name:      created.Name,
			Region:    created.Region,
			Plan:      created.BillingPlan,
		})
	}

	return mapDealerResponse(created), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.DealerResponse, error) {
	dealer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.DealerResponse{}, err
	}
	return mapDealerResponse(dealer), nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateDealerRequest) (transport.DealerResponse, error) {
	update := repository.DealerUpdate{
		ID:               id,
		Name:             normalizeOptionalString(req.Name, sanitize.Text),
		Active:           req.Active,
		BillingPlan:      req.BillingPlan,
		MaxLeadsCapacity: req.MaxLeadsCapacity,
		CostPerLeadCents: req.CostPerLeadCents,
		ContactName:      normalizeOptionalString(req.ContactName, sanitize.Text),
		ContactEmail:     normalizeOptionalString(req.ContactEmail, normalizeEmail),
	}

	if req.Brand != nil {
		canonical := brands.Canonical(*req.Brand)
		update.Brand = &canonical
	}
	if req.Region != nil {
		region, ok := s.graph.Canonical(*req.Region)
		if !ok {
			return transport.DealerResponse{}, apperr.Validation("unknown region: " + *req.Region)
		}
		update.Region = &region
	}
	if req.ContactPhone != nil {
		normalized := phone.NormalizeE164(*req.ContactPhone)
		update.ContactPhone = &normalized
	}

	updated, err := s.repo.Update(ctx, update)
	if err != nil {
		return transport.DealerResponse{}, err
	}

	if req.Active != nil && !*req.Active && s.eventBus != nil {
		s.eventBus.Publish(ctx, events.DealerDeactivated{
			BaseEvent: events.NewBaseEvent(),
			DealerID:  updated.ID,
		})
	}

	return mapDealerResponse(updated), nil
}

// Deactivate takes the dealer out of the distribution pool. Dealers are
// never hard-deleted: their billing history must survive.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.DealerDeactivated{
			BaseEvent: events.NewBaseEvent(),
			DealerID:  id,
		})
	}
	return nil
}

func (s *Service) List(ctx context.Context, req transport.ListDealersRequest) (transport.ListDealersResponse, error) {
	brand := ""
	if req.Brand != "" {
		brand = brands.Canonical(req.Brand)
	}

	result, err := s.repo.List(ctx, repository.ListParams{
		Brand:      brand,
		Region:     req.Region,
		ActiveOnly: req.ActiveOnly,
		Search:     req.Search,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		return transport.ListDealersResponse{}, err
	}

	items := make([]transport.DealerResponse, 0, len(result.Items))
	for _, dealer := range result.Items {
		items = append(items, mapDealerResponse(dealer))
	}

	return transport.ListDealersResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

func (s *Service) GetBilling(ctx context.Context, id uuid.UUID) (transport.DealerBillingResponse, error) {
	dealer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.DealerBillingResponse{}, err
	}
	return transport.DealerBillingResponse{
		DealerID:             dealer.ID,
		BillingPlan:          dealer.BillingPlan,
		LeadsAssigned:        dealer.LeadsAssigned,
		CostPerLeadCents:     dealer.CostPerLeadCents,
		CurrentUnbilledCents: dealer.CurrentUnbilledCents,
		TotalSpentCents:      dealer.TotalSpentCents,
	}, nil
}

// SettleBilling closes out the dealer's unbilled balance into total
// spend, as happens at the end of an invoicing cycle.
func (s *Service) SettleBilling(ctx context.Context, id uuid.UUID) (transport.SettleBillingResponse, error) {
	dealer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.SettleBillingResponse{}, err
	}

	totalSpent, err := s.repo.SettleUnbilled(ctx, id)
	if err != nil {
		return transport.SettleBillingResponse{}, err
	}

	return transport.SettleBillingResponse{
		DealerID:        id,
		SettledCents:    dealer.CurrentUnbilledCents,
		TotalSpentCents: totalSpent,
	}, nil
}

func (s *Service) PresignLogoUpload(ctx context.Context, dealerID uuid.UUID, req transport.DealerLogoPresignRequest) (transport.DealerLogoPresignResponse, error) {
	if s.storage == nil {
		return transport.DealerLogoPresignResponse{}, apperr.Unavailable("file storage is not configured")
	}
	if err := s.ensureDealerExists(ctx, dealerID); err != nil {
		return transport.DealerLogoPresignResponse{}, err
	}
	if !storage.IsImageContentType(req.ContentType) {
		return transport.DealerLogoPresignResponse{}, apperr.Validation("logo must be an image")
	}

	presigned, err := s.storage.GenerateUploadURL(
		ctx,
		s.logoBucket,
		logoFolder(dealerID),
		req.FileName,
		req.ContentType,
		req.SizeBytes,
	)
	if err != nil {
		return transport.DealerLogoPresignResponse{}, err
	}

	return transport.DealerLogoPresignResponse{
		UploadURL: presigned.URL,
		FileKey:   presigned.FileKey,
		ExpiresAt: presigned.ExpiresAt.Unix(),
	}, nil
}

func (s *Service) SetLogo(ctx context.Context, dealerID uuid.UUID, req transport.SetDealerLogoRequest) (transport.DealerResponse, error) {
	if s.storage == nil {
		return transport.DealerResponse{}, apperr.Unavailable("file storage is not configured")
	}
	dealer, err := s.repo.GetByID(ctx, dealerID)
	if err != nil {
		return transport.DealerResponse{}, err
	}
	if !storage.IsImageContentType(req.ContentType) {
		return transport.DealerResponse{}, apperr.Validation("logo must be an image")
	}
	if err := s.storage.ValidateContentType(req.ContentType); err != nil {
		return transport.DealerResponse{}, apperr.Validation(err.Error())
	}
	if err := s.storage.ValidateFileSize(req.SizeBytes); err != nil {
		return transport.DealerResponse{}, apperr.Validation(err.Error())
	}
	if !strings.HasPrefix(req.FileKey, logoFolder(dealerID)+"/") {
		return transport.DealerResponse{}, apperr.Validation("invalid logo file key")
	}

	if dealer.LogoFileKey != nil && *dealer.LogoFileKey != req.FileKey {
		_ = s.storage.DeleteObject(ctx, s.logoBucket, *dealer.LogoFileKey)
	}

	if err := s.repo.UpdateLogo(ctx, dealerID, repository.DealerLogo{
		FileKey:     req.FileKey,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	}); err != nil {
		return transport.DealerResponse{}, err
	}

	updated, err := s.repo.GetByID(ctx, dealerID)
	if err != nil {
		return transport.DealerResponse{}, err
	}
	return mapDealerResponse(updated), nil
}

func (s *Service) GetLogoDownloadURL(ctx context.Context, dealerID uuid.UUID) (transport.DealerLogoDownloadResponse, error) {
	if s.storage == nil {
		return transport.DealerLogoDownloadResponse{}, apperr.Unavailable("file storage is not configured")
	}
	dealer, err := s.repo.GetByID(ctx, dealerID)
	if err != nil {
		return transport.DealerLogoDownloadResponse{}, err
	}
	if dealer.LogoFileKey == nil || *dealer.LogoFileKey == "" {
		return transport.DealerLogoDownloadResponse{}, apperr.NotFound("logo not found")
	}

	presigned, err := s.storage.GenerateDownloadURL(ctx, s.logoBucket, *dealer.LogoFileKey)
	if err != nil {
		return transport.DealerLogoDownloadResponse{}, err
	}

	return transport.DealerLogoDownloadResponse{
		DownloadURL: presigned.URL,
		ExpiresAt:   presigned.ExpiresAt.Unix(),
	}, nil
}

func (s *Service) DeleteLogo(ctx context.Context, dealerID uuid.UUID) error {
	dealer, err := s.repo.GetByID(ctx, dealerID)
	if err != nil {
		return err
	}
	if s.storage != nil && dealer.LogoFileKey != nil && *dealer.LogoFileKey != "" {
		_ = s.storage.DeleteObject(ctx, s.logoBucket, *dealer.LogoFileKey)
	}
	_, err = s.repo.ClearLogo(ctx, dealerID)
	return err
}

func (s *Service) ensureDealerExists(ctx context.Context, dealerID uuid.UUID) error {
	exists, err := s.repo.Exists(ctx, dealerID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("dealer not found")
	}
	return nil
}

func mapDealerResponse(dealer repository.Dealer) transport.DealerResponse {
	return transport.DealerResponse{
		ID:                   dealer.ID,
		Name:                 dealer.Name,
		Brand:                dealer.Brand,
		Region:               dealer.Region,
		Active:               dealer.Active,
		BillingPlan:          dealer.BillingPlan,
		MaxLeadsCapacity:     dealer.MaxLeadsCapacity,
		LeadsAssigned:        dealer.LeadsAssigned,
		CostPerLeadCents:     dealer.CostPerLeadCents,
		CurrentUnbilledCents: dealer.CurrentUnbilledCents,
		TotalSpentCents:      dealer.TotalSpentCents,
		ContactName:          dealer.ContactName,
		ContactEmail:         dealer.ContactEmail,
		ContactPhone:         dealer.ContactPhone,
		LogoFileKey:          dealer.LogoFileKey,
		LogoFileName:         dealer.LogoFileName,
		CreatedAt:            dealer.CreatedAt,
		UpdatedAt:            dealer.UpdatedAt,
	}
}

func logoFolder(dealerID uuid.UUID) string {
	return "dealers/" + dealerID.String()
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func normalizeOptionalString(value *string, normalize func(string) string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	normalized := normalize(trimmed)
	if normalized == "" {
		return nil
	}
	return &normalized
}
