package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dealerhub_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dealerNotFoundMsg = "dealer not found"

// Repository provides database operations for dealers.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new dealers repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Dealer struct {
	ID                   uuid.UUID
	Name                 string
	Brand                string
	Region               string
	Active               bool
	BillingPlan          string
	MaxLeadsCapacity     *int
	LeadsAssigned        int
	CostPerLeadCents     int64
	CurrentUnbilledCents int64
	TotalSpentCents      int64
	ContactName          string
	ContactEmail         string
	ContactPhone         string
	LogoFileKey          *string
	LogoFileName         *string
	LogoContentType      *string
	LogoSizeBytes        *int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type DealerUpdate struct {
	ID               uuid.UUID
	Name             *string
	Brand            *string
	Region           *string
	Active           *bool
	BillingPlan      *string
	MaxLeadsCapacity *int
	CostPerLeadCents *int64
	ContactName      *string
	ContactEmail     *string
	ContactPhone     *string
}

type DealerLogo struct {
	FileKey     string
	FileName    string
	ContentType string
	SizeBytes   int64
}

type ListParams struct {
	Brand      string
	Region     string
	ActiveOnly bool
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

type ListResult struct {
	Items      []Dealer
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const dealerColumns = `id, name, brand, region, active, billing_plan,
		max_leads_capacity, leads_assigned, cost_per_lead_cents,
		current_unbilled_cents, total_spent_cents,
		contact_name, contact_email, contact_phone,
		logo_file_key, logo_file_name, logo_content_type, logo_size_bytes,
		created_at, updated_at`

func scanDealer(row pgx.Row) (Dealer, error) {
	var d Dealer
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Brand,
		&d.Region,
		&d.Active,
		&d.BillingPlan,
		&d.MaxLeadsCapacity,
		&d.LeadsAssigned,
		&d.CostPerLeadCents,
		&d.CurrentUnbilledCents,
		&d.TotalSpentCents,
		&d.ContactName,
		&d.ContactEmail,
		&d.ContactPhone,
		&d.LogoFileKey,
		&d.LogoFileName,
		&d.LogoContentType,
		&d.LogoSizeBytes,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

func (r *Repository) Create(ctx context.Context, dealer Dealer) (Dealer, error) {
	query := `
		INSERT INTO dealers (
			id, name, brand, region, active, billing_plan,
			max_leads_capacity, cost_per_lead_cents,
			contact_name, contact_email, contact_phone,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8,
			$9, $10, $11,
			$12, $13
		)
	`

	_, err := r.pool.Exec(ctx, query,
		dealer.ID,
		dealer.Name,
		dealer.Brand,
		dealer.Region,
		dealer.Active,
		dealer.BillingPlan,
		dealer.MaxLeadsCapacity,
		dealer.CostPerLeadCents,
		dealer.ContactName,
		dealer.ContactEmail,
		dealer.ContactPhone,
		dealer.CreatedAt,
		dealer.UpdatedAt,
	)
	if err != nil {
		return Dealer{}, fmt.Errorf("create dealer: %w", err)
	}

	return dealer, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Dealer, error) {
	query := `SELECT ` + dealerColumns + ` FROM dealers WHERE id = $1`

	dealer, err := scanDealer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Dealer{}, apperr.NotFound(dealerNotFoundMsg)
		}
		return Dealer{}, fmt.Errorf("get dealer: %w", err)
	}

	return dealer, nil
}

// ListByBrand returns every dealer matching the canonical brand,
// regardless of region. Used by the distribution engine, which does its
// own region and availability filtering in memory.
func (r *Repository) ListByBrand(ctx context.Context, brand string) ([]Dealer, error) {
	query := `SELECT ` + dealerColumns + ` FROM dealers WHERE lower(brand) = lower($1)`

	rows, err := r.pool.Query(ctx, query, brand)
	if err != nil {
		return nil, fmt.Errorf("list dealers by brand: %w", err)
	}
	defer rows.Close()

	dealers := make([]Dealer, 0)
	for rows.Next() {
		d, err := scanDealer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dealer: %w", err)
		}
		dealers = append(dealers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dealers: %w", err)
	}
	return dealers, nil
}

func (r *Repository) Update(ctx context.Context, update DealerUpdate) (Dealer, error) {
	query := `
		UPDATE dealers
		SET
			name = COALESCE($2, name),
			brand = COALESCE($3, brand),
			region = COALESCE($4, region),
			active = COALESCE($5, active),
			billing_plan = COALESCE($6, billing_plan),
			max_leads_capacity = COALESCE($7, max_leads_capacity),
			cost_per_lead_cents = COALESCE($8, cost_per_lead_cents),
			contact_name = COALESCE($9, contact_name),
			contact_email = COALESCE($10, contact_email),
			contact_phone = COALESCE($11, contact_phone),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + dealerColumns

	dealer, err := scanDealer(r.pool.QueryRow(ctx, query,
		update.ID,
		update.Name,
		update.Brand,
		update.Region,
		update.Active,
		update.BillingPlan,
		update.MaxLeadsCapacity,
		update.CostPerLeadCents,
		update.ContactName,
		update.ContactEmail,
		update.ContactPhone,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Dealer{}, apperr.NotFound(dealerNotFoundMsg)
		}
		return Dealer{}, fmt.Errorf("update dealer: %w", err)
	}

	return dealer, nil
}

func (r *Repository) List(ctx context.Context, params ListParams) (ListResult, error) {
	searchParam := optionalSearch(params.Search)
	brandParam := optionalExact(params.Brand)
	regionParam := optionalExact(params.Region)

	sortBy, err := resolveSortBy(params.SortBy)
	if err != nil {
		return ListResult{}, err
	}
	orderBy, err := resolveSortOrder(params.SortOrder)
	if err != nil {
		return ListResult{}, err
	}

	baseQuery := `
		FROM dealers
		WHERE ($1::text IS NULL OR lower(brand) = lower($1))
			AND ($2::text IS NULL OR lower(region) = lower($2))
			AND (NOT $3 OR active)
			AND ($4::text IS NULL OR name ILIKE $4 OR contact_name ILIKE $4 OR contact_email ILIKE $4)
	`
	args := []interface{}{brandParam, regionParam, params.ActiveOnly, searchParam}

	var total int
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("count dealers: %w", err)
	}

	page := params.Page
	pageSize := params.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize
	pageTotal := 0
	if pageSize > 0 {
		pageTotal = (total + pageSize - 1) / pageSize
	}

	selectQuery := `
		SELECT ` + dealerColumns + `
		` + baseQuery + `
		ORDER BY
			CASE WHEN $5 = 'name' AND $6 = 'asc' THEN name END ASC,
			CASE WHEN $5 = 'name' AND $6 = 'desc' THEN name END DESC,
			CASE WHEN $5 = 'leadsAssigned' AND $6 = 'asc' THEN leads_assigned END ASC,
			CASE WHEN $5 = 'leadsAssigned' AND $6 = 'desc' THEN leads_assigned END DESC,
			CASE WHEN $5 = 'createdAt' AND $6 = 'asc' THEN created_at END ASC,
			CASE WHEN $5 = 'createdAt' AND $6 = 'desc' THEN created_at END DESC,
			name ASC
		LIMIT $7 OFFSET $8
	`

	args = append(args, sortBy, orderBy, pageSize, offset)
	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return ListResult{}, fmt.Errorf("list dealers: %w", err)
	}
	defer rows.Close()

	items := make([]Dealer, 0)
	for rows.Next() {
		d, err := scanDealer(rows)
		if err != nil {
			return ListResult{}, fmt.Errorf("scan dealer: %w", err)
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, fmt.Errorf("iterate dealers: %w", err)
	}

	return ListResult{Items: items, Total: total, Page: page, PageSize: pageSize, TotalPages: pageTotal}, nil
}

// ApplyAssignment records that a lead was assigned to the dealer: the
// assignment counter and the unbilled balance move together in a single
// statement so a crash between them cannot skew billing.
func (r *Repository) ApplyAssignment(ctx context.Context, dealerID uuid.UUID) error {
	query := `
		UPDATE dealers
		SET leads_assigned = leads_assigned + 1,
			current_unbilled_cents = current_unbilled_cents + cost_per_lead_cents,
			updated_at = now()
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, dealerID)
	if err != nil {
		return fmt.Errorf("apply assignment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(dealerNotFoundMsg)
	}
	return nil
}

// ReleaseAssignment reverses ApplyAssignment when a lead is taken away
// from a dealer. Both counters clamp at zero so repair jobs cannot
// drive them negative.
func (r *Repository) ReleaseAssignment(ctx context.Context, dealerID uuid.UUID) error {
	query := `
		UPDATE dealers
		SET leads_assigned = GREATEST(leads_assigned - 1, 0),
			current_unbilled_cents = GREATEST(current_unbilled_cents - cost_per_lead_cents, 0),
			updated_at = now()
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, dealerID)
	if err != nil {
		return fmt.Errorf("release assignment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(dealerNotFoundMsg)
	}
	return nil
}

// SettleUnbilled moves the current unbilled balance into total spend,
// e.g. at the end of a billing cycle. Returns the amount settled.
func (r *Repository) SettleUnbilled(ctx context.Context, dealerID uuid.UUID) (int64, error) {
	query := `
		UPDATE dealers
		SET total_spent_cents = total_spent_cents + current_unbilled_cents,
			current_unbilled_cents = 0,
			updated_at = now()
		WHERE id = $1
		RETURNING total_spent_cents
	`
	var totalSpent int64
	err := r.pool.QueryRow(ctx, query, dealerID).Scan(&totalSpent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.NotFound(dealerNotFoundMsg)
		}
		return 0, fmt.Errorf("settle unbilled: %w", err)
	}
	return totalSpent, nil
}

func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE dealers SET active = false, updated_at = now() WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate dealer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(dealerNotFoundMsg)
	}
	return nil
}

func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM dealers WHERE id = $1)`
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check dealer exists: %w", err)
	}
	return exists, nil
}

func (r *Repository) UpdateLogo(ctx context.Context, id uuid.UUID, logo DealerLogo) error {
	query := `
		UPDATE dealers
		SET logo_file_key = $2, logo_file_name = $3, logo_content_type = $4, logo_size_bytes = $5,
			updated_at = now()
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, id, logo.FileKey, logo.FileName, logo.ContentType, logo.SizeBytes)
	if err != nil {
		return fmt.Errorf("update dealer logo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(dealerNotFoundMsg)
	}
	return nil
}

func (r *Repository) ClearLogo(ctx context.Context, id uuid.UUID) (*string, error) {
	query := `
		UPDATE dealers
		SET logo_file_key = NULL, logo_file_name = NULL, logo_content_type = NULL, logo_size_bytes = NULL,
			updated_at = now()
		WHERE id = $1
		RETURNING (SELECT logo_file_key FROM dealers WHERE id = $1)
	`
	var oldKey *string
	err := r.pool.QueryRow(ctx, query, id).Scan(&oldKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(dealerNotFoundMsg)
		}
		return nil, fmt.Errorf("clear dealer logo: %w", err)
	}
	return oldKey, nil
}

func optionalSearch(search string) *string {
	if search == "" {
		return nil
	}
	pattern := "%" + search + "%"
	return &pattern
}

func optionalExact(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func resolveSortBy(sortBy string) (string, error) {
	switch sortBy {
	case "":
		return "name", nil
	case "name", "leadsAssigned", "createdAt":
		return sortBy, nil
	default:
		return "", apperr.BadRequest(fmt.Sprintf("invalid sortBy: %s", sortBy))
	}
}

func resolveSortOrder(order string) (string, error) {
	switch order {
	case "":
		return "asc", nil
	case "asc", "desc":
		return order, nil
	default:
		return "", apperr.BadRequest(fmt.Sprintf("invalid sortOrder: %s", order))
	}
}
