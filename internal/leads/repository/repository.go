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

const leadNotFoundMsg = "lead not found"

// Repository provides database operations for leads.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID               uuid.UUID
	CustomerName     string
	Phone            *string
	Email            *string
	Brand            string
	Model            *string
	Region           string
	Source           string
	Sentiment        string
	Summary          *string
	Status           string
	Score            int
	ScoreVersion     string
	AssignedDealerID *uuid.UUID
	AssignmentType   *string
	AssignedAt       *time.Time
	PublicToken      string
	FollowUpAt       *time.Time
	DateDetected     time.Time
	DetectedHasTime  bool
	CreatedBy        *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type ListParams struct {
	DealerID   *uuid.UUID
	Status     string
	Brand      string
	Region     string
	Unassigned bool
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

type ListResult struct {
	Items      []Lead
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

const leadColumns = `id, customer_name, phone, email, brand, model, region, source,
		sentiment, summary, status, score, score_version,
		assigned_dealer_id, assignment_type, assigned_at,
		public_token, follow_up_at, date_detected, detected_has_time,
		created_by, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID,
		&l.CustomerName,
		&l.Phone,
		&l.Email,
		&l.Brand,
		&l.Model,
		&l.Region,
		&l.Source,
		&l.Sentiment,
		&l.Summary,
		&l.Status,
		&l.Score,
		&l.ScoreVersion,
		&l.AssignedDealerID,
		&l.AssignmentType,
		&l.AssignedAt,
		&l.PublicToken,
		&l.FollowUpAt,
		&l.DateDetected,
		&l.DetectedHasTime,
		&l.CreatedBy,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	return l, err
}

func (r *Repository) Create(ctx context.Context, lead Lead) (Lead, error) {
	query := `
		INSERT INTO leads (
			id, customer_name, phone, email, brand, model, region, source,
			sentiment, summary, status, score, score_version,
			assigned_dealer_id, assignment_type, assigned_at,
			public_token, date_detected, detected_has_time,
			created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13,
			$14, $15, $16,
			$17, $18, $19,
			$20, $21, $22
		)
	`

	_, err := r.pool.Exec(ctx, query,
		lead.ID,
		lead.CustomerName,
		lead.Phone,
		lead.Email,
		lead.Brand,
		lead.Model,
		lead.Region,
		lead.Source,
		lead.Sentiment,
		lead.Summary,
		lead.Status,
		lead.Score,
		lead.ScoreVersion,
		lead.AssignedDealerID,
		lead.AssignmentType,
		lead.AssignedAt,
		lead.PublicToken,
		lead.DateDetected,
		lead.DetectedHasTime,
		lead.CreatedBy,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}

	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMsg)
		}
		return Lead{}, fmt.Errorf("get lead: %w", err)
	}

	return lead, nil
}

func (r *Repository) GetByPublicToken(ctx context.Context, token string) (Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE public_token = $1`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMsg)
		}
		return Lead{}, fmt.Errorf("get lead by token: %w", err)
	}

	return lead, nil
}

func (r *Repository) List(ctx context.Context, params ListParams) (ListResult, error) {
	searchParam := optionalSearch(params.Search)
	statusParam := optionalExact(params.Status)
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
		FROM leads
		WHERE ($1::uuid IS NULL OR assigned_dealer_id = $1)
			AND ($2::text IS NULL OR status = $2)
			AND ($3::text IS NULL OR lower(brand) = lower($3))
			AND ($4::text IS NULL OR lower(region) = lower($4))
			AND (NOT $5 OR assigned_dealer_id IS NULL)
			AND ($6::text IS NULL OR customer_name ILIKE $6 OR phone ILIKE $6 OR email ILIKE $6 OR model ILIKE $6)
	`
	args := []interface{}{params.DealerID, statusParam, brandParam, regionParam, params.Unassigned, searchParam}

	var total int
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("count leads: %w", err)
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
		SELECT ` + leadColumns + `
		` + baseQuery + `
		ORDER BY
			CASE WHEN $7 = 'score' AND $8 = 'asc' THEN score END ASC,
			CASE WHEN $7 = 'score' AND $8 = 'desc' THEN score END DESC,
			CASE WHEN $7 = 'createdAt' AND $8 = 'asc' THEN created_at END ASC,
			CASE WHEN $7 = 'createdAt' AND $8 = 'desc' THEN created_at END DESC,
			CASE WHEN $7 = 'dateDetected' AND $8 = 'asc' THEN date_detected END ASC,
			CASE WHEN $7 = 'dateDetected' AND $8 = 'desc' THEN date_detected END DESC,
			created_at DESC
		LIMIT $9 OFFSET $10
	`

	args = append(args, sortBy, orderBy, pageSize, offset)
	rows, err := r.pool.Query(ctx, selectQuery, args...)
	if err != nil {
		return ListResult{}, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	items := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return ListResult{}, fmt.Errorf("scan lead: %w", err)
		}
		items = append(items, lead)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, fmt.Errorf("iterate leads: %w", err)
	}

	return ListResult{Items: items, Total: total, Page: page, PageSize: pageSize, TotalPages: pageTotal}, nil
}

// UpdateDetails persists the editable contact and context fields.
func (r *Repository) UpdateDetails(ctx context.Context, lead Lead) (Lead, error) {
	query := `
		UPDATE leads
		SET customer_name = $2, phone = $3, email = $4, model = $5,
			sentiment = $6, summary = $7, updated_at = now()
		WHERE id = $1
		RETURNING ` + leadColumns

	updated, err := scanLead(r.pool.QueryRow(ctx, query,
		lead.ID,
		lead.CustomerName,
		lead.Phone,
		lead.Email,
		lead.Model,
		lead.Sentiment,
		lead.Summary,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMsg)
		}
		return Lead{}, fmt.Errorf("update lead details: %w", err)
	}
	return updated, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Lead, error) {
	query := `
		UPDATE leads
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + leadColumns

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMsg)
		}
		return Lead{}, fmt.Errorf("update lead status: %w", err)
	}
	return lead, nil
}

// SetAssignment records the distribution outcome on the lead row.
func (r *Repository) SetAssignment(ctx context.Context, id uuid.UUID, dealerID uuid.UUID, assignmentType string, assignedAt time.Time) (Lead, error) {
	query := `
		UPDATE leads
		SET assigned_dealer_id = $2, assignment_type = $3, assigned_at = $4, updated_at = now()
		WHERE id = $1
		RETURNING ` + leadColumns

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id, dealerID, assignmentType, assignedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMsg)
		}
		return Lead{}, fmt.Errorf("set lead assignment: %w", err)
	}
	return lead, nil
}

// ClearAssignment returns the lead to the unassigned pool.
func (r *Repository) ClearAssignment(ctx context.Context, id uuid.UUID) (Lead, error) {
	query := `
		UPDATE leads
		SET assigned_dealer_id = NULL, assignment_type = NULL, assigned_at = NULL, updated_at = now()
		WHERE id = $1
		RETURNING ` + leadColumns

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMsg)
		}
		return Lead{}, fmt.Errorf("clear lead assignment: %w", err)
	}
	return lead, nil
}

func (r *Repository) UpdateScore(ctx context.Context, id uuid.UUID, score int, version string) error {
	query := `UPDATE leads SET score = $2, score_version = $3, updated_at = now() WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id, score, version)
	if err != nil {
		return fmt.Errorf("update lead score: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMsg)
	}
	return nil
}

func (r *Repository) SetFollowUp(ctx context.Context, id uuid.UUID, followUpAt *time.Time) error {
	query := `UPDATE leads SET follow_up_at = $2, updated_at = now() WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id, followUpAt)
	if err != nil {
		return fmt.Errorf("set lead follow-up: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMsg)
	}
	return nil
}

// ListForRescore streams lead IDs whose score predates the given model
// version, in batches.
func (r *Repository) ListForRescore(ctx context.Context, version string, afterID uuid.UUID, limit int) ([]Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads
		WHERE score_version <> $1 AND id > $2
		ORDER BY id
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, version, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list leads for rescore: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0, limit)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
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
		return "createdAt", nil
	case "score", "createdAt", "dateDetected":
		return sortBy, nil
	default:
		return "", apperr.BadRequest(fmt.Sprintf("invalid sortBy: %s", sortBy))
	}
}

func resolveSortOrder(order string) (string, error) {
	switch order {
	case "":
		return "desc", nil
	case "asc", "desc":
		return order, nil
	default:
		return "", apperr.BadRequest(fmt.Sprintf("invalid sortOrder: %s", order))
	}
}
