// Package repository persists leads and campaign routes in the shared
// Postgres instance. The staging write path runs as a single transaction so
// the consumer-facing NOTIFY trigger only ever announces committed rows.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"takeout_backend/internal/staging/domain"
	"takeout_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNoDefaultCampaign = errors.New("no default campaign configured")
	ErrDuplicateLead     = errors.New("duplicate lead")
	ErrLeadNotFound      = errors.New("lead not found")
	ErrCampaignNotFound  = errors.New("campaign not found")
)

const (
	opResolveCampaign = "staging.repository.resolve_default_campaign"
	opLeadExists      = "staging.repository.lead_exists"
	opStageLead       = "staging.repository.stage_lead"
	opGetByID         = "staging.repository.get_by_id"
	opFindBySession   = "staging.repository.find_by_session"
	opListUndelivered = "staging.repository.list_undelivered"
	opFindCampaign    = "staging.repository.find_campaign"
	opCreateCampaign  = "staging.repository.create_campaign"

	errRepoNotConfigured = "staging repository not configured"
)

const (
	resolveDefaultCampaignQuery = `
		SELECT id, ticket_id, brand_id
		FROM campaigns
		WHERE platform = $1
		ORDER BY id
		LIMIT 1`

	leadExistsQuery = `
		SELECT EXISTS (
			SELECT 1 FROM leads WHERE platform = $1 AND platform_lead_id = $2
		)`

	insertLeadQuery = `
		INSERT INTO leads (
			campaign_id, ticket_id, brand_id, platform, platform_lead_id,
			form_data, status, captured_at, staged_at, metadata,
			is_waste, menu_item, quarters_sold, quarters_remaining
		) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now(), $8, false, $9, 0, 4)
		RETURNING id, staged_at`

	selectLeadColumns = `
		SELECT id, campaign_id, ticket_id, brand_id, platform, platform_lead_id,
			form_data, status, captured_at, staged_at, delivered_at, metadata,
			menu_item, quarters_sold, quarters_remaining
		FROM leads`

	getLeadByIDQuery = selectLeadColumns + `
		WHERE id = $1`

	findLeadBySessionQuery = selectLeadColumns + `
		WHERE platform = $1 AND metadata ->> 'session_id' = $2
		ORDER BY staged_at DESC
		LIMIT 1`

	listUndeliveredQuery = selectLeadColumns + `
		WHERE delivered_at IS NULL
		ORDER BY staged_at ASC
		LIMIT $1`

	findCampaignByPlatformQuery = `
		SELECT id, ticket_id, brand_id, platform
		FROM campaigns
		WHERE platform = $1
		ORDER BY id
		LIMIT 1`

	createCampaignQuery = `
		INSERT INTO campaigns (ticket_id, brand_id, platform)
		VALUES ($1, $2, $3)
		RETURNING id`
)

// CampaignRoute is the routing triple a staged lead inherits from the
// fallback campaign.
type CampaignRoute struct {
	CampaignID uuid.UUID
	TicketID   uuid.UUID
	BrandID    string
}

// Campaign is a full campaign row, used by the provisioning tool.
type Campaign struct {
	ID       uuid.UUID
	TicketID uuid.UUID
	BrandID  string
	Platform string
}

// CreateCampaignParams are the fields of a new campaign row.
type CreateCampaignParams struct {
	TicketID uuid.UUID
	BrandID  string
	Platform string
}

// StagedLead is what the staging transaction reports back on success.
type StagedLead struct {
	ID         uuid.UUID
	CampaignID uuid.UUID
	TicketID   uuid.UUID
	BrandID    string
	StagedAt   time.Time
}

// Lead is a stored lead row as read back for reconciliation and re-fetch.
type Lead struct {
	ID                uuid.UUID
	CampaignID        uuid.UUID
	TicketID          uuid.UUID
	BrandID           string
	Platform          string
	PlatformLeadID    string
	FormData          domain.FormData
	Status            string
	CapturedAt        time.Time
	StagedAt          time.Time
	DeliveredAt       *time.Time
	Metadata          domain.Metadata
	MenuItem          *string
	QuartersSold      int
	QuartersRemaining int
}

// rowQuerier is satisfied by both the pool and a transaction, so the resolve
// and dedup lookups can run standalone or inside the staging transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ResolveDefaultCampaign returns the routing triple of the first campaign
// registered for the fallback platform.
func (r *Repository) ResolveDefaultCampaign(ctx context.Context) (CampaignRoute, error) {
	if r == nil || r.pool == nil {
		return CampaignRoute{}, apperr.Unavailable(errRepoNotConfigured).WithOp(opResolveCampaign)
	}
	return resolveDefaultCampaign(ctx, r.pool, opResolveCampaign)
}

// LeadExists reports whether a lead with the given dedup pair is already staged.
func (r *Repository) LeadExists(ctx context.Context, platform, platformLeadID string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, apperr.Unavailable(errRepoNotConfigured).WithOp(opLeadExists)
	}
	return leadExists(ctx, r.pool, platform, platformLeadID, opLeadExists)
}

// StageLead runs the full staging write in one transaction: resolve the
// fallback campaign, check the dedup pair, insert the row. Either everything
// commits, and the insert trigger announces the new id on the new_lead
// channel, or nothing becomes visible.
func (r *Repository) StageLead(ctx context.Context, lead domain.CanonicalLead) (StagedLead, error) {
	if r == nil || r.pool == nil {
		return StagedLead{}, apperr.Unavailable(errRepoNotConfigured).WithOp(opStageLead)
	}

	formJSON, err := json.Marshal(lead.FormData)
	if err != nil {
		return StagedLead{}, apperr.Internal(fmt.Sprintf("encode form data failed: %v", err)).WithOp(opStageLead)
	}
	metaJSON, err := json.Marshal(lead.Metadata)
	if err != nil {
		return StagedLead{}, apperr.Internal(fmt.Sprintf("encode metadata failed: %v", err)).WithOp(opStageLead)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return StagedLead{}, apperr.Internal(fmt.Sprintf("begin staging transaction failed: %v", err)).WithOp(opStageLead)
	}
	defer tx.Rollback(ctx)

	route, err := resolveDefaultCampaign(ctx, tx, opStageLead)
	if err != nil {
		return StagedLead{}, err
	}

	exists, err := leadExists(ctx, tx, lead.Platform, lead.PlatformLeadID, opStageLead)
	if err != nil {
		return StagedLead{}, err
	}
	if exists {
		return StagedLead{}, ErrDuplicateLead
	}

	staged := StagedLead{
		CampaignID: route.CampaignID,
		TicketID:   route.TicketID,
		BrandID:    route.BrandID,
	}
	err = tx.QueryRow(ctx, insertLeadQuery,
		route.CampaignID, route.TicketID, route.BrandID,
		lead.Platform, lead.PlatformLeadID,
		formJSON, domain.StatusStaged, metaJSON, lead.MenuItem,
	).Scan(&staged.ID, &staged.StagedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// A concurrent attempt won the unique index between the dedup
			// check and this insert. A lost race, not a caller duplicate.
			return StagedLead{}, apperr.Internal(fmt.Sprintf("lead insert lost unique index race: %v", err)).WithOp(opStageLead)
		}
		return StagedLead{}, apperr.Internal(fmt.Sprintf("insert lead failed: %v", err)).WithOp(opStageLead)
	}

	if err := tx.Commit(ctx); err != nil {
		return StagedLead{}, apperr.Internal(fmt.Sprintf("commit staging transaction failed: %v", err)).WithOp(opStageLead)
	}

	return staged, nil
}

// GetByID fetches one lead row, the consumer-side re-fetch after a
// notification.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	if r == nil || r.pool == nil {
		return Lead{}, apperr.Unavailable(errRepoNotConfigured).WithOp(opGetByID)
	}

	lead, err := scanLead(r.pool.QueryRow(ctx, getLeadByIDQuery, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrLeadNotFound
	}
	if err != nil {
		return Lead{}, apperr.Internal(fmt.Sprintf("get lead failed: %v", err)).WithOp(opGetByID)
	}
	return lead, nil
}

// FindBySessionID returns the most recently staged takeout lead for a
// session. Callers use it to reconcile an ambiguous timeout before retrying.
func (r *Repository) FindBySessionID(ctx context.Context, sessionID string) (Lead, error) {
	if r == nil || r.pool == nil {
		return Lead{}, apperr.Unavailable(errRepoNotConfigured).WithOp(opFindBySession)
	}

	lead, err := scanLead(r.pool.QueryRow(ctx, findLeadBySessionQuery, domain.Platform, sessionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrLeadNotFound
	}
	if err != nil {
		return Lead{}, apperr.Internal(fmt.Sprintf("find lead by session failed: %v", err)).WithOp(opFindBySession)
	}
	return lead, nil
}

// ListUndelivered returns staged rows no consumer has picked up yet, oldest
// first. Consumers reconcile with this after missing notifications.
func (r *Repository) ListUndelivered(ctx context.Context, limit int) ([]Lead, error) {
	if r == nil || r.pool == nil {
		return nil, apperr.Unavailable(errRepoNotConfigured).WithOp(opListUndelivered)
	}

	rows, err := r.pool.Query(ctx, listUndeliveredQuery, limit)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list undelivered leads failed: %v", err)).WithOp(opListUndelivered)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan undelivered lead failed: %v", err)).WithOp(opListUndelivered)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate undelivered leads failed: %v", err)).WithOp(opListUndelivered)
	}
	return leads, nil
}

// FindCampaignByPlatform returns the first campaign registered for a
// platform, used by the provisioning tool for idempotent seeding.
func (r *Repository) FindCampaignByPlatform(ctx context.Context, platform string) (Campaign, error) {
	if r == nil || r.pool == nil {
		return Campaign{}, apperr.Unavailable(errRepoNotConfigured).WithOp(opFindCampaign)
	}

	var c Campaign
	err := r.pool.QueryRow(ctx, findCampaignByPlatformQuery, platform).Scan(&c.ID, &c.TicketID, &c.BrandID, &c.Platform)
	if errors.Is(err, pgx.ErrNoRows) {
		return Campaign{}, ErrCampaignNotFound
	}
	if err != nil {
		return Campaign{}, apperr.Internal(fmt.Sprintf("find campaign failed: %v", err)).WithOp(opFindCampaign)
	}
	return c, nil
}

// CreateCampaign inserts a campaign row and returns its id.
func (r *Repository) CreateCampaign(ctx context.Context, p CreateCampaignParams) (uuid.UUID, error) {
	if r == nil || r.pool == nil {
		return uuid.Nil, apperr.Unavailable(errRepoNotConfigured).WithOp(opCreateCampaign)
	}
	if p.Platform == "" || p.BrandID == "" || p.TicketID == uuid.Nil {
		return uuid.Nil, apperr.Validation("platform, brandId and ticketId are required").WithOp(opCreateCampaign)
	}

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, createCampaignQuery, p.TicketID, p.BrandID, p.Platform).Scan(&id)
	if err != nil {
		return uuid.Nil, apperr.Internal(fmt.Sprintf("create campaign failed: %v", err)).WithOp(opCreateCampaign)
	}
	return id, nil
}

func resolveDefaultCampaign(ctx context.Context, q rowQuerier, op string) (CampaignRoute, error) {
	var route CampaignRoute
	err := q.QueryRow(ctx, resolveDefaultCampaignQuery, domain.FallbackPlatform).Scan(
		&route.CampaignID, &route.TicketID, &route.BrandID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return CampaignRoute{}, ErrNoDefaultCampaign
	}
	if err != nil {
		return CampaignRoute{}, apperr.Internal(fmt.Sprintf("resolve default campaign failed: %v", err)).WithOp(op)
	}
	return route, nil
}

func leadExists(ctx context.Context, q rowQuerier, platform, platformLeadID string, op string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, leadExistsQuery, platform, platformLeadID).Scan(&exists)
	if err != nil {
		return false, apperr.Internal(fmt.Sprintf("lead existence check failed: %v", err)).WithOp(op)
	}
	return exists, nil
}

func scanLead(row pgx.Row) (Lead, error) {
	var (
		lead     Lead
		formJSON []byte
		metaJSON []byte
	)
	err := row.Scan(
		&lead.ID, &lead.CampaignID, &lead.TicketID, &lead.BrandID, &lead.Platform,
		&lead.PlatformLeadID, &formJSON, &lead.Status, &lead.CapturedAt, &lead.StagedAt,
		&lead.DeliveredAt, &metaJSON, &lead.MenuItem, &lead.QuartersSold, &lead.QuartersRemaining,
	)
	if err != nil {
		return Lead{}, err
	}

	if err := json.Unmarshal(formJSON, &lead.FormData); err != nil {
		return Lead{}, fmt.Errorf("decode form data: %w", err)
	}
	if err := json.Unmarshal(metaJSON, &lead.Metadata); err != nil {
		return Lead{}, fmt.Errorf("decode metadata: %w", err)
	}
	return lead, nil
}
