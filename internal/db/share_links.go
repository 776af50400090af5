package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"discloser/internal/models"
)

// shareLinkColumns is the standard column list for share link queries.
const shareLinkColumns = `id, kind, token, owner_id, label, note, show_name,
	display_name, max_views, view_count, snapshot, created_at, expires_at`

// scanShareLink scans a row into a ShareLink struct.
func scanShareLink(row pgx.Row) (*models.ShareLink, error) {
	var link models.ShareLink
	var snapshot []byte
	err := row.Scan(
		&link.ID,
		&link.Kind,
		&link.Token,
		&link.OwnerID,
		&link.Label,
		&link.Note,
		&link.ShowName,
		&link.DisplayName,
		&link.MaxViews,
		&link.ViewCount,
		&snapshot,
		&link.CreatedAt,
		&link.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(snapshot, &link.Snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &link, nil
}

// CreateShareLink inserts a new share link with its frozen snapshot. The
// caller supplies the token; a unique violation on it returns
// ErrDuplicateToken so the caller can regenerate and retry.
func (d *DB) CreateShareLink(ctx context.Context, link *models.ShareLink) error {
	snapshot, err := json.Marshal(link.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `
		INSERT INTO share_links (kind, token, owner_id, label, note, show_name, display_name, max_views, snapshot, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, view_count, created_at
	`

	err = d.Pool.QueryRow(ctx, query,
		link.Kind,
		link.Token,
		link.OwnerID,
		link.Label,
		link.Note,
		link.ShowName,
		link.DisplayName,
		link.MaxViews,
		snapshot,
		link.ExpiresAt,
	).Scan(&link.ID, &link.ViewCount, &link.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateToken
		}
		return err
	}

	return nil
}

// GetShareLinkByID retrieves a share link by its ID.
func (d *DB) GetShareLinkByID(ctx context.Context, id uuid.UUID) (*models.ShareLink, error) {
	query := `SELECT ` + shareLinkColumns + ` FROM share_links WHERE id = $1`
	return scanShareLink(d.Pool.QueryRow(ctx, query, id))
}

// GetOwnedShareLink retrieves a share link and enforces ownership, returning
// ErrNotLinkOwner when the link exists but belongs to someone else.
func (d *DB) GetOwnedShareLink(ctx context.Context, id, ownerID uuid.UUID) (*models.ShareLink, error) {
	link, err := d.GetShareLinkByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if link.OwnerID != ownerID {
		return nil, ErrNotLinkOwner
	}
	return link, nil
}

// GetShareLinkByToken retrieves a share link by token and kind. A kind
// mismatch is reported as not found, same as an unknown token.
func (d *DB) GetShareLinkByToken(ctx context.Context, token, kind string) (*models.ShareLink, error) {
	query := `SELECT ` + shareLinkColumns + ` FROM share_links WHERE token = $1 AND kind = $2`
	return scanShareLink(d.Pool.QueryRow(ctx, query, token, kind))
}

// ListShareLinksByOwner retrieves all of an owner's share links, newest first.
func (d *DB) ListShareLinksByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.ShareLink, error) {
	query := `
		SELECT ` + shareLinkColumns + `
		FROM share_links
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := d.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.ShareLink
	for rows.Next() {
		var link models.ShareLink
		var snapshot []byte
		if err := rows.Scan(
			&link.ID,
			&link.Kind,
			&link.Token,
			&link.OwnerID,
			&link.Label,
			&link.Note,
			&link.ShowName,
			&link.DisplayName,
			&link.MaxViews,
			&link.ViewCount,
			&snapshot,
			&link.CreatedAt,
			&link.ExpiresAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(snapshot, &link.Snapshot); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot: %w", err)
		}
		links = append(links, link)
	}

	return links, rows.Err()
}

// DeleteShareLink permanently removes an owner's share link. The ownership
// predicate is part of the statement so a non-owner can never delete; the
// caller distinguishes not-found from forbidden via GetShareLinkByID.
func (d *DB) DeleteShareLink(ctx context.Context, id, ownerID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM share_links WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}
	return nil
}

// consumeShareLinkView atomically records one view. The conditional UPDATE is
// the only place view_count changes: the expiry and cap checks are inside the
// statement, so two concurrent resolutions of a maxViews=1 link can never
// both succeed. Returns the new count, or ErrLinkNotFound when the increment
// did not apply.
func (d *DB) consumeShareLinkView(ctx context.Context, id uuid.UUID, now time.Time) (int, error) {
	query := `
		UPDATE share_links
		SET view_count = view_count + 1
		WHERE id = $1
			AND expires_at > $2
			AND (max_views IS NULL OR view_count < max_views)
		RETURNING view_count
	`
	var count int
	err := d.Pool.QueryRow(ctx, query, id, now).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrLinkNotFound
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ResolveShareLinkByToken is the anonymous read path. It looks up the link,
// classifies it, consumes exactly one view when active, and returns the link
// with its frozen snapshot and updated count. Inactive links never increment.
// Unknown and deleted tokens are indistinguishable (both ErrLinkNotFound).
func (d *DB) ResolveShareLinkByToken(ctx context.Context, token, kind string) (*models.ShareLink, error) {
	link, err := d.GetShareLinkByToken(ctx, token, kind)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch link.StatusAt(now) {
	case models.LinkTimeExpired:
		return nil, ErrLinkExpired
	case models.LinkViewsExhausted:
		return nil, ErrViewLimitReached
	}

	count, err := d.consumeShareLinkView(ctx, link.ID, now)
	if err != nil {
		if errors.Is(err, ErrLinkNotFound) {
			// Lost a race (or the link was deleted between read and update).
			// Re-derive the precise reason from the fields we already have.
			if link.StatusAt(time.Now()) == models.LinkTimeExpired {
				return nil, ErrLinkExpired
			}
			return nil, ErrViewLimitReached
		}
		return nil, err
	}

	link.ViewCount = count
	return link, nil
}

// DeleteExpiredShareLinks removes links whose expiry is older than the cutoff.
// Storage hygiene only; expired links are already unresolvable.
func (d *DB) DeleteExpiredShareLinks(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := d.Pool.Exec(ctx, `DELETE FROM share_links WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// CountShareLinksByKind returns stored link counts per kind, for metrics.
func (d *DB) CountShareLinksByKind(ctx context.Context) (map[string]int64, error) {
	rows, err := d.Pool.Query(ctx, `SELECT kind, COUNT(*) FROM share_links GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var kind string
		var count int64
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		counts[kind] = count
	}
	return counts, rows.Err()
}
