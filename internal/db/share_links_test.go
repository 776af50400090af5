package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"discloser/internal/models"
)

func newMockDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

const testToken = "0123456789abcdefghijklmnopqrstuvwxyzABCDEF_"

var shareLinkCols = []string{
	"id", "kind", "token", "owner_id", "label", "note", "show_name",
	"display_name", "max_views", "view_count", "snapshot", "created_at", "expires_at",
}

// shareLinkRow builds a stored row for the standard column list.
func shareLinkRow(id, owner uuid.UUID, kind string, maxViews *int, viewCount int, expiresAt time.Time) *pgxmock.Rows {
	snapshot := []byte(`[{"name":"Chlamydia","status":"negative","result":"Not detected","tested_at":"2026-02-10T00:00:00Z","verified":true,"chronic":false}]`)
	return pgxmock.NewRows(shareLinkCols).AddRow(
		id, kind, testToken, owner, "clinic visit", "", true,
		strPtr("river"), maxViews, viewCount, snapshot,
		time.Now().Add(-time.Hour), expiresAt,
	)
}

func TestCreateShareLink(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	ctx := context.Background()
	ownerID := uuid.New()
	linkID := uuid.New()
	createdAt := time.Now()

	link := &models.ShareLink{
		Kind:        models.KindResult,
		Token:       testToken,
		OwnerID:     ownerID,
		Label:       "clinic visit",
		ShowName:    true,
		DisplayName: strPtr("river"),
		MaxViews:    intPtr(1),
		Snapshot: []models.DisclosureEntry{
			{Name: "Chlamydia", Status: "negative", Result: "Not detected"},
		},
		ExpiresAt: createdAt.Add(24 * time.Hour),
	}

	mock.ExpectQuery(`INSERT INTO share_links`).
		WithArgs(
			models.KindResult, testToken, ownerID, "clinic visit", "",
			true, strPtr("river"), intPtr(1), pgxmock.AnyArg(), link.ExpiresAt,
		).
		WillReturnRows(pgxmock.NewRows([]string{"id", "view_count", "created_at"}).
			AddRow(linkID, 0, createdAt))

	err := db.CreateShareLink(ctx, link)
	require.NoError(t, err)
	require.Equal(t, linkID, link.ID)
	require.Equal(t, 0, link.ViewCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateShareLink_DuplicateToken(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO share_links`).
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "share_links_token_key"})

	link := &models.ShareLink{
		Kind:      models.KindStatus,
		Token:     testToken,
		OwnerID:   uuid.New(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	err := db.CreateShareLink(context.Background(), link)
	require.ErrorIs(t, err, ErrDuplicateToken)
}

func TestGetShareLinkByToken_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM share_links WHERE token = \$1 AND kind = \$2`).
		WithArgs(testToken, models.KindResult).
		WillReturnError(pgx.ErrNoRows)

	_, err := db.GetShareLinkByToken(context.Background(), testToken, models.KindResult)
	require.ErrorIs(t, err, ErrLinkNotFound)
}

func TestGetShareLinkByToken_KindMismatchIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	// A result token presented on the status path matches no row.
	mock.ExpectQuery(`SELECT (.+) FROM share_links WHERE token = \$1 AND kind = \$2`).
		WithArgs(testToken, models.KindStatus).
		WillReturnError(pgx.ErrNoRows)

	_, err := db.GetShareLinkByToken(context.Background(), testToken, models.KindStatus)
	require.ErrorIs(t, err, ErrLinkNotFound)
}

func TestResolveShareLinkByToken_Active(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	linkID := uuid.New()
	ownerID := uuid.New()
	expires := time.Now().Add(24 * time.Hour)

	mock.ExpectQuery(`SELECT (.+) FROM share_links WHERE token = \$1 AND kind = \$2`).
		WithArgs(testToken, models.KindResult).
		WillReturnRows(shareLinkRow(linkID, ownerID, models.KindResult, intPtr(2), 0, expires))
	mock.ExpectQuery(`UPDATE share_links\s+SET view_count = view_count \+ 1`).
		WithArgs(linkID, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"view_count"}).AddRow(1))

	link, err := db.ResolveShareLinkByToken(context.Background(), testToken, models.KindResult)
	require.NoError(t, err)
	require.Equal(t, 1, link.ViewCount)
	require.Len(t, link.Snapshot, 1)
	require.Equal(t, "Chlamydia", link.Snapshot[0].Name)
	require.Equal(t, "Not detected", link.Snapshot[0].Result)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveShareLinkByToken_TimeExpired(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	linkID := uuid.New()
	expires := time.Now().Add(-time.Minute)

	mock.ExpectQuery(`SELECT (.+) FROM share_links WHERE token = \$1 AND kind = \$2`).
		WithArgs(testToken, models.KindResult).
		WillReturnRows(shareLinkRow(linkID, uuid.New(), models.KindResult, nil, 0, expires))

	_, err := db.ResolveShareLinkByToken(context.Background(), testToken, models.KindResult)
	require.ErrorIs(t, err, ErrLinkExpired)
	// No UPDATE was expected: a failed resolution never increments.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveShareLinkByToken_ViewsExhausted(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	linkID := uuid.New()
	expires := time.Now().Add(time.Hour)

	mock.ExpectQuery(`SELECT (.+) FROM share_links WHERE token = \$1 AND kind = \$2`).
		WithArgs(testToken, models.KindStatus).
		WillReturnRows(shareLinkRow(linkID, uuid.New(), models.KindStatus, intPtr(3), 3, expires))

	_, err := db.ResolveShareLinkByToken(context.Background(), testToken, models.KindStatus)
	require.ErrorIs(t, err, ErrViewLimitReached)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveShareLinkByToken_TimeExpiryWinsOverViews(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	linkID := uuid.New()
	// Both past expiry and over the cap: time expiry must win.
	expires := time.Now().Add(-time.Hour)

	mock.ExpectQuery(`SELECT (.+) FROM share_links WHERE token = \$1 AND kind = \$2`).
		WithArgs(testToken, models.KindResult).
		WillReturnRows(shareLinkRow(linkID, uuid.New(), models.KindResult, intPtr(1), 5, expires))

	_, err := db.ResolveShareLinkByToken(context.Background(), testToken, models.KindResult)
	require.ErrorIs(t, err, ErrLinkExpired)
}

func TestResolveShareLinkByToken_LostRace(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	linkID := uuid.New()
	expires := time.Now().Add(time.Hour)

	// Classifier sees the last view still available, but the conditional
	// UPDATE applies nothing because a concurrent resolution got there first.
	mock.ExpectQuery(`SELECT (.+) FROM share_links WHERE token = \$1 AND kind = \$2`).
		WithArgs(testToken, models.KindResult).
		WillReturnRows(shareLinkRow(linkID, uuid.New(), models.KindResult, intPtr(1), 0, expires))
	mock.ExpectQuery(`UPDATE share_links\s+SET view_count = view_count \+ 1`).
		WithArgs(linkID, pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, err := db.ResolveShareLinkByToken(context.Background(), testToken, models.KindResult)
	require.ErrorIs(t, err, ErrViewLimitReached)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveShareLinkByToken_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM share_links WHERE token = \$1 AND kind = \$2`).
		WithArgs(testToken, models.KindResult).
		WillReturnError(pgx.ErrNoRows)

	_, err := db.ResolveShareLinkByToken(context.Background(), testToken, models.KindResult)
	require.ErrorIs(t, err, ErrLinkNotFound)
}

func TestGetOwnedShareLink_WrongOwner(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	linkID := uuid.New()
	ownerID := uuid.New()
	stranger := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM share_links WHERE id = \$1`).
		WithArgs(linkID).
		WillReturnRows(shareLinkRow(linkID, ownerID, models.KindResult, nil, 0, time.Now().Add(time.Hour)))

	_, err := db.GetOwnedShareLink(context.Background(), linkID, stranger)
	require.ErrorIs(t, err, ErrNotLinkOwner)
}

func TestDeleteShareLink(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	linkID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectExec(`DELETE FROM share_links WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(linkID, ownerID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, db.DeleteShareLink(context.Background(), linkID, ownerID))
}

func TestDeleteShareLink_WrongOwner(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	linkID := uuid.New()
	otherOwner := uuid.New()

	mock.ExpectExec(`DELETE FROM share_links WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(linkID, otherOwner).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := db.DeleteShareLink(context.Background(), linkID, otherOwner)
	require.ErrorIs(t, err, ErrLinkNotFound)
}

func TestDeleteExpiredShareLinks(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	cutoff := time.Now().Add(-30 * 24 * time.Hour)

	mock.ExpectExec(`DELETE FROM share_links WHERE expires_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	n, err := db.DeleteExpiredShareLinks(context.Background(), cutoff)
	require.NoError(t, err)
	require.Equal(t, int64(4), n)
}

func TestCountShareLinksByKind(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT kind, COUNT\(\*\) FROM share_links GROUP BY kind`).
		WillReturnRows(pgxmock.NewRows([]string{"kind", "count"}).
			AddRow("result", int64(7)).
			AddRow("status", int64(2)))

	counts, err := db.CountShareLinksByKind(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(7), counts["result"])
	require.Equal(t, int64(2), counts["status"])
}
