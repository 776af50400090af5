package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"discloser/internal/models"
)

func TestUpsertUser(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("sub-123", "a@example.com", "A. Person", "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "alias", "legal_first_name", "created_at", "updated_at"}).
			AddRow(userID, "river", "Jordan", now, now))

	user := &models.User{Sub: "sub-123", Email: "a@example.com", Name: "A. Person"}
	err := db.UpsertUser(context.Background(), user)
	require.NoError(t, err)
	require.Equal(t, userID, user.ID)
	// Owner-maintained profile fields survive the OIDC upsert.
	require.Equal(t, "river", user.Alias)
	require.Equal(t, "Jordan", user.LegalFirstName)
}

func TestGetUserBySub_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE sub = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := db.GetUserBySub(context.Background(), "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUserProfile(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	userID := uuid.New()

	mock.ExpectExec(`UPDATE users\s+SET alias = \$1, legal_first_name = \$2`).
		WithArgs("river", "Jordan", userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, db.UpdateUserProfile(context.Background(), userID, "river", "Jordan"))
}

func TestUpdateUserProfile_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	userID := uuid.New()

	mock.ExpectExec(`UPDATE users\s+SET alias = \$1, legal_first_name = \$2`).
		WithArgs("", "", userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := db.UpdateUserProfile(context.Background(), userID, "", "")
	require.ErrorIs(t, err, ErrUserNotFound)
}
