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

func TestCreateTestRecord(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	recID := uuid.New()
	ownerID := uuid.New()
	tested := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO test_records`).
		WithArgs(ownerID, "HSV-2", "managed", "Positive, suppressed", tested, false, true, []string{"valacyclovir"}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(recID, now, now))

	rec := &models.TestRecord{
		OwnerID:      ownerID,
		Name:         "HSV-2",
		Status:       "managed",
		Result:       "Positive, suppressed",
		TestedAt:     tested,
		Chronic:      true,
		TreatmentIDs: []string{"valacyclovir"},
	}
	require.NoError(t, db.CreateTestRecord(context.Background(), rec))
	require.Equal(t, recID, rec.ID)
}

func TestGetTestRecord_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	recID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM test_records WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(recID, ownerID).
		WillReturnError(pgx.ErrNoRows)

	_, err := db.GetTestRecord(context.Background(), recID, ownerID)
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeleteTestRecord_WrongOwner(t *testing.T) {
	db, mock := newMockDB(t)
	defer mock.Close()

	recID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectExec(`DELETE FROM test_records WHERE id = \$1 AND owner_id = \$2`).
		WithArgs(recID, ownerID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := db.DeleteTestRecord(context.Background(), recID, ownerID)
	require.ErrorIs(t, err, ErrRecordNotFound)
}
