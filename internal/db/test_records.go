package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"discloser/internal/models"
)

const testRecordColumns = `id, owner_id, name, status, result, tested_at, verified, chronic, treatment_ids, created_at, updated_at`

// CreateTestRecord inserts a new record into the owner's live history.
func (d *DB) CreateTestRecord(ctx context.Context, rec *models.TestRecord) error {
	query := `
		INSERT INTO test_records (owner_id, name, status, result, tested_at, verified, chronic, treatment_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		rec.OwnerID,
		rec.Name,
		rec.Status,
		rec.Result,
		rec.TestedAt,
		rec.Verified,
		rec.Chronic,
		rec.TreatmentIDs,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

// GetTestRecord retrieves a single record owned by ownerID.
func (d *DB) GetTestRecord(ctx context.Context, id, ownerID uuid.UUID) (*models.TestRecord, error) {
	query := `SELECT ` + testRecordColumns + ` FROM test_records WHERE id = $1 AND owner_id = $2`

	var rec models.TestRecord
	err := d.Pool.QueryRow(ctx, query, id, ownerID).Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.Name,
		&rec.Status,
		&rec.Result,
		&rec.TestedAt,
		&rec.Verified,
		&rec.Chronic,
		&rec.TreatmentIDs,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListTestRecords retrieves the owner's current aggregated state, most recent
// test first. This is the input the snapshot builder reads at creation time.
func (d *DB) ListTestRecords(ctx context.Context, ownerID uuid.UUID) ([]models.TestRecord, error) {
	query := `
		SELECT ` + testRecordColumns + `
		FROM test_records
		WHERE owner_id = $1
		ORDER BY tested_at DESC, created_at DESC
	`
	rows, err := d.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.TestRecord
	for rows.Next() {
		var rec models.TestRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.OwnerID,
			&rec.Name,
			&rec.Status,
			&rec.Result,
			&rec.TestedAt,
			&rec.Verified,
			&rec.Chronic,
			&rec.TreatmentIDs,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// DeleteTestRecord removes a record owned by ownerID. Share link snapshots
// are unaffected; they carry their own copy.
func (d *DB) DeleteTestRecord(ctx context.Context, id, ownerID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM test_records WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrRecordNotFound
	}
	return nil
}
