package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/vikramkatyani/lmsBox-sub000/internal/app_errors"
	"github.com/vikramkatyani/lmsBox-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CertificatePostgres struct {
	db *pgxpool.Pool
}

func NewCertificatePostgres(db *pgxpool.Pool) *CertificatePostgres {
	return &CertificatePostgres{db: db}
}

// CreateIfAbsent is the issuance race arbiter: the unique (learner_id,
// course_id) constraint lets exactly one concurrent caller insert. Returns
// false when the record already existed.
func (r *CertificatePostgres) CreateIfAbsent(ctx context.Context, rec models.CertificateRecord) (bool, error) {
	query := `
    INSERT INTO certificates (
        id, learner_id, course_id, status, issued_at, issued_by, rendered_url
    ) VALUES ($1, $2, $3, $4, $5, $6, $7)
    ON CONFLICT (learner_id, course_id) DO NOTHING`

	tag, err := r.db.Exec(ctx, query,
		rec.CertificateID, rec.LearnerID, rec.CourseID,
		rec.Status, rec.IssuedAt, rec.IssuedBy, rec.RenderedURL,
	)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == "23505" {
			return false, nil
		}
		return false, fmt.Errorf("failed to create certificate: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CertificatePostgres) Get(ctx context.Context, learnerID, courseID uuid.UUID) (models.CertificateRecord, error) {
	var rec models.CertificateRecord
	query := `
    SELECT id, learner_id, course_id, status, issued_at, issued_by, rendered_url
      FROM certificates
     WHERE learner_id = $1 AND course_id = $2`

	err := r.db.QueryRow(ctx, query, learnerID, courseID).Scan(
		&rec.CertificateID, &rec.LearnerID, &rec.CourseID,
		&rec.Status, &rec.IssuedAt, &rec.IssuedBy, &rec.RenderedURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.CertificateRecord{}, app_errors.ErrCertificateNotIssued
		}
		return models.CertificateRecord{}, fmt.Errorf("failed to get certificate: %w", err)
	}
	return rec, nil
}

func (r *CertificatePostgres) SetRendered(ctx context.Context, certificateID uuid.UUID, renderedURL string) error {
	query := `UPDATE certificates SET status = $2, rendered_url = $3 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, certificateID, models.CertificateIssued, renderedURL); err != nil {
		return fmt.Errorf("failed to mark certificate rendered: %w", err)
	}
	return nil
}
