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

type ProgressPostgres struct {
	db *pgxpool.Pool
}

func NewProgressPostgres(db *pgxpool.Pool) *ProgressPostgres {
	return &ProgressPostgres{db: db}
}

const progressColumns = `
    learner_id, lesson_id, course_id, kind, progress_percent, state,
    started_at, completed_at, last_accessed_at, total_time_spent_seconds,
    position_marker, runtime_state, runtime_location, runtime_status, runtime_score,
    version`

func (r *ProgressPostgres) Get(ctx context.Context, learnerID, lessonID uuid.UUID) (models.LearnerProgressRecord, error) {
	query := `SELECT` + progressColumns + `
      FROM learner_progress
     WHERE learner_id = $1 AND lesson_id = $2`

	rec, err := scanProgress(r.db.QueryRow(ctx, query, learnerID, lessonID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.LearnerProgressRecord{}, app_errors.ErrRecordNotFound
		}
		return models.LearnerProgressRecord{}, fmt.Errorf("failed to get progress record: %w", err)
	}
	return rec, nil
}

func (r *ProgressPostgres) ListByCourse(ctx context.Context, learnerID, courseID uuid.UUID) ([]models.LearnerProgressRecord, error) {
	query := `SELECT` + progressColumns + `
      FROM learner_progress
     WHERE learner_id = $1 AND course_id = $2`

	rows, err := r.db.Query(ctx, query, learnerID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress records: %w", err)
	}
	defer rows.Close()

	var records []models.LearnerProgressRecord
	for rows.Next() {
		rec, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Create inserts the lazily-created first version of a record. A concurrent
// create of the same (learner, lesson) surfaces as ErrVersionConflict so the
// caller re-reads and retries.
func (r *ProgressPostgres) Create(ctx context.Context, rec models.LearnerProgressRecord) error {
	query := `
    INSERT INTO learner_progress (` + progressColumns + `)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 1)
    ON CONFLICT (learner_id, lesson_id) DO NOTHING`

	tag, err := r.db.Exec(ctx, query, progressArgs(rec)...)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == "23505" {
			return app_errors.ErrVersionConflict
		}
		return fmt.Errorf("failed to create progress record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrVersionConflict
	}
	return nil
}

// CompareAndWrite applies the mutated record only if the stored version still
// equals expectedVersion, bumping the version atomically. Anything else is a
// conflict; the store never merges.
func (r *ProgressPostgres) CompareAndWrite(ctx context.Context, rec models.LearnerProgressRecord, expectedVersion int64) (int64, error) {
	query := `
    UPDATE learner_progress
       SET progress_percent = $4, state = $5, started_at = $6, completed_at = $7,
           last_accessed_at = $8, total_time_spent_seconds = $9,
           position_marker = $10, runtime_state = $11, runtime_location = $12,
           runtime_status = $13, runtime_score = $14,
           version = version + 1
     WHERE learner_id = $1 AND lesson_id = $2 AND version = $3`

	args := []interface{}{rec.LearnerID, rec.LessonID, expectedVersion,
		rec.ProgressPercent, rec.State, rec.StartedAt, rec.CompletedAt,
		rec.LastAccessedAt, rec.TotalTimeSpentSeconds}
	args = append(args, payloadArgs(rec)...)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to write progress record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, app_errors.ErrVersionConflict
	}
	return expectedVersion + 1, nil
}

func progressArgs(rec models.LearnerProgressRecord) []interface{} {
	args := []interface{}{rec.LearnerID, rec.LessonID, rec.CourseID, rec.Kind,
		rec.ProgressPercent, rec.State, rec.StartedAt, rec.CompletedAt,
		rec.LastAccessedAt, rec.TotalTimeSpentSeconds}
	return append(args, payloadArgs(rec)...)
}

func payloadArgs(rec models.LearnerProgressRecord) []interface{} {
	var positionMarker *int
	var runtimeState, runtimeLocation, runtimeStatus *string
	var runtimeScore *float64
	if rec.Media != nil {
		positionMarker = &rec.Media.PositionMarker
	}
	if rec.Runtime != nil {
		runtimeState = &rec.Runtime.State
		runtimeLocation = &rec.Runtime.Location
		status := string(rec.Runtime.Status)
		runtimeStatus = &status
		runtimeScore = rec.Runtime.Score
	}
	return []interface{}{positionMarker, runtimeState, runtimeLocation, runtimeStatus, runtimeScore}
}

func scanProgress(row pgx.Row) (models.LearnerProgressRecord, error) {
	var rec models.LearnerProgressRecord
	var positionMarker *int
	var runtimeState, runtimeLocation, runtimeStatus *string
	var runtimeScore *float64

	err := row.Scan(
		&rec.LearnerID, &rec.LessonID, &rec.CourseID, &rec.Kind,
		&rec.ProgressPercent, &rec.State, &rec.StartedAt, &rec.CompletedAt,
		&rec.LastAccessedAt, &rec.TotalTimeSpentSeconds,
		&positionMarker, &runtimeState, &runtimeLocation, &runtimeStatus, &runtimeScore,
		&rec.Version,
	)
	if err != nil {
		return models.LearnerProgressRecord{}, err
	}

	switch rec.Kind {
	case models.KindVideo, models.KindDocument:
		rec.Media = &models.MediaProgress{}
		if positionMarker != nil {
			rec.Media.PositionMarker = *positionMarker
		}
	case models.KindPackage:
		rec.Runtime = &models.RuntimeProgress{Status: models.RuntimeIncomplete, Score: runtimeScore}
		if runtimeState != nil {
			rec.Runtime.State = *runtimeState
		}
		if runtimeLocation != nil {
			rec.Runtime.Location = *runtimeLocation
		}
		if runtimeStatus != nil {
			rec.Runtime.Status = models.RuntimeStatus(*runtimeStatus)
		}
	}
	return rec, nil
}
