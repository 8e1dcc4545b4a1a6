package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/vikramkatyani/lmsBox-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SurveyPostgres struct {
	db *pgxpool.Pool
}

func NewSurveyPostgres(db *pgxpool.Pool) *SurveyPostgres {
	return &SurveyPostgres{db: db}
}

// RecordResponse is an upsert: re-submitting a survey keeps the first
// completion timestamp but refreshes the response reference.
func (r *SurveyPostgres) RecordResponse(ctx context.Context, learnerID, courseID uuid.UUID, phase models.SurveyPhase, responseID uuid.UUID, completedAt time.Time) error {
	query := `
    INSERT INTO survey_responses (learner_id, course_id, phase, response_id, completed_at)
    VALUES ($1, $2, $3, $4, $5)
    ON CONFLICT (learner_id, course_id, phase)
    DO UPDATE SET response_id = $4`

	if _, err := r.db.Exec(ctx, query, learnerID, courseID, phase, responseID, completedAt); err != nil {
		return fmt.Errorf("failed to record survey response: %w", err)
	}
	return nil
}

func (r *SurveyPostgres) GateState(ctx context.Context, learnerID, courseID uuid.UUID) (models.SurveyGateState, error) {
	state := models.SurveyGateState{LearnerID: learnerID, CourseID: courseID}
	query := `
    SELECT phase, response_id, completed_at
      FROM survey_responses
     WHERE learner_id = $1 AND course_id = $2`

	rows, err := r.db.Query(ctx, query, learnerID, courseID)
	if err != nil {
		return state, fmt.Errorf("failed to query survey responses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var phase models.SurveyPhase
		var responseID uuid.UUID
		var completedAt time.Time
		if err := rows.Scan(&phase, &responseID, &completedAt); err != nil {
			return state, err
		}
		switch phase {
		case models.SurveyPre:
			state.PreCompleted = true
			state.PreResponseID = &responseID
			state.PreCompletedAt = &completedAt
		case models.SurveyPost:
			state.PostCompleted = true
			state.PostResponseID = &responseID
			state.PostCompletedAt = &completedAt
		}
	}
	if err = rows.Err(); err != nil {
		return state, err
	}
	return state, nil
}
