package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vikramkatyani/lmsBox-sub000/internal/app_errors"
	"github.com/vikramkatyani/lmsBox-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type QuizAttemptsPostgres struct {
	db *pgxpool.Pool
}

func NewQuizAttemptsPostgres(db *pgxpool.Pool) *QuizAttemptsPostgres {
	return &QuizAttemptsPostgres{db: db}
}

func (r *QuizAttemptsPostgres) CountAttempts(ctx context.Context, learnerID, quizID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM quiz_attempts WHERE learner_id = $1 AND quiz_id = $2`
	if err := r.db.QueryRow(ctx, query, learnerID, quizID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count quiz attempts: %w", err)
	}
	return count, nil
}

// AppendAttempt only ever inserts: attempts are immutable once written.
func (r *QuizAttemptsPostgres) AppendAttempt(ctx context.Context, attempt models.QuizAttempt) error {
	answers, err := json.Marshal(attempt.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal attempt answers: %w", err)
	}

	query := `
    INSERT INTO quiz_attempts (
        id, learner_id, quiz_id, attempt_number, answers, score_percent, passed, submitted_at
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.Exec(ctx, query,
		attempt.ID, attempt.LearnerID, attempt.QuizID, attempt.AttemptNumber,
		answers, attempt.ScorePercent, attempt.Passed, attempt.SubmittedAt,
	)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == "23505" {
			return app_errors.ErrVersionConflict
		}
		return fmt.Errorf("failed to append quiz attempt: %w", err)
	}
	return nil
}

func (r *QuizAttemptsPostgres) ListAttempts(ctx context.Context, learnerID, quizID uuid.UUID) ([]models.QuizAttempt, error) {
	query := `
    SELECT id, learner_id, quiz_id, attempt_number, answers, score_percent, passed, submitted_at
      FROM quiz_attempts
     WHERE learner_id = $1 AND quiz_id = $2
     ORDER BY attempt_number`

	rows, err := r.db.Query(ctx, query, learnerID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quiz attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.QuizAttempt
	for rows.Next() {
		var a models.QuizAttempt
		var answers []byte
		if err := rows.Scan(&a.ID, &a.LearnerID, &a.QuizID, &a.AttemptNumber,
			&answers, &a.ScorePercent, &a.Passed, &a.SubmittedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(answers, &a.Answers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal attempt answers: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}

// StartWindow opens (or reopens) the attempt window for a timed quiz.
func (r *QuizAttemptsPostgres) StartWindow(ctx context.Context, learnerID, quizID uuid.UUID, startedAt time.Time) error {
	query := `
    INSERT INTO quiz_attempt_windows (learner_id, quiz_id, started_at)
    VALUES ($1, $2, $3)
    ON CONFLICT (learner_id, quiz_id)
    DO UPDATE SET started_at = $3`

	if _, err := r.db.Exec(ctx, query, learnerID, quizID, startedAt); err != nil {
		return fmt.Errorf("failed to start attempt window: %w", err)
	}
	return nil
}

func (r *QuizAttemptsPostgres) GetWindow(ctx context.Context, learnerID, quizID uuid.UUID) (models.AttemptWindow, error) {
	var w models.AttemptWindow
	query := `SELECT learner_id, quiz_id, started_at FROM quiz_attempt_windows WHERE learner_id = $1 AND quiz_id = $2`
	err := r.db.QueryRow(ctx, query, learnerID, quizID).Scan(&w.LearnerID, &w.QuizID, &w.StartedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.AttemptWindow{}, app_errors.ErrAttemptNotStarted
		}
		return models.AttemptWindow{}, fmt.Errorf("failed to get attempt window: %w", err)
	}
	return w, nil
}

func (r *QuizAttemptsPostgres) ClearWindow(ctx context.Context, learnerID, quizID uuid.UUID) error {
	query := `DELETE FROM quiz_attempt_windows WHERE learner_id = $1 AND quiz_id = $2`
	if _, err := r.db.Exec(ctx, query, learnerID, quizID); err != nil {
		return fmt.Errorf("failed to clear attempt window: %w", err)
	}
	return nil
}
