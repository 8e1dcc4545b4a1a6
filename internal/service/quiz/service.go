package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vikramkatyani/lmsBox-sub000/internal/app_errors"
	"github.com/vikramkatyani/lmsBox-sub000/internal/models"
	"github.com/vikramkatyani/lmsBox-sub000/pkg/logger"

	"github.com/google/uuid"
)

type quizCatalog interface {
	QuizByID(ctx context.Context, quizID uuid.UUID) (models.QuizDefinition, error)
}

type attemptRepo interface {
	CountAttempts(ctx context.Context, learnerID, quizID uuid.UUID) (int, error)
	AppendAttempt(ctx context.Context, attempt models.QuizAttempt) error
	ListAttempts(ctx context.Context, learnerID, quizID uuid.UUID) ([]models.QuizAttempt, error)
	StartWindow(ctx context.Context, learnerID, quizID uuid.UUID, startedAt time.Time) error
	GetWindow(ctx context.Context, learnerID, quizID uuid.UUID) (models.AttemptWindow, error)
	ClearWindow(ctx context.Context, learnerID, quizID uuid.UUID) error
}

type progressRecorder interface {
	ApplyQuizVerdict(ctx context.Context, learnerID uuid.UUID, quiz models.QuizDefinition, attempt models.QuizAttempt, attemptsRemaining bool) (models.LearnerProgressRecord, models.CourseProgressSummary, error)
}

type QuizService struct {
	log      logger.Log
	catalog  quizCatalog
	attempts attemptRepo
	progress progressRecorder
}

func NewQuizService(log logger.Log, catalog quizCatalog, attempts attemptRepo, progress progressRecorder) *QuizService {
	return &QuizService{
		log:      log,
		catalog:  catalog,
		attempts: attempts,
		progress: progress,
	}
}

// StartAttempt opens the attempt window a timed quiz is submitted against.
// Untimed quizzes may start a window too; it is simply not enforced.
func (s *QuizService) StartAttempt(ctx context.Context, learnerID, quizID uuid.UUID) (models.AttemptWindow, error) {
	def, err := s.catalog.QuizByID(ctx, quizID)
	if err != nil {
		return models.AttemptWindow{}, err
	}

	count, err := s.attempts.CountAttempts(ctx, learnerID, quizID)
	if err != nil {
		return models.AttemptWindow{}, err
	}
	if exhausted(def, count) {
		return models.AttemptWindow{}, app_errors.ErrAttemptsExhausted
	}

	startedAt := time.Now().UTC()
	if err := s.attempts.StartWindow(ctx, learnerID, quizID, startedAt); err != nil {
		return models.AttemptWindow{}, err
	}
	return models.AttemptWindow{LearnerID: learnerID, QuizID: quizID, StartedAt: startedAt}, nil
}

// Submit grades an attempt, appends it to the immutable history and feeds the
// verdict into lesson progress.
func (s *QuizService) Submit(ctx context.Context, learnerID, quizID uuid.UUID, answers []models.AttemptAnswer) (models.QuizAttempt, error) {
	def, err := s.catalog.QuizByID(ctx, quizID)
	if err != nil {
		return models.QuizAttempt{}, err
	}

	if err := validateAnswers(def, answers); err != nil {
		return models.QuizAttempt{}, err
	}

	now := time.Now().UTC()
	if def.IsTimed {
		window, err := s.attempts.GetWindow(ctx, learnerID, quizID)
		if err != nil {
			return models.QuizAttempt{}, err
		}
		deadline := window.StartedAt.Add(time.Duration(def.TimeLimitMinutes) * time.Minute)
		if now.After(deadline) {
			if err := s.attempts.ClearWindow(ctx, learnerID, quizID); err != nil {
				s.log.ErrorErr("failed to clear expired attempt window", err)
			}
			return models.QuizAttempt{}, app_errors.ErrTimeExceeded
		}
	}

	scorePercent, passed := Score(def, answers)

	attempt, err := s.appendAttempt(ctx, def, learnerID, answers, scorePercent, passed, now)
	if err != nil {
		return models.QuizAttempt{}, err
	}

	if def.IsTimed {
		if err := s.attempts.ClearWindow(ctx, learnerID, quizID); err != nil {
			s.log.ErrorErr("failed to clear attempt window", err)
		}
	}

	remaining := !exhausted(def, attempt.AttemptNumber)
	if _, _, err := s.progress.ApplyQuizVerdict(ctx, learnerID, def, attempt, remaining); err != nil {
		return models.QuizAttempt{}, fmt.Errorf("failed to apply quiz verdict: %w", err)
	}

	return attempt, nil
}

func (s *QuizService) Attempts(ctx context.Context, learnerID, quizID uuid.UUID) ([]models.QuizAttempt, error) {
	if _, err := s.catalog.QuizByID(ctx, quizID); err != nil {
		return nil, err
	}
	return s.attempts.ListAttempts(ctx, learnerID, quizID)
}

// appendAttempt claims the next attempt number. Two concurrent submissions can
// race for the same number; the loser re-counts and tries again.
func (s *QuizService) appendAttempt(ctx context.Context, def models.QuizDefinition, learnerID uuid.UUID, answers []models.AttemptAnswer, scorePercent int, passed bool, submittedAt time.Time) (models.QuizAttempt, error) {
	const maxAppendRetries = 3
	for i := 0; i < maxAppendRetries; i++ {
		count, err := s.attempts.CountAttempts(ctx, learnerID, def.ID)
		if err != nil {
			return models.QuizAttempt{}, err
		}
		if exhausted(def, count) {
			return models.QuizAttempt{}, app_errors.ErrAttemptsExhausted
		}

		attempt := models.QuizAttempt{
			ID:            uuid.New(),
			LearnerID:     learnerID,
			QuizID:        def.ID,
			AttemptNumber: count + 1,
			Answers:       answers,
			ScorePercent:  scorePercent,
			Passed:        passed,
			SubmittedAt:   submittedAt,
		}

		err = s.attempts.AppendAttempt(ctx, attempt)
		if err == nil {
			return attempt, nil
		}
		if !errors.Is(err, app_errors.ErrVersionConflict) {
			return models.QuizAttempt{}, err
		}
	}
	return models.QuizAttempt{}, app_errors.ErrVersionConflict
}

// exhausted reports whether no further attempts are allowed. AllowRetake
// disables the cap entirely; MaxAttempts <= 0 means unlimited.
func exhausted(def models.QuizDefinition, count int) bool {
	if def.AllowRetake || def.MaxAttempts <= 0 {
		return false
	}
	return count >= def.MaxAttempts
}

func validateAnswers(def models.QuizDefinition, answers []models.AttemptAnswer) error {
	questions := make(map[uuid.UUID]struct{}, len(def.Questions))
	for _, q := range def.Questions {
		questions[q.ID] = struct{}{}
	}
	seen := make(map[uuid.UUID]struct{}, len(answers))
	for _, a := range answers {
		if _, ok := questions[a.QuestionID]; !ok {
			return app_errors.ErrInvalidEvent
		}
		if _, dup := seen[a.QuestionID]; dup {
			return app_errors.ErrInvalidEvent
		}
		seen[a.QuestionID] = struct{}{}
	}
	return nil
}
