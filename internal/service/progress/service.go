package progress

import (
	"context"
	"errors"
	"time"

	"github.com/vikramkatyani/lmsBox-sub000/internal/app_errors"
	"github.com/vikramkatyani/lmsBox-sub000/internal/models"
	"github.com/vikramkatyani/lmsBox-sub000/pkg/logger"

	"github.com/google/uuid"
)

// maxWriteRetries bounds the compare-and-write loop when the caller did not
// pin a version. After that many conflicts the caller gets ErrVersionConflict.
const maxWriteRetries = 3

type progressRepo interface {
	Get(ctx context.Context, learnerID, lessonID uuid.UUID) (models.LearnerProgressRecord, error)
	Create(ctx context.Context, rec models.LearnerProgressRecord) error
	CompareAndWrite(ctx context.Context, rec models.LearnerProgressRecord, expectedVersion int64) (int64, error)
}

type catalogRepo interface {
	LessonByID(ctx context.Context, lessonID uuid.UUID) (models.CatalogLesson, error)
	CourseByID(ctx context.Context, courseID uuid.UUID) (models.Course, error)
}

type surveyGate interface {
	PreSurveySatisfied(ctx context.Context, learnerID, courseID uuid.UUID) (bool, error)
}

type courseAggregator interface {
	RecomputeAndPublish(ctx context.Context, learnerID, courseID uuid.UUID) (models.CourseProgressSummary, error)
}

type ProgressService struct {
	log        logger.Log
	records    progressRepo
	catalog    catalogRepo
	gate       surveyGate
	aggregator courseAggregator
}

func NewProgressService(log logger.Log, records progressRepo, catalog catalogRepo, gate surveyGate, aggregator courseAggregator) *ProgressService {
	return &ProgressService{
		log:        log,
		records:    records,
		catalog:    catalog,
		gate:       gate,
		aggregator: aggregator,
	}
}

// PostEvent ingests one progress signal for a lesson. With expectedVersion > 0
// the caller pins the version it read and a mismatch is returned immediately;
// with expectedVersion 0 the service re-reads and retries a bounded number of
// times before giving up.
func (s *ProgressService) PostEvent(ctx context.Context, learnerID, lessonID uuid.UUID, event models.ProgressEvent, expectedVersion int64) (models.LearnerProgressRecord, models.CourseProgressSummary, error) {
	lesson, err := s.catalog.LessonByID(ctx, lessonID)
	if err != nil {
		return models.LearnerProgressRecord{}, models.CourseProgressSummary{}, err
	}
	if lesson.Kind == models.KindAssessment {
		// Assessment progress only moves through quiz submission.
		return models.LearnerProgressRecord{}, models.CourseProgressSummary{}, app_errors.ErrInvalidEvent
	}

	rec, err := s.writeWithRetry(ctx, learnerID, lesson, expectedVersion, func(current models.LearnerProgressRecord, now time.Time) (models.LearnerProgressRecord, error) {
		return evaluate(current, lesson, event, now)
	})
	if err != nil {
		return models.LearnerProgressRecord{}, models.CourseProgressSummary{}, err
	}

	summary, err := s.aggregator.RecomputeAndPublish(ctx, learnerID, lesson.CourseID)
	if err != nil {
		return models.LearnerProgressRecord{}, models.CourseProgressSummary{}, err
	}
	return rec, summary, nil
}

// ApplyQuizVerdict feeds a graded attempt into the owning assessment lesson.
// The quiz service calls this after every successful submission.
func (s *ProgressService) ApplyQuizVerdict(ctx context.Context, learnerID uuid.UUID, quiz models.QuizDefinition, attempt models.QuizAttempt, attemptsRemaining bool) (models.LearnerProgressRecord, models.CourseProgressSummary, error) {
	lesson, err := s.catalog.LessonByID(ctx, quiz.LessonID)
	if err != nil {
		return models.LearnerProgressRecord{}, models.CourseProgressSummary{}, err
	}

	rec, err := s.writeWithRetry(ctx, learnerID, lesson, 0, func(current models.LearnerProgressRecord, now time.Time) (models.LearnerProgressRecord, error) {
		return evaluateQuizVerdict(current, attempt, attemptsRemaining, now), nil
	})
	if err != nil {
		return models.LearnerProgressRecord{}, models.CourseProgressSummary{}, err
	}

	summary, err := s.aggregator.RecomputeAndPublish(ctx, learnerID, lesson.CourseID)
	if err != nil {
		return models.LearnerProgressRecord{}, models.CourseProgressSummary{}, err
	}
	return rec, summary, nil
}

func (s *ProgressService) Record(ctx context.Context, learnerID, lessonID uuid.UUID) (models.LearnerProgressRecord, error) {
	return s.records.Get(ctx, learnerID, lessonID)
}

// writeWithRetry runs the read-evaluate-compare-and-write cycle. Conflicting
// concurrent evaluations serialize naturally: the loser re-reads fresh state
// and re-evaluates against it.
func (s *ProgressService) writeWithRetry(ctx context.Context, learnerID uuid.UUID, lesson models.CatalogLesson, expectedVersion int64, mutate func(models.LearnerProgressRecord, time.Time) (models.LearnerProgressRecord, error)) (models.LearnerProgressRecord, error) {
	for i := 0; i < maxWriteRetries; i++ {
		current, err := s.records.Get(ctx, learnerID, lesson.ID)
		created := false
		if err != nil {
			if !errors.Is(err, app_errors.ErrRecordNotFound) {
				return models.LearnerProgressRecord{}, err
			}
			current = newRecord(learnerID, lesson)
			created = true
		}

		if expectedVersion > 0 && current.Version != expectedVersion {
			return models.LearnerProgressRecord{}, app_errors.ErrVersionConflict
		}

		if current.State == models.StateNotStarted {
			if err := s.checkPreSurvey(ctx, learnerID, lesson.CourseID); err != nil {
				return models.LearnerProgressRecord{}, err
			}
		}

		now := time.Now().UTC()
		candidate, err := mutate(current, now)
		if err != nil {
			return models.LearnerProgressRecord{}, err
		}

		if created {
			err = s.records.Create(ctx, candidate)
			candidate.Version = 1
		} else {
			candidate.Version, err = s.records.CompareAndWrite(ctx, candidate, current.Version)
		}
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, app_errors.ErrVersionConflict) {
			return models.LearnerProgressRecord{}, err
		}
		if expectedVersion > 0 {
			return models.LearnerProgressRecord{}, app_errors.ErrVersionConflict
		}
	}
	return models.LearnerProgressRecord{}, app_errors.ErrVersionConflict
}

// checkPreSurvey blocks the first transition out of NotStarted while a
// required pre-course survey is missing.
func (s *ProgressService) checkPreSurvey(ctx context.Context, learnerID, courseID uuid.UUID) error {
	course, err := s.catalog.CourseByID(ctx, courseID)
	if err != nil {
		return err
	}
	if !course.RequiresPreSurvey {
		return nil
	}
	satisfied, err := s.gate.PreSurveySatisfied(ctx, learnerID, courseID)
	if err != nil {
		return err
	}
	if !satisfied {
		return app_errors.ErrGateNotSatisfied
	}
	return nil
}

func newRecord(learnerID uuid.UUID, lesson models.CatalogLesson) models.LearnerProgressRecord {
	rec := models.LearnerProgressRecord{
		LearnerID: learnerID,
		LessonID:  lesson.ID,
		CourseID:  lesson.CourseID,
		Kind:      lesson.Kind,
		State:     models.StateNotStarted,
	}
	switch lesson.Kind {
	case models.KindVideo, models.KindDocument:
		rec.Media = &models.MediaProgress{}
	case models.KindPackage:
		rec.Runtime = &models.RuntimeProgress{Status: models.RuntimeIncomplete}
	}
	return rec
}
