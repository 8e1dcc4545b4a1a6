package course

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/vikramkatyani/lmsBox-sub000/internal/app_errors"
	"github.com/vikramkatyani/lmsBox-sub000/internal/models"
	"github.com/vikramkatyani/lmsBox-sub000/pkg/logger"

	"github.com/google/uuid"
)

type catalogRepo interface {
	CourseByID(ctx context.Context, courseID uuid.UUID) (models.Course, error)
	LessonsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.CatalogLesson, error)
}

type progressRepo interface {
	ListByCourse(ctx context.Context, learnerID, courseID uuid.UUID) ([]models.LearnerProgressRecord, error)
}

type gateRepo interface {
	GateState(ctx context.Context, learnerID, courseID uuid.UUID) (models.SurveyGateState, error)
}

// SummaryFeed receives recomputed rollups for reporting. A nil feed disables
// publishing without disabling progress tracking.
type SummaryFeed interface {
	Index(ctx context.Context, summary models.CourseProgressSummary) error
}

type certificateIssuer interface {
	IssueIfEligible(ctx context.Context, learnerID, courseID uuid.UUID) (models.CertificateRecord, error)
}

// CourseService derives course-level completion from lesson records and
// survey gates. It never stores the rollup; every read recomputes it.
type CourseService struct {
	log     logger.Log
	catalog catalogRepo
	records progressRepo
	gates   gateRepo
	feed    SummaryFeed
	issuer  certificateIssuer
}

func NewCourseService(log logger.Log, catalog catalogRepo, records progressRepo, gates gateRepo, feed SummaryFeed, issuer certificateIssuer) *CourseService {
	return &CourseService{
		log:     log,
		catalog: catalog,
		records: records,
		gates:   gates,
		feed:    feed,
		issuer:  issuer,
	}
}

// Summarize is the pure rollup: required lessons drive the percent, optional
// ones are tracked but excluded from the denominator, and completion is
// withheld while a required gate is open or a required assessment is failed.
// Running it twice over the same inputs yields the same summary.
func Summarize(course models.Course, lessons []models.CatalogLesson, records []models.LearnerProgressRecord, gate models.SurveyGateState) models.CourseProgressSummary {
	byLesson := make(map[uuid.UUID]models.LearnerProgressRecord, len(records))
	for _, rec := range records {
		byLesson[rec.LessonID] = rec
	}

	summary := models.CourseProgressSummary{
		LearnerID: gate.LearnerID,
		CourseID:  course.ID,
	}

	var failedRequired bool
	var latestCompleted time.Time
	for _, lesson := range lessons {
		if lesson.IsOptional {
			continue
		}
		summary.RequiredLessons++
		rec, ok := byLesson[lesson.ID]
		if !ok {
			continue
		}
		switch rec.State {
		case models.StateCompleted:
			summary.CompletedRequired++
			if rec.CompletedAt != nil && rec.CompletedAt.After(latestCompleted) {
				latestCompleted = *rec.CompletedAt
			}
		case models.StateFailed:
			failedRequired = true
		}
	}

	if summary.RequiredLessons > 0 {
		summary.CompletionPercent = int(math.Round(100 * float64(summary.CompletedRequired) / float64(summary.RequiredLessons)))
	} else {
		summary.CompletionPercent = 100
	}

	gateSatisfied := (!course.RequiresPreSurvey || gate.PreCompleted) &&
		(!course.RequiresPostSurvey || gate.PostCompleted)

	// Completion is decided by counts, not the rounded percent: 199 of 200
	// lessons rounds to 100% but does not complete the course.
	summary.IsComplete = summary.CompletedRequired == summary.RequiredLessons && gateSatisfied && !failedRequired
	if summary.IsComplete {
		completedAt := latestCompleted
		if course.RequiresPostSurvey && gate.PostCompletedAt != nil && gate.PostCompletedAt.After(completedAt) {
			completedAt = *gate.PostCompletedAt
		}
		if !completedAt.IsZero() {
			summary.CompletedAt = &completedAt
		}
	}
	return summary
}

// Recompute pulls a consistent read of the course's lesson records and
// derives the summary.
func (s *CourseService) Recompute(ctx context.Context, learnerID, courseID uuid.UUID) (models.CourseProgressSummary, error) {
	course, err := s.catalog.CourseByID(ctx, courseID)
	if err != nil {
		return models.CourseProgressSummary{}, err
	}
	lessons, err := s.catalog.LessonsByCourse(ctx, courseID)
	if err != nil {
		return models.CourseProgressSummary{}, err
	}
	records, err := s.records.ListByCourse(ctx, learnerID, courseID)
	if err != nil {
		return models.CourseProgressSummary{}, err
	}
	gate, err := s.gates.GateState(ctx, learnerID, courseID)
	if err != nil {
		return models.CourseProgressSummary{}, err
	}

	summary := Summarize(course, lessons, records, gate)
	summary.LearnerID = learnerID
	return summary, nil
}

// RecomputeAndPublish is the record-changed notification path: it recomputes
// the rollup, pushes it to the reporting feed and, when the course has just
// become complete, gives the certificate issuer its chance. Redundant
// concurrent triggers are safe; the issuer is idempotent and the feed is
// keyed per (learner, course).
func (s *CourseService) RecomputeAndPublish(ctx context.Context, learnerID, courseID uuid.UUID) (models.CourseProgressSummary, error) {
	summary, err := s.Recompute(ctx, learnerID, courseID)
	if err != nil {
		return models.CourseProgressSummary{}, err
	}

	if s.feed != nil {
		if err := s.feed.Index(ctx, summary); err != nil {
			s.log.ErrorErr("failed to publish course summary", err,
				"learner_id", learnerID, "course_id", courseID)
		}
	}

	if summary.IsComplete {
		if _, err := s.issuer.IssueIfEligible(ctx, learnerID, courseID); err != nil {
			if !errors.Is(err, app_errors.ErrAlreadyIssued) && !errors.Is(err, app_errors.ErrNotEligible) {
				s.log.ErrorErr("certificate issuance failed", err,
					"learner_id", learnerID, "course_id", courseID)
			}
		}
	}
	return summary, nil
}

// Summary serves the read-only course summary endpoint.
func (s *CourseService) Summary(ctx context.Context, learnerID, courseID uuid.UUID) (models.CourseProgressSummary, error) {
	return s.Recompute(ctx, learnerID, courseID)
}
