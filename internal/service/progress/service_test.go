package progress

import (
	"context"
	"testing"

	"github.com/vikramkatyani/lmsBox-sub000/internal/app_errors"
	"github.com/vikramkatyani/lmsBox-sub000/internal/models"
	"github.com/vikramkatyani/lmsBox-sub000/internal/storage/inmem"
	"github.com/vikramkatyani/lmsBox-sub000/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGate struct {
	satisfied bool
}

func (g *stubGate) PreSurveySatisfied(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return g.satisfied, nil
}

type stubAggregator struct {
	calls int
}

func (a *stubAggregator) RecomputeAndPublish(context.Context, uuid.UUID, uuid.UUID) (models.CourseProgressSummary, error) {
	a.calls++
	return models.CourseProgressSummary{}, nil
}

type fixture struct {
	svc        *ProgressService
	records    *inmem.ProgressInmem
	catalog    *inmem.CatalogInmem
	gate       *stubGate
	aggregator *stubAggregator
	learnerID  uuid.UUID
	course     models.Course
	lesson     models.CatalogLesson
}

func newFixture(t *testing.T, requiresPreSurvey bool) *fixture {
	t.Helper()

	course := models.Course{ID: uuid.New(), Title: "Safety Basics", RequiresPreSurvey: requiresPreSurvey}
	lesson := models.CatalogLesson{
		ID:              uuid.New(),
		CourseID:        course.ID,
		Kind:            models.KindVideo,
		DurationSeconds: 600,
	}

	catalog := inmem.NewCatalogInmem()
	catalog.AddCourse(course)
	catalog.AddLesson(lesson)

	records := inmem.NewProgressInmem()
	gate := &stubGate{satisfied: !requiresPreSurvey}
	aggregator := &stubAggregator{}

	svc := NewProgressService(logger.New("prod"), records, catalog, gate, aggregator)
	return &fixture{
		svc:        svc,
		records:    records,
		catalog:    catalog,
		gate:       gate,
		aggregator: aggregator,
		learnerID:  uuid.New(),
		course:     course,
		lesson:     lesson,
	}
}

func TestPostEventCreatesRecordLazily(t *testing.T) {
	f := newFixture(t, false)

	rec, _, err := f.svc.PostEvent(context.Background(), f.learnerID, f.lesson.ID,
		models.ProgressEvent{Type: models.EventPosition, PositionMarker: 180}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.Version)
	assert.Equal(t, models.StateInProgress, rec.State)
	assert.Equal(t, 30, rec.ProgressPercent)
	assert.Equal(t, 1, f.aggregator.calls)

	stored, err := f.records.Get(context.Background(), f.learnerID, f.lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ProgressPercent, stored.ProgressPercent)
}

func TestPostEventBumpsVersionPerWrite(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, _, err := f.svc.PostEvent(ctx, f.learnerID, f.lesson.ID,
		models.ProgressEvent{Type: models.EventPosition, PositionMarker: 60}, 0)
	require.NoError(t, err)

	rec, _, err := f.svc.PostEvent(ctx, f.learnerID, f.lesson.ID,
		models.ProgressEvent{Type: models.EventPosition, PositionMarker: 120}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.Version)
}

func TestPostEventPinnedVersionConflict(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, _, err := f.svc.PostEvent(ctx, f.learnerID, f.lesson.ID,
		models.ProgressEvent{Type: models.EventPosition, PositionMarker: 60}, 0)
	require.NoError(t, err)

	// Another writer moved the record to version 2.
	_, _, err = f.svc.PostEvent(ctx, f.learnerID, f.lesson.ID,
		models.ProgressEvent{Type: models.EventPosition, PositionMarker: 120}, 0)
	require.NoError(t, err)

	_, _, err = f.svc.PostEvent(ctx, f.learnerID, f.lesson.ID,
		models.ProgressEvent{Type: models.EventPosition, PositionMarker: 90}, 1)
	assert.ErrorIs(t, err, app_errors.ErrVersionConflict)

	// Re-reading and pinning the fresh version succeeds.
	rec, _, err := f.svc.PostEvent(ctx, f.learnerID, f.lesson.ID,
		models.ProgressEvent{Type: models.EventPosition, PositionMarker: 150}, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.Version)
}

func TestPostEventPreSurveyGate(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, _, err := f.svc.PostEvent(ctx, f.learnerID, f.lesson.ID,
		models.ProgressEvent{Type: models.EventPosition, PositionMarker: 60}, 0)
	assert.ErrorIs(t, err, app_errors.ErrGateNotSatisfied)
	assert.Equal(t, 0, f.aggregator.calls)

	f.gate.satisfied = true
	rec, _, err := f.svc.PostEvent(ctx, f.learnerID, f.lesson.ID,
		models.ProgressEvent{Type: models.EventPosition, PositionMarker: 60}, 0)
	require.NoError(t, err)
	assert.Equal(t, models.StateInProgress, rec.State)
}

func TestPostEventRejectsAssessmentLessons(t *testing.T) {
	f := newFixture(t, false)
	assessment := models.CatalogLesson{ID: uuid.New(), CourseID: f.course.ID, Kind: models.KindAssessment}
	f.catalog.AddLesson(assessment)

	_, _, err := f.svc.PostEvent(context.Background(), f.learnerID, assessment.ID,
		models.ProgressEvent{Type: models.EventMarkComplete}, 0)
	assert.ErrorIs(t, err, app_errors.ErrInvalidEvent)
}

func TestPostEventUnknownLesson(t *testing.T) {
	f := newFixture(t, false)

	_, _, err := f.svc.PostEvent(context.Background(), f.learnerID, uuid.New(),
		models.ProgressEvent{Type: models.EventMarkComplete}, 0)
	assert.ErrorIs(t, err, app_errors.ErrLessonNotFound)
}

func TestApplyQuizVerdictWritesAssessmentRecord(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	assessment := models.CatalogLesson{ID: uuid.New(), CourseID: f.course.ID, Kind: models.KindAssessment}
	f.catalog.AddLesson(assessment)
	quiz := models.QuizDefinition{ID: uuid.New(), LessonID: assessment.ID, PassingScorePercent: 70}

	rec, _, err := f.svc.ApplyQuizVerdict(ctx, f.learnerID, quiz,
		models.QuizAttempt{ScorePercent: 60, Passed: false}, true)
	require.NoError(t, err)
	assert.Equal(t, models.StateInProgress, rec.State)
	assert.Equal(t, 60, rec.ProgressPercent)

	rec, _, err = f.svc.ApplyQuizVerdict(ctx, f.learnerID, quiz,
		models.QuizAttempt{ScorePercent: 80, Passed: true}, true)
	require.NoError(t, err)
	assert.Equal(t, models.StateCompleted, rec.State)
	assert.Equal(t, 100, rec.ProgressPercent)
	assert.Equal(t, 2, f.aggregator.calls)
}
