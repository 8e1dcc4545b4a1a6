package progress

import (
	"testing"
	"time"

	"github.com/vikramkatyani/lmsBox-sub000/internal/app_errors"
	"github.com/vikramkatyani/lmsBox-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func videoLesson(durationSeconds int) models.CatalogLesson {
	return models.CatalogLesson{
		ID:              uuid.New(),
		CourseID:        uuid.New(),
		Kind:            models.KindVideo,
		DurationSeconds: durationSeconds,
	}
}

func freshRecord(lesson models.CatalogLesson) models.LearnerProgressRecord {
	return newRecord(uuid.New(), lesson)
}

func TestEvaluateVideoPositionProgression(t *testing.T) {
	lesson := videoLesson(600)
	rec := freshRecord(lesson)
	now := time.Now().UTC()

	rec, err := evaluate(rec, lesson, models.ProgressEvent{Type: models.EventPosition, PositionMarker: 180, TimeSpentSeconds: 180}, now)
	require.NoError(t, err)
	assert.Equal(t, models.StateInProgress, rec.State)
	assert.Equal(t, 30, rec.ProgressPercent)
	require.NotNil(t, rec.StartedAt)
	assert.Equal(t, int64(180), rec.TotalTimeSpentSeconds)

	rec, err = evaluate(rec, lesson, models.ProgressEvent{Type: models.EventPosition, PositionMarker: 390, TimeSpentSeconds: 210}, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 65, rec.ProgressPercent)
	assert.Equal(t, models.StateInProgress, rec.State)
	assert.Equal(t, int64(390), rec.TotalTimeSpentSeconds)

	// 95% of 600s is 570s: position past that completes the lesson.
	rec, err = evaluate(rec, lesson, models.ProgressEvent{Type: models.EventPosition, PositionMarker: 580}, now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, models.StateCompleted, rec.State)
	assert.Equal(t, 100, rec.ProgressPercent)
	require.NotNil(t, rec.CompletedAt)
}

func TestEvaluatePercentNeverRegresses(t *testing.T) {
	lesson := videoLesson(600)
	rec := freshRecord(lesson)
	now := time.Now().UTC()

	rec, err := evaluate(rec, lesson, models.ProgressEvent{Type: models.EventPosition, PositionMarker: 390}, now)
	require.NoError(t, err)
	require.Equal(t, 65, rec.ProgressPercent)

	// A stale rewind signal must not pull the percent or marker back.
	rec, err = evaluate(rec, lesson, models.ProgressEvent{Type: models.EventPosition, PositionMarker: 60}, now.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, 65, rec.ProgressPercent)
	assert.Equal(t, 390, rec.Media.PositionMarker)
}

func TestEvaluateCompletedIsTerminal(t *testing.T) {
	lesson := videoLesson(600)
	rec := freshRecord(lesson)
	now := time.Now().UTC()

	rec, err := evaluate(rec, lesson, models.ProgressEvent{Type: models.EventMarkComplete}, now)
	require.NoError(t, err)
	require.Equal(t, models.StateCompleted, rec.State)
	completedAt := rec.CompletedAt

	rec, err = evaluate(rec, lesson, models.ProgressEvent{Type: models.EventPosition, PositionMarker: 10}, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.StateCompleted, rec.State)
	assert.Equal(t, 100, rec.ProgressPercent)
	assert.Equal(t, completedAt, rec.CompletedAt)
}

func TestEvaluateDocumentCompletesOnLastPage(t *testing.T) {
	lesson := models.CatalogLesson{
		ID:        uuid.New(),
		CourseID:  uuid.New(),
		Kind:      models.KindDocument,
		PageCount: 20,
	}
	rec := freshRecord(lesson)
	now := time.Now().UTC()

	rec, err := evaluate(rec, lesson, models.ProgressEvent{Type: models.EventPosition, PositionMarker: 10}, now)
	require.NoError(t, err)
	assert.Equal(t, 50, rec.ProgressPercent)
	assert.Equal(t, models.StateInProgress, rec.State)

	rec, err = evaluate(rec, lesson, models.ProgressEvent{Type: models.EventPosition, PositionMarker: 20}, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, models.StateCompleted, rec.State)
	assert.Equal(t, 100, rec.ProgressPercent)
}

func TestEvaluatePackageMirrorsRuntimeStatus(t *testing.T) {
	lesson := models.CatalogLesson{
		ID:       uuid.New(),
		CourseID: uuid.New(),
		Kind:     models.KindPackage,
	}
	rec := freshRecord(lesson)
	now := time.Now().UTC()

	rec, err := evaluate(rec, lesson, models.ProgressEvent{
		Type:            models.EventRuntimeCommit,
		RuntimeState:    "suspend-data",
		RuntimeLocation: "slide-3",
		RuntimeStatus:   models.RuntimeFailed,
	}, now)
	require.NoError(t, err)
	assert.Equal(t, models.StateFailed, rec.State)
	assert.Equal(t, models.RuntimeFailed, rec.Runtime.Status)
	assert.Equal(t, "suspend-data", rec.Runtime.State)

	// Failed is not terminal for packages: a later passed commit completes.
	rec, err = evaluate(rec, lesson, models.ProgressEvent{
		Type:          models.EventRuntimeCommit,
		RuntimeStatus: models.RuntimePassed,
	}, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, models.StateCompleted, rec.State)
	assert.Equal(t, models.RuntimePassed, rec.Runtime.Status)
	assert.Equal(t, "suspend-data", rec.Runtime.State)
}

func TestEvaluateRejectsMismatchedEvents(t *testing.T) {
	video := videoLesson(600)
	rec := freshRecord(video)
	now := time.Now().UTC()

	_, err := evaluate(rec, video, models.ProgressEvent{Type: models.EventRuntimeCommit}, now)
	assert.ErrorIs(t, err, app_errors.ErrInvalidEvent)

	_, err = evaluate(rec, video, models.ProgressEvent{Type: models.EventPosition, PositionMarker: -1}, now)
	assert.ErrorIs(t, err, app_errors.ErrInvalidEvent)

	pkg := models.CatalogLesson{ID: uuid.New(), CourseID: uuid.New(), Kind: models.KindPackage}
	_, err = evaluate(freshRecord(pkg), pkg, models.ProgressEvent{Type: models.EventPosition, PositionMarker: 5}, now)
	assert.ErrorIs(t, err, app_errors.ErrInvalidEvent)
}

func TestEvaluateQuizVerdict(t *testing.T) {
	lesson := models.CatalogLesson{ID: uuid.New(), CourseID: uuid.New(), Kind: models.KindAssessment}
	rec := freshRecord(lesson)
	now := time.Now().UTC()

	rec = evaluateQuizVerdict(rec, models.QuizAttempt{ScorePercent: 60, Passed: false}, true, now)
	assert.Equal(t, models.StateInProgress, rec.State)
	assert.Equal(t, 60, rec.ProgressPercent)

	rec = evaluateQuizVerdict(rec, models.QuizAttempt{ScorePercent: 40, Passed: false}, false, now.Add(time.Minute))
	assert.Equal(t, models.StateFailed, rec.State)
	// Score regression does not pull the recorded percent down.
	assert.Equal(t, 60, rec.ProgressPercent)

	rec = evaluateQuizVerdict(rec, models.QuizAttempt{ScorePercent: 85, Passed: true}, false, now.Add(2*time.Minute))
	assert.Equal(t, models.StateCompleted, rec.State)
	assert.Equal(t, 100, rec.ProgressPercent)
}
