package inmem

import (
	"context"
	"testing"
	"time"

	"github.com/vikramkatyani/lmsBox-sub000/internal/app_errors"
	"github.com/vikramkatyani/lmsBox-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressCompareAndWrite(t *testing.T) {
	store := NewProgressInmem()
	ctx := context.Background()

	rec := models.LearnerProgressRecord{
		LearnerID:      uuid.New(),
		LessonID:       uuid.New(),
		CourseID:       uuid.New(),
		Kind:           models.KindVideo,
		State:          models.StateInProgress,
		LastAccessedAt: time.Now().UTC(),
		Media:          &models.MediaProgress{PositionMarker: 10},
	}
	require.NoError(t, store.Create(ctx, rec))

	// Duplicate create loses.
	assert.ErrorIs(t, store.Create(ctx, rec), app_errors.ErrVersionConflict)

	rec.ProgressPercent = 40
	version, err := store.CompareAndWrite(ctx, rec, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	// A write against the superseded version conflicts.
	rec.ProgressPercent = 60
	_, err = store.CompareAndWrite(ctx, rec, 1)
	assert.ErrorIs(t, err, app_errors.ErrVersionConflict)

	stored, err := store.Get(ctx, rec.LearnerID, rec.LessonID)
	require.NoError(t, err)
	assert.Equal(t, 40, stored.ProgressPercent)
	assert.Equal(t, int64(2), stored.Version)
}

func TestProgressGetReturnsCopy(t *testing.T) {
	store := NewProgressInmem()
	ctx := context.Background()

	rec := models.LearnerProgressRecord{
		LearnerID: uuid.New(),
		LessonID:  uuid.New(),
		Kind:      models.KindVideo,
		Media:     &models.MediaProgress{PositionMarker: 5},
	}
	require.NoError(t, store.Create(ctx, rec))

	got, err := store.Get(ctx, rec.LearnerID, rec.LessonID)
	require.NoError(t, err)
	got.Media.PositionMarker = 999

	again, err := store.Get(ctx, rec.LearnerID, rec.LessonID)
	require.NoError(t, err)
	assert.Equal(t, 5, again.Media.PositionMarker)
}

func TestQuizAttemptNumberUniqueness(t *testing.T) {
	store := NewQuizAttemptsInmem()
	ctx := context.Background()
	learnerID, quizID := uuid.New(), uuid.New()

	first := models.QuizAttempt{ID: uuid.New(), LearnerID: learnerID, QuizID: quizID, AttemptNumber: 1}
	require.NoError(t, store.AppendAttempt(ctx, first))

	dup := models.QuizAttempt{ID: uuid.New(), LearnerID: learnerID, QuizID: quizID, AttemptNumber: 1}
	assert.ErrorIs(t, store.AppendAttempt(ctx, dup), app_errors.ErrVersionConflict)

	count, err := store.CountAttempts(ctx, learnerID, quizID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCertificateCreateIfAbsent(t *testing.T) {
	store := NewCertificateInmem()
	ctx := context.Background()

	rec := models.CertificateRecord{
		CertificateID: uuid.New(),
		LearnerID:     uuid.New(),
		CourseID:      uuid.New(),
		Status:        models.CertificatePending,
	}
	inserted, err := store.CreateIfAbsent(ctx, rec)
	require.NoError(t, err)
	assert.True(t, inserted)

	loser := rec
	loser.CertificateID = uuid.New()
	inserted, err = store.CreateIfAbsent(ctx, loser)
	require.NoError(t, err)
	assert.False(t, inserted)

	stored, err := store.Get(ctx, rec.LearnerID, rec.CourseID)
	require.NoError(t, err)
	assert.Equal(t, rec.CertificateID, stored.CertificateID)
}
