package survey

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

type fakeAggregator struct {
	calls int
}

func (a *fakeAggregator) RecomputeAndPublish(ctx context.Context, learnerID, courseID uuid.UUID) (models.CourseProgressSummary, error) {
	a.calls++
	return models.CourseProgressSummary{LearnerID: learnerID, CourseID: courseID}, nil
}

func newGateFixture(t *testing.T) (*SurveyGateService, *fakeAggregator, models.Course) {
	t.Helper()
	course := models.Course{ID: uuid.New(), RequiresPreSurvey: true, RequiresPostSurvey: true}
	catalog := inmem.NewCatalogInmem()
	catalog.AddCourse(course)
	aggregator := &fakeAggregator{}
	svc := NewSurveyGateService(logger.New("prod"), inmem.NewSurveyInmem(), catalog, aggregator)
	return svc, aggregator, course
}

func TestSubmitResponsePreThenPost(t *testing.T) {
	svc, aggregator, course := newGateFixture(t)
	ctx := context.Background()
	learnerID := uuid.New()

	satisfied, err := svc.PreSurveySatisfied(ctx, learnerID, course.ID)
	require.NoError(t, err)
	assert.False(t, satisfied)

	state, summary, err := svc.SubmitResponse(ctx, learnerID, course.ID, models.SurveyPre, uuid.New())
	require.NoError(t, err)
	assert.True(t, state.PreCompleted)
	assert.False(t, state.PostCompleted)
	assert.Nil(t, summary)
	assert.Equal(t, 0, aggregator.calls)

	satisfied, err = svc.PreSurveySatisfied(ctx, learnerID, course.ID)
	require.NoError(t, err)
	assert.True(t, satisfied)

	// The post-survey submission triggers a course rollup.
	state, summary, err = svc.SubmitResponse(ctx, learnerID, course.ID, models.SurveyPost, uuid.New())
	require.NoError(t, err)
	assert.True(t, state.PostCompleted)
	require.NotNil(t, summary)
	assert.Equal(t, 1, aggregator.calls)
}

func TestSubmitResponseKeepsFirstCompletion(t *testing.T) {
	svc, _, course := newGateFixture(t)
	ctx := context.Background()
	learnerID := uuid.New()

	first := uuid.New()
	state, _, err := svc.SubmitResponse(ctx, learnerID, course.ID, models.SurveyPre, first)
	require.NoError(t, err)
	firstCompletedAt := state.PreCompletedAt

	second := uuid.New()
	state, _, err = svc.SubmitResponse(ctx, learnerID, course.ID, models.SurveyPre, second)
	require.NoError(t, err)
	assert.Equal(t, firstCompletedAt, state.PreCompletedAt)
	require.NotNil(t, state.PreResponseID)
	assert.Equal(t, second, *state.PreResponseID)
}

func TestSubmitResponseValidation(t *testing.T) {
	svc, _, course := newGateFixture(t)
	ctx := context.Background()

	_, _, err := svc.SubmitResponse(ctx, uuid.New(), course.ID, "midway", uuid.New())
	assert.ErrorIs(t, err, app_errors.ErrInvalidEvent)

	_, _, err = svc.SubmitResponse(ctx, uuid.New(), uuid.New(), models.SurveyPre, uuid.New())
	assert.ErrorIs(t, err, app_errors.ErrCourseNotFound)
}
