package survey

import (
	"context"
	"time"

	"github.com/vikramkatyani/lmsBox-sub000/internal/app_errors"
	"github.com/vikramkatyani/lmsBox-sub000/internal/models"
	"github.com/vikramkatyani/lmsBox-sub000/pkg/logger"

	"github.com/google/uuid"
)

type surveyRepo interface {
	RecordResponse(ctx context.Context, learnerID, courseID uuid.UUID, phase models.SurveyPhase, responseID uuid.UUID, completedAt time.Time) error
	GateState(ctx context.Context, learnerID, courseID uuid.UUID) (models.SurveyGateState, error)
}

type catalogRepo interface {
	CourseByID(ctx context.Context, courseID uuid.UUID) (models.Course, error)
}

type courseAggregator interface {
	RecomputeAndPublish(ctx context.Context, learnerID, courseID uuid.UUID) (models.CourseProgressSummary, error)
}

// SurveyGateService tracks the pre/post survey obligations that gate lesson
// progress and course completion.
type SurveyGateService struct {
	log        logger.Log
	responses  surveyRepo
	catalog    catalogRepo
	aggregator courseAggregator
}

func NewSurveyGateService(log logger.Log, responses surveyRepo, catalog catalogRepo, aggregator courseAggregator) *SurveyGateService {
	return &SurveyGateService{
		log:        log,
		responses:  responses,
		catalog:    catalog,
		aggregator: aggregator,
	}
}

// SubmitResponse records a completed survey. A post-survey submission can be
// the event that unblocks course completion, so the course rollup is
// recomputed right away.
func (s *SurveyGateService) SubmitResponse(ctx context.Context, learnerID, courseID uuid.UUID, phase models.SurveyPhase, responseID uuid.UUID) (models.SurveyGateState, *models.CourseProgressSummary, error) {
	if phase != models.SurveyPre && phase != models.SurveyPost {
		return models.SurveyGateState{}, nil, app_errors.ErrInvalidEvent
	}
	if _, err := s.catalog.CourseByID(ctx, courseID); err != nil {
		return models.SurveyGateState{}, nil, err
	}

	if err := s.responses.RecordResponse(ctx, learnerID, courseID, phase, responseID, time.Now().UTC()); err != nil {
		return models.SurveyGateState{}, nil, err
	}

	state, err := s.responses.GateState(ctx, learnerID, courseID)
	if err != nil {
		return models.SurveyGateState{}, nil, err
	}

	var summary *models.CourseProgressSummary
	if phase == models.SurveyPost {
		recomputed, err := s.aggregator.RecomputeAndPublish(ctx, learnerID, courseID)
		if err != nil {
			return models.SurveyGateState{}, nil, err
		}
		summary = &recomputed
	}
	return state, summary, nil
}

func (s *SurveyGateService) GateState(ctx context.Context, learnerID, courseID uuid.UUID) (models.SurveyGateState, error) {
	return s.responses.GateState(ctx, learnerID, courseID)
}

// PreSurveySatisfied is consulted before a lesson record may leave NotStarted.
func (s *SurveyGateService) PreSurveySatisfied(ctx context.Context, learnerID, courseID uuid.UUID) (bool, error) {
	state, err := s.responses.GateState(ctx, learnerID, courseID)
	if err != nil {
		return false, err
	}
	return state.PreCompleted, nil
}
