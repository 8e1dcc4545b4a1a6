package models

import (
	"time"

	"github.com/google/uuid"
)

type SurveyPhase string

const (
	SurveyPre  SurveyPhase = "pre"
	SurveyPost SurveyPhase = "post"
)

// SurveyGateState tracks the survey obligations for a (learner, course) pair.
type SurveyGateState struct {
	LearnerID       uuid.UUID  `json:"learner_id"`
	CourseID        uuid.UUID  `json:"course_id"`
	PreCompleted    bool       `json:"pre_completed"`
	PreResponseID   *uuid.UUID `json:"pre_response_id,omitempty"`
	PreCompletedAt  *time.Time `json:"pre_completed_at,omitempty"`
	PostCompleted   bool       `json:"post_completed"`
	PostResponseID  *uuid.UUID `json:"post_response_id,omitempty"`
	PostCompletedAt *time.Time `json:"post_completed_at,omitempty"`
}
