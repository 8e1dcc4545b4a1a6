package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	QuestionSingleChoice = "single_choice"
	QuestionMultiChoice  = "multi_choice"
)

type QuizOption struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	IsCorrect bool      `json:"is_correct"`
}

type QuizQuestion struct {
	ID      uuid.UUID    `json:"id"`
	Type    string       `json:"type"`
	Points  int          `json:"points"`
	Options []QuizOption `json:"options"`
}

// QuizDefinition is an immutable snapshot of a quiz as authored.
type QuizDefinition struct {
	ID                  uuid.UUID      `json:"id"`
	LessonID            uuid.UUID      `json:"lesson_id"`
	PassingScorePercent int            `json:"passing_score_percent"`
	MaxAttempts         int            `json:"max_attempts"`
	AllowRetake         bool           `json:"allow_retake"`
	IsTimed             bool           `json:"is_timed"`
	TimeLimitMinutes    int            `json:"time_limit_minutes"`
	Questions           []QuizQuestion `json:"questions"`
}

type AttemptAnswer struct {
	QuestionID uuid.UUID   `json:"question_id"`
	OptionIDs  []uuid.UUID `json:"option_ids"`
}

// QuizAttempt is append-only: never mutated or deleted once written.
type QuizAttempt struct {
	ID            uuid.UUID       `json:"id"`
	LearnerID     uuid.UUID       `json:"learner_id"`
	QuizID        uuid.UUID       `json:"quiz_id"`
	AttemptNumber int             `json:"attempt_number"`
	Answers       []AttemptAnswer `json:"answers"`
	ScorePercent  int             `json:"score_percent"`
	Passed        bool            `json:"passed"`
	SubmittedAt   time.Time       `json:"submitted_at"`
}

// AttemptWindow records when a learner opened an attempt on a timed quiz.
// Submission past StartedAt plus the quiz time limit is rejected.
type AttemptWindow struct {
	LearnerID uuid.UUID `json:"learner_id"`
	QuizID    uuid.UUID `json:"quiz_id"`
	StartedAt time.Time `json:"started_at"`
}
