package models

import (
	"time"

	"github.com/google/uuid"
)

type LessonKind string

const (
	KindVideo      LessonKind = "video"
	KindDocument   LessonKind = "document"
	KindPackage    LessonKind = "package"
	KindAssessment LessonKind = "assessment"
)

type ProgressState string

const (
	StateNotStarted ProgressState = "not_started"
	StateInProgress ProgressState = "in_progress"
	StateCompleted  ProgressState = "completed"
	StateFailed     ProgressState = "failed"
)

// Rank orders states for the forward-only transition check. Completed is
// terminal; Failed sits between InProgress and Completed so a package that
// failed can still complete later.
func (s ProgressState) Rank() int {
	switch s {
	case StateNotStarted:
		return 0
	case StateInProgress:
		return 1
	case StateFailed:
		return 2
	case StateCompleted:
		return 3
	}
	return 0
}

type RuntimeStatus string

const (
	RuntimeIncomplete RuntimeStatus = "incomplete"
	RuntimeCompleted  RuntimeStatus = "completed"
	RuntimePassed     RuntimeStatus = "passed"
	RuntimeFailed     RuntimeStatus = "failed"
)

// MediaProgress is the payload for video and document lessons.
type MediaProgress struct {
	PositionMarker int `json:"position_marker"`
}

// RuntimeProgress is the payload for interactive-package lessons. State is an
// opaque blob owned by the package runtime.
type RuntimeProgress struct {
	State    string        `json:"state,omitempty"`
	Location string        `json:"location,omitempty"`
	Status   RuntimeStatus `json:"status"`
	Score    *float64      `json:"score,omitempty"`
}

// LearnerProgressRecord is one record per (learner, lesson). Exactly one of
// Media/Runtime is populated depending on the lesson kind; assessment lessons
// resolve through the attempt history instead.
type LearnerProgressRecord struct {
	LearnerID             uuid.UUID        `json:"learner_id"`
	LessonID              uuid.UUID        `json:"lesson_id"`
	CourseID              uuid.UUID        `json:"course_id"`
	Kind                  LessonKind       `json:"kind"`
	ProgressPercent       int              `json:"progress_percent"`
	State                 ProgressState    `json:"state"`
	StartedAt             *time.Time       `json:"started_at,omitempty"`
	CompletedAt           *time.Time       `json:"completed_at,omitempty"`
	LastAccessedAt        time.Time        `json:"last_accessed_at"`
	TotalTimeSpentSeconds int64            `json:"total_time_spent_seconds"`
	Media                 *MediaProgress   `json:"media,omitempty"`
	Runtime               *RuntimeProgress `json:"runtime,omitempty"`
	Version               int64            `json:"version"`
}

type ProgressEventType string

const (
	EventPosition      ProgressEventType = "position"
	EventMarkComplete  ProgressEventType = "mark_complete"
	EventRuntimeCommit ProgressEventType = "runtime_commit"
)

// ProgressEvent is a client-originated signal about one lesson.
type ProgressEvent struct {
	Type             ProgressEventType `json:"type"`
	PositionMarker   int               `json:"position_marker,omitempty"`
	TimeSpentSeconds int64             `json:"time_spent_seconds,omitempty"`
	RuntimeState     string            `json:"runtime_state,omitempty"`
	RuntimeLocation  string            `json:"runtime_location,omitempty"`
	RuntimeStatus    RuntimeStatus     `json:"runtime_status,omitempty"`
	RuntimeScore     *float64          `json:"runtime_score,omitempty"`
}
