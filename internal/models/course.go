package models

import (
	"time"

	"github.com/google/uuid"
)

// Course is the catalog's view of a course. The engine reads it, never owns it.
type Course struct {
	ID                  uuid.UUID `json:"id"`
	Title               string    `json:"title"`
	CertificatesEnabled bool      `json:"certificates_enabled"`
	RequiresPreSurvey   bool      `json:"requires_pre_survey"`
	RequiresPostSurvey  bool      `json:"requires_post_survey"`
}

// CatalogLesson is the catalog's view of one lesson within a course.
type CatalogLesson struct {
	ID              uuid.UUID  `json:"id"`
	CourseID        uuid.UUID  `json:"course_id"`
	Kind            LessonKind `json:"kind"`
	Ordinal         int        `json:"ordinal"`
	IsOptional      bool       `json:"is_optional"`
	DurationSeconds int        `json:"duration_seconds,omitempty"`
	PageCount       int        `json:"page_count,omitempty"`
	QuizID          *uuid.UUID `json:"quiz_id,omitempty"`
}

// CourseProgressSummary is derived state, recomputed from lesson records and
// gates. Clients never mutate it directly.
type CourseProgressSummary struct {
	LearnerID         uuid.UUID  `json:"learner_id"`
	CourseID          uuid.UUID  `json:"course_id"`
	CompletionPercent int        `json:"completion_percent"`
	RequiredLessons   int        `json:"required_lessons"`
	CompletedRequired int        `json:"completed_required"`
	IsComplete        bool       `json:"is_complete"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}
