package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vikramkatyani/lmsBox-sub000/internal/app_errors"
	"github.com/vikramkatyani/lmsBox-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogPostgres is the read side of the course catalog. Authoring lives in
// another service; this engine only looks lessons and quizzes up by id.
type CatalogPostgres struct {
	db *pgxpool.Pool
}

func NewCatalogPostgres(db *pgxpool.Pool) *CatalogPostgres {
	return &CatalogPostgres{db: db}
}

func (r *CatalogPostgres) CourseByID(ctx context.Context, courseID uuid.UUID) (models.Course, error) {
	var course models.Course
	query := `
    SELECT id, title, certificates_enabled, requires_pre_survey, requires_post_survey
      FROM courses
     WHERE id = $1`

	err := r.db.QueryRow(ctx, query, courseID).Scan(
		&course.ID, &course.Title, &course.CertificatesEnabled,
		&course.RequiresPreSurvey, &course.RequiresPostSurvey,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Course{}, app_errors.ErrCourseNotFound
		}
		return models.Course{}, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (r *CatalogPostgres) LessonByID(ctx context.Context, lessonID uuid.UUID) (models.CatalogLesson, error) {
	var lesson models.CatalogLesson
	query := `
    SELECT id, course_id, kind, ordinal, is_optional, duration_seconds, page_count, quiz_id
      FROM lessons
     WHERE id = $1`

	err := r.db.QueryRow(ctx, query, lessonID).Scan(
		&lesson.ID, &lesson.CourseID, &lesson.Kind, &lesson.Ordinal,
		&lesson.IsOptional, &lesson.DurationSeconds, &lesson.PageCount, &lesson.QuizID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.CatalogLesson{}, app_errors.ErrLessonNotFound
		}
		return models.CatalogLesson{}, fmt.Errorf("failed to get lesson: %w", err)
	}
	return lesson, nil
}

func (r *CatalogPostgres) LessonsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.CatalogLesson, error) {
	query := `
    SELECT id, course_id, kind, ordinal, is_optional, duration_seconds, page_count, quiz_id
      FROM lessons
     WHERE course_id = $1
     ORDER BY ordinal`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons by course: %w", err)
	}
	defer rows.Close()

	var lessons []models.CatalogLesson
	for rows.Next() {
		var l models.CatalogLesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Kind, &l.Ordinal,
			&l.IsOptional, &l.DurationSeconds, &l.PageCount, &l.QuizID); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *CatalogPostgres) QuizByID(ctx context.Context, quizID uuid.UUID) (models.QuizDefinition, error) {
	var quiz models.QuizDefinition
	var definition []byte
	query := `SELECT id, lesson_id, definition FROM quizzes WHERE id = $1`

	err := r.db.QueryRow(ctx, query, quizID).Scan(&quiz.ID, &quiz.LessonID, &definition)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.QuizDefinition{}, app_errors.ErrQuizNotFound
		}
		return models.QuizDefinition{}, fmt.Errorf("failed to get quiz: %w", err)
	}

	id, lessonID := quiz.ID, quiz.LessonID
	if err := json.Unmarshal(definition, &quiz); err != nil {
		return models.QuizDefinition{}, fmt.Errorf("invalid quiz definition: %w", err)
	}
	quiz.ID, quiz.LessonID = id, lessonID
	return quiz, nil
}
