// Package inmem provides map-backed implementations of the engine's
// repositories. They honor the same version and uniqueness semantics as the
// postgres implementations and back the service tests.
package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/vikramkatyani/lmsBox-sub000/internal/app_errors"
	"github.com/vikramkatyani/lmsBox-sub000/internal/models"

	"github.com/google/uuid"
)

type progressKey struct {
	learnerID uuid.UUID
	lessonID  uuid.UUID
}

type ProgressInmem struct {
	mu      sync.Mutex
	records map[progressKey]models.LearnerProgressRecord
}

func NewProgressInmem() *ProgressInmem {
	return &ProgressInmem{records: make(map[progressKey]models.LearnerProgressRecord)}
}

func (s *ProgressInmem) Get(_ context.Context, learnerID, lessonID uuid.UUID) (models.LearnerProgressRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[progressKey{learnerID, lessonID}]
	if !ok {
		return models.LearnerProgressRecord{}, app_errors.ErrRecordNotFound
	}
	return cloneRecord(rec), nil
}

func (s *ProgressInmem) ListByCourse(_ context.Context, learnerID, courseID uuid.UUID) ([]models.LearnerProgressRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var records []models.LearnerProgressRecord
	for key, rec := range s.records {
		if key.learnerID == learnerID && rec.CourseID == courseID {
			records = append(records, cloneRecord(rec))
		}
	}
	return records, nil
}

func (s *ProgressInmem) Create(_ context.Context, rec models.LearnerProgressRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := progressKey{rec.LearnerID, rec.LessonID}
	if _, exists := s.records[key]; exists {
		return app_errors.ErrVersionConflict
	}
	rec.Version = 1
	s.records[key] = cloneRecord(rec)
	return nil
}

func (s *ProgressInmem) CompareAndWrite(_ context.Context, rec models.LearnerProgressRecord, expectedVersion int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := progressKey{rec.LearnerID, rec.LessonID}
	current, ok := s.records[key]
	if !ok || current.Version != expectedVersion {
		return 0, app_errors.ErrVersionConflict
	}
	rec.Version = expectedVersion + 1
	s.records[key] = cloneRecord(rec)
	return rec.Version, nil
}

func cloneRecord(rec models.LearnerProgressRecord) models.LearnerProgressRecord {
	if rec.Media != nil {
		media := *rec.Media
		rec.Media = &media
	}
	if rec.Runtime != nil {
		runtime := *rec.Runtime
		rec.Runtime = &runtime
	}
	return rec
}

type quizKey struct {
	learnerID uuid.UUID
	quizID    uuid.UUID
}

type QuizAttemptsInmem struct {
	mu       sync.Mutex
	attempts map[quizKey][]models.QuizAttempt
	windows  map[quizKey]models.AttemptWindow
}

func NewQuizAttemptsInmem() *QuizAttemptsInmem {
	return &QuizAttemptsInmem{
		attempts: make(map[quizKey][]models.QuizAttempt),
		windows:  make(map[quizKey]models.AttemptWindow),
	}
}

func (s *QuizAttemptsInmem) CountAttempts(_ context.Context, learnerID, quizID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempts[quizKey{learnerID, quizID}]), nil
}

func (s *QuizAttemptsInmem) AppendAttempt(_ context.Context, attempt models.QuizAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := quizKey{attempt.LearnerID, attempt.QuizID}
	for _, existing := range s.attempts[key] {
		if existing.AttemptNumber == attempt.AttemptNumber {
			return app_errors.ErrVersionConflict
		}
	}
	s.attempts[key] = append(s.attempts[key], attempt)
	return nil
}

func (s *QuizAttemptsInmem) ListAttempts(_ context.Context, learnerID, quizID uuid.UUID) ([]models.QuizAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempts := s.attempts[quizKey{learnerID, quizID}]
	out := make([]models.QuizAttempt, len(attempts))
	copy(out, attempts)
	return out, nil
}

func (s *QuizAttemptsInmem) StartWindow(_ context.Context, learnerID, quizID uuid.UUID, startedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows[quizKey{learnerID, quizID}] = models.AttemptWindow{LearnerID: learnerID, QuizID: quizID, StartedAt: startedAt}
	return nil
}

func (s *QuizAttemptsInmem) GetWindow(_ context.Context, learnerID, quizID uuid.UUID) (models.AttemptWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[quizKey{learnerID, quizID}]
	if !ok {
		return models.AttemptWindow{}, app_errors.ErrAttemptNotStarted
	}
	return w, nil
}

func (s *QuizAttemptsInmem) ClearWindow(_ context.Context, learnerID, quizID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, quizKey{learnerID, quizID})
	return nil
}

type certificateKey struct {
	learnerID uuid.UUID
	courseID  uuid.UUID
}

type CertificateInmem struct {
	mu      sync.Mutex
	records map[certificateKey]models.CertificateRecord
}

func NewCertificateInmem() *CertificateInmem {
	return &CertificateInmem{records: make(map[certificateKey]models.CertificateRecord)}
}

func (s *CertificateInmem) CreateIfAbsent(_ context.Context, rec models.CertificateRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := certificateKey{rec.LearnerID, rec.CourseID}
	if _, exists := s.records[key]; exists {
		return false, nil
	}
	s.records[key] = rec
	return true, nil
}

func (s *CertificateInmem) Get(_ context.Context, learnerID, courseID uuid.UUID) (models.CertificateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[certificateKey{learnerID, courseID}]
	if !ok {
		return models.CertificateRecord{}, app_errors.ErrCertificateNotIssued
	}
	return rec, nil
}

func (s *CertificateInmem) SetRendered(_ context.Context, certificateID uuid.UUID, renderedURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, rec := range s.records {
		if rec.CertificateID == certificateID {
			rec.Status = models.CertificateIssued
			rec.RenderedURL = renderedURL
			s.records[key] = rec
			return nil
		}
	}
	return app_errors.ErrCertificateNotIssued
}

type surveyKey struct {
	learnerID uuid.UUID
	courseID  uuid.UUID
	phase     models.SurveyPhase
}

type surveyResponse struct {
	responseID  uuid.UUID
	completedAt time.Time
}

type SurveyInmem struct {
	mu        sync.Mutex
	responses map[surveyKey]surveyResponse
}

func NewSurveyInmem() *SurveyInmem {
	return &SurveyInmem{responses: make(map[surveyKey]surveyResponse)}
}

func (s *SurveyInmem) RecordResponse(_ context.Context, learnerID, courseID uuid.UUID, phase models.SurveyPhase, responseID uuid.UUID, completedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := surveyKey{learnerID, courseID, phase}
	if existing, ok := s.responses[key]; ok {
		existing.responseID = responseID
		s.responses[key] = existing
		return nil
	}
	s.responses[key] = surveyResponse{responseID: responseID, completedAt: completedAt}
	return nil
}

func (s *SurveyInmem) GateState(_ context.Context, learnerID, courseID uuid.UUID) (models.SurveyGateState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := models.SurveyGateState{LearnerID: learnerID, CourseID: courseID}
	if resp, ok := s.responses[surveyKey{learnerID, courseID, models.SurveyPre}]; ok {
		state.PreCompleted = true
		state.PreResponseID = &resp.responseID
		state.PreCompletedAt = &resp.completedAt
	}
	if resp, ok := s.responses[surveyKey{learnerID, courseID, models.SurveyPost}]; ok {
		state.PostCompleted = true
		state.PostResponseID = &resp.responseID
		state.PostCompletedAt = &resp.completedAt
	}
	return state, nil
}

type CatalogInmem struct {
	mu      sync.Mutex
	courses map[uuid.UUID]models.Course
	lessons map[uuid.UUID]models.CatalogLesson
	quizzes map[uuid.UUID]models.QuizDefinition
}

func NewCatalogInmem() *CatalogInmem {
	return &CatalogInmem{
		courses: make(map[uuid.UUID]models.Course),
		lessons: make(map[uuid.UUID]models.CatalogLesson),
		quizzes: make(map[uuid.UUID]models.QuizDefinition),
	}
}

func (s *CatalogInmem) AddCourse(course models.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[course.ID] = course
}

func (s *CatalogInmem) AddLesson(lesson models.CatalogLesson) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lessons[lesson.ID] = lesson
}

func (s *CatalogInmem) AddQuiz(quiz models.QuizDefinition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[quiz.ID] = quiz
}

func (s *CatalogInmem) CourseByID(_ context.Context, courseID uuid.UUID) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.courses[courseID]
	if !ok {
		return models.Course{}, app_errors.ErrCourseNotFound
	}
	return course, nil
}

func (s *CatalogInmem) LessonByID(_ context.Context, lessonID uuid.UUID) (models.CatalogLesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lesson, ok := s.lessons[lessonID]
	if !ok {
		return models.CatalogLesson{}, app_errors.ErrLessonNotFound
	}
	return lesson, nil
}

func (s *CatalogInmem) LessonsByCourse(_ context.Context, courseID uuid.UUID) ([]models.CatalogLesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var lessons []models.CatalogLesson
	for _, lesson := range s.lessons {
		if lesson.CourseID == courseID {
			lessons = append(lessons, lesson)
		}
	}
	return lessons, nil
}

func (s *CatalogInmem) QuizByID(_ context.Context, quizID uuid.UUID) (models.QuizDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return models.QuizDefinition{}, app_errors.ErrQuizNotFound
	}
	return quiz, nil
}
