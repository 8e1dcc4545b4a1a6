package certificate

import (
	"context"
	"time"

	"github.com/vikramkatyani/lmsBox-sub000/internal/app_errors"
	"github.com/vikramkatyani/lmsBox-sub000/internal/models"
	"github.com/vikramkatyani/lmsBox-sub000/internal/service/course"
	"github.com/vikramkatyani/lmsBox-sub000/pkg/logger"

	"github.com/google/uuid"
)

type certificateRepo interface {
	CreateIfAbsent(ctx context.Context, rec models.CertificateRecord) (bool, error)
	Get(ctx context.Context, learnerID, courseID uuid.UUID) (models.CertificateRecord, error)
	SetRendered(ctx context.Context, certificateID uuid.UUID, renderedURL string) error
}

// Renderer is the external collaborator producing the certificate artifact.
// Failures are retryable; they never undo issuance.
type Renderer interface {
	Render(ctx context.Context, learnerID, courseID, certificateID uuid.UUID) (string, error)
}

type catalogRepo interface {
	CourseByID(ctx context.Context, courseID uuid.UUID) (models.Course, error)
	LessonsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.CatalogLesson, error)
}

type progressRepo interface {
	ListByCourse(ctx context.Context, learnerID, courseID uuid.UUID) ([]models.LearnerProgressRecord, error)
}

type gateRepo interface {
	GateState(ctx context.Context, learnerID, courseID uuid.UUID) (models.SurveyGateState, error)
}

type CertificateService struct {
	log      logger.Log
	records  certificateRepo
	renderer Renderer
	catalog  catalogRepo
	progress progressRepo
	gates    gateRepo
}

func NewCertificateService(log logger.Log, records certificateRepo, renderer Renderer, catalog catalogRepo, progress progressRepo, gates gateRepo) *CertificateService {
	return &CertificateService{
		log:      log,
		records:  records,
		renderer: renderer,
		catalog:  catalog,
		progress: progress,
		gates:    gates,
	}
}

// IssueIfEligible issues the certificate for a completed course at most once.
// Concurrent callers race on the conditional create; exactly one wins and
// performs the render side effect, the rest observe ErrAlreadyIssued. A
// render failure leaves the record pending, never duplicated.
func (s *CertificateService) IssueIfEligible(ctx context.Context, learnerID, courseID uuid.UUID) (models.CertificateRecord, error) {
	crs, err := s.catalog.CourseByID(ctx, courseID)
	if err != nil {
		return models.CertificateRecord{}, err
	}
	if !crs.CertificatesEnabled {
		return models.CertificateRecord{}, app_errors.ErrNotEligible
	}

	summary, err := s.summarize(ctx, learnerID, crs)
	if err != nil {
		return models.CertificateRecord{}, err
	}
	if !summary.IsComplete {
		return models.CertificateRecord{}, app_errors.ErrNotEligible
	}

	rec := models.CertificateRecord{
		CertificateID: uuid.New(),
		LearnerID:     learnerID,
		CourseID:      courseID,
		Status:        models.CertificatePending,
		IssuedAt:      time.Now().UTC(),
		IssuedBy:      models.IssuedBySystem,
	}
	inserted, err := s.records.CreateIfAbsent(ctx, rec)
	if err != nil {
		return models.CertificateRecord{}, err
	}
	if !inserted {
		return models.CertificateRecord{}, app_errors.ErrAlreadyIssued
	}

	return s.render(ctx, rec), nil
}

// Certificate returns the learner's certificate for a course. A record stuck
// in pending gets another render attempt on read; this is the retry path for
// render failures.
func (s *CertificateService) Certificate(ctx context.Context, learnerID, courseID uuid.UUID) (models.CertificateRecord, error) {
	rec, err := s.records.Get(ctx, learnerID, courseID)
	if err != nil {
		return models.CertificateRecord{}, err
	}
	if rec.Status == models.CertificatePending {
		rec = s.render(ctx, rec)
	}
	return rec, nil
}

func (s *CertificateService) render(ctx context.Context, rec models.CertificateRecord) models.CertificateRecord {
	url, err := s.renderer.Render(ctx, rec.LearnerID, rec.CourseID, rec.CertificateID)
	if err != nil {
		s.log.ErrorErr("certificate render failed, record left pending", err,
			"certificate_id", rec.CertificateID)
		return rec
	}
	if err := s.records.SetRendered(ctx, rec.CertificateID, url); err != nil {
		s.log.ErrorErr("failed to mark certificate rendered", err,
			"certificate_id", rec.CertificateID)
		return rec
	}
	rec.Status = models.CertificateIssued
	rec.RenderedURL = url
	return rec
}

func (s *CertificateService) summarize(ctx context.Context, learnerID uuid.UUID, crs models.Course) (models.CourseProgressSummary, error) {
	lessons, err := s.catalog.LessonsByCourse(ctx, crs.ID)
	if err != nil {
		return models.CourseProgressSummary{}, err
	}
	records, err := s.progress.ListByCourse(ctx, learnerID, crs.ID)
	if err != nil {
		return models.CourseProgressSummary{}, err
	}
	gate, err := s.gates.GateState(ctx, learnerID, crs.ID)
	if err != nil {
		return models.CourseProgressSummary{}, err
	}
	return course.Summarize(crs, lessons, records, gate), nil
}
