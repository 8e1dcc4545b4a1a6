package controllers

import (
	"context"
	"net/http"

	"github.com/vikramkatyani/lmsBox-sub000/internal/models"
	"github.com/vikramkatyani/lmsBox-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CourseService interface {
	Summary(ctx context.Context, learnerID, courseID uuid.UUID) (models.CourseProgressSummary, error)
}

type CertificateService interface {
	Certificate(ctx context.Context, learnerID, courseID uuid.UUID) (models.CertificateRecord, error)
}

type CourseHandler struct {
	log          logger.Log
	courses      CourseService
	certificates CertificateService
}

func NewCourseHandler(log logger.Log, courses CourseService, certificates CertificateService) *CourseHandler {
	return &CourseHandler{
		log:          log,
		courses:      courses,
		certificates: certificates,
	}
}

// Summary handles GET /v1/courses/:course_id/summary.
func (h *CourseHandler) Summary(c *gin.Context) {
	learnerID, ok := clientID(c)
	if !ok {
		return
	}
	courseID, ok := pathUUID(c, "course_id")
	if !ok {
		return
	}

	summary, err := h.courses.Summary(c.Request.Context(), learnerID, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Certificate handles GET /v1/courses/:course_id/certificate.
func (h *CourseHandler) Certificate(c *gin.Context) {
	learnerID, ok := clientID(c)
	if !ok {
		return
	}
	courseID, ok := pathUUID(c, "course_id")
	if !ok {
		return
	}

	rec, err := h.certificates.Certificate(c.Request.Context(), learnerID, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
