package controllers

import (
	"context"
	"net/http"

	"github.com/vikramkatyani/lmsBox-sub000/internal/models"
	"github.com/vikramkatyani/lmsBox-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProgressService interface {
	PostEvent(ctx context.Context, learnerID, lessonID uuid.UUID, event models.ProgressEvent, expectedVersion int64) (models.LearnerProgressRecord, models.CourseProgressSummary, error)
	Record(ctx context.Context, learnerID, lessonID uuid.UUID) (models.LearnerProgressRecord, error)
}

type ProgressHandler struct {
	log     logger.Log
	service ProgressService
}

func NewProgressHandler(log logger.Log, service ProgressService) *ProgressHandler {
	return &ProgressHandler{
		log:     log,
		service: service,
	}
}

type postEventRequest struct {
	Event           models.ProgressEvent `json:"event"`
	ExpectedVersion int64                `json:"expected_version"`
}

type postEventResponse struct {
	Record  models.LearnerProgressRecord `json:"record"`
	Summary models.CourseProgressSummary `json:"course_summary"`
}

// PostEvent handles POST /v1/lessons/:lesson_id/events.
func (h *ProgressHandler) PostEvent(c *gin.Context) {
	learnerID, ok := clientID(c)
	if !ok {
		return
	}
	lessonID, ok := pathUUID(c, "lesson_id")
	if !ok {
		return
	}

	var req postEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec, summary, err := h.service.PostEvent(c.Request.Context(), learnerID, lessonID, req.Event, req.ExpectedVersion)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, postEventResponse{Record: rec, Summary: summary})
}

// Record handles GET /v1/lessons/:lesson_id/progress.
func (h *ProgressHandler) Record(c *gin.Context) {
	learnerID, ok := clientID(c)
	if !ok {
		return
	}
	lessonID, ok := pathUUID(c, "lesson_id")
	if !ok {
		return
	}

	rec, err := h.service.Record(c.Request.Context(), learnerID, lessonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
