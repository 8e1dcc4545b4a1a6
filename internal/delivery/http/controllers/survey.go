package controllers

import (
	"context"
	"net/http"

	"github.com/vikramkatyani/lmsBox-sub000/internal/models"
	"github.com/vikramkatyani/lmsBox-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SurveyService interface {
	SubmitResponse(ctx context.Context, learnerID, courseID uuid.UUID, phase models.SurveyPhase, responseID uuid.UUID) (models.SurveyGateState, *models.CourseProgressSummary, error)
	GateState(ctx context.Context, learnerID, courseID uuid.UUID) (models.SurveyGateState, error)
}

type SurveyHandler struct {
	log     logger.Log
	service SurveyService
}

func NewSurveyHandler(log logger.Log, service SurveyService) *SurveyHandler {
	return &SurveyHandler{
		log:     log,
		service: service,
	}
}

type submitSurveyRequest struct {
	ResponseID uuid.UUID `json:"response_id" binding:"required"`
}

type submitSurveyResponse struct {
	Gate    models.SurveyGateState        `json:"gate"`
	Summary *models.CourseProgressSummary `json:"course_summary,omitempty"`
}

// SubmitResponse handles POST /v1/courses/:course_id/surveys/:phase.
func (h *SurveyHandler) SubmitResponse(c *gin.Context) {
	learnerID, ok := clientID(c)
	if !ok {
		return
	}
	courseID, ok := pathUUID(c, "course_id")
	if !ok {
		return
	}
	phase := models.SurveyPhase(c.Param("phase"))

	var req submitSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	state, summary, err := h.service.SubmitResponse(c.Request.Context(), learnerID, courseID, phase, req.ResponseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submitSurveyResponse{Gate: state, Summary: summary})
}

// GateState handles GET /v1/courses/:course_id/surveys.
func (h *SurveyHandler) GateState(c *gin.Context) {
	learnerID, ok := clientID(c)
	if !ok {
		return
	}
	courseID, ok := pathUUID(c, "course_id")
	if !ok {
		return
	}

	state, err := h.service.GateState(c.Request.Context(), learnerID, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}
