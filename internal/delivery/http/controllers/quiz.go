package controllers

import (
	"context"
	"net/http"

	"github.com/vikramkatyani/lmsBox-sub000/internal/models"
	"github.com/vikramkatyani/lmsBox-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QuizService interface {
	StartAttempt(ctx context.Context, learnerID, quizID uuid.UUID) (models.AttemptWindow, error)
	Submit(ctx context.Context, learnerID, quizID uuid.UUID, answers []models.AttemptAnswer) (models.QuizAttempt, error)
	Attempts(ctx context.Context, learnerID, quizID uuid.UUID) ([]models.QuizAttempt, error)
}

type QuizHandler struct {
	log     logger.Log
	service QuizService
}

func NewQuizHandler(log logger.Log, service QuizService) *QuizHandler {
	return &QuizHandler{
		log:     log,
		service: service,
	}
}

// StartAttempt handles POST /v1/quizzes/:quiz_id/attempts/start.
func (h *QuizHandler) StartAttempt(c *gin.Context) {
	learnerID, ok := clientID(c)
	if !ok {
		return
	}
	quizID, ok := pathUUID(c, "quiz_id")
	if !ok {
		return
	}

	window, err := h.service.StartAttempt(c.Request.Context(), learnerID, quizID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, window)
}

type submitAttemptRequest struct {
	Answers []models.AttemptAnswer `json:"answers"`
}

// Submit handles POST /v1/quizzes/:quiz_id/attempts.
func (h *QuizHandler) Submit(c *gin.Context) {
	learnerID, ok := clientID(c)
	if !ok {
		return
	}
	quizID, ok := pathUUID(c, "quiz_id")
	if !ok {
		return
	}

	var req submitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	attempt, err := h.service.Submit(c.Request.Context(), learnerID, quizID, req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, attempt)
}

// Attempts handles GET /v1/quizzes/:quiz_id/attempts.
func (h *QuizHandler) Attempts(c *gin.Context) {
	learnerID, ok := clientID(c)
	if !ok {
		return
	}
	quizID, ok := pathUUID(c, "quiz_id")
	if !ok {
		return
	}

	attempts, err := h.service.Attempts(c.Request.Context(), learnerID, quizID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}
