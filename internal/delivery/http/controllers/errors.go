package controllers

import (
	"errors"
	"net/http"

	"github.com/vikramkatyani/lmsBox-sub000/internal/app_errors"
	"github.com/vikramkatyani/lmsBox-sub000/internal/delivery/http/controllers/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app_errors.ErrVersionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, app_errors.ErrGateNotSatisfied):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, app_errors.ErrInvalidEvent),
		errors.Is(err, app_errors.ErrAttemptsExhausted),
		errors.Is(err, app_errors.ErrTimeExceeded),
		errors.Is(err, app_errors.ErrAttemptNotStarted),
		errors.Is(err, app_errors.ErrNotEligible):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, app_errors.ErrRecordNotFound),
		errors.Is(err, app_errors.ErrLessonNotFound),
		errors.Is(err, app_errors.ErrCourseNotFound),
		errors.Is(err, app_errors.ErrQuizNotFound),
		errors.Is(err, app_errors.ErrCertificateNotIssued):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func clientID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.ClientIDCtx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
		return uuid.Nil, false
	}
	return id, true
}

func pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}
