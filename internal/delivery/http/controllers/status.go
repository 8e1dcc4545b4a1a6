package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type StatusHandler struct {
	serviceName string
}

func NewStatusHandler(serviceName string) *StatusHandler {
	return &StatusHandler{serviceName: serviceName}
}

func (h *StatusHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Available", "service": h.serviceName})
}
