package handler

import (
	"net/http"

	"homefinder/internal/model"
	"homefinder/internal/service"

	"github.com/gin-gonic/gin"
)

var validActions = map[string]bool{
	"click":        true,
	"contact":      true,
	"view_details": true,
}

// FeedbackHandler handles feedback-related HTTP requests
type FeedbackHandler struct {
	service *service.RecommendationService
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(svc *service.RecommendationService) *FeedbackHandler {
	return &FeedbackHandler{
		service: svc,
	}
}

// Submit handles POST /api/v1/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	if !h.service.RunLogEnabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Feedback logging is disabled"})
		return
	}

	var req model.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if !validActions[req.Action] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action. Must be one of: click, contact, view_details"})
		return
	}

	if err := h.service.LogFeedback(c.Request.Context(), req.RequestID, req.RecommendationID, req.Action); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log feedback: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.FeedbackResponse{
		Success: true,
		Message: "Feedback logged successfully",
	})
}
