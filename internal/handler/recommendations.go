package handler

import (
	"net/http"

	apperrors "homefinder/internal/errors"
	"homefinder/internal/model"
	"homefinder/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecommendationHandler serves the results page
type RecommendationHandler struct {
	service *service.RecommendationService
	session Session
	logger  *zap.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(svc *service.RecommendationService, session Session, logger *zap.Logger) *RecommendationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommendationHandler{
		service: svc,
		session: session,
		logger:  logger,
	}
}

// bindRequest accepts an empty body
func bindRequest(c *gin.Context) (model.RecommendationRequest, bool) {
	var req model.RecommendationRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return req, false
	}
	return req, true
}

// Recommend handles POST /api/v1/recommendations
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}

	requestID := uuid.NewString()
	sessionID := h.session.ID(c, req.SessionID)
	if sessionID == "" {
		status, view := errorView(apperrors.NewNoPreferencesError(), req.Language, requestID)
		c.JSON(status, view)
		return
	}

	response, err := h.service.Recommend(c.Request.Context(), requestID, sessionID)
	if err != nil {
		lang := req.Language
		if response != nil {
			lang = response.Language
		}
		h.logger.Warn("recommendation failed",
			zap.String("request_id", requestID),
			zap.String("code", string(apperrors.CodeOf(err))),
			zap.Error(err))
		status, view := errorView(err, lang, requestID)
		c.JSON(status, view)
		return
	}

	c.JSON(http.StatusOK, response)
}

// RecommendStream handles POST /api/v1/recommendations/stream - SSE progress
func (h *RecommendationHandler) RecommendStream(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}

	setSSEHeaders(c)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	requestID := uuid.NewString()
	sendSSE(c, "start", map[string]any{"request_id": requestID})
	flusher.Flush()

	defer func() {
		sendSSE(c, "done", nil)
		flusher.Flush()
	}()

	sessionID := h.session.ID(c, req.SessionID)
	if sessionID == "" {
		_, view := errorView(apperrors.NewNoPreferencesError(), req.Language, requestID)
		sendSSE(c, "error", view)
		return
	}

	response, err := h.service.RecommendStream(c.Request.Context(), requestID, sessionID, func(event string, data any) error {
		sendSSE(c, event, data)
		flusher.Flush()
		return nil
	})
	if err != nil {
		lang := req.Language
		if response != nil {
			lang = response.Language
		}
		_, view := errorView(err, lang, requestID)
		sendSSE(c, "error", view)
		return
	}

	sendSSE(c, "results", response)
}
