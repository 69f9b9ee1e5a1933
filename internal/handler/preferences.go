package handler

import (
	"context"
	"errors"
	"net/http"

	"homefinder/internal/collector"
	apperrors "homefinder/internal/errors"
	"homefinder/internal/model"
	"homefinder/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// PreferencePeeker reads stored preferences without consuming them
type PreferencePeeker interface {
	Peek(ctx context.Context, sessionID string) (model.PropertyPreferences, error)
}

// PreferencesHandler handles the preference form
type PreferencesHandler struct {
	collector *collector.Collector
	store     PreferencePeeker
	session   Session
	logger    *zap.Logger
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(c *collector.Collector, store PreferencePeeker, session Session, logger *zap.Logger) *PreferencesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferencesHandler{
		collector: c,
		store:     store,
		session:   session,
		logger:    logger,
	}
}

// Submit handles POST /api/v1/preferences with a JSON or form body
func (h *PreferencesHandler) Submit(c *gin.Context) {
	var req model.PreferencesRequest
	if c.ContentType() == binding.MIMEJSON {
		req.PropertyPreferences = model.DefaultPreferences()
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
	} else {
		if err := c.Request.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
		req.PropertyPreferences = collector.FromForm(c.Request.PostForm)
		req.SessionID = c.Request.PostForm.Get("session_id")
	}

	sessionID := h.session.Resolve(c, req.SessionID)
	if err := h.collector.Submit(c.Request.Context(), sessionID, req.PropertyPreferences); err != nil {
		if !apperrors.IsCode(err, apperrors.ErrCodeMissingRequiredField) {
			h.logger.Error("failed to store preferences", zap.String("session_id", sessionID), zap.Error(err))
		}
		status, view := errorView(err, req.Language, "")
		c.JSON(status, view)
		return
	}
	h.session.Issue(c, sessionID)

	c.JSON(http.StatusCreated, model.SubmitResponse{
		Success:   true,
		SessionID: sessionID,
		Next:      "/api/v1/recommendations",
	})
}

// Get handles GET /api/v1/preferences, returning the pending submission
// for prefilling the form, or the form defaults when there is none
func (h *PreferencesHandler) Get(c *gin.Context) {
	sessionID := h.session.ID(c, c.Query("session_id"))
	if sessionID == "" {
		c.JSON(http.StatusOK, gin.H{"found": false, "preferences": model.DefaultPreferences()})
		return
	}

	prefs, err := h.store.Peek(c.Request.Context(), sessionID)
	if errors.Is(err, repository.ErrPreferencesNotFound) {
		c.JSON(http.StatusOK, gin.H{"found": false, "preferences": model.DefaultPreferences()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load preferences: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"found": true, "preferences": prefs})
}

// Catalog handles GET /api/v1/catalog
func (h *PreferencesHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, model.CatalogResponse{
		Languages:     model.SupportedLanguages,
		PropertyTypes: model.PropertyTypes,
		Timeframes:    model.Timeframes,
		Features:      model.FeatureCatalog,
		Defaults:      model.DefaultPreferences(),
	})
}
