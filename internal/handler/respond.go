package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	apperrors "homefinder/internal/errors"
	"homefinder/internal/i18n"
	"homefinder/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Session resolves and issues the hand-off session cookie
type Session struct {
	CookieName string
	MaxAge     int // seconds
	Secure     bool
}

// ID returns explicit when set, else the cookie value, else ""
func (s Session) ID(c *gin.Context, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v, err := c.Cookie(s.CookieName); err == nil {
		return v
	}
	return ""
}

// Resolve is ID with a fresh uuid when there is no session yet
func (s Session) Resolve(c *gin.Context, explicit string) string {
	if id := s.ID(c, explicit); id != "" {
		return id
	}
	return uuid.NewString()
}

// Issue sets the session cookie
func (s Session) Issue(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.CookieName, id, s.MaxAge, "/", "", s.Secure, true)
}

// errorView localizes err. Anything without a code is reported as INTERNAL.
func errorView(err error, lang model.Language, requestID string) (int, model.ErrorView) {
	if !lang.IsKnown() {
		lang = model.LanguageEnglish
	}
	code := apperrors.CodeOf(err)
	view := model.ErrorView{
		RequestID: requestID,
		Code:      string(code),
		Title:     i18n.Text(lang, i18n.KeyError),
		Language:  lang,
		RTL:       i18n.IsRTL(lang),
	}

	var se *apperrors.StandardError
	if errors.As(err, &se) {
		view.Field = se.Field
		view.Excerpt = se.Excerpt
		view.Attempts = se.Attempts
	}

	switch code {
	case apperrors.ErrCodeMissingRequiredField:
		view.Message = i18n.Text(lang, i18n.KeyLocationRequired)
	case apperrors.ErrCodeNoPreferences:
		view.Message = i18n.Text(lang, i18n.KeyNoPreferences)
	case apperrors.ErrCodeInvalidCredential, apperrors.ErrCodeNotInitialized:
		view.Message = i18n.Text(lang, i18n.KeyConfigurationError)
		view.Suggestions = append(i18n.FallbackSuggestions(lang), i18n.Text(lang, i18n.KeyAdminHint))
	default:
		view.Message = i18n.Text(lang, i18n.KeyGenerationFailed)
		view.Suggestions = i18n.FallbackSuggestions(lang)
	}

	return apperrors.HTTPStatus(code), view
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
			return
		}
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(jsonData))
	} else {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
	}
}

// setSSEHeaders prepares the response for an event stream
func setSSEHeaders(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
}
