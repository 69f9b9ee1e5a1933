package model

// PreferencesRequest is the JSON body of POST /api/v1/preferences
type PreferencesRequest struct {
	PropertyPreferences
	SessionID string `json:"session_id,omitempty"`
}

// SubmitResponse acknowledges stored preferences
type SubmitResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
	Next      string `json:"next"`
}

// RecommendationRequest optionally names the session to consume
type RecommendationRequest struct {
	SessionID string   `json:"session_id,omitempty"`
	Language  Language `json:"language,omitempty"` // used for errors before preferences load
}

// RecommendationResponse is what the results page renders
type RecommendationResponse struct {
	RequestID   string              `json:"request_id"`
	Language    Language            `json:"language"`
	RTL         bool                `json:"rtl"`
	Preferences PropertyPreferences `json:"preferences"`
	Result      *AIAgentResponse    `json:"result"`
	UI          map[string]string   `json:"ui"`
	MatchesText string              `json:"matches_text"`
	Attempts    int                 `json:"attempts"`
	// UnmetFeatures lists, per recommendation id, must-have features the
	// listing does not mention
	UnmetFeatures map[string][]string `json:"unmet_features,omitempty"`
	Took          int64               `json:"took_ms"` // Response time in milliseconds
}

// ErrorView is the generic failure view with fallback suggestions
type ErrorView struct {
	RequestID   string   `json:"request_id,omitempty"`
	Code        string   `json:"code"`
	Title       string   `json:"title"`
	Message     string   `json:"message"`
	Field       string   `json:"field,omitempty"`
	Excerpt     string   `json:"excerpt,omitempty"`
	Attempts    int      `json:"attempts,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Language    Language `json:"language"`
	RTL         bool     `json:"rtl"`
}

// FeedbackRequest represents user feedback/action on a recommendation
type FeedbackRequest struct {
	RequestID        string `json:"request_id" binding:"required"`
	RecommendationID string `json:"recommendation_id" binding:"required"`
	Action           string `json:"action" binding:"required"` // click, contact, view_details
}

// FeedbackResponse represents feedback response
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// CatalogResponse lists the form's choices
type CatalogResponse struct {
	Languages     []Language          `json:"languages"`
	PropertyTypes []PropertyType      `json:"property_types"`
	Timeframes    []Timeframe         `json:"timeframes"`
	Features      []string            `json:"features"`
	Defaults      PropertyPreferences `json:"defaults"`
}
