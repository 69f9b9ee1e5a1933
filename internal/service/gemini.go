package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"homefinder/internal/config"
	apperrors "homefinder/internal/errors"
	"homefinder/internal/retry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Safety filter settings sent with every request
const (
	HarmCategoryHarassment = "HARM_CATEGORY_HARASSMENT"
	HarmCategoryHateSpeech = "HARM_CATEGORY_HATE_SPEECH"
	BlockMediumAndAbove    = "BLOCK_MEDIUM_AND_ABOVE"
)

const (
	defaultGeminiAPIBase  = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel    = "gemini-pro"
	maxErrorBodyInMessage = 300
)

// GeminiClient calls the Gemini generateContent endpoint
type GeminiClient struct {
	config     config.GeminiConfig
	credential Credential
	httpClient *http.Client
	tracer     trace.Tracer
	logger     *zap.Logger
}

// NewGeminiClient creates a client. The credential must come from NewCredential.
func NewGeminiClient(cfg config.GeminiConfig, cred Credential, logger *zap.Logger) (*GeminiClient, error) {
	if !cred.Valid() {
		return nil, apperrors.NewInvalidCredentialError("credential was not validated")
	}
	if cfg.APIBase == "" {
		cfg.APIBase = defaultGeminiAPIBase
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &GeminiClient{
		config:     cfg,
		credential: cred,
		httpClient: &http.Client{Timeout: timeout},
		tracer:     otel.Tracer(tracerName),
		logger:     logger,
	}, nil
}

// Model returns the configured model name
func (c *GeminiClient) Model() string {
	return c.config.Model
}

// GenerateContentRequest is the generateContent request body
type GenerateContentRequest struct {
	Contents         []Content         `json:"contents"`
	SafetySettings   []SafetySetting   `json:"safetySettings,omitempty"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Content is one conversation turn
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a text fragment of a turn
type Part struct {
	Text string `json:"text"`
}

// SafetySetting blocks one harm category at a threshold
type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// GenerationConfig tunes sampling
type GenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// GenerateContentResponse is the subset of the reply we read
type GenerateContentResponse struct {
	Candidates []struct {
		Content      Content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// Text concatenates the parts of the first candidate
func (r *GenerateContentResponse) Text() string {
	if r == nil || len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// DefaultSafetySettings blocks harassment and hate speech at medium severity and above
func DefaultSafetySettings() []SafetySetting {
	return []SafetySetting{
		{Category: HarmCategoryHarassment, Threshold: BlockMediumAndAbove},
		{Category: HarmCategoryHateSpeech, Threshold: BlockMediumAndAbove},
	}
}

// GenerateText sends prompt and returns the reply text. A reply without
// candidates (for example a blocked prompt) yields "" and no error.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.GenerateContent(ctx, GenerateContentRequest{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		c.logger.Warn("prompt blocked by safety filter",
			zap.String("block_reason", resp.PromptFeedback.BlockReason))
	}
	return resp.Text(), nil
}

// GenerateContent performs a generateContent request
func (c *GeminiClient) GenerateContent(ctx context.Context, req GenerateContentRequest) (_ *GenerateContentResponse, err error) {
	ctx, span := c.tracer.Start(ctx, "gemini.generateContent",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("gemini.model", c.config.Model)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "generateContent failed")
		}
		span.End()
	}()

	if req.SafetySettings == nil {
		req.SafetySettings = DefaultSafetySettings()
	}
	if req.GenerationConfig == nil && (c.config.Temperature > 0 || c.config.MaxOutputTokens > 0) {
		req.GenerationConfig = &GenerationConfig{
			Temperature:     c.config.Temperature,
			MaxOutputTokens: c.config.MaxOutputTokens,
		}
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("failed to marshal request: %w", err))
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(c.config.APIBase, "/"), c.config.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.credential.key)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.logger.Debug("gemini response",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("API request failed with status %d: %s",
			resp.StatusCode, apperrors.Excerpt(string(body), maxErrorBodyInMessage))
		if isPermanentStatus(resp.StatusCode) {
			return nil, retry.Permanent(err)
		}
		return nil, err
	}

	var result GenerateContentResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &result, nil
}

// isPermanentStatus reports client errors that a retry cannot fix
func isPermanentStatus(code int) bool {
	switch code {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	}
	return false
}
