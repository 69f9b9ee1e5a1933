package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"homefinder/internal/config"
	apperrors "homefinder/internal/errors"
	"homefinder/internal/metrics"
	"homefinder/internal/model"
	"homefinder/internal/prompt"
	"homefinder/internal/retry"
	"homefinder/internal/utils"

	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "homefinder/internal/service"

// EventCallback receives progress events during a run
type EventCallback func(event string, data any) error

// RecommenderOptions tune a Recommender
type RecommenderOptions struct {
	Retry       retry.Policy
	ExtractMode utils.ExtractMode
	// TracerProvider defaults to the global provider
	TracerProvider trace.TracerProvider
}

// Recommender turns preferences into model-generated recommendations
type Recommender struct {
	generator   TextGenerator
	initErr     error
	policy      retry.Policy
	extractMode utils.ExtractMode
	tracer      trace.Tracer
	logger      *zap.Logger
}

// RunResult is a successful run plus what it took to get there
type RunResult struct {
	Response *model.AIAgentResponse
	Language model.Language
	Attempts int
}

// NewRecommender creates a Recommender around gen
func NewRecommender(gen TextGenerator, opts RecommenderOptions, logger *zap.Logger) *Recommender {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ExtractMode == "" {
		opts.ExtractMode = utils.ExtractBalanced
	}
	if opts.TracerProvider == nil {
		opts.TracerProvider = otel.GetTracerProvider()
	}
	return &Recommender{
		generator:   gen,
		policy:      opts.Retry,
		extractMode: opts.ExtractMode,
		tracer:      opts.TracerProvider.Tracer(tracerName),
		logger:      logger,
	}
}

// NewGeminiRecommender validates the configured key and builds a Gemini-backed
// Recommender. A bad key does not fail construction; every run then reports it.
func NewGeminiRecommender(cfg config.GeminiConfig, opts RecommenderOptions, logger *zap.Logger) *Recommender {
	r := NewRecommender(nil, opts, logger)

	cred, err := NewCredential(cfg.APIKey)
	if err != nil {
		r.initErr = err
		return r
	}
	client, err := NewGeminiClient(cfg, cred, r.logger)
	if err != nil {
		r.initErr = err
		return r
	}
	r.generator = client
	return r
}

// Ready returns the initialization error, if any
func (r *Recommender) Ready() error {
	switch {
	case r == nil:
		return apperrors.NewNotInitializedError("recommender is nil")
	case r.initErr != nil:
		return r.initErr
	case r.generator == nil:
		return apperrors.NewNotInitializedError("no text generator configured")
	}
	return nil
}

// GenerateRecommendations runs the pipeline once. prefs is never modified.
func (r *Recommender) GenerateRecommendations(ctx context.Context, prefs model.PropertyPreferences) (*model.AIAgentResponse, error) {
	res, err := r.Run(ctx, prefs, nil)
	if err != nil {
		return nil, err
	}
	return res.Response, nil
}

// GenerateStream is GenerateRecommendations with progress events
func (r *Recommender) GenerateStream(ctx context.Context, prefs model.PropertyPreferences, cb EventCallback) (*model.AIAgentResponse, error) {
	res, err := r.Run(ctx, prefs, cb)
	if err != nil {
		return nil, err
	}
	return res.Response, nil
}

// Run executes the pipeline and reports progress through cb when non-nil.
// Every failure is a *errors.StandardError; no partial result is returned.
func (r *Recommender) Run(ctx context.Context, prefs model.PropertyPreferences, cb EventCallback) (res *RunResult, err error) {
	start := time.Now()
	if r != nil && r.tracer != nil {
		var span trace.Span
		ctx, span = r.tracer.Start(ctx, "recommendation.run",
			trace.WithAttributes(attribute.String("language", string(prefs.Language))))
		defer func() {
			annotateSpan(span, res, err)
			span.End()
		}()
	}
	res, err = r.run(ctx, prefs, cb)

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = string(apperrors.CodeOf(err))
	}
	metrics.RecommendationRequests.WithLabelValues(string(prefs.Language), outcome).Inc()
	metrics.RecommendationDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	return res, err
}

func annotateSpan(span trace.Span, res *RunResult, err error) {
	if err != nil {
		code := apperrors.CodeOf(err)
		span.SetAttributes(attribute.String("outcome", string(code)))
		var se *apperrors.StandardError
		if errors.As(err, &se) && se.Attempts > 0 {
			span.SetAttributes(attribute.Int("attempts", se.Attempts))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, string(code))
		return
	}
	span.SetAttributes(
		attribute.String("outcome", metrics.OutcomeOK),
		attribute.Int("attempts", res.Attempts),
		attribute.Int("recommendations", len(res.Response.Recommendations)),
	)
}

func (r *Recommender) run(ctx context.Context, prefs model.PropertyPreferences, cb EventCallback) (*RunResult, error) {
	if err := r.Ready(); err != nil {
		return nil, err
	}
	emit := func(event string, data any) error {
		if cb == nil {
			return nil
		}
		return cb(event, data)
	}

	enhanced := normalizePreferences(prefs)

	tmpl, known := prompt.Select(enhanced.Language)
	if !known {
		r.logger.Info("unknown language, using English template", zap.String("language", string(enhanced.Language)))
	}
	text, err := tmpl.Render(enhanced)
	if err != nil {
		return nil, err
	}
	if err := emit("prompt", map[string]any{
		"language": tmpl.Language,
		"fallback": !known,
		"status":   "Finding your dream home...",
	}); err != nil {
		return nil, err
	}

	raw, attempts, err := r.generate(ctx, text, emit)
	if err != nil {
		return nil, err
	}

	if err := emit("parsing", map[string]any{"attempts": attempts}); err != nil {
		return nil, err
	}
	resp, err := r.decode(raw)
	if err != nil {
		r.logger.Warn("could not decode model reply",
			zap.String("code", string(apperrors.CodeOf(err))),
			zap.Int("reply_bytes", len(raw)))
		return nil, err
	}

	return &RunResult{Response: resp, Language: tmpl.Language, Attempts: attempts}, nil
}

// generate calls the upstream through the retry policy
func (r *Recommender) generate(ctx context.Context, text string, emit EventCallback) (string, int, error) {
	metrics.RecommendationsInFlight.Inc()
	defer metrics.RecommendationsInFlight.Dec()

	var raw string
	attempts, err := r.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		out, err := r.generator.GenerateText(ctx, text)
		if err != nil {
			metrics.UpstreamAttempts.WithLabelValues(metrics.ResultFailure).Inc()
			return err
		}
		metrics.UpstreamAttempts.WithLabelValues(metrics.ResultSuccess).Inc()
		raw = out
		return nil
	}, func(attempt int, err error, next time.Duration) {
		r.logger.Warn("upstream call failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", next),
			zap.Error(err))
		if cbErr := emit("attempt_failed", map[string]any{
			"attempt":     attempt,
			"retry_in_ms": next.Milliseconds(),
		}); cbErr != nil {
			r.logger.Debug("progress callback failed", zap.Error(cbErr))
		}
	})
	if err != nil {
		last := err
		var rerr *retry.Error
		if errors.As(err, &rerr) {
			last = rerr.Last
		}
		r.logger.Error("upstream unavailable", zap.Int("attempts", attempts), zap.Error(last))
		return "", attempts, apperrors.NewUpstreamUnavailableError(attempts, last)
	}

	if strings.TrimSpace(raw) == "" {
		return "", attempts, apperrors.NewEmptyResponseError()
	}
	return raw, attempts, nil
}

// responseShapeSchema only requires recommendations to be an array;
// field types inside items are checked by the typed decode.
var responseShapeSchema = mustCompileSchema(map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"recommendations"},
	"properties": map[string]interface{}{
		"recommendations": map[string]interface{}{"type": "array"},
	},
})

func mustCompileSchema(schema map[string]interface{}) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("invalid response schema: %v", err))
	}
	return s
}

// decode extracts, parses, shape-checks and decodes the reply
func (r *Recommender) decode(raw string) (*model.AIAgentResponse, error) {
	span, ok := utils.ExtractJSONObject(raw, r.extractMode, "recommendations")
	if !ok {
		return nil, apperrors.NewNoJSONFoundError(raw)
	}

	var generic interface{}
	if err := json.Unmarshal([]byte(span), &generic); err != nil {
		return nil, apperrors.NewMalformedJSONError(span, err)
	}

	result, err := responseShapeSchema.Validate(gojsonschema.NewGoLoader(generic))
	if err != nil {
		return nil, apperrors.NewInvalidShapeError(err.Error(), span)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return nil, apperrors.NewInvalidShapeError(strings.Join(details, "; "), span)
	}

	var resp model.AIAgentResponse
	if err := json.Unmarshal([]byte(span), &resp); err != nil {
		return nil, apperrors.NewMalformedJSONError(span, fmt.Errorf("unexpected field type: %w", err))
	}
	if resp.Recommendations == nil {
		resp.Recommendations = []model.PropertyRecommendation{}
	}
	return &resp, nil
}

// normalizePreferences returns the copy used for prompting
func normalizePreferences(prefs model.PropertyPreferences) model.PropertyPreferences {
	out := prefs.Clone()
	if strings.TrimSpace(out.Location) == "" {
		out.Location = model.AnyLocation
	}
	return out
}
