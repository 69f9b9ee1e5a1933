// Package collector validates the multi-step preference form and hands
// the result to the recommendation step.
package collector

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	apperrors "homefinder/internal/errors"
	"homefinder/internal/metrics"
	"homefinder/internal/model"
	"homefinder/internal/utils"

	"go.uber.org/zap"
)

// Store is the transient hand-off between the form and the results page
type Store interface {
	Put(ctx context.Context, sessionID string, prefs model.PropertyPreferences) error
}

// Collector accepts submitted preferences
type Collector struct {
	store  Store
	logger *zap.Logger
}

// New creates a Collector
func New(store Store, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{store: store, logger: logger}
}

// Submit validates prefs and stores them for sessionID. Only the location
// is required; feature sets are normalized before storing.
func (c *Collector) Submit(ctx context.Context, sessionID string, prefs model.PropertyPreferences) error {
	if err := Validate(prefs); err != nil {
		metrics.PreferenceSubmissions.WithLabelValues(metrics.ResultFailure).Inc()
		return err
	}

	stored := prefs.Clone()
	stored.Location = strings.TrimSpace(stored.Location)
	stored.MustHaveFeatures = utils.NormalizeFeatures(stored.MustHaveFeatures)
	stored.PreferredFeatures = utils.NormalizeFeatures(stored.PreferredFeatures)

	if err := c.store.Put(ctx, sessionID, stored); err != nil {
		metrics.PreferenceSubmissions.WithLabelValues(metrics.ResultFailure).Inc()
		return fmt.Errorf("failed to hand off preferences: %w", err)
	}

	metrics.PreferenceSubmissions.WithLabelValues(metrics.ResultSuccess).Inc()
	c.logger.Debug("preferences submitted",
		zap.String("session_id", sessionID),
		zap.String("language", string(stored.Language)),
		zap.Int("must_have", len(stored.MustHaveFeatures)))
	return nil
}

// Validate rejects an empty or whitespace-only location
func Validate(prefs model.PropertyPreferences) error {
	if strings.TrimSpace(prefs.Location) == "" {
		return apperrors.NewMissingRequiredFieldError("location")
	}
	return nil
}

// FromForm decodes url-encoded form fields over the form defaults.
// Unparsable numbers become 0; feature lists are repeated values.
func FromForm(values url.Values) model.PropertyPreferences {
	p := model.DefaultPreferences()

	if _, ok := values["location"]; ok {
		p.Location = values.Get("location")
	}
	if _, ok := values["minBudget"]; ok {
		p.Budget.Min = ParseInt(values.Get("minBudget"))
	}
	if _, ok := values["maxBudget"]; ok {
		p.Budget.Max = ParseInt(values.Get("maxBudget"))
	}
	if _, ok := values["bedrooms"]; ok {
		p.Bedrooms = ParseNumber(values.Get("bedrooms"))
	}
	if _, ok := values["bathrooms"]; ok {
		p.Bathrooms = ParseNumber(values.Get("bathrooms"))
	}
	if v := values.Get("propertyType"); v != "" {
		p.PropertyType = model.PropertyType(v)
	}
	if v := values.Get("timeframe"); v != "" {
		p.Timeframe = model.Timeframe(v)
	}
	if v := values.Get("language"); v != "" {
		p.Language = model.Language(v)
	}
	p.AdditionalInfo = values.Get("additionalInfo")

	if v, ok := values["mustHaveFeatures"]; ok {
		p.MustHaveFeatures = append([]string{}, v...)
	}
	if v, ok := values["preferredFeatures"]; ok {
		p.PreferredFeatures = append([]string{}, v...)
	}
	return p
}

// ParseInt reads a leading (optionally signed) integer and ignores the
// rest, so "250000abc" is 250000. Anything else is 0. Negative results
// are clamped to 0 since budgets are non-negative.
func ParseInt(s string) int64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && (isDigit(s[end]) || (end == 0 && (s[end] == '-' || s[end] == '+'))) {
		end++
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseNumber reads a leading decimal such as "2.5" and ignores the rest,
// so "2.5abc" is 2.5. Anything else, or a negative value, is 0.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
		}
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
