package service

import (
	"context"
	"errors"
	"time"

	apperrors "homefinder/internal/errors"
	"homefinder/internal/i18n"
	"homefinder/internal/model"
	"homefinder/internal/repository"
	"homefinder/internal/utils"

	"go.uber.org/zap"
)

// ErrRunLogDisabled is returned by feedback calls when no run log is configured
var ErrRunLogDisabled = errors.New("run log is disabled")

// PreferenceSource yields the preferences handed off by the form.
// They are read before a run and deleted only once it succeeds.
type PreferenceSource interface {
	Peek(ctx context.Context, sessionID string) (model.PropertyPreferences, error)
	Delete(ctx context.Context, sessionID string) error
}

// RunLogger persists pipeline runs and user feedback
type RunLogger interface {
	LogRecommendation(ctx context.Context, run model.RecommendationRun) error
	LogFeedback(ctx context.Context, requestID, recommendationID, action string) error
}

// RecommendationService loads the submitted preferences, runs the
// recommender and builds the localized results view
type RecommendationService struct {
	source      PreferenceSource
	recommender *Recommender
	runLog      RunLogger
	timeout     time.Duration
	logger      *zap.Logger
}

// NewRecommendationService creates a new recommendation service.
// runLog may be nil; a zero timeout leaves the request context alone.
func NewRecommendationService(
	source PreferenceSource,
	recommender *Recommender,
	runLog RunLogger,
	timeout time.Duration,
	logger *zap.Logger,
) *RecommendationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommendationService{
		source:      source,
		recommender: recommender,
		runLog:      runLog,
		timeout:     timeout,
		logger:      logger,
	}
}

// RunLogEnabled reports whether runs and feedback are persisted
func (s *RecommendationService) RunLogEnabled() bool {
	return s.runLog != nil
}

// Recommend runs the preferences of sessionID and returns recommendations.
// The preferences are consumed on success and kept after a failure so the
// same session can try again.
func (s *RecommendationService) Recommend(ctx context.Context, requestID, sessionID string) (*model.RecommendationResponse, error) {
	return s.recommend(ctx, requestID, sessionID, nil)
}

// RecommendStream is Recommend with progress events passed to callback
func (s *RecommendationService) RecommendStream(ctx context.Context, requestID, sessionID string, callback EventCallback) (*model.RecommendationResponse, error) {
	return s.recommend(ctx, requestID, sessionID, callback)
}

// recommend returns a response carrying the request metadata even on a
// pipeline failure, so the caller can localize the error. Result is then nil.
func (s *RecommendationService) recommend(ctx context.Context, requestID, sessionID string, callback EventCallback) (*model.RecommendationResponse, error) {
	startTime := time.Now()

	prefs, err := s.source.Peek(ctx, sessionID)
	if errors.Is(err, repository.ErrPreferencesNotFound) {
		return nil, apperrors.NewNoPreferencesError()
	}
	if err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	lang := prefs.Language
	if !lang.IsKnown() {
		lang = model.LanguageEnglish
	}
	resp := &model.RecommendationResponse{
		RequestID:   requestID,
		Language:    lang,
		RTL:         i18n.IsRTL(lang),
		Preferences: prefs,
	}

	result, err := s.recommender.Run(ctx, prefs, callback)
	took := time.Since(startTime).Milliseconds()
	resp.Took = took

	run := model.RecommendationRun{
		RequestID:      requestID,
		SessionID:      sessionID,
		Language:       lang,
		Location:       prefs.Location,
		PropertyType:   string(prefs.PropertyType),
		BudgetMin:      prefs.Budget.Min,
		BudgetMax:      prefs.Budget.Max,
		ResponseTimeMs: took,
	}
	if err != nil {
		run.Status = string(apperrors.CodeOf(err))
		var se *apperrors.StandardError
		if errors.As(err, &se) {
			run.Attempts = se.Attempts
		}
		s.logRun(run)
		return resp, err
	}

	s.consume(sessionID, requestID)

	run.Status = model.RunStatusOK
	run.Attempts = result.Attempts
	run.ResultCount = len(result.Response.Recommendations)
	run.RecommendationIDs = result.Response.RecommendationIDs()
	s.logRun(run)

	resp.Result = result.Response
	resp.Attempts = result.Attempts
	resp.UI = i18n.Texts(lang)
	resp.MatchesText = i18n.MatchesFound(lang, len(result.Response.Recommendations))
	resp.UnmetFeatures = UnmetFeatures(prefs.MustHaveFeatures, result.Response.Recommendations)

	s.logger.Info("recommendations ready",
		zap.String("request_id", requestID),
		zap.String("language", string(lang)),
		zap.Int("count", len(result.Response.Recommendations)),
		zap.Int("attempts", result.Attempts),
		zap.Int64("took_ms", took))

	return resp, nil
}

// consume deletes the handed-off preferences after a successful run. The
// request context may already be near its deadline, so a fresh one is used.
func (s *RecommendationService) consume(sessionID, requestID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.source.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("failed to clear consumed preferences",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}

// logRun writes run to the run log without blocking the request
func (s *RecommendationService) logRun(run model.RecommendationRun) {
	if s.runLog == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.runLog.LogRecommendation(ctx, run); err != nil {
			s.logger.Warn("failed to log recommendation run",
				zap.String("request_id", run.RequestID),
				zap.Error(err))
		}
	}()
}

// LogFeedback logs user feedback/action
func (s *RecommendationService) LogFeedback(ctx context.Context, requestID, recommendationID, action string) error {
	if s.runLog == nil {
		return ErrRunLogDisabled
	}
	return s.runLog.LogFeedback(ctx, requestID, recommendationID, action)
}

// UnmetFeatures maps each recommendation id to the must-have features its
// feature list does not cover. Recommendations that cover all are omitted.
func UnmetFeatures(mustHave []string, recs []model.PropertyRecommendation) map[string][]string {
	if len(mustHave) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for _, rec := range recs {
		var missing []string
		for _, want := range mustHave {
			found := false
			for _, offered := range rec.Features {
				if utils.FuzzyMatchFeature(want, offered) {
					found = true
					break
				}
			}
			if !found {
				missing = append(missing, want)
			}
		}
		if len(missing) > 0 {
			out[rec.ID] = missing
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
