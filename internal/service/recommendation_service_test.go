package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"homefinder/internal/config"
	apperrors "homefinder/internal/errors"
	"homefinder/internal/model"
	"homefinder/internal/repository"
	"homefinder/internal/retry"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type memorySource struct {
	mu    sync.Mutex
	prefs map[string]model.PropertyPreferences
}

func (m *memorySource) Peek(_ context.Context, sessionID string) (model.PropertyPreferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.prefs[sessionID]
	if !ok {
		return model.PropertyPreferences{}, repository.ErrPreferencesNotFound
	}
	return p, nil
}

func (m *memorySource) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.prefs, sessionID)
	return nil
}

type recordingRunLog struct {
	runs     chan model.RecommendationRun
	feedback []string
}

func newRecordingRunLog() *recordingRunLog {
	return &recordingRunLog{runs: make(chan model.RecommendationRun, 4)}
}

func (l *recordingRunLog) LogRecommendation(_ context.Context, run model.RecommendationRun) error {
	l.runs <- run
	return nil
}

func (l *recordingRunLog) LogFeedback(_ context.Context, requestID, recommendationID, action string) error {
	l.feedback = append(l.feedback, requestID+"/"+recommendationID+"/"+action)
	return nil
}

func (l *recordingRunLog) next(t *testing.T) model.RecommendationRun {
	t.Helper()
	select {
	case run := <-l.runs:
		return run
	case <-time.After(2 * time.Second):
		t.Fatal("run was not logged")
		return model.RecommendationRun{}
	}
}

func newTestService(t *testing.T, gen TextGenerator, prefs map[string]model.PropertyPreferences, runLog RunLogger) *RecommendationService {
	t.Helper()
	return NewRecommendationService(
		&memorySource{prefs: prefs},
		newTestRecommender(t, gen, nil),
		runLog,
		0,
		zaptest.NewLogger(t),
	)
}

func TestRecommend_Success(t *testing.T) {
	prefs := austinPreferences()
	prefs.MustHaveFeatures = []string{"Garage", "Pool"}
	prefs.Language = model.LanguageArabic

	runLog := newRecordingRunLog()
	gen := &scriptedGenerator{replies: []reply{{text: validReply}}}
	svc := newTestService(t, gen, map[string]model.PropertyPreferences{"s1": prefs}, runLog)

	resp, err := svc.Recommend(context.Background(), "req-1", "s1")
	require.NoError(t, err)

	assert.Equal(t, "req-1", resp.RequestID)
	assert.Equal(t, model.LanguageArabic, resp.Language)
	assert.True(t, resp.RTL)
	assert.Equal(t, 1, resp.Attempts)
	require.NotNil(t, resp.Result)
	assert.Len(t, resp.Result.Recommendations, 1)
	assert.Equal(t, "خطأ", resp.UI["error"])
	assert.Contains(t, resp.MatchesText, "1")
	assert.Equal(t, map[string][]string{"prop-1": {"Pool"}}, resp.UnmetFeatures)

	run := runLog.next(t)
	assert.Equal(t, "req-1", run.RequestID)
	assert.Equal(t, "s1", run.SessionID)
	assert.Equal(t, model.RunStatusOK, run.Status)
	assert.Equal(t, 1, run.ResultCount)
	assert.Equal(t, model.JSONArray{"prop-1"}, run.RecommendationIDs)
}

func TestRecommend_ConsumesPreferencesOnce(t *testing.T) {
	gen := &scriptedGenerator{replies: []reply{{text: validReply}}}
	svc := newTestService(t, gen, map[string]model.PropertyPreferences{"s1": austinPreferences()}, nil)

	_, err := svc.Recommend(context.Background(), "req-1", "s1")
	require.NoError(t, err)

	_, err = svc.Recommend(context.Background(), "req-2", "s1")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNoPreferences))
	assert.Equal(t, 1, gen.calls())
}

func TestRecommend_FailedRunKeepsPreferences(t *testing.T) {
	mr := miniredis.RunT(t)
	store := repository.NewPreferenceStore(repository.NewRedisClient(config.RedisConfig{Address: mr.Addr()}), time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "s1", austinPreferences()))

	gen := &scriptedGenerator{replies: []reply{
		{err: retry.Permanent(errors.New("status 500"))},
		{text: validReply},
	}}
	svc := NewRecommendationService(store, newTestRecommender(t, gen, nil), nil, 0, zaptest.NewLogger(t))

	_, err := svc.Recommend(ctx, "req-1", "s1")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUpstreamUnavailable))
	assert.True(t, mr.Exists(repository.PreferencesKeyPrefix+"s1"))

	resp, err := svc.Recommend(ctx, "req-2", "s1")
	require.NoError(t, err)
	assert.Len(t, resp.Result.Recommendations, 1)
	assert.Equal(t, 2, gen.calls())
	assert.False(t, mr.Exists(repository.PreferencesKeyPrefix+"s1"))

	_, err = svc.Recommend(ctx, "req-3", "s1")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNoPreferences))
	assert.Equal(t, 2, gen.calls())
}

func TestRecommend_FailureKeepsRequestMetadata(t *testing.T) {
	prefs := austinPreferences()
	prefs.Language = model.LanguageFrench

	runLog := newRecordingRunLog()
	gen := &scriptedGenerator{replies: []reply{{err: errors.New("down")}}}
	svc := newTestService(t, gen, map[string]model.PropertyPreferences{"s1": prefs}, runLog)

	resp, err := svc.Recommend(context.Background(), "req-1", "s1")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUpstreamUnavailable))
	require.NotNil(t, resp)
	assert.Equal(t, model.LanguageFrench, resp.Language)
	assert.Nil(t, resp.Result)

	run := runLog.next(t)
	assert.Equal(t, string(apperrors.ErrCodeUpstreamUnavailable), run.Status)
	assert.Equal(t, 3, run.Attempts)
	assert.Zero(t, run.ResultCount)
}

func TestRecommend_UnknownLanguageFallsBackToEnglish(t *testing.T) {
	prefs := austinPreferences()
	prefs.Language = "de"
	gen := &scriptedGenerator{replies: []reply{{text: validReply}}}
	svc := newTestService(t, gen, map[string]model.PropertyPreferences{"s1": prefs}, nil)

	resp, err := svc.Recommend(context.Background(), "req-1", "s1")
	require.NoError(t, err)
	assert.Equal(t, model.LanguageEnglish, resp.Language)
	assert.False(t, resp.RTL)
	assert.Equal(t, "Go Back", resp.UI["goBack"])
}

// blockingGenerator waits for the context to end
type blockingGenerator struct{}

func (blockingGenerator) GenerateText(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestRecommend_Timeout(t *testing.T) {
	rec := NewRecommender(blockingGenerator{}, RecommenderOptions{
		Retry: retry.Policy{MaxAttempts: 1},
	}, nil)
	svc := NewRecommendationService(
		&memorySource{prefs: map[string]model.PropertyPreferences{"s1": austinPreferences()}},
		rec, nil, 50*time.Millisecond, nil)

	_, err := svc.Recommend(context.Background(), "req-1", "s1")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUpstreamUnavailable))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRecommendStream_ForwardsEvents(t *testing.T) {
	gen := &scriptedGenerator{replies: []reply{{text: validReply}}}
	svc := newTestService(t, gen, map[string]model.PropertyPreferences{"s1": austinPreferences()}, nil)

	var events []string
	_, err := svc.RecommendStream(context.Background(), "req-1", "s1", func(event string, _ any) error {
		events = append(events, event)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"prompt", "parsing"}, events)
}

func TestLogFeedback(t *testing.T) {
	disabled := newTestService(t, &scriptedGenerator{replies: []reply{{}}}, nil, nil)
	assert.False(t, disabled.RunLogEnabled())
	assert.ErrorIs(t, disabled.LogFeedback(context.Background(), "r", "p", "click"), ErrRunLogDisabled)

	runLog := newRecordingRunLog()
	enabled := newTestService(t, &scriptedGenerator{replies: []reply{{}}}, nil, runLog)
	assert.True(t, enabled.RunLogEnabled())
	require.NoError(t, enabled.LogFeedback(context.Background(), "r", "p", "contact"))
	assert.Equal(t, []string{"r/p/contact"}, runLog.feedback)
}

func TestUnmetFeatures(t *testing.T) {
	recs := []model.PropertyRecommendation{
		{ID: "a", Features: []string{"Attached 2-car garage", "Swimming pool"}},
		{ID: "b", Features: []string{"Garden"}},
		{ID: "c"},
	}

	tests := []struct {
		name     string
		mustHave []string
		want     map[string][]string
	}{
		{name: "none requested", mustHave: nil, want: nil},
		{name: "garden only", mustHave: []string{"Garden"}, want: map[string][]string{"a": {"Garden"}, "c": {"Garden"}}},
		{
			name:     "aliases and substrings",
			mustHave: []string{"Garage", "Pool"},
			want:     map[string][]string{"b": {"Garage", "Pool"}, "c": {"Garage", "Pool"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnmetFeatures(tt.mustHave, recs))
		})
	}
}
