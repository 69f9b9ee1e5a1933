package collector

import (
	"context"
	"errors"
	"net/url"
	"testing"

	apperrors "homefinder/internal/errors"
	"homefinder/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	saved map[string]model.PropertyPreferences
	err   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{saved: map[string]model.PropertyPreferences{}}
}

func (m *memoryStore) Put(_ context.Context, sessionID string, prefs model.PropertyPreferences) error {
	if m.err != nil {
		return m.err
	}
	m.saved[sessionID] = prefs
	return nil
}

func TestSubmit_Location(t *testing.T) {
	tests := []struct {
		name     string
		location string
		wantErr  bool
	}{
		{name: "empty", location: "", wantErr: true},
		{name: "spaces", location: "   ", wantErr: true},
		{name: "tabs and newlines", location: "\t\n", wantErr: true},
		{name: "city", location: "Austin", wantErr: false},
		{name: "padded city", location: "  Paris ", wantErr: false},
		{name: "arabic", location: "دبي", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			c := New(store, nil)
			p := model.DefaultPreferences()
			p.Location = tt.location

			err := c.Submit(context.Background(), "s", p)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMissingRequiredField))
				var se *apperrors.StandardError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, "location", se.Field)
				assert.Empty(t, store.saved)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, store.saved, "s")
		})
	}
}

func TestSubmit_NormalizesFeaturesWithoutTouchingInput(t *testing.T) {
	store := newMemoryStore()
	c := New(store, nil)

	p := model.DefaultPreferences()
	p.Location = " Austin "
	p.MustHaveFeatures = []string{"garage", "Garage", "ac"}
	p.PreferredFeatures = []string{"pool", "Garage"}

	require.NoError(t, c.Submit(context.Background(), "s", p))

	saved := store.saved["s"]
	assert.Equal(t, "Austin", saved.Location)
	assert.Equal(t, []string{"Garage", "Air Conditioning"}, saved.MustHaveFeatures)
	// the two sets may overlap
	assert.Equal(t, []string{"Pool", "Garage"}, saved.PreferredFeatures)

	assert.Equal(t, " Austin ", p.Location)
	assert.Equal(t, []string{"garage", "Garage", "ac"}, p.MustHaveFeatures)
}

func TestSubmit_StoreFailure(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("redis down")
	c := New(store, nil)

	p := model.DefaultPreferences()
	p.Location = "Austin"

	err := c.Submit(context.Background(), "s", p)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.err)
}

func TestSubmit_NoOtherValidation(t *testing.T) {
	store := newMemoryStore()
	c := New(store, nil)

	p := model.PropertyPreferences{
		Location: "Nowhere",
		Budget:   model.Budget{Min: 900000, Max: 100},
		Language: "xx",
	}
	require.NoError(t, c.Submit(context.Background(), "s", p))
}

func TestFromForm(t *testing.T) {
	values := url.Values{
		"location":          {"Austin"},
		"minBudget":         {"200000"},
		"maxBudget":         {"400k"},
		"bedrooms":          {"3"},
		"bathrooms":         {"2.5"},
		"propertyType":      {"Condo"},
		"mustHaveFeatures":  {"Garage", "Pool"},
		"preferredFeatures": {"Gym"},
		"timeframe":         {"Within 6 months"},
		"language":          {"fr"},
		"additionalInfo":    {"Near a park"},
	}

	p := FromForm(values)
	assert.Equal(t, "Austin", p.Location)
	assert.Equal(t, int64(200000), p.Budget.Min)
	assert.Equal(t, int64(400), p.Budget.Max)
	assert.Equal(t, 3.0, p.Bedrooms)
	assert.Equal(t, 2.5, p.Bathrooms)
	assert.Equal(t, model.PropertyTypeCondo, p.PropertyType)
	assert.Equal(t, []string{"Garage", "Pool"}, p.MustHaveFeatures)
	assert.Equal(t, []string{"Gym"}, p.PreferredFeatures)
	assert.Equal(t, model.TimeframeSixMonths, p.Timeframe)
	assert.Equal(t, model.LanguageFrench, p.Language)
	assert.Equal(t, "Near a park", p.AdditionalInfo)
}

func TestFromForm_DefaultsAndUnparsable(t *testing.T) {
	p := FromForm(url.Values{
		"minBudget": {"abc"},
		"bedrooms":  {""},
	})

	assert.Equal(t, int64(0), p.Budget.Min)
	assert.Equal(t, int64(500000), p.Budget.Max)
	assert.Equal(t, 0.0, p.Bedrooms)
	assert.Equal(t, 2.0, p.Bathrooms)
	assert.Equal(t, model.PropertyTypeHouse, p.PropertyType)
	assert.Equal(t, model.TimeframeThreeMonths, p.Timeframe)
	assert.Equal(t, model.LanguageEnglish, p.Language)
	assert.Empty(t, p.MustHaveFeatures)
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"250000", 250000},
		{" 42 ", 42},
		{"12abc", 12},
		{"abc", 0},
		{"", 0},
		{"-5", 0},
		{"+7", 7},
		{"1,000", 1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInt(tt.in))
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1.5", 1.5},
		{" 3 ", 3},
		{"2.5abc", 2.5},
		{"2.", 2},
		{".5", 0.5},
		{"1.2.3", 1.2},
		{"3 baths", 3},
		{"two", 0},
		{".", 0},
		{"", 0},
		{"-1", 0},
		{"+2.5", 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.in))
		})
	}
}
