package prompt

import (
	"regexp"
	"strings"
	"testing"

	"homefinder/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func austinPreferences() model.PropertyPreferences {
	return model.PropertyPreferences{
		Location:          "Austin",
		Budget:            model.Budget{Min: 200000, Max: 400000},
		Bedrooms:          3,
		Bathrooms:         2,
		PropertyType:      model.PropertyTypeHouse,
		MustHaveFeatures:  []string{"Garage"},
		PreferredFeatures: []string{},
		Timeframe:         model.TimeframeThreeMonths,
		AdditionalInfo:    "",
		Language:          model.LanguageEnglish,
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		lang     model.Language
		want     model.Language
		fellBack bool
	}{
		{model.LanguageEnglish, model.LanguageEnglish, false},
		{model.LanguageArabic, model.LanguageArabic, false},
		{model.LanguageFrench, model.LanguageFrench, false},
		{model.Language("de"), model.LanguageEnglish, true},
		{model.Language(""), model.LanguageEnglish, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			tmpl, ok := Select(tt.lang)
			assert.Equal(t, tt.want, tmpl.Language)
			assert.Equal(t, !tt.fellBack, ok)
			assert.Equal(t, jsonGuide, tmpl.JSONGuide)
		})
	}
}

func TestRender_AustinScenario(t *testing.T) {
	out, err := Render(austinPreferences())
	require.NoError(t, err)

	for _, want := range []string{"Austin", "200,000", "400,000", "House", "Garage", "Within 3 months", `"recommendations"`} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "{location}")
}

var leftoverPlaceholder = regexp.MustCompile(`\{\{|\{(location|minBudget|maxBudget|bedrooms|bathrooms|propertyType|mustHaveFeatures|preferredFeatures|timeframe|additionalInfo|jsonStructure)\}`)

func TestRender_NoPlaceholdersLeftInAnyLanguage(t *testing.T) {
	for _, lang := range model.SupportedLanguages {
		t.Run(string(lang), func(t *testing.T) {
			p := austinPreferences()
			p.Language = lang
			out, err := Render(p)
			require.NoError(t, err)
			assert.False(t, leftoverPlaceholder.MatchString(out), out)
			assert.Contains(t, out, "Austin")
			assert.Contains(t, out, "200,000")
		})
	}
}

func TestRender_IsPure(t *testing.T) {
	p := austinPreferences()
	p.PreferredFeatures = []string{"Pool", "Gym"}
	p.AdditionalInfo = "Near a good school"

	first, err := Render(p)
	require.NoError(t, err)
	second, err := Render(p)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"Pool", "Gym"}, p.PreferredFeatures)
}

func TestRender_UnknownLanguageUsesEnglish(t *testing.T) {
	p := austinPreferences()
	p.Language = "es"

	out, err := Render(p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "As a real estate AI assistant"))
}

func TestNewSlots_Formatting(t *testing.T) {
	p := austinPreferences()
	p.Bathrooms = 2.5
	p.Budget = model.Budget{Min: 0, Max: 1250000}
	p.MustHaveFeatures = []string{"Garage", "Pool", "Air Conditioning"}

	s := NewSlots(p, "guide")
	assert.Equal(t, "0", s.MinBudget)
	assert.Equal(t, "1,250,000", s.MaxBudget)
	assert.Equal(t, "2.5", s.Bathrooms)
	assert.Equal(t, "3", s.Bedrooms)
	assert.Equal(t, "Garage, Pool, Air Conditioning", s.MustHaveFeatures)
	assert.Equal(t, "", s.PreferredFeatures)
	assert.Equal(t, "guide", s.JSONStructure)
}

func TestRender_ValuesAreNotReinterpreted(t *testing.T) {
	p := austinPreferences()
	p.Location = "{{.MinBudget}} {location}"

	out, err := Render(p)
	require.NoError(t, err)
	assert.Contains(t, out, "Location: {{.MinBudget}} {location}")
}
