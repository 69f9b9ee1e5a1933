package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyPreferences_CloneDoesNotShare(t *testing.T) {
	p := DefaultPreferences()
	p.MustHaveFeatures = []string{"Garage"}

	c := p.Clone()
	c.MustHaveFeatures[0] = "Pool"
	c.Location = "Austin"

	assert.Equal(t, "Garage", p.MustHaveFeatures[0])
	assert.Empty(t, p.Location)
}

func TestLanguage(t *testing.T) {
	tests := []struct {
		lang  Language
		known bool
		rtl   bool
	}{
		{LanguageEnglish, true, false},
		{LanguageArabic, true, true},
		{LanguageFrench, true, false},
		{Language("de"), false, false},
		{Language(""), false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			assert.Equal(t, tt.known, tt.lang.IsKnown())
			assert.Equal(t, tt.rtl, tt.lang.IsRTL())
		})
	}
}

func TestPreferences_WireNames(t *testing.T) {
	raw := `{"location":"Austin","budget":{"min":200000,"max":400000},"bedrooms":3,"bathrooms":2.5,
		"propertyType":"House","mustHaveFeatures":["Garage"],"preferredFeatures":[],
		"timeframe":"Within 3 months","additionalInfo":"","language":"en"}`

	var p PropertyPreferences
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, int64(200000), p.Budget.Min)
	assert.Equal(t, 2.5, p.Bathrooms)
	assert.Equal(t, PropertyTypeHouse, p.PropertyType)
	assert.Equal(t, TimeframeThreeMonths, p.Timeframe)
}

func TestAIAgentResponse_RoundTrip(t *testing.T) {
	in := AIAgentResponse{
		Recommendations: []PropertyRecommendation{{
			ID: "p1", Title: "Craftsman bungalow", Address: "12 Elm St, Austin, TX",
			Price: 350000, Bedrooms: 3, Bathrooms: 2, SquareFeet: 1800, YearBuilt: 1998,
			Features: []string{"Garage"}, MatchScore: 92, ReasonsForMatch: []string{"In budget"},
		}},
		SearchSummary:       "One strong match",
		NextSteps:           []string{"Book a viewing"},
		AdditionalQuestions: []string{},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "imageUrl")

	var out AIAgentResponse
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
	assert.Equal(t, []string{"p1"}, out.RecommendationIDs())
}

func TestJSONArray_Scan(t *testing.T) {
	var a JSONArray
	require.NoError(t, a.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, JSONArray{"a", "b"}, a)

	require.NoError(t, a.Scan(`["c"]`))
	assert.Equal(t, JSONArray{"c"}, a)

	require.NoError(t, a.Scan(nil))
	assert.Nil(t, a)

	assert.Error(t, a.Scan(42))

	v, err := JSONArray(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestPropertyRecommendation_UnmarshalLooseNumbers(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		id      string
		year    int
		score   int
		wantErr bool
	}{
		{name: "integers", input: `{"id":"p1","yearBuilt":2004,"matchScore":92}`, id: "p1", year: 2004, score: 92},
		{name: "fractional score", input: `{"id":"p1","yearBuilt":2004.0,"matchScore":92.5}`, id: "p1", year: 2004, score: 93},
		{name: "numeric id", input: `{"id":7,"matchScore":80}`, id: "7", score: 80},
		{name: "null and missing", input: `{"id":null,"yearBuilt":null}`},
		{name: "quoted number", input: `{"id":"p2","matchScore":"88"}`, id: "p2", score: 88},
		{name: "object id", input: `{"id":{"v":1}}`, wantErr: true},
		{name: "word score", input: `{"matchScore":"high"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec PropertyRecommendation
			err := json.Unmarshal([]byte(tt.input), &rec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, rec.ID)
			assert.Equal(t, tt.year, rec.YearBuilt)
			assert.Equal(t, tt.score, rec.MatchScore)
		})
	}
}

func TestPropertyRecommendation_UnmarshalKeepsOtherFields(t *testing.T) {
	var rec PropertyRecommendation
	require.NoError(t, json.Unmarshal([]byte(`{"id":"p1","title":"Loft","price":350000.5,"features":["Pool"],"reasonsForMatch":["Quiet"]}`), &rec))
	assert.Equal(t, "Loft", rec.Title)
	assert.Equal(t, 350000.5, rec.Price)
	assert.Equal(t, []string{"Pool"}, rec.Features)
	assert.Equal(t, []string{"Quiet"}, rec.ReasonsForMatch)
}
