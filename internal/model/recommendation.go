package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// PropertyRecommendation is one listing proposed by the model.
// MatchScore is nominally 1-100 but taken as-is.
type PropertyRecommendation struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Address         string   `json:"address"`
	Price           float64  `json:"price"`
	Bedrooms        float64  `json:"bedrooms"`
	Bathrooms       float64  `json:"bathrooms"`
	SquareFeet      float64  `json:"squareFeet"`
	PropertyType    string   `json:"propertyType,omitempty"`
	YearBuilt       int      `json:"yearBuilt"`
	Features        []string `json:"features"`
	MatchScore      int      `json:"matchScore"`
	ReasonsForMatch []string `json:"reasonsForMatch"`
	ImageURL        string   `json:"imageUrl,omitempty"`
}

// UnmarshalJSON accepts any JSON number for yearBuilt and matchScore,
// rounding fractions, and a numeric id, which becomes its literal text.
func (p *PropertyRecommendation) UnmarshalJSON(data []byte) error {
	type plain PropertyRecommendation
	aux := struct {
		*plain
		ID         json.RawMessage `json:"id"`
		YearBuilt  json.Number     `json:"yearBuilt"`
		MatchScore json.Number     `json:"matchScore"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id, err := looseID(aux.ID)
	if err != nil {
		return err
	}
	p.ID = id
	if p.YearBuilt, err = roundedInt(aux.YearBuilt); err != nil {
		return fmt.Errorf("yearBuilt: %w", err)
	}
	if p.MatchScore, err = roundedInt(aux.MatchScore); err != nil {
		return fmt.Errorf("matchScore: %w", err)
	}
	return nil
}

func looseID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		return "", nil
	case raw[0] == '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("id: expected string or number, got %s", raw)
	}
	return n.String(), nil
}

func roundedInt(n json.Number) (int, error) {
	if n == "" {
		return 0, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	return int(math.Round(f)), nil
}

// AIAgentResponse is the decoded reply of one pipeline run
type AIAgentResponse struct {
	Recommendations     []PropertyRecommendation `json:"recommendations"`
	SearchSummary       string                   `json:"searchSummary"`
	NextSteps           []string                 `json:"nextSteps"`
	AdditionalQuestions []string                 `json:"additionalQuestions"`
}

// RecommendationIDs returns the ids in order, for logging
func (r *AIAgentResponse) RecommendationIDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.Recommendations))
	for _, rec := range r.Recommendations {
		ids = append(ids, rec.ID)
	}
	return ids
}
