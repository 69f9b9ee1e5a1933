// Package prompt renders buyer preferences into the language-specific
// instruction text sent to the model.
package prompt

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"homefinder/internal/model"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Template pairs free-form instructions with the JSON shape guide
type Template struct {
	Language     model.Language
	Instructions *template.Template
	JSONGuide    string
}

// Slots holds the already formatted values substituted into a template
type Slots struct {
	Location          string
	MinBudget         string
	MaxBudget         string
	Bedrooms          string
	Bathrooms         string
	PropertyType      string
	MustHaveFeatures  string
	PreferredFeatures string
	Timeframe         string
	AdditionalInfo    string
	JSONStructure     string
}

// Select returns the template for lang. ok is false when lang is unknown
// and the English template was substituted.
func Select(lang model.Language) (Template, bool) {
	if t, ok := templates[lang]; ok {
		return t, true
	}
	return templates[model.LanguageEnglish], false
}

// NewSlots formats prefs for substitution. Budgets use English digit
// grouping in every language ("200,000").
func NewSlots(prefs model.PropertyPreferences, guide string) Slots {
	return Slots{
		Location:          prefs.Location,
		MinBudget:         formatAmount(prefs.Budget.Min),
		MaxBudget:         formatAmount(prefs.Budget.Max),
		Bedrooms:          formatNumber(prefs.Bedrooms),
		Bathrooms:         formatNumber(prefs.Bathrooms),
		PropertyType:      string(prefs.PropertyType),
		MustHaveFeatures:  strings.Join(prefs.MustHaveFeatures, ", "),
		PreferredFeatures: strings.Join(prefs.PreferredFeatures, ", "),
		Timeframe:         string(prefs.Timeframe),
		AdditionalInfo:    prefs.AdditionalInfo,
		JSONStructure:     guide,
	}
}

// Render fills the template. It has no side effects: equal preferences
// always render equal prompts.
func (t Template) Render(prefs model.PropertyPreferences) (string, error) {
	var sb strings.Builder
	if err := t.Instructions.Execute(&sb, NewSlots(prefs, t.JSONGuide)); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", t.Language, err)
	}
	return sb.String(), nil
}

// Render selects the template for prefs.Language and renders it
func Render(prefs model.PropertyPreferences) (string, error) {
	t, _ := Select(prefs.Language)
	return t.Render(prefs)
}

var amountPrinter = message.NewPrinter(language.English)

func formatAmount(v int64) string {
	return amountPrinter.Sprintf("%d", v)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
