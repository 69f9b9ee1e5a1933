package utils

import (
	"encoding/json"
	"strings"
)

// ExtractMode selects how a JSON object is located inside model output
type ExtractMode string

const (
	// ExtractBalanced scans for balanced top-level objects and prefers the first valid one
	ExtractBalanced ExtractMode = "balanced"
	// ExtractGreedy takes everything from the first '{' to the last '}'
	ExtractGreedy ExtractMode = "greedy"
)

// ParseExtractMode maps a config value to a mode, defaulting to balanced
func ParseExtractMode(s string) ExtractMode {
	if ExtractMode(strings.ToLower(strings.TrimSpace(s))) == ExtractGreedy {
		return ExtractGreedy
	}
	return ExtractBalanced
}

// ExtractJSONObject locates one JSON object span in free-form AI output.
// The returned span is not guaranteed to be valid JSON: in balanced mode,
// when no candidate parses, the first balanced candidate is returned so the
// caller can report it as malformed.
//
// A '{' that never closes does not end the balanced scan. Objects found
// after it are recovered, but only when they parse and carry every key in
// requiredKeys; otherwise a truncated payload would surface its inner
// fragments.
func ExtractJSONObject(input string, mode ExtractMode, requiredKeys ...string) (string, bool) {
	if mode == ExtractGreedy {
		return extractGreedy(input)
	}

	var firstValid, first string
	for _, c := range balancedObjects(input) {
		if hasKeys(c.span, requiredKeys) {
			return c.span, true
		}
		if c.recovered {
			continue
		}
		if first == "" {
			first = c.span
		}
		if firstValid == "" && ValidateJSON(c.span) {
			firstValid = c.span
		}
	}
	switch {
	case firstValid != "":
		return firstValid, true
	case first != "":
		return first, true
	}
	return "", false
}

// extractGreedy takes the first '{' through the last '}'. A span whose
// braces do not balance counts as not found.
func extractGreedy(input string) (string, bool) {
	start := strings.Index(input, "{")
	end := strings.LastIndex(input, "}")
	if start < 0 || end < start {
		return "", false
	}
	span := input[start : end+1]
	if !bracesBalanced(span) {
		return "", false
	}
	return span, true
}

// hasKeys reports whether span is a JSON object holding every key.
// With no keys any valid JSON qualifies.
func hasKeys(span string, keys []string) bool {
	if len(keys) == 0 {
		return ValidateJSON(span)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return false
	}
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			return false
		}
	}
	return true
}

type candidate struct {
	span string
	// recovered marks spans found after an unclosed '{'
	recovered bool
}

// balancedObjects returns every top-level {...} span in order. When a span
// never closes, scanning resumes just after its opening brace.
func balancedObjects(input string) []candidate {
	var out []candidate
	rest := input
	recovered := false
	for {
		span, start, end := extractBalancedBraces(rest, '{', '}')
		switch {
		case start < 0:
			return out
		case span == "":
			rest = rest[start+1:]
			recovered = true
		default:
			out = append(out, candidate{span: span, recovered: recovered})
			rest = rest[end:]
		}
	}
}

// extractBalancedBraces extracts the first balanced span with its start
// offset and the offset just past it. start is -1 when input has no open
// brace; span is empty when the first span never closes.
// Quotes only toggle string state inside a span, so apostrophes in prose are harmless.
func extractBalancedBraces(input string, open, close rune) (string, int, int) {
	depth := 0
	inString := false
	escape := false
	start := -1

	for i, ch := range input {
		if depth == 0 {
			if ch == open {
				start = i
				depth = 1
			}
			continue
		}

		if escape {
			escape = false
			continue
		}

		if inString {
			switch ch {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return input[start : i+1], start, i + 1
			}
		}
	}

	return "", start, len(input)
}

// bracesBalanced reports whether every '{' outside a string literal is closed in order
func bracesBalanced(s string) bool {
	depth := 0
	inString := false
	escape := false
	for _, ch := range s {
		switch {
		case escape:
			escape = false
		case inString && ch == '\\':
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// ValidateJSON checks if a string is valid JSON
func ValidateJSON(input string) bool {
	var js interface{}
	return json.Unmarshal([]byte(input), &js) == nil
}
