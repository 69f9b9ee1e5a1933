package service

import (
	"strings"

	apperrors "homefinder/internal/errors"
)

// placeholderKeys are values copied from sample .env files
var placeholderKeys = map[string]bool{
	"your_api_key_here":        true,
	"your_api_key":             true,
	"your-api-key":             true,
	"your_gemini_api_key":      true,
	"your_gemini_api_key_here": true,
	"your-gemini-api-key":      true,
	"<gemini_api_key>":         true,
	"<your_api_key>":           true,
	"api_key":                  true,
	"changeme":                 true,
	"xxx":                      true,
	"todo":                     true,
}

// Credential is a validated API key. The zero value is not usable.
type Credential struct {
	key string
}

// NewCredential rejects empty and placeholder keys with INVALID_CREDENTIAL
func NewCredential(key string) (Credential, error) {
	k := strings.TrimSpace(key)
	if k == "" {
		return Credential{}, apperrors.NewInvalidCredentialError("API key is empty")
	}
	if placeholderKeys[strings.ToLower(k)] {
		return Credential{}, apperrors.NewInvalidCredentialError("API key is a placeholder value")
	}
	return Credential{key: k}, nil
}

// Valid reports whether c came from NewCredential
func (c Credential) Valid() bool {
	return c.key != ""
}

// String hides the key
func (c Credential) String() string {
	if !c.Valid() {
		return "<unset>"
	}
	if len(c.key) <= 4 {
		return "****"
	}
	return "****" + c.key[len(c.key)-4:]
}
