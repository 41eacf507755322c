package ir

import (
	"fmt"
	"strings"
)

// TokenType is the extractor-assigned kind of a concept mention.
type TokenType string

const (
	TokenEntity     TokenType = "entity"
	TokenValue      TokenType = "value"
	TokenCondition  TokenType = "condition"
	TokenTimeWindow TokenType = "time_window"
	TokenNegation   TokenType = "negation"
	TokenLocation   TokenType = "location"
	TokenProvider   TokenType = "provider"
	TokenAttribute  TokenType = "attribute"
)

// ValidTokenTypes lists every token type the synthesizer understands.
var ValidTokenTypes = []TokenType{
	TokenEntity, TokenValue, TokenCondition, TokenTimeWindow,
	TokenNegation, TokenLocation, TokenProvider, TokenAttribute,
}

// IsValid reports whether t is one of ValidTokenTypes.
func (t TokenType) IsValid() bool {
	for _, v := range ValidTokenTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ConceptToken is one mention produced by the external extractor.
// Normalized carries extractor-side structure (time windows) and may be nil.
type ConceptToken struct {
	Mention    string         `json:"mention" yaml:"mention"`
	Type       TokenType      `json:"type" yaml:"type"`
	Normalized map[string]any `json:"normalized,omitempty" yaml:"normalized,omitempty"`
}

// String renders the token for logs.
func (t ConceptToken) String() string {
	return fmt.Sprintf("%s(%q)", t.Type, t.Mention)
}

// IsBlank reports whether the mention carries no text.
func (t ConceptToken) IsBlank() bool {
	return strings.TrimSpace(t.Mention) == ""
}
