package graphql

import (
	"fmt"
	"strings"
	"unicode"
)

// Request is the wire shape accepted by the endpoint.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables"`
}

// Response is the wire shape returned by the endpoint.
type Response struct {
	Data   map[string]any `json:"data"`
	Errors []ErrorEntry   `json:"errors,omitempty"`
}

// ErrorEntry mirrors the GraphQL errors array entry shape.
type ErrorEntry struct {
	Message    string     `json:"message"`
	Extensions Extensions `json:"extensions"`
}

// Extensions carries the stable code plus optional hints.
type Extensions struct {
	Code       Code   `json:"code"`
	Field      string `json:"field,omitempty"`
	RetryAfter int64  `json:"retry_after,omitempty"` // seconds
}

// entryFromAppError shapes a classified failure for the wire.
func entryFromAppError(e *AppError) ErrorEntry {
	return ErrorEntry{
		Message: e.Message,
		Extensions: Extensions{
			Code:       e.Code,
			Field:      e.Field,
			RetryAfter: int64(e.RetryAfter.Round(1e9).Seconds()),
		},
	}
}

// FieldName extracts the top-level field being invoked: the first field
// inside the outermost selection set, after the optional operation
// keyword, operation name and variable definitions. The endpoint
// dispatches on this name; it does not execute arbitrary selection sets.
func (r *Request) FieldName() (string, error) {
	s := strings.TrimSpace(r.Query)
	if s == "" {
		return "", fmt.Errorf("empty query")
	}
	i := 0
	skipSpace := func() {
		for i < len(s) && (unicode.IsSpace(rune(s[i])) || s[i] == ',') {
			i++
		}
	}
	readIdent := func() string {
		start := i
		for i < len(s) && (s[i] == '_' || unicode.IsLetter(rune(s[i])) || unicode.IsDigit(rune(s[i]))) {
			i++
		}
		return s[start:i]
	}

	skipSpace()
	if i < len(s) && s[i] != '{' {
		kw := readIdent()
		if kw != "query" && kw != "mutation" && kw != "subscription" {
			return "", fmt.Errorf("malformed query")
		}
		skipSpace()
		// optional operation name
		if i < len(s) && s[i] != '{' && s[i] != '(' {
			readIdent()
			skipSpace()
		}
		// optional variable definitions
		if i < len(s) && s[i] == '(' {
			depth := 0
			for i < len(s) {
				switch s[i] {
				case '(':
					depth++
				case ')':
					depth--
				}
				i++
				if depth == 0 {
					break
				}
			}
			skipSpace()
		}
	}
	if i >= len(s) || s[i] != '{' {
		return "", fmt.Errorf("malformed query")
	}
	i++
	skipSpace()
	name := readIdent()
	if name == "" {
		return "", fmt.Errorf("malformed query")
	}
	skipSpace()
	// alias form "alias: field"
	if i < len(s) && s[i] == ':' {
		i++
		skipSpace()
		name = readIdent()
		if name == "" {
			return "", fmt.Errorf("malformed query")
		}
	}
	return name, nil
}
