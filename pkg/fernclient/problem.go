package fernclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// StatusError is a non-2xx response that is not a validation problem.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		body = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.URL, e.StatusCode, body)
}

// ValidationError carries the field messages of a validation problem body.
type ValidationError struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.FieldNames() {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e.Fields[field], " ")))
	}
	if e.Message == "" {
		return "validation failed: " + strings.Join(parts, "; ")
	}
	return e.Message + " " + strings.Join(parts, "; ")
}

// FieldNames returns the failing fields in sorted order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// For returns the messages for field, matching case-insensitively since
// problem bodies differ in how they case field names.
func (e *ValidationError) For(field string) []string {
	if messages, ok := e.Fields[field]; ok {
		return messages
	}
	for name, messages := range e.Fields {
		if strings.EqualFold(name, field) {
			return messages
		}
	}
	return nil
}

type problemBody struct {
	Title   string              `json:"title"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// ParseProblem turns a failed write response into a *ValidationError when the
// body carries an "errors" field map, and a *StatusError holding the raw body
// otherwise.
func ParseProblem(method, url string, statusCode int, body []byte) error {
	var problem problemBody
	if err := json.Unmarshal(body, &problem); err == nil && len(problem.Errors) > 0 {
		message := problem.Message
		if message == "" {
			message = problem.Title
		}
		return &ValidationError{
			StatusCode: statusCode,
			Message:    message,
			Fields:     problem.Errors,
		}
	}

	return &StatusError{
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
		Body:       string(body),
	}
}
