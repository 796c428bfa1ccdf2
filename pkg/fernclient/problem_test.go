package fernclient

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProblem(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantFields map[string][]string
		wantRaw    string
	}{
		{
			name:       "framework problem body",
			body:       `{"title":"One or more validation errors occurred.","status":400,"errors":{"Email":["The Email field is required."]}}`,
			wantFields: map[string][]string{"Email": {"The Email field is required."}},
		},
		{
			name:       "api error body",
			body:       `{"message":"One or more validation errors occurred.","request_id":"r1","errors":{"name":["The name field is required."],"kind":["bad kind"]}}`,
			wantFields: map[string][]string{"name": {"The name field is required."}, "kind": {"bad kind"}},
		},
		{
			name:    "json without errors",
			body:    `{"message":"friend not found"}`,
			wantRaw: `{"message":"friend not found"}`,
		},
		{
			name:    "empty errors map",
			body:    `{"errors":{}}`,
			wantRaw: `{"errors":{}}`,
		},
		{
			name:    "plain text",
			body:    "upstream exploded",
			wantRaw: "upstream exploded",
		},
		{
			name:    "errors with wrong shape",
			body:    `{"errors":["a","b"]}`,
			wantRaw: `{"errors":["a","b"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseProblem(http.MethodPost, "http://api/pets", http.StatusBadRequest, []byte(tt.body))
			require.Error(t, err)

			if tt.wantFields != nil {
				var ve *ValidationError
				require.True(t, errors.As(err, &ve))
				assert.Equal(t, tt.wantFields, ve.Fields)
				return
			}

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.wantRaw, se.Body)
			assert.Contains(t, se.Error(), tt.wantRaw)
		})
	}
}

func TestValidationErrorFor(t *testing.T) {
	ve := &ValidationError{Fields: map[string][]string{"FirstName": {"required"}}}
	assert.Equal(t, []string{"required"}, ve.For("firstName"))
	assert.Nil(t, ve.For("email"))
	assert.Equal(t, "validation failed: FirstName: required", ve.Error())
}
