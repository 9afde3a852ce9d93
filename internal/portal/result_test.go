package portal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasData(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{``, false},
		{`null`, false},
		{`{}`, false},
		{`[]`, false},
		{`""`, false},
		{`false`, false},
		{`0`, false},
		{`{"x":1}`, true},
		{`[1]`, true},
		{`"account"`, true},
		{` {"x":1} `, true},
		{`{ }`, false},
		{`[ ]`, false},
		{`0.0`, false},
		{`-0`, false},
		{`true`, true},
		{`0.5`, true},
		{`not json`, false},
	}

	for _, tt := range tests {
		r := &CheckResult{Data: json.RawMessage(tt.raw)}
		assert.Equal(t, tt.want, r.HasData(), "data %q", tt.raw)
	}
}

func TestSuggestionsSortedAndFormatted(t *testing.T) {
	r := &CheckResult{Troubleshooting: map[string]any{
		"step2": "verify the api key",
		"step1": "check your credentials",
		"limit": float64(5),
		"links": []any{"a", "b"},
	}}

	assert.Equal(t, []Suggestion{
		{Key: "limit", Value: "5"},
		{Key: "links", Value: `["a","b"]`},
		{Key: "step1", Value: "check your credentials"},
		{Key: "step2", Value: "verify the api key"},
	}, r.Suggestions())
}

func TestSuggestionsEmpty(t *testing.T) {
	r := &CheckResult{}
	assert.Empty(t, r.Suggestions())
}
