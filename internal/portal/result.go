package portal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// CheckResult is the decoded body of the BestBuy integration check.
type CheckResult struct {
	StatusCode      int
	Success         bool
	Platform        string
	APIKey          string
	Data            json.RawMessage
	Message         string
	Troubleshooting map[string]any
	Raw             json.RawMessage
}

// Suggestion is one troubleshooting entry.
type Suggestion struct {
	Key   string
	Value string
}

// HasData reports whether the response carried a non-empty data value.
// null, false, zero, "" and empty arrays or objects count as absent.
func (r *CheckResult) HasData() bool {
	return truthy(decodeAny(r.Data))
}

// Suggestions returns the troubleshooting entries sorted by key.
// Non-string values are rendered as JSON.
func (r *CheckResult) Suggestions() []Suggestion {
	out := make([]Suggestion, 0, len(r.Troubleshooting))
	for k, v := range r.Troubleshooting {
		out = append(out, Suggestion{Key: k, Value: formatValue(v)})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out
}

// decodeAny decodes raw into a generic value, or nil when raw is absent or
// not valid JSON.
func decodeAny(raw json.RawMessage) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// textValue renders raw as display text: strings as-is, null or absent as
// empty, anything else as JSON.
func textValue(raw json.RawMessage) string {
	v := decodeAny(raw)
	if v == nil {
		return ""
	}
	return formatValue(v)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
