package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"vizsynth/internal/roles"
)

var (
	ErrEmptyResponse     = errors.New("classifier returned an empty response")
	ErrMalformedResponse = errors.New("classifier returned a malformed response")
)

func cleanJSONOutput(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}

// ParseRoleResponse decodes a model answer into a SignalMap. Unknown keys and
// non-string values are ignored; an answer naming none of the roles is
// malformed.
func ParseRoleResponse(text string) (roles.SignalMap, error) {
	text = cleanJSONOutput(text)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	out := roles.SignalMap{}
	for key, val := range raw {
		role, err := roles.ParseRoleKind(strings.ToLower(strings.TrimSpace(key)))
		if err != nil {
			continue
		}
		name, ok := val.(string)
		if !ok || strings.TrimSpace(name) == "" {
			continue
		}
		out[role] = name
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no role keys in %q", ErrMalformedResponse, truncate(text, 120))
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
