package bookmark

import (
	"encoding/json"
	"strings"
)

// Reference carries report-level settings from the reference configuration.
type Reference struct {
	Config           map[string]any
	ResourcePackages any
}

// ParseReference reads the reference document. Empty text yields an empty
// Reference; an unparsable embedded config is ignored.
func ParseReference(text string) (Reference, error) {
	var ref Reference
	if strings.TrimSpace(text) == "" {
		return ref, nil
	}

	var wrapper map[string]any
	if err := json.Unmarshal([]byte(text), &wrapper); err != nil {
		return ref, err
	}
	ref.ResourcePackages = wrapper["resourcePackages"]

	switch cfg := wrapper["config"].(type) {
	case string:
		var parsed map[string]any
		if err := json.Unmarshal([]byte(cfg), &parsed); err == nil {
			ref.Config = parsed
		}
	case map[string]any:
		ref.Config = cfg
	}
	return ref, nil
}

func (r Reference) value(key string, def any) any {
	if v, ok := r.Config[key]; ok {
		return v
	}
	return def
}

func defaultThemeCollection() map[string]any {
	return map[string]any{
		"baseTheme": map[string]any{
			"name":    "CY25SU10",
			"version": map[string]any{"visual": "2.1.0", "report": "3.0.0", "page": "2.3.0"},
			"type":    2,
		},
	}
}

func defaultSettings() map[string]any {
	return map[string]any{
		"useNewFilterPaneExperience":       true,
		"allowChangeFilterTypes":           true,
		"useStylableVisualContainerHeader": true,
		"queryLimitOption":                 6,
		"exportDataMode":                   1,
		"useDefaultAggregateDisplayName":   true,
		"useEnhancedTooltips":              true,
	}
}

func defaultResourcePackages() []any {
	return []any{
		map[string]any{
			"resourcePackage": map[string]any{
				"disabled": false,
				"items": []any{
					map[string]any{"name": "CY25SU10", "path": "BaseThemes/CY25SU10.json", "type": 202},
				},
				"name": "SharedResources",
				"type": 2,
			},
		},
	}
}
