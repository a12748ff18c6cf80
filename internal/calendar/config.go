package calendar

import (
	"encoding/json"
	"fmt"
	"strings"

	"vizsynth/internal/model"
	"vizsynth/internal/roles"
)

// Mappings binds each calendar projection slot to a role reference.
type Mappings struct {
	Events         roles.Reference `json:"events"`
	EventGroup     roles.Reference `json:"event_group"`
	CellColor      roles.Reference `json:"cell_color"`
	StartDate      roles.Reference `json:"start_date"`
	EndDate        roles.Reference `json:"end_date"`
	HierarchyLevel string          `json:"hierarchy_level"`
}

var requiredProjections = []string{"events", "EventGroup", "CellColor", "StartDate", "EndDate"}

func firstResolved(p roles.Projection, primary, secondary roles.RoleKind) roles.Reference {
	if r := p.Ref(primary); r.Resolved {
		return r
	}
	if r := p.Ref(secondary); r.Resolved {
		return r
	}
	return p.Ref(primary)
}

// MappingsFrom derives calendar slots from a role projection.
func MappingsFrom(p roles.Projection) Mappings {
	level := p.HierarchyLevel
	if level == "" {
		level = roles.DefaultHierarchyLevel
	}
	return Mappings{
		Events:         firstResolved(p, roles.RoleEventIndex, roles.RoleCategory),
		EventGroup:     firstResolved(p, roles.RoleEventGroup, roles.RoleDate),
		CellColor:      firstResolved(p, roles.RoleWeekLabel, roles.RoleLegend),
		StartDate:      p.Ref(roles.RoleDate),
		EndDate:        p.Ref(roles.RoleDate),
		HierarchyLevel: level,
	}
}

// ExtractPrototype reads the calendar config embedded in the reference text.
// The "config" member may be a JSON string or an object.
func ExtractPrototype(reference string) (map[string]any, error) {
	var wrapper map[string]any
	if err := json.Unmarshal([]byte(reference), &wrapper); err != nil {
		return nil, fmt.Errorf("failed to parse reference: %w", err)
	}

	switch cfg := wrapper["config"].(type) {
	case string:
		var out map[string]any
		if err := json.Unmarshal([]byte(cfg), &out); err != nil {
			return nil, fmt.Errorf("failed to parse reference config: %w", err)
		}
		return out, nil
	case map[string]any:
		return cfg, nil
	default:
		return nil, fmt.Errorf("%w: reference has no config", ErrInvalidConfig)
	}
}

func columnSelect(ref roles.Reference) map[string]any {
	return map[string]any{
		"Column": map[string]any{
			"Expression": map[string]any{"SourceRef": map[string]any{"Source": "s"}},
			"Property":   ref.Field,
		},
		"Name":                ref.QueryRef,
		"NativeReferenceName": ref.Field,
	}
}

func hierarchySelect(m Mappings) map[string]any {
	return map[string]any{
		"HierarchyLevel": map[string]any{
			"Expression": map[string]any{
				"Hierarchy": map[string]any{
					"Expression": map[string]any{
						"PropertyVariationSource": map[string]any{
							"Expression": map[string]any{"SourceRef": map[string]any{"Source": "s"}},
							"Name":       "Variation",
							"Property":   m.StartDate.Field,
						},
					},
					"Hierarchy": "Date Hierarchy",
				},
			},
			"Level": m.HierarchyLevel,
		},
		"Name":                m.EventGroup.QueryRef,
		"NativeReferenceName": m.StartDate.Field + " " + m.HierarchyLevel,
	}
}

func queryRefs(ref roles.Reference) []any {
	return []any{map[string]any{"queryRef": ref.QueryRef}}
}

// Apply returns a deep copy of prototype with projections, query and layout
// rewritten. Everything else is preserved.
func Apply(prototype map[string]any, m Mappings, pos model.Position) map[string]any {
	cfg, _ := deepCopy(prototype).(map[string]any)
	if cfg == nil {
		cfg = map[string]any{}
	}

	if sv, ok := cfg["singleVisual"].(map[string]any); ok {
		if proj, ok := sv["projections"].(map[string]any); ok {
			proj["events"] = queryRefs(m.Events)
			proj["EventGroup"] = queryRefs(m.EventGroup)
			proj["CellColor"] = queryRefs(m.CellColor)
			proj["StartDate"] = queryRefs(m.StartDate)
			proj["EndDate"] = queryRefs(m.EndDate)
		}

		if pq, ok := sv["prototypeQuery"].(map[string]any); ok {
			if _, ok := pq["From"]; ok {
				pq["From"] = []any{map[string]any{"Name": "s", "Entity": m.Events.Table, "Type": 0}}
			}
			if _, ok := pq["Select"]; ok {
				pq["Select"] = []any{
					columnSelect(m.Events),
					hierarchySelect(m),
					columnSelect(m.CellColor),
					columnSelect(m.StartDate),
				}
			}
		}
	}

	if layouts, ok := cfg["layouts"].([]any); ok && len(layouts) > 0 {
		if layout, ok := layouts[0].(map[string]any); ok {
			p, ok := layout["position"].(map[string]any)
			if !ok {
				p = map[string]any{}
				layout["position"] = p
			}
			p["x"] = pos.X
			p["y"] = pos.Y
			p["z"] = pos.Z
			p["width"] = pos.Width
			p["height"] = pos.Height
		}
	}
	return cfg
}

// Validate checks that every calendar projection has a queryRef and the
// first layout carries a full position.
func Validate(cfg map[string]any) error {
	sv, ok := cfg["singleVisual"].(map[string]any)
	if !ok {
		return fmt.Errorf("%w: missing singleVisual", ErrInvalidConfig)
	}
	if _, ok := sv["visualType"].(string); !ok {
		return fmt.Errorf("%w: missing visualType", ErrInvalidConfig)
	}

	proj, _ := sv["projections"].(map[string]any)
	for _, name := range requiredProjections {
		items, ok := proj[name].([]any)
		if !ok || len(items) == 0 {
			return fmt.Errorf("%w: %s projection is missing or empty", ErrInvalidConfig, name)
		}
		first, _ := items[0].(map[string]any)
		if _, ok := first["queryRef"]; !ok {
			return fmt.Errorf("%w: %s projection missing queryRef", ErrInvalidConfig, name)
		}
	}

	layouts, _ := cfg["layouts"].([]any)
	if len(layouts) == 0 {
		return fmt.Errorf("%w: missing layouts", ErrInvalidConfig)
	}
	layout, _ := layouts[0].(map[string]any)
	pos, _ := layout["position"].(map[string]any)
	for _, key := range []string{"x", "y", "width", "height"} {
		if _, ok := pos[key]; !ok {
			return fmt.Errorf("%w: position missing %s", ErrInvalidConfig, key)
		}
	}
	return nil
}

// IsCalendarType reports whether the config's visualType names a calendar.
func IsCalendarType(cfg map[string]any) bool {
	sv, _ := cfg["singleVisual"].(map[string]any)
	vt, _ := sv["visualType"].(string)
	return strings.Contains(strings.ToLower(vt), "calendar")
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}
