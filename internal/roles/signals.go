package roles

import "strings"

// SignalMap is one source's proposal of role -> field name. It need not be
// complete, and two roles may point at the same field.
type SignalMap map[RoleKind]string

func (m SignalMap) Clone() SignalMap {
	out := make(SignalMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// TypeLookup resolves the declared type of a column in a table.
type TypeLookup interface {
	ColumnType(table, column string) (string, bool)
}

type typeRule struct {
	role     RoleKind
	patterns []string
}

// Checked in order per field; the first rule that fires claims the field.
var schemaRules = []typeRule{
	{role: RoleDate, patterns: []string{"date", "datetime", "timestamp"}},
	{role: RoleMeasure, patterns: []string{"int", "float", "decimal", "number", "numeric"}},
	{role: RoleCategory, patterns: []string{"text", "string", "varchar", "char"}},
}

var nameRules = []typeRule{
	{role: RoleEventIndex, patterns: []string{"index", "id", "row", "number", "#"}},
	{role: RoleCategory, patterns: []string{"type", "category", "group", "status", "class"}},
	{role: RoleWeekLabel, patterns: []string{"week", "label", "name"}},
}

// InferFromSchema proposes date/measure/category from declared datatypes.
// A field's own DeclaredType wins over the lookup; fields with no known type
// contribute nothing.
func InferFromSchema(fields *FieldSet, lookup TypeLookup) SignalMap {
	out := SignalMap{}
	for _, f := range fields.Fields() {
		dt := strings.ToLower(strings.TrimSpace(f.DeclaredType))
		if dt == "" && lookup != nil {
			if t, ok := lookup.ColumnType(f.Table, f.Name); ok {
				dt = strings.ToLower(strings.TrimSpace(t))
			}
		}
		if dt == "" {
			continue
		}
		applyFirstRule(out, schemaRules, dt, f.Name)
	}
	return out
}

// InferFromNames proposes event_index/category/week_label from name tokens,
// independent of the declared type.
func InferFromNames(fields *FieldSet) SignalMap {
	out := SignalMap{}
	for _, f := range fields.Fields() {
		applyFirstRule(out, nameRules, strings.ToLower(f.Name), f.Name)
	}
	return out
}

func applyFirstRule(out SignalMap, rules []typeRule, subject, fieldName string) {
	for _, r := range rules {
		if !containsAny(subject, r.patterns) {
			continue
		}
		if _, taken := out[r.role]; !taken {
			out[r.role] = fieldName
		}
		return
	}
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
