package roles

import "strings"

var (
	fallbackDatePatterns      = []string{"date", "dt", "data", "transaction", "time"}
	fallbackIndexPatterns     = []string{"index", "id", "row", "#", "num"}
	fallbackWeekLabelPatterns = []string{"week", "label", "name", "status"}
)

// Complete fills every role left empty by Merge. The step order is fixed:
// pattern picks for date, event_index and week_label, first unused field for
// category, reuse for legend, measure and event_group, then the first field
// of the set for anything still empty. Partial values that are not members
// of fields are dropped first. Fields may end up shared by several roles.
// With an empty field set the roles stay unassigned and are returned as
// unresolved.
func Complete(partial Assignment, fields *FieldSet) (Assignment, []RoleKind) {
	out := partial.Clone()
	for k, v := range out {
		if !k.Valid() || !fields.Has(v) {
			delete(out, k)
		}
	}

	names := fields.Names()
	used := make(map[string]bool, len(names))
	for _, v := range out {
		used[v] = true
	}

	pick := func(role RoleKind, patterns []string) {
		if _, ok := out.Get(role); ok {
			return
		}
		for _, name := range names {
			if used[name] {
				continue
			}
			if patterns != nil && !containsAny(strings.ToLower(name), patterns) {
				continue
			}
			out[role] = name
			used[name] = true
			return
		}
	}

	reuse := func(role RoleKind, from ...RoleKind) {
		if _, ok := out.Get(role); ok {
			return
		}
		for _, src := range from {
			if v, ok := out.Get(src); ok {
				out[role] = v
				return
			}
		}
	}

	pick(RoleDate, fallbackDatePatterns)
	pick(RoleEventIndex, fallbackIndexPatterns)
	pick(RoleWeekLabel, fallbackWeekLabelPatterns)
	pick(RoleCategory, nil)

	reuse(RoleLegend, RoleWeekLabel, RoleCategory)
	reuse(RoleMeasure, RoleEventIndex)
	reuse(RoleEventGroup, RoleDate)

	if first, ok := fields.First(); ok {
		for _, role := range allRoles {
			if _, filled := out.Get(role); !filled {
				out[role] = first.Name
			}
		}
	}

	return out, out.Missing()
}
