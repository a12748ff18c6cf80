// Package roles assigns semantic roles (date, category, measure, ...) to the
// data fields of a visual by merging schema, naming and classifier signals and
// completing whatever is left with deterministic fallback rules.
package roles

import "fmt"

// RoleKind is one of the seven semantic purposes a field can serve.
type RoleKind string

const (
	RoleDate       RoleKind = "date"
	RoleWeekLabel  RoleKind = "week_label"
	RoleCategory   RoleKind = "category"
	RoleLegend     RoleKind = "legend"
	RoleMeasure    RoleKind = "measure"
	RoleEventIndex RoleKind = "event_index"
	RoleEventGroup RoleKind = "event_group"
)

// Unknown marks a role, table or reference that could not be resolved.
const Unknown = "Unknown"

var allRoles = []RoleKind{
	RoleDate,
	RoleWeekLabel,
	RoleCategory,
	RoleLegend,
	RoleMeasure,
	RoleEventIndex,
	RoleEventGroup,
}

// All returns every role in canonical order.
func All() []RoleKind {
	out := make([]RoleKind, len(allRoles))
	copy(out, allRoles)
	return out
}

func (k RoleKind) Valid() bool {
	for _, r := range allRoles {
		if r == k {
			return true
		}
	}
	return false
}

func ParseRoleKind(s string) (RoleKind, error) {
	k := RoleKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown role kind: %q", s)
	}
	return k, nil
}
