package roles

import (
	"fmt"
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultHierarchyLevel is used when no hint names a date hierarchy level.
const DefaultHierarchyLevel = "Quarter"

// Alternatives are tried in order, so Week wins over Weekday at the same offset.
var hierarchyLevelRe = regexp.MustCompile(`(?i)(Quarter|Month|Year|Week|Weekday)`)

// Reference is the projected form of one role.
type Reference struct {
	Role     RoleKind `json:"role"`
	Field    string   `json:"field"`
	Table    string   `json:"table"`
	QueryRef string   `json:"query_ref"`
	Resolved bool     `json:"resolved"`
}

// Projection holds a reference for every role plus the detected date
// hierarchy level used by event_group.
type Projection struct {
	HierarchyLevel string                 `json:"hierarchy_level"`
	References     map[RoleKind]Reference `json:"references"`
}

// Ref returns the reference for role, or the Unknown placeholder.
func (p Projection) Ref(role RoleKind) Reference {
	if r, ok := p.References[role]; ok {
		return r
	}
	return unresolvedRef(role)
}

// HierarchyLevel scans hints in order and returns the first level named in
// one of them, capitalized. Defaults to Quarter.
func HierarchyLevel(hints []string) string {
	title := cases.Title(language.Und)
	for _, h := range hints {
		if m := hierarchyLevelRe.FindString(h); m != "" {
			return title.String(m)
		}
	}
	return DefaultHierarchyLevel
}

// Project turns an assignment into table-qualified references. event_group
// additionally carries the date hierarchy level.
func Project(a Assignment, fields *FieldSet, hints []string) Projection {
	level := HierarchyLevel(hints)
	p := Projection{
		HierarchyLevel: level,
		References:     make(map[RoleKind]Reference, len(allRoles)),
	}

	for _, role := range allRoles {
		name, ok := a.Get(role)
		if !ok {
			p.References[role] = unresolvedRef(role)
			continue
		}
		f, ok := fields.Get(name)
		if !ok {
			p.References[role] = unresolvedRef(role)
			continue
		}

		ref := fmt.Sprintf("%s.%s", f.Table, f.Name)
		if role == RoleEventGroup {
			ref = fmt.Sprintf("%s.%s.Variation.Date Hierarchy.%s", f.Table, f.Name, level)
		}
		p.References[role] = Reference{
			Role:     role,
			Field:    f.Name,
			Table:    f.Table,
			QueryRef: ref,
			Resolved: true,
		}
	}
	return p
}

func unresolvedRef(role RoleKind) Reference {
	return Reference{
		Role:     role,
		Field:    Unknown,
		Table:    Unknown,
		QueryRef: Unknown + "." + Unknown,
	}
}
