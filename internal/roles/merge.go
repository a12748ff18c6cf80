package roles

// Assignment maps roles to field names. An empty value counts as unassigned.
type Assignment map[RoleKind]string

func (a Assignment) Get(role RoleKind) (string, bool) {
	v, ok := a[role]
	return v, ok && v != ""
}

func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Missing lists the roles without a field, in canonical order.
func (a Assignment) Missing() []RoleKind {
	var out []RoleKind
	for _, r := range allRoles {
		if _, ok := a.Get(r); !ok {
			out = append(out, r)
		}
	}
	return out
}

// Merge combines signal maps given highest priority first. A role takes the
// first proposal that names a member of fields and is never overwritten by a
// later source. The engine passes classifier, schema, naming in that order.
func Merge(fields *FieldSet, sources ...SignalMap) Assignment {
	out := Assignment{}
	for _, src := range sources {
		for _, role := range allRoles {
			if _, filled := out.Get(role); filled {
				continue
			}
			name, ok := src[role]
			if !ok || !fields.Has(name) {
				continue
			}
			out[role] = name
		}
	}
	return out
}
