package roles

// Field is a data field visible to one visual.
type Field struct {
	Name         string `json:"name"`
	Table        string `json:"table"`
	DeclaredType string `json:"declared_type,omitempty"`
}

// FieldSet is the ordered, name-unique snapshot of a visual's fields.
// Iteration order drives every first-match-wins rule in this package.
type FieldSet struct {
	fields []Field
	index  map[string]int
}

// NewFieldSet builds a set in input order. A repeated name keeps the position
// of its first occurrence and takes table and type from the last one.
func NewFieldSet(fields ...Field) *FieldSet {
	fs := &FieldSet{index: make(map[string]int, len(fields))}
	for _, f := range fields {
		if f.Name == "" {
			continue
		}
		if i, ok := fs.index[f.Name]; ok {
			fs.fields[i] = f
			continue
		}
		fs.index[f.Name] = len(fs.fields)
		fs.fields = append(fs.fields, f)
	}
	return fs
}

func (fs *FieldSet) Len() int {
	if fs == nil {
		return 0
	}
	return len(fs.fields)
}

func (fs *FieldSet) Fields() []Field {
	if fs == nil {
		return nil
	}
	out := make([]Field, len(fs.fields))
	copy(out, fs.fields)
	return out
}

func (fs *FieldSet) Names() []string {
	if fs == nil {
		return nil
	}
	out := make([]string, len(fs.fields))
	for i, f := range fs.fields {
		out[i] = f.Name
	}
	return out
}

func (fs *FieldSet) Has(name string) bool {
	if fs == nil || name == "" {
		return false
	}
	_, ok := fs.index[name]
	return ok
}

func (fs *FieldSet) Get(name string) (Field, bool) {
	if fs == nil {
		return Field{}, false
	}
	i, ok := fs.index[name]
	if !ok {
		return Field{}, false
	}
	return fs.fields[i], true
}

// First returns the first field of the set, if any.
func (fs *FieldSet) First() (Field, bool) {
	if fs.Len() == 0 {
		return Field{}, false
	}
	return fs.fields[0], true
}
