package model

import "strings"

// Column describes one column of a table in the semantic model.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Schema maps table name to its ordered columns.
type Schema map[string][]Column

// ColumnType finds a column by case-insensitive name within an exact table.
func (s Schema) ColumnType(table, column string) (string, bool) {
	cols, ok := s[table]
	if !ok {
		return "", false
	}
	want := strings.TrimSpace(column)
	for _, c := range cols {
		if strings.EqualFold(strings.TrimSpace(c.Name), want) {
			return c.Type, true
		}
	}
	return "", false
}

// Position is the layout entry for one chart.
type Position struct {
	Chart  string  `json:"chart"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
