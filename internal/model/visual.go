package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FieldRef is a field name together with the table that owns it.
type FieldRef struct {
	Name  string `json:"name"`
	Table string `json:"table"`
}

// FieldGroup is a JSON object of field -> table that keeps key order.
type FieldGroup []FieldRef

func (g *FieldGroup) UnmarshalJSON(data []byte) error {
	*g = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("field group: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var table any
		if err := dec.Decode(&table); err != nil {
			return fmt.Errorf("field group %q: %w", key, err)
		}
		tableName, _ := table.(string)
		*g = append(*g, FieldRef{Name: key, Table: tableName})
	}
	_, err = dec.Token()
	return err
}

func (g FieldGroup) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Table)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Visual is one detected chart from the upstream visual description.
type Visual struct {
	Source    string     `json:"Source"`
	Title     string     `json:"title"`
	ChartType string     `json:"chart_type"`
	Rows      FieldGroup `json:"Rows,omitempty"`
	Columns   FieldGroup `json:"Columns,omitempty"`
	Legend    FieldGroup `json:"Legend,omitempty"`
	Tooltips  FieldGroup `json:"tooltips,omitempty"`
	Hierarchy []string   `json:"Hierarchy,omitempty"`
}

func (v Visual) MatchTexts() []string {
	return []string{v.Title, v.Source}
}

// Fields returns rows, columns and legend fields in that order.
func (v Visual) Fields() []FieldRef {
	out := make([]FieldRef, 0, len(v.Rows)+len(v.Columns)+len(v.Legend))
	out = append(out, v.Rows...)
	out = append(out, v.Columns...)
	out = append(out, v.Legend...)
	return out
}

// DisplayName prefers the title and falls back to the source sheet name.
func (v Visual) DisplayName() string {
	if strings.TrimSpace(v.Title) != "" {
		return v.Title
	}
	return v.Source
}

// ReportVisual is a visual container already placed on a report page.
type ReportVisual struct {
	Name    string  `json:"name"`
	Title   string  `json:"title,omitempty"`
	Source  string  `json:"source,omitempty"`
	Config  string  `json:"config,omitempty"`
	Filters string  `json:"filters,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
}

func (r ReportVisual) MatchTexts() []string {
	return []string{r.Title, r.Source}
}

func (r ReportVisual) DisplayName() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Source
}

// VisualType reads singleVisual.visualType from the embedded config.
func (r ReportVisual) VisualType() (string, error) {
	cfg := r.Config
	if strings.TrimSpace(cfg) == "" {
		cfg = "{}"
	}
	var parsed struct {
		SingleVisual struct {
			VisualType string `json:"visualType"`
		} `json:"singleVisual"`
	}
	if err := json.Unmarshal([]byte(cfg), &parsed); err != nil {
		return "", fmt.Errorf("visual %s: invalid config: %w", r.Name, err)
	}
	if parsed.SingleVisual.VisualType == "" {
		return "lineChart", nil
	}
	return parsed.SingleVisual.VisualType, nil
}
