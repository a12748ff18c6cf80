package bookmark

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vizsynth/internal/model"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id%02d", n)
	}
}

func caption(s string) *string { return &s }

func reportVisuals() []model.ReportVisual {
	return []model.ReportVisual{
		{Name: "v1", Title: "Sales by Region", Config: `{"singleVisual":{"visualType":"barChart"}}`, X: 10, Y: 20, Width: 300, Height: 200},
		{Name: "v2", Title: "Profit Trend", Config: `{"singleVisual":{"visualType":"lineChart"}}`},
		{Name: "v3", Source: "Customer Map"},
		{Name: "v1", Title: "Duplicate"},
	}
}

func TestPlanFromActions(t *testing.T) {
	actions := []model.Action{
		{
			Caption: caption("Toggle"),
			Params:  []model.ActionParam{{Name: "source-field", ValuesInField: []any{true, false}}},
			MatchingZones: [][]model.ZoneItem{
				{{Name: "Sales", Type: "chart"}, {Name: "Header", Type: "Text"}, {Name: "Logo", Type: "image"}, {Type: "chart"}},
			},
		},
		{
			Params: []model.ActionParam{
				{Name: "target", ValuesInField: []any{"ignored"}},
				{Name: "source-field", ValuesInField: []any{"North", "", nil, float64(2024)}},
			},
			MatchingZones: [][]model.ZoneItem{{{Name: "Profit"}}, {{Name: "Map"}}},
		},
		{Caption: caption("Empty")},
	}

	got := Plan(actions, nil)
	require.Len(t, got, 4)

	assert.Equal(t, "Toggle - Show", got[0].Name)
	assert.Equal(t, []string{"Sales"}, got[0].ZoneCharts)
	assert.Equal(t, "Toggle - Hide", got[1].Name)
	assert.Empty(t, got[1].ZoneCharts, "missing zone shows nothing")

	assert.Equal(t, "North", got[2].Name)
	assert.Equal(t, "Action 2", got[2].ActionName)
	assert.Equal(t, []string{"Profit"}, got[2].ZoneCharts)
	assert.Equal(t, "2024", got[3].Name)
	assert.Equal(t, []string{"Map"}, got[3].ZoneCharts)
}

func TestPlanBooleanValuesUseTruthiness(t *testing.T) {
	actions := []model.Action{{
		Caption: caption("Flag"),
		Params:  []model.ActionParam{{Name: "source-field", ValuesInField: []any{true, "yes", float64(0), nil, false}}},
	}}

	var names []string
	for _, e := range Plan(actions, nil) {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Flag - Show", "Flag - Show", "Flag - Hide", "Flag - Hide", "Flag - Hide"}, names)
}

func TestPlanKeepsEmptyCaption(t *testing.T) {
	actions := []model.Action{
		{Caption: caption(""), Params: []model.ActionParam{{Name: "source-field", ValuesInField: []any{true}}}},
		{Params: []model.ActionParam{{Name: "source-field", ValuesInField: []any{true}}}},
	}

	got := Plan(actions, nil)
	require.Len(t, got, 2)
	assert.Equal(t, "", got[0].ActionName)
	assert.Equal(t, " - Show", got[0].Name)
	assert.Equal(t, "Action 2", got[1].ActionName)
	assert.Equal(t, "Action 2 - Show", got[1].Name)
}

func TestPlanDefaultBookmark(t *testing.T) {
	got := Plan(nil, reportVisuals()[:3])
	require.Len(t, got, 1)
	assert.Equal(t, "Default View", got[0].Name)
	assert.Equal(t, []string{"Sales by Region", "Profit Trend", "Customer Map"}, got[0].ZoneCharts)
}

func TestBuildReport(t *testing.T) {
	actions := []model.Action{{
		Caption: caption("Toggle"),
		Params:  []model.ActionParam{{Name: "source-field", ValuesInField: []any{true, false}}},
		MatchingZones: [][]model.ZoneItem{
			{{Name: "Sales by Region"}, {Name: "Nonexistent Widget"}},
			{{Name: "profit trend"}},
		},
	}}

	b := NewBuilder(WithIDGenerator(sequentialIDs()))
	report, summary, err := b.Build(reportVisuals(), actions, Reference{})
	require.NoError(t, err)

	require.Len(t, report.Sections, 1)
	section := report.Sections[0]
	assert.Equal(t, "id01", section.Name)
	// three distinct visuals plus two buttons
	require.Len(t, section.VisualContainers, 5)
	assert.Equal(t, 300.0, section.VisualContainers[0].Width)
	assert.Equal(t, 640.0, section.VisualContainers[1].Width)
	assert.Equal(t, "{}", section.VisualContainers[2].Config)

	btn := section.VisualContainers[3]
	assert.Equal(t, 104.0, btn.X)
	assert.Equal(t, 41.17, btn.Y)
	assert.Equal(t, 10000.0, btn.Z)
	assert.Equal(t, 264.0, section.VisualContainers[4].X)
	assert.Contains(t, btn.Config, `'Toggle - Show'`)
	assert.Contains(t, btn.Config, `'id02'`, "button links to its bookmark")

	assert.Equal(t, []string{"Nonexistent Widget"}, summary.Unmatched["Toggle - Show"])
	require.Len(t, summary.Matches["Toggle - Show"], 1)
	assert.Equal(t, "v1", summary.Matches["Toggle - Show"][0].Visual)

	var cfg reportConfig
	require.NoError(t, json.Unmarshal([]byte(report.Config), &cfg))
	assert.Equal(t, "5.67", cfg.Version)
	require.Len(t, cfg.Bookmarks, 2)

	show := cfg.Bookmarks[0]
	assert.Equal(t, "Toggle - Show", show.DisplayName)
	states := show.ExplorationState.Sections["id01"].VisualContainers
	require.Len(t, states, 3)
	assert.Nil(t, states["v1"].SingleVisual.Display)
	assert.Equal(t, "barChart", states["v1"].SingleVisual.VisualType)
	require.NotNil(t, states["v2"].SingleVisual.Display)
	assert.Equal(t, "hidden", states["v2"].SingleVisual.Display.Mode)
	assert.Equal(t, "lineChart", states["v3"].SingleVisual.VisualType)

	hide := cfg.Bookmarks[1].ExplorationState.Sections["id01"].VisualContainers
	assert.Nil(t, hide["v2"].SingleVisual.Display)
	assert.NotNil(t, hide["v1"].SingleVisual.Display)
}

func TestBuildUsesReference(t *testing.T) {
	ref, err := ParseReference(`{"config": "{\"version\":\"5.70\",\"settings\":{\"queryLimitOption\":3}}", "resourcePackages": [{"resourcePackage": {"name": "Custom"}}]}`)
	require.NoError(t, err)

	report, _, err := NewBuilder().Build(reportVisuals()[:1], nil, ref)
	require.NoError(t, err)

	var cfg map[string]any
	require.NoError(t, json.Unmarshal([]byte(report.Config), &cfg))
	assert.Equal(t, "5.70", cfg["version"])
	assert.Equal(t, map[string]any{"queryLimitOption": float64(3)}, cfg["settings"])
	assert.Contains(t, cfg, "themeCollection")

	pkgs := report.ResourcePackages.([]any)
	assert.Equal(t, "Custom", pkgs[0].(map[string]any)["resourcePackage"].(map[string]any)["name"])
}

func TestBuildRequiresVisuals(t *testing.T) {
	_, _, err := NewBuilder().Build(nil, nil, Reference{})
	assert.Error(t, err)
}

func TestParseReferenceTolerant(t *testing.T) {
	ref, err := ParseReference("")
	require.NoError(t, err)
	assert.Nil(t, ref.Config)

	ref, err = ParseReference(`{"config": "not json"}`)
	require.NoError(t, err)
	assert.Nil(t, ref.Config)

	_, err = ParseReference(`{`)
	assert.Error(t, err)
}

func TestNewGUID(t *testing.T) {
	a, b := NewGUID(), NewGUID()
	assert.Len(t, a, 20)
	assert.NotEqual(t, a, b)
}
