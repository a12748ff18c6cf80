package loader

import (
	"os"
	"path/filepath"
	"testing"

	"vizsynth/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoader_LoadsArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "final.json", `[{"Source":"S1","title":"Calendar","chart_type":"calendarChart","Rows":{"Date":"Sales"}}]`)
	writeFile(t, dir, "schema_output.json", `{"Sales":[{"name":"Date","type":"datetime"}]}`)
	writeFile(t, dir, "Reference Chart Configurations.txt", `{"config":"{}"}`)

	l := FromConfig(config.Default(), dir)

	visuals, err := l.Visuals()
	require.NoError(t, err)
	require.Len(t, visuals, 1)
	assert.Equal(t, "Sales", visuals[0].Rows[0].Table)

	schema, err := l.Schema()
	require.NoError(t, err)
	typ, ok := schema.ColumnType("Sales", "date")
	assert.True(t, ok)
	assert.Equal(t, "datetime", typ)

	ref, err := l.Reference()
	require.NoError(t, err)
	assert.Contains(t, ref, "config")
}

func TestLoader_MissingInput(t *testing.T) {
	l := NewLoader(t.TempDir(), Files{Actions: "actions.json"})

	actions, err := l.Actions()
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.Empty(t, actions)
	assert.NoError(t, Optional(err))

	_, err = l.Positions()
	assert.ErrorIs(t, err, ErrMissingInput, "unconfigured file counts as missing")
}

func TestLoader_InvalidJSONIsNotOptional(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "visuals.json", `[{"name": }]`)
	l := NewLoader(dir, Files{ReportVisuals: "visuals.json"})

	_, err := l.ReportVisuals()
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingInput)
	assert.Error(t, Optional(err))
}

func TestLoader_AbsolutePathsBypassDir(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "positions.json")
	require.NoError(t, os.WriteFile(abs, []byte(`[{"chart":"Calendar","x":1,"width":300}]`), 0o644))

	l := NewLoader("/does/not/matter", Files{Positions: abs})
	pos, err := l.Positions()
	require.NoError(t, err)
	require.Len(t, pos, 1)
	assert.Equal(t, 300.0, pos[0].Width)
}
