package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vizsynth/internal/model"
)

func TestPickVisual(t *testing.T) {
	visuals := []model.Visual{
		{Title: "Sales by Region"},
		{Title: "Calendário", ChartType: "calendarChart"},
	}

	v, err := pickVisual(visuals, "sales")
	require.NoError(t, err)
	assert.Equal(t, "Sales by Region", v.Title)

	v, err = pickVisual(visuals, "")
	require.NoError(t, err)
	assert.Equal(t, "Calendário", v.Title)

	v, err = pickVisual(visuals[:1], "")
	require.NoError(t, err)
	assert.Equal(t, "Sales by Region", v.Title)

	_, err = pickVisual(visuals, "inventory turnover")
	assert.Error(t, err)

	_, err = pickVisual(nil, "")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	ctx := context.Background()
	assert.True(t, newLogger("debug").Enabled(ctx, slog.LevelDebug))
	assert.False(t, newLogger("warn").Enabled(ctx, slog.LevelInfo))
	assert.True(t, newLogger("bogus").Enabled(ctx, slog.LevelInfo))
	assert.False(t, newLogger("bogus").Enabled(ctx, slog.LevelDebug))
}
