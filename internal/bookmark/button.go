package bookmark

import (
	"encoding/json"
	"fmt"
)

const (
	buttonX       = 104
	buttonSpacing = 160
	buttonY       = 41.17
	buttonWidth   = 145.46
	buttonHeight  = 61.75
	buttonZBase   = 10000
)

type buttonPos struct {
	X, Y, Z, Width, Height float64
}

// buttonPosition lays buttons out left to right above the page.
func buttonPosition(i int) buttonPos {
	return buttonPos{
		X:      float64(buttonX + i*buttonSpacing),
		Y:      buttonY,
		Z:      float64(buttonZBase + i),
		Width:  buttonWidth,
		Height: buttonHeight,
	}
}

func literal(v string) map[string]any {
	return map[string]any{"expr": map[string]any{"Literal": map[string]any{"Value": v}}}
}

// newButton builds an action button container that jumps to bookmarkName.
func newButton(id, label, bookmarkName string, pos buttonPos) (VisualContainer, error) {
	cfg := map[string]any{
		"name": id,
		"layouts": []any{map[string]any{
			"id": 0,
			"position": map[string]any{
				"x":        pos.X,
				"y":        pos.Y,
				"z":        pos.Z,
				"width":    pos.Width,
				"height":   pos.Height,
				"tabOrder": 0,
			},
		}},
		"singleVisual": map[string]any{
			"visualType":              "actionButton",
			"drillFilterOtherVisuals": true,
			"objects": map[string]any{
				"icon": []any{map[string]any{
					"properties": map[string]any{"shapeType": literal("'blank'")},
					"selector":   map[string]any{"id": "default"},
				}},
				"text": []any{
					map[string]any{"properties": map[string]any{"show": literal("true")}},
					map[string]any{
						"properties": map[string]any{"text": literal(fmt.Sprintf("'%s'", label))},
						"selector":   map[string]any{"id": "default"},
					},
				},
			},
			"vcObjects": map[string]any{
				"title": []any{map[string]any{
					"properties": map[string]any{"show": literal("false")},
				}},
				"visualLink": []any{map[string]any{
					"properties": map[string]any{
						"show":     literal("true"),
						"type":     literal("'Bookmark'"),
						"bookmark": literal(fmt.Sprintf("'%s'", bookmarkName)),
					},
				}},
			},
		},
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return VisualContainer{}, fmt.Errorf("failed to encode button %q: %w", label, err)
	}
	return VisualContainer{
		Config:  string(raw),
		Filters: "[]",
		Height:  pos.Height,
		Width:   pos.Width,
		X:       pos.X,
		Y:       pos.Y,
		Z:       pos.Z,
	}, nil
}
