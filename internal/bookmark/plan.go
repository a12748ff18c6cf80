// Package bookmark builds a report page whose bookmarks and buttons toggle
// chart visibility the way the source dashboard's actions did.
package bookmark

import (
	"fmt"
	"strings"

	"vizsynth/internal/model"
)

const (
	sourceFieldParam    = "source-field"
	defaultActionName   = "Default"
	defaultBookmarkName = "Default View"
)

// Entry is one bookmark to create: its display name and the chart names its
// zone shows.
type Entry struct {
	ActionIndex int
	ActionName  string
	Name        string
	ZoneCharts  []string
}

// Plan derives bookmark entries from dashboard actions. Without actions a
// single default bookmark shows every visual. Actions with no source-field
// values produce nothing.
func Plan(actions []model.Action, visuals []model.ReportVisual) []Entry {
	if len(actions) == 0 {
		charts := make([]string, 0, len(visuals))
		for _, v := range visuals {
			charts = append(charts, v.DisplayName())
		}
		return []Entry{{ActionName: defaultActionName, Name: defaultBookmarkName, ZoneCharts: charts}}
	}

	var out []Entry
	for i, action := range actions {
		name := action.CaptionOr(fmt.Sprintf("Action %d", i+1))

		names := bookmarkNames(action, name)
		for j, bm := range names {
			var zone []model.ZoneItem
			if j < len(action.MatchingZones) {
				zone = action.MatchingZones[j]
			}
			out = append(out, Entry{
				ActionIndex: i,
				ActionName:  name,
				Name:        bm,
				ZoneCharts:  zoneCharts(zone),
			})
		}
	}
	return out
}

func bookmarkNames(action model.Action, actionName string) []string {
	param, ok := action.Param(sourceFieldParam)
	if !ok || len(param.ValuesInField) == 0 {
		return nil
	}

	if _, isBool := param.ValuesInField[0].(bool); isBool {
		out := make([]string, 0, len(param.ValuesInField))
		for _, v := range param.ValuesInField {
			state := "Hide"
			if truthy(v) {
				state = "Show"
			}
			out = append(out, actionName+" - "+state)
		}
		return out
	}

	var out []string
	for _, v := range param.ValuesInField {
		if !truthy(v) {
			continue
		}
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0
	case bool:
		return t
	default:
		return true
	}
}

// zoneCharts keeps named items that are not text or images.
func zoneCharts(zone []model.ZoneItem) []string {
	out := []string{}
	for _, item := range zone {
		if item.Name == "" {
			continue
		}
		switch strings.ToLower(item.Type) {
		case "text", "image":
			continue
		}
		out = append(out, item.Name)
	}
	return out
}
