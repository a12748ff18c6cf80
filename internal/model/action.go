package model

import (
	"bytes"
	"encoding/json"
)

// Action is a user interaction that toggles which charts are visible.
type Action struct {
	Caption       *string       `json:"caption"`
	Params        []ActionParam `json:"params"`
	MatchingZones [][]ZoneItem  `json:"matching_zones"`
}

type ActionParam struct {
	Name          string `json:"name"`
	ValuesInField []any  `json:"values_in_field"`
}

// ZoneItem is one dashboard element inside a zone. Non-object entries decode
// to the zero value.
type ZoneItem struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (z *ZoneItem) UnmarshalJSON(data []byte) error {
	*z = ZoneItem{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	var raw struct {
		Name any `json:"name"`
		Type any `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	z.Name, _ = raw.Name.(string)
	z.Type, _ = raw.Type.(string)
	return nil
}

// CaptionOr returns the caption, or def when the action has none. A present
// but empty caption is returned as is.
func (a Action) CaptionOr(def string) string {
	if a.Caption == nil {
		return def
	}
	return *a.Caption
}

// Param returns the first parameter with the given name.
func (a Action) Param(name string) (ActionParam, bool) {
	for _, p := range a.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ActionParam{}, false
}
