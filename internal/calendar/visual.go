// Package calendar synthesizes a calendar visual container from a detected
// chart, its resolved field roles and a reference prototype.
package calendar

import (
	"errors"
	"strings"

	"vizsynth/internal/model"
)

var (
	ErrNoCalendarVisual = errors.New("no calendar visual found")
	ErrInvalidConfig    = errors.New("invalid calendar config")
)

var calendarWords = []string{"calendário", "calendario", "calendar"}

// Default layout used when no position entry names the calendar.
var DefaultPosition = model.Position{
	X:      17.05,
	Y:      290.69,
	Z:      0,
	Width:  1103.83,
	Height: 413.16,
}

const (
	fallbackWidth  = 1100
	fallbackHeight = 400
)

func mentionsCalendar(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, w := range calendarWords {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// FindVisual returns the first visual typed calendarChart or whose title or
// source mentions a calendar.
func FindVisual(visuals []model.Visual) (model.Visual, int, error) {
	for i, v := range visuals {
		if strings.EqualFold(strings.TrimSpace(v.ChartType), "calendarChart") ||
			mentionsCalendar(v.Title) || mentionsCalendar(v.Source) {
			return v, i, nil
		}
	}
	return model.Visual{}, -1, ErrNoCalendarVisual
}

// FindPosition matches a position entry by case-insensitive title, or any
// entry that mentions a calendar. Zero width or height take the fallback
// size. The bool is false when DefaultPosition was used.
func FindPosition(title string, positions []model.Position) (model.Position, bool) {
	want := strings.ToLower(strings.TrimSpace(title))
	for _, p := range positions {
		chart := strings.ToLower(strings.TrimSpace(p.Chart))
		if chart == want || mentionsCalendar(chart) {
			if p.Width == 0 {
				p.Width = fallbackWidth
			}
			if p.Height == 0 {
				p.Height = fallbackHeight
			}
			return p, true
		}
	}
	pos := DefaultPosition
	pos.Chart = title
	return pos, false
}
