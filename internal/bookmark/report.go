package bookmark

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"vizsynth/internal/match"
	"vizsynth/internal/model"
)

// VisualContainer is one placed element of a report section.
type VisualContainer struct {
	Config  string  `json:"config"`
	Filters string  `json:"filters"`
	Height  float64 `json:"height"`
	Width   float64 `json:"width"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
}

type Section struct {
	Name             string            `json:"name"`
	DisplayName      string            `json:"displayName"`
	Config           string            `json:"config"`
	DisplayOption    int               `json:"displayOption"`
	Filters          string            `json:"filters"`
	Height           float64           `json:"height"`
	Width            float64           `json:"width"`
	VisualContainers []VisualContainer `json:"visualContainers"`
}

type VisualState struct {
	SingleVisual SingleVisualState `json:"singleVisual"`
}

type SingleVisualState struct {
	VisualType string         `json:"visualType"`
	Objects    map[string]any `json:"objects"`
	Display    *DisplayState  `json:"display,omitempty"`
}

type DisplayState struct {
	Mode string `json:"mode"`
}

type SectionState struct {
	VisualContainers map[string]VisualState `json:"visualContainers"`
}

type ExplorationState struct {
	Version       string                  `json:"version"`
	ActiveSection string                  `json:"activeSection"`
	Sections      map[string]SectionState `json:"sections"`
	Objects       map[string]any          `json:"objects"`
}

type Options struct {
	TargetVisualNames []string `json:"targetVisualNames"`
}

type Bookmark struct {
	DisplayName      string           `json:"displayName"`
	Name             string           `json:"name"`
	ExplorationState ExplorationState `json:"explorationState"`
	Options          Options          `json:"options"`
}

// Report is the report document written for the page.
type Report struct {
	Config             string    `json:"config"`
	LayoutOptimization int       `json:"layoutOptimization"`
	ResourcePackages   any       `json:"resourcePackages"`
	Sections           []Section `json:"sections"`
}

// Match records which report visual a zone chart name resolved to.
type Match struct {
	Chart  string
	Visual string
	Score  int
}

type Summary struct {
	Bookmarks []Entry
	Matches   map[string][]Match
	Unmatched map[string][]string
}

// NewGUID returns a 20 character hex identifier.
func NewGUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
}

type Builder struct {
	newID  func() string
	logger *slog.Logger
}

type BuilderOption func(*Builder)

func WithIDGenerator(fn func() string) BuilderOption {
	return func(b *Builder) { b.newID = fn }
}

func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		newID:  NewGUID,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build plans bookmarks from actions, matches zone charts to visuals and
// assembles the report.
func (b *Builder) Build(visuals []model.ReportVisual, actions []model.Action, ref Reference) (*Report, *Summary, error) {
	if len(visuals) == 0 {
		return nil, nil, fmt.Errorf("no report visuals to place")
	}

	entries := Plan(actions, visuals)
	summary := &Summary{
		Bookmarks: entries,
		Matches:   map[string][]Match{},
		Unmatched: map[string][]string{},
	}

	visible := make([]map[string]bool, len(entries))
	for i, e := range entries {
		visible[i] = map[string]bool{}
		for _, chart := range e.ZoneCharts {
			res, ok := match.Best(chart, visuals)
			if !ok {
				b.logger.Warn("no visual matches zone chart",
					slog.String("bookmark", e.Name),
					slog.String("chart", chart),
				)
				summary.Unmatched[e.Name] = append(summary.Unmatched[e.Name], chart)
				continue
			}
			visible[i][res.Candidate.Name] = true
			summary.Matches[e.Name] = append(summary.Matches[e.Name], Match{
				Chart:  chart,
				Visual: res.Candidate.Name,
				Score:  res.Score,
			})
		}
	}

	section, page := b.section(visuals)

	bookmarks := make([]Bookmark, 0, len(entries))
	for i, e := range entries {
		bookmarks = append(bookmarks, b.bookmark(e.Name, section.Name, page, visible[i]))
	}

	for i, bm := range bookmarks {
		btn, err := newButton(b.newID(), bm.DisplayName, bm.Name, buttonPosition(i))
		if err != nil {
			return nil, nil, err
		}
		section.VisualContainers = append(section.VisualContainers, btn)
	}

	report, err := assemble(ref, bookmarks, section)
	if err != nil {
		return nil, nil, err
	}
	b.logger.Info("report assembled",
		slog.Int("bookmarks", len(bookmarks)),
		slog.Int("visuals", len(page)),
		slog.Int("containers", len(section.VisualContainers)),
	)
	return report, summary, nil
}

// section places every distinct visual on one page. page keeps the visuals in
// placement order.
func (b *Builder) section(visuals []model.ReportVisual) (Section, []model.ReportVisual) {
	s := Section{
		Name:          b.newID(),
		DisplayName:   "Page 1",
		Config:        "{}",
		DisplayOption: 1,
		Filters:       "[]",
		Height:        720,
		Width:         1280,
	}

	seen := map[string]bool{}
	var page []model.ReportVisual
	for _, v := range visuals {
		if seen[v.Name] {
			continue
		}
		seen[v.Name] = true
		page = append(page, v)
		s.VisualContainers = append(s.VisualContainers, VisualContainer{
			Config:  orDefault(v.Config, "{}"),
			Filters: orDefault(v.Filters, "[]"),
			Height:  orDefaultF(v.Height, 400),
			Width:   orDefaultF(v.Width, 640),
			X:       v.X,
			Y:       v.Y,
			Z:       v.Z,
		})
	}
	return s, page
}

func (b *Builder) bookmark(name, sectionName string, page []model.ReportVisual, visible map[string]bool) Bookmark {
	states := make(map[string]VisualState, len(page))
	for _, v := range page {
		vt, err := v.VisualType()
		if err != nil {
			b.logger.Warn("skipping visual in bookmark", slog.String("visual", v.Name), slog.String("error", err.Error()))
			continue
		}
		state := VisualState{SingleVisual: SingleVisualState{VisualType: vt, Objects: map[string]any{}}}
		if !visible[v.Name] {
			state.SingleVisual.Display = &DisplayState{Mode: "hidden"}
		}
		states[v.Name] = state
	}

	return Bookmark{
		DisplayName: name,
		Name:        b.newID(),
		ExplorationState: ExplorationState{
			Version:       "1.3",
			ActiveSection: sectionName,
			Sections: map[string]SectionState{
				sectionName: {VisualContainers: states},
			},
			Objects: map[string]any{},
		},
		Options: Options{TargetVisualNames: []string{}},
	}
}

type reportConfig struct {
	Version                        any        `json:"version"`
	ThemeCollection                any        `json:"themeCollection"`
	ActiveSectionIndex             int        `json:"activeSectionIndex"`
	Bookmarks                      []Bookmark `json:"bookmarks"`
	DefaultDrillFilterOtherVisuals bool       `json:"defaultDrillFilterOtherVisuals"`
	LinguisticSchemaSyncVersion    int        `json:"linguisticSchemaSyncVersion"`
	Settings                       any        `json:"settings"`
	Objects                        any        `json:"objects"`
}

func assemble(ref Reference, bookmarks []Bookmark, section Section) (*Report, error) {
	cfg := reportConfig{
		Version:                        ref.value("version", "5.67"),
		ThemeCollection:                ref.value("themeCollection", defaultThemeCollection()),
		ActiveSectionIndex:             0,
		Bookmarks:                      bookmarks,
		DefaultDrillFilterOtherVisuals: true,
		LinguisticSchemaSyncVersion:    0,
		Settings:                       ref.value("settings", defaultSettings()),
		Objects:                        ref.value("objects", map[string]any{}),
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report config: %w", err)
	}

	packages := ref.ResourcePackages
	if packages == nil {
		packages = defaultResourcePackages()
	}
	return &Report{
		Config:             string(raw),
		LayoutOptimization: 0,
		ResourcePackages:   packages,
		Sections:           []Section{section},
	}, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func orDefaultF(f, def float64) float64 {
	if f == 0 {
		return def
	}
	return f
}
