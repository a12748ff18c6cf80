package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"vizsynth/internal/bookmark"
	"vizsynth/internal/calendar"
	"vizsynth/internal/loader"
	"vizsynth/internal/match"
	"vizsynth/internal/model"
	"vizsynth/internal/storage"

	"github.com/spf13/cobra"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Generate the calendar visual container",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := newApp(true)
		if err != nil {
			log.Fatalf("Setup failed: %v", err)
		}
		defer a.Close()

		fmt.Println("📂 Loading input files...")
		visuals, err := a.loader.Visuals()
		if err != nil {
			log.Fatalf("Failed to load visuals: %v", err)
		}
		schema, err := a.loader.Schema()
		if err := loader.Optional(err); err != nil {
			log.Fatalf("Failed to load schema: %v", err)
		}
		positions, err := a.loader.Positions()
		if err := loader.Optional(err); err != nil {
			log.Fatalf("Failed to load positions: %v", err)
		}
		reference, err := a.loader.Reference()
		if err != nil {
			log.Fatalf("Failed to load reference: %v", err)
		}

		fmt.Println("🚀 Resolving field roles...")
		gen := calendar.NewGenerator(a.newEngine(ctx), a.logger)
		res, err := gen.Generate(ctx, calendar.Inputs{
			Visuals:   visuals,
			Schema:    schema,
			Positions: positions,
			Reference: reference,
		})
		if errors.Is(err, calendar.ErrNoCalendarVisual) {
			fmt.Println("Available charts:")
			for _, v := range visuals {
				fmt.Printf("  - Source: '%s', Title: '%s', Type: '%s'\n", v.Source, v.Title, v.ChartType)
			}
		}
		if err != nil {
			log.Fatalf("Calendar generation failed: %v", err)
		}

		fmt.Printf("📅 Calendar visual: %s\n", res.Visual.DisplayName())
		printResolution(res.Resolution)
		fmt.Printf("📐 Position: x=%.2f y=%.2f w=%.2f h=%.2f\n", res.Position.X, res.Position.Y, res.Position.Width, res.Position.Height)

		path, err := a.writeJSON("visual_output.json", res.Container)
		if err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}

		a.recordRun(ctx, &storage.Run{
			Command:          "calendar",
			Visual:           res.Visual.DisplayName(),
			ClassifierStatus: res.Resolution.Classifier.Status,
			Assignment:       res.Resolution.Assignment,
			Unresolved:       res.Resolution.Unresolved,
			HierarchyLevel:   res.Resolution.Projection.HierarchyLevel,
			OutputPath:       path,
		})
		fmt.Printf("✅ Saved calendar visual to %s\n", path)
	},
}

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "Build a report page with bookmarks and action buttons",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := newApp(true)
		if err != nil {
			log.Fatalf("Setup failed: %v", err)
		}
		defer a.Close()

		visuals, err := a.loader.ReportVisuals()
		if err != nil {
			log.Fatalf("Cannot proceed without report visuals: %v", err)
		}
		actions, err := a.loader.Actions()
		if err := loader.Optional(err); err != nil {
			log.Fatalf("Failed to load actions: %v", err)
		}
		refText, err := a.loader.Reference()
		if err := loader.Optional(err); err != nil {
			log.Fatalf("Failed to load reference: %v", err)
		}
		ref, err := bookmark.ParseReference(refText)
		if err != nil {
			fmt.Printf("⚠️  Ignoring unreadable reference: %v\n", err)
		}
		fmt.Printf("✅ Loaded %d visuals and %d actions\n", len(visuals), len(actions))

		report, summary, err := bookmark.NewBuilder(bookmark.WithLogger(a.logger)).Build(visuals, actions, ref)
		if err != nil {
			log.Fatalf("Report build failed: %v", err)
		}

		for _, e := range summary.Bookmarks {
			fmt.Printf("🔖 '%s'\n", e.Name)
			for _, m := range summary.Matches[e.Name] {
				fmt.Printf("   ✅ '%s' → %s (score %d)\n", m.Chart, m.Visual, m.Score)
			}
			for _, chart := range summary.Unmatched[e.Name] {
				fmt.Printf("   ⚠️  '%s' → no match (skipping)\n", chart)
			}
		}

		path, err := a.writeJSON("report.json", report)
		if err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
		a.recordRun(ctx, &storage.Run{
			Command:    "bookmarks",
			Visual:     fmt.Sprintf("%d bookmarks", len(summary.Bookmarks)),
			OutputPath: path,
		})
		fmt.Printf("✅ Report saved to %s (%d bookmarks)\n", path, len(summary.Bookmarks))
	},
}

var visualName string

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Resolve field roles for one detected visual",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a, err := newApp(true)
		if err != nil {
			log.Fatalf("Setup failed: %v", err)
		}
		defer a.Close()

		visuals, err := a.loader.Visuals()
		if err != nil {
			log.Fatalf("Failed to load visuals: %v", err)
		}
		schema, err := a.loader.Schema()
		if err := loader.Optional(err); err != nil {
			log.Fatalf("Failed to load schema: %v", err)
		}

		visual, err := pickVisual(visuals, visualName)
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Printf("📊 Visual: %s\n", visual.DisplayName())

		res := a.newEngine(ctx).Resolve(ctx, calendar.Request(visual, schema))
		printResolution(res)

		a.recordRun(ctx, &storage.Run{
			Command:          "roles",
			Visual:           visual.DisplayName(),
			ClassifierStatus: res.Classifier.Status,
			Assignment:       res.Assignment,
			Unresolved:       res.Unresolved,
			HierarchyLevel:   res.Projection.HierarchyLevel,
		})
	},
}

// pickVisual finds name with the fuzzy matcher, or falls back to the
// calendar visual and then the first one.
func pickVisual(visuals []model.Visual, name string) (model.Visual, error) {
	if len(visuals) == 0 {
		return model.Visual{}, fmt.Errorf("no visuals loaded")
	}
	if strings.TrimSpace(name) != "" {
		res, ok := match.Best(name, visuals)
		if !ok {
			return model.Visual{}, fmt.Errorf("no visual matches %q", name)
		}
		return res.Candidate, nil
	}
	if v, _, err := calendar.FindVisual(visuals); err == nil {
		return v, nil
	}
	return visuals[0], nil
}

var matchCmd = &cobra.Command{
	Use:   "match [name]",
	Short: "Show which report visual a chart name resolves to",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp(false)
		if err != nil {
			log.Fatalf("Setup failed: %v", err)
		}
		visuals, err := a.loader.ReportVisuals()
		if err != nil {
			log.Fatalf("Failed to load report visuals: %v", err)
		}

		target := args[0]
		for _, v := range visuals {
			best := 0
			for _, text := range v.MatchTexts() {
				if s := match.Score(target, text); s > best {
					best = s
				}
			}
			fmt.Printf("   %3d  %s (%s)\n", best, v.DisplayName(), v.Name)
		}

		res, ok := match.Best(target, visuals)
		if !ok {
			fmt.Printf("⚠️  '%s' → no match above %d\n", target, match.Threshold)
			return
		}
		fmt.Printf("✅ '%s' → '%s' (%s, score %d)\n", target, res.Candidate.DisplayName(), res.Candidate.Name, res.Score)
	},
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp(true)
		if err != nil {
			log.Fatalf("Setup failed: %v", err)
		}
		defer a.Close()

		runs, err := a.store.ListRuns(context.Background(), historyLimit)
		if err != nil {
			log.Fatalf("Failed to list runs: %v", err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return
		}
		for _, r := range runs {
			fmt.Printf("🕒 %s  %-9s %-30s classifier=%s unresolved=%d\n",
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Command, r.Visual, r.ClassifierStatus, len(r.Unresolved))
			if r.OutputPath != "" {
				fmt.Printf("   → %s\n", r.OutputPath)
			}
		}
	},
}

func init() {
	rolesCmd.Flags().StringVar(&visualName, "visual", "", "Title or source of the visual to resolve (fuzzy)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
}
