package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"vizsynth/internal/classifier"
	"vizsynth/internal/config"
	"vizsynth/internal/loader"
	"vizsynth/internal/roles"
	"vizsynth/internal/storage"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "vizsynth",
		Short: "Synthesize report visuals from detected dashboard charts",
	}
	configPath string
	dbPath     string
	inputDir   string
	outDir     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the run history database (SQLite); overrides store.path")
	rootCmd.PersistentFlags().StringVar(&inputDir, "dir", "", "Directory holding the input artifacts; overrides inputs.dir")
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "", "Output directory; overrides output.dir")

	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(bookmarksCmd)
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(historyCmd)
}

// app bundles what every command needs.
type app struct {
	cfg    *config.Config
	loader *loader.Loader
	logger *slog.Logger
	store  *storage.SQLiteStore
}

func newApp(withStore bool) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}

	a := &app{
		cfg:    cfg,
		loader: loader.FromConfig(cfg, inputDir),
		logger: newLogger(cfg.Log.Level),
	}
	if withStore {
		store, err := storage.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		a.store = store
	}
	return a, nil
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// newEngine wires the configured classifier, wrapped in the SQLite cache when
// enabled. A classifier that cannot be built leaves the engine on schema and
// naming signals.
func (a *app) newEngine(ctx context.Context) *roles.Engine {
	opts := []roles.Option{
		roles.WithLogger(a.logger),
		roles.WithClassifierTimeout(a.cfg.ClassifierTimeout()),
	}

	llm, err := classifier.NewClassifier(ctx, classifier.Options{
		Provider: a.cfg.AI.Provider,
		APIKey:   a.cfg.AI.APIKey,
		Model:    a.cfg.AI.Model,
		BaseURL:  a.cfg.AI.BaseURL,
	})
	if err != nil {
		fmt.Printf("⚠️  Classifier unavailable (%v), using schema and naming signals only\n", err)
		return roles.NewEngine(nil, opts...)
	}
	if llm == nil {
		fmt.Println("ℹ️  Classifier disabled")
		return roles.NewEngine(nil, opts...)
	}

	fmt.Printf("🤖 Classifier: %s\n", llm.Name())
	if a.store != nil && a.cfg.Store.CacheClassifications {
		return roles.NewEngine(classifier.NewCached(llm, a.store, llm.Name()), opts...)
	}
	return roles.NewEngine(llm, opts...)
}

func (a *app) writeJSON(name string, v any) (string, error) {
	if err := os.MkdirAll(a.cfg.Output.Dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(a.cfg.Output.Dir, name)
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (a *app) recordRun(ctx context.Context, run *storage.Run) {
	if a.store == nil {
		return
	}
	if err := a.store.SaveRun(ctx, run); err != nil {
		a.logger.Warn("failed to record run", slog.String("error", err.Error()))
	}
}

func printResolution(res *roles.Resolution) {
	fmt.Printf("   Classifier: %s\n", res.Classifier.Status)
	for _, st := range res.Stages {
		fmt.Printf("   %-10s proposed=%d missing %d → %d\n", st.Stage, st.Proposed, st.MissingBefore, st.MissingAfter)
	}
	fmt.Println(strings.Repeat("=", 60))
	for _, role := range roles.All() {
		ref := res.Projection.Ref(role)
		mark := "✅"
		if !ref.Resolved {
			mark = "❌"
		}
		fmt.Printf("  %s %-12s %s\n", mark, role, ref.QueryRef)
	}
	fmt.Printf("  🔧 Hierarchy level: %s\n", res.Projection.HierarchyLevel)
	fmt.Println(strings.Repeat("=", 60))
}
