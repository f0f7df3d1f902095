package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"gradlens/internal/core/config"
	"gradlens/internal/data/history"
	"gradlens/internal/engine/model"
	"gradlens/internal/engine/resolver"
	"gradlens/internal/engine/variant"
	"gradlens/internal/output"
	"gradlens/internal/shared/util"
)

type App struct {
	Config       *config.Config
	Client       model.ToolingClient
	Orchestrator *resolver.Orchestrator
}

func NewApp(cfg *config.Config, client model.ToolingClient) (*App, error) {
	excludes, err := config.CompileExcludes(cfg.Resolve.ExcludeModules)
	if err != nil {
		return nil, err
	}

	opts := resolver.Options{
		ArtifactFlags:  cfg.Tooling.ArtifactFlags,
		ExcludeModules: excludes,
	}
	if name := strings.TrimSpace(cfg.Resolve.ReferenceVariant); name != "" {
		opts.ReferenceVariant = &variant.BuildVariant{Name: name, DisplayName: name}
	}

	fetcher := model.NewFetcher(util.NewLimiter(cfg.Tooling.Rate, cfg.Tooling.Burst))

	return &App{
		Config:       cfg,
		Client:       client,
		Orchestrator: resolver.NewOrchestrator(fetcher, opts),
	}, nil
}

func (a *App) connect(ctx context.Context) (model.Session, error) {
	connectCtx, cancel := context.WithTimeout(ctx, a.Config.Tooling.ConnectTimeout)
	defer cancel()
	return a.Client.Connect(connectCtx, a.Config.Paths.ProjectRoot)
}

// Run performs one resolve: connect, traverse, export, record history.
func (a *App) Run(ctx context.Context, browse bool) error {
	session, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	start := time.Now()
	project, err := a.Orchestrator.Resolve(ctx, session, a.Config.Paths.ProjectRoot)
	if err != nil {
		return err
	}
	duration := time.Since(start)

	cycles := resolver.ProjectCycles(project)
	for _, cycle := range cycles {
		slog.Warn("module cycle detected", "cycle", resolver.RenderCycle(cycle))
	}

	if err := a.GenerateOutputs(project, cycles); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}
	if a.Config.History.Enabled {
		if err := a.recordRun(project, cycles, duration); err != nil {
			slog.Warn("failed to record resolve run", "error", err)
		}
	}

	if browse {
		return a.RunUI(project, cycles)
	}
	a.PrintSummary(project, cycles, duration)
	return nil
}

func (a *App) GenerateOutputs(project *resolver.Project, cycles [][]string) error {
	out := a.Config.Output

	if out.JSON != "" {
		if err := output.WriteProjectJSON(project, out.JSON); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	}
	if out.Workspace != "" {
		if err := output.WriteWorkspace(project, out.Workspace); err != nil {
			return fmt.Errorf("write workspace: %w", err)
		}
	}
	if out.DOT != "" {
		content, err := output.NewDOTGenerator(project).Generate(cycles)
		if err != nil {
			return fmt.Errorf("render dot: %w", err)
		}
		if err := util.WriteStringWithDirs(out.DOT, content, 0o644); err != nil {
			return fmt.Errorf("write dot: %w", err)
		}
	}
	if out.Mermaid != "" {
		content, err := output.NewMermaidGenerator(project).Generate(cycles)
		if err != nil {
			return fmt.Errorf("render mermaid: %w", err)
		}
		if err := util.WriteStringWithDirs(out.Mermaid, content, 0o644); err != nil {
			return fmt.Errorf("write mermaid: %w", err)
		}
	}
	return nil
}

func (a *App) recordRun(project *resolver.Project, cycles [][]string, duration time.Duration) error {
	store, err := history.Open(a.Config.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.SaveSnapshot(buildSnapshot(a.Config.History.ProjectKey, project, cycles, duration))
}

func buildSnapshot(projectKey string, project *resolver.Project, cycles [][]string, duration time.Duration) history.Snapshot {
	counts := countModules(project)
	return history.Snapshot{
		ProjectKey:       projectKey,
		RunID:            uuid.NewString(),
		Timestamp:        time.Now().UTC(),
		ReferenceVariant: referenceVariantName(project),
		ModuleCount:      len(project.Modules),
		AndroidCount:     counts.android,
		GenericCount:     counts.generic,
		FailedCount:      counts.failed,
		UnknownCount:     counts.unknown,
		DependencyCount:  counts.dependencies,
		CycleCount:       len(cycles),
		Duration:         duration,
	}
}

type moduleCounts struct {
	android      int
	generic      int
	failed       int
	unknown      int
	dependencies int
}

func countModules(project *resolver.Project) moduleCounts {
	var c moduleCounts
	for _, mod := range project.Modules {
		switch m := mod.(type) {
		case resolver.AndroidModule:
			c.android++
			c.dependencies += len(m.Dependencies)
		case resolver.GenericModule:
			c.generic++
			c.dependencies += len(m.Dependencies)
		case resolver.FailedModule:
			c.failed++
		case resolver.UnknownModule:
			c.unknown++
		}
	}
	return c
}

// referenceVariantName reports the variant the resolve ran against, taken
// from the first resolved Android module.
func referenceVariantName(project *resolver.Project) string {
	for _, mod := range project.Modules {
		if m, ok := mod.(resolver.AndroidModule); ok {
			return m.SelectedVariant.Name
		}
	}
	return ""
}

func (a *App) PrintSummary(project *resolver.Project, cycles [][]string, duration time.Duration) {
	counts := countModules(project)

	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("%s: %d modules resolved in %v\n", project.Name, len(project.Modules), duration.Round(time.Millisecond))
	if ref := referenceVariantName(project); ref != "" {
		fmt.Printf("Reference variant: %s\n", ref)
	}
	fmt.Printf("   android=%d generic=%d failed=%d unknown=%d dependencies=%d\n",
		counts.android, counts.generic, counts.failed, counts.unknown, counts.dependencies)

	if counts.failed > 0 {
		fmt.Printf("⚠️  %d MODULES FAILED TO RESOLVE:\n", counts.failed)
		for _, mod := range project.Modules {
			if m, ok := mod.(resolver.FailedModule); ok {
				fmt.Printf("   %s: %s\n", m.Path, m.Detail)
			}
		}
	} else {
		fmt.Println("✅ All modules resolved.")
	}

	if len(cycles) > 0 {
		fmt.Printf("⚠️  FOUND %d MODULE CYCLES:\n", len(cycles))
		for _, cycle := range cycles {
			fmt.Printf("   %s\n", resolver.RenderCycle(cycle))
		}
	} else {
		fmt.Println("✅ No module cycles found.")
	}
	fmt.Println(strings.Repeat("-", 40))
}

// RunRaw dumps every model the service offers per module, nesting preserved.
func (a *App) RunRaw(ctx context.Context, w io.Writer) error {
	session, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	root, err := a.Orchestrator.ResolveRaw(ctx, session, a.Config.Paths.ProjectRoot)
	if err != nil {
		return err
	}
	writeRawNode(w, *root, 0)
	return nil
}

func writeRawNode(w io.Writer, node resolver.RawNode, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s (%s)\n", indent, node.Name, node.Path)

	kinds := make([]string, 0, len(node.Models))
	for kind := range node.Models {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(w, "%s  model %s\n", indent, kind)
	}
	for _, kind := range node.Missing {
		fmt.Fprintf(w, "%s  missing %s\n", indent, kind)
	}
	failed := make([]string, 0, len(node.Failures))
	for kind := range node.Failures {
		failed = append(failed, string(kind))
	}
	sort.Strings(failed)
	for _, kind := range failed {
		fmt.Fprintf(w, "%s  failed %s: %s\n", indent, kind, node.Failures[model.Kind(kind)])
	}

	for _, child := range node.Children {
		writeRawNode(w, child, depth+1)
	}
}

// PrintHistory lists recorded resolve runs for the configured project key.
func (a *App) PrintHistory(w io.Writer) error {
	store, err := history.Open(a.Config.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	snapshots, err := store.LoadSnapshots(a.Config.History.ProjectKey, time.Time{})
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		fmt.Fprintf(w, "no recorded runs for %s\n", a.Config.History.ProjectKey)
		return nil
	}

	for _, s := range snapshots {
		fmt.Fprintf(w, "%s  run=%s variant=%s modules=%d failed=%d deps=%d cycles=%d in %v\n",
			s.Timestamp.Format(time.RFC3339), s.RunID, s.ReferenceVariant,
			s.ModuleCount, s.FailedCount, s.DependencyCount, s.CycleCount,
			s.Duration.Round(time.Millisecond))
	}
	return nil
}
