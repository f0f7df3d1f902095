package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"gradlens/internal/core/errors"
	"gradlens/internal/engine/deps"
	"gradlens/internal/engine/model"
	"gradlens/internal/engine/sources"
	"gradlens/internal/engine/variant"
	"gradlens/internal/shared/observability"
)

// Options tune one resolve invocation.
type Options struct {
	// ReferenceVariant, when set, overrides default-variant selection on the
	// primary module.
	ReferenceVariant *variant.BuildVariant
	// ArtifactFlags are forwarded verbatim to VariantDependencies fetches.
	ArtifactFlags []string
	// ExcludeModules skips resolution for matching project paths; the nodes
	// still appear in the output as UnknownModule.
	ExcludeModules []glob.Glob
}

// Orchestrator drives one module-tree traversal. It holds no connection
// state: the session is passed explicitly through every call.
type Orchestrator struct {
	fetcher *model.Fetcher
	opts    Options

	// manifestProbe decides the Android-vs-generic classification for a
	// module directory. Replaceable for tests.
	manifestProbe func(model.Handle) bool
}

func NewOrchestrator(fetcher *model.Fetcher, opts Options) *Orchestrator {
	return &Orchestrator{
		fetcher:       fetcher,
		opts:          opts,
		manifestProbe: hasAndroidManifest,
	}
}

// hasAndroidManifest tests for the manifest marker file that distinguishes
// Android modules from generic Gradle modules.
func hasAndroidManifest(handle model.Handle) bool {
	if handle.Dir == "" {
		return false
	}
	marker := filepath.Join(handle.Dir, "src", "main", "AndroidManifest.xml")
	info, err := os.Stat(marker)
	return err == nil && !info.IsDir()
}

// Flatten walks the module tree in pre-order (node before children, children
// in source order), excluding the root itself.
func Flatten(root model.Handle) []model.Handle {
	var out []model.Handle
	var walk func(h model.Handle)
	walk = func(h model.Handle) {
		out = append(out, h)
		for _, child := range h.Children {
			walk(child)
		}
	}
	for _, child := range root.Children {
		walk(child)
	}
	return out
}

// Resolve produces the full Project for one session. It aborts as a whole
// only when the build tree cannot be fetched or no reference variant can be
// established; every other failure is isolated to its module.
func (o *Orchestrator) Resolve(ctx context.Context, session model.Session, rootDir string) (*Project, error) {
	ctx, span := observability.Tracer.Start(ctx, "resolver.Resolve", trace.WithAttributes(
		attribute.String("project.root", rootDir),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		observability.ResolveDuration.Observe(time.Since(start).Seconds())
	}()

	buildOut := o.fetcher.GradleBuild(ctx, session, model.Handle{Dir: rootDir})
	if !buildOut.OK() {
		return nil, errors.Wrap(buildOut.Err(), errors.CodeConnectionFailure, "fetch project tree")
	}
	build := buildOut.Value()

	handles := Flatten(build.Root)

	reference, err := o.referenceVariant(ctx, session, handles)
	if err != nil {
		return nil, err
	}
	slog.Debug("reference variant established", "variant", reference.Name)

	modules := make([]Module, 0, len(handles))
	for _, handle := range handles {
		mod := o.resolveOne(ctx, session, handle, reference)
		observability.ModulesResolved.WithLabelValues(ModuleKindName(mod)).Inc()
		if failed, ok := mod.(FailedModule); ok {
			slog.Warn("module resolution failed", "module", failed.Path, "detail", failed.Detail)
		}
		modules = append(modules, mod)
	}

	return &Project{
		Name:    build.ProjectName,
		RootDir: build.RootDir,
		Modules: modules,
	}, nil
}

// referenceVariant returns the caller-provided reference variant or derives
// it from the primary module's own catalog. No usable catalog on the primary
// module aborts the resolve: without a reference there is nothing to
// propagate to the other modules.
func (o *Orchestrator) referenceVariant(ctx context.Context, session model.Session, handles []model.Handle) (variant.BuildVariant, error) {
	if o.opts.ReferenceVariant != nil {
		return *o.opts.ReferenceVariant, nil
	}

	primary, ok := o.findPrimary(ctx, session, handles)
	if !ok {
		return variant.BuildVariant{}, errors.New(errors.CodeVariantResolution, "no application module in project tree")
	}

	catalogOut := o.catalogFor(ctx, session, primary)
	if !catalogOut.OK() {
		return variant.BuildVariant{}, errors.Wrap(catalogOut.Err(), errors.CodeVariantResolution, "primary module variant catalog")
	}
	selected := variant.SelectDefault(catalogOut.Value())
	if selected == nil {
		return variant.BuildVariant{}, errors.Newf(errors.CodeVariantResolution, "empty variant catalog for %s", primary.ProjectPath)
	}
	return *selected, nil
}

// findPrimary picks the first application-type Android module in flatten
// order.
func (o *Orchestrator) findPrimary(ctx context.Context, session model.Session, handles []model.Handle) (model.Handle, bool) {
	for _, handle := range handles {
		if !o.manifestProbe(handle) {
			continue
		}
		basicOut := o.fetcher.BasicAndroidProject(ctx, session, handle)
		if basicOut.OK() && basicOut.Value().ProjectType == model.TypeApplication {
			return handle, true
		}
	}
	return model.Handle{}, false
}

func (o *Orchestrator) catalogFor(ctx context.Context, session model.Session, handle model.Handle) model.Outcome[[]variant.BuildVariant] {
	projectOut := o.fetcher.AndroidProject(ctx, session, handle)
	if !projectOut.OK() {
		return model.ForwardErr[*model.AndroidProject, []variant.BuildVariant](projectOut)
	}

	// The DSL model is optional: it only sharpens the is-default flags.
	var dsl *model.AndroidDsl
	if dslOut := o.fetcher.AndroidDsl(ctx, session, handle); dslOut.OK() {
		dsl = dslOut.Value()
	}

	return variant.ResolveCatalog(projectOut.Value(), dsl)
}

func (o *Orchestrator) excluded(handle model.Handle) bool {
	for _, g := range o.opts.ExcludeModules {
		if g.Match(handle.ProjectPath) {
			return true
		}
	}
	return false
}

// resolveOne maps one tree node onto exactly one Module variant. It never
// lets a failure escape: errors become FailedModule.
func (o *Orchestrator) resolveOne(ctx context.Context, session model.Session, handle model.Handle, reference variant.BuildVariant) Module {
	if o.excluded(handle) {
		return UnknownModule{Name: handle.Name, Path: handle.ProjectPath}
	}
	if !o.manifestProbe(handle) {
		// Generic path: assembled empty, never fails.
		return GenericModule{Name: handle.Name, Path: handle.ProjectPath}
	}
	return o.resolveAndroid(ctx, session, handle, reference)
}

// variantBundle is the transient result of resolving one (module, variant)
// pair; consumed immediately during assembly.
type variantBundle struct {
	dependencies   []deps.Dependency
	generatedRoots []sources.SourceRoot
}

func (o *Orchestrator) resolveAndroid(ctx context.Context, session model.Session, handle model.Handle, reference variant.BuildVariant) Module {
	ctx, span := observability.Tracer.Start(ctx, "resolver.resolveAndroid", trace.WithAttributes(
		attribute.String("module.path", handle.ProjectPath),
	))
	defer span.End()

	fail := func(detail string, cause error) Module {
		return FailedModule{Name: handle.Name, Path: handle.ProjectPath, Detail: detail, Cause: cause}
	}

	projectOut := o.fetcher.AndroidProject(ctx, session, handle)
	if !projectOut.OK() {
		return fail(projectOut.Detail(), projectOut.Cause())
	}
	project := projectOut.Value()

	var dsl *model.AndroidDsl
	if dslOut := o.fetcher.AndroidDsl(ctx, session, handle); dslOut.OK() {
		dsl = dslOut.Value()
	}

	catalogOut := variant.ResolveCatalog(project, dsl)
	if !catalogOut.OK() {
		return fail(catalogOut.Detail(), catalogOut.Cause())
	}
	catalog := catalogOut.Value()
	if len(catalog) == 0 {
		return fail(fmt.Sprintf("module %s has no build variants", handle.ProjectPath), nil)
	}

	chosen := variant.Choose(reference, catalog)
	variantModel, ok := findVariantModel(project, chosen.Name)
	if !ok {
		return fail(fmt.Sprintf("selected variant %s missing from project model", chosen.Name), nil)
	}

	kind := model.TypeLibrary
	if basicOut := o.fetcher.BasicAndroidProject(ctx, session, handle); basicOut.OK() {
		kind = basicOut.Value().ProjectType
	}

	// Source roots and the dependency bundle are independent; resolve them
	// concurrently, but assembly waits for both.
	var declared []sources.SourceRoot
	var bundle variantBundle
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		out := sources.DeclaredRoots(project)
		if !out.OK() {
			return out.Err()
		}
		declared = out.Value()
		return nil
	})
	group.Go(func() error {
		out := o.resolveBundle(groupCtx, session, handle, variantModel)
		if !out.OK() {
			return out.Err()
		}
		bundle = out.Value()
		return nil
	})
	if err := group.Wait(); err != nil {
		return fail(err.Error(), err)
	}

	return AndroidModule{
		Name:            handle.Name,
		Path:            handle.ProjectPath,
		Kind:            kind,
		SelectedVariant: chosen,
		Variants:        catalog,
		Dependencies:    bundle.dependencies,
		SourceRoots:     append(declared, bundle.generatedRoots...),
	}
}

// resolveBundle fetches the variant's dependency graph and decodes each
// classpath with its scope.
func (o *Orchestrator) resolveBundle(ctx context.Context, session model.Session, handle model.Handle, variantModel model.VariantModel) model.Outcome[variantBundle] {
	depsOut := o.fetcher.VariantDependencies(ctx, session, handle, variantModel.Name, o.opts.ArtifactFlags)
	if !depsOut.OK() {
		return model.ForwardErr[*model.VariantDependencies, variantBundle](depsOut)
	}
	graph := depsOut.Value()

	set := deps.NewSet()
	deps.DecodeAll(graph.CompileItems, graph.Libraries, deps.ScopeCompile, set)
	deps.DecodeAll(graph.RuntimeItems, graph.Libraries, deps.ScopeRuntime, set)
	deps.DecodeAll(graph.TestItems, graph.Libraries, deps.ScopeTest, set)

	return model.Ok(variantBundle{
		dependencies:   set.Items(),
		generatedRoots: sources.GeneratedRoots(variantModel),
	})
}

func findVariantModel(project *model.AndroidProject, name string) (model.VariantModel, bool) {
	for _, v := range project.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return model.VariantModel{}, false
}
