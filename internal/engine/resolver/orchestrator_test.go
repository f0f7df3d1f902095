package resolver

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/gobwas/glob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradlens/internal/engine/deps"
	"gradlens/internal/engine/model"
	"gradlens/internal/engine/variant"
)

// fakeSession serves canned models keyed by projectPath and kind, with
// optional per-key transport errors.
type fakeSession struct {
	build  *model.GradleBuild
	models map[string]any
	errs   map[string]error
}

func (s *fakeSession) key(handle model.Handle, kind model.Kind, params *model.Params) string {
	k := handle.ProjectPath + "/" + string(kind)
	if kind == model.KindVariantDependencies && params != nil {
		k += "/" + params.VariantName
	}
	return k
}

func (s *fakeSession) Fetch(_ context.Context, handle model.Handle, kind model.Kind, params *model.Params) (any, error) {
	if kind == model.KindGradleBuild {
		if s.build == nil {
			return nil, errors.New("daemon unreachable")
		}
		return s.build, nil
	}
	k := s.key(handle, kind, params)
	if err, ok := s.errs[k]; ok {
		return nil, err
	}
	if m, ok := s.models[k]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w: %s", model.ErrNoModel, k)
}

func (s *fakeSession) Close() error { return nil }

func handleTree() model.Handle {
	return model.Handle{
		Name:        "fixture",
		ProjectPath: ":",
		Children: []model.Handle{
			{Name: "app", ProjectPath: ":app", Children: []model.Handle{}},
			{Name: "core", ProjectPath: ":core"},
			{Name: "tools", ProjectPath: ":tools"},
		},
	}
}

func androidProject(variants ...string) *model.AndroidProject {
	p := &model.AndroidProject{
		SourceProviders: []model.SourceProvider{
			{Name: "main", KotlinDirs: []string{"src/main/kotlin"}, JavaDirs: []string{"src/main/java"}},
		},
	}
	for _, name := range variants {
		p.Variants = append(p.Variants, model.VariantModel{
			Name: name,
			MainArtifact: model.ArtifactModel{
				GeneratedSourceDirs: []string{"build/generated/" + name},
			},
		})
	}
	return p
}

func fixtureSession() *fakeSession {
	return &fakeSession{
		build: &model.GradleBuild{
			ProjectName: "fixture",
			RootDir:     "/proj",
			Root:        handleTree(),
		},
		models: map[string]any{
			":app/AndroidProject":      androidProject("debug", "release"),
			":app/BasicAndroidProject": &model.BasicAndroidProject{ProjectType: model.TypeApplication, ProjectPath: ":app"},
			":app/VariantDependencies/debug": &model.VariantDependencies{
				Name:         "debug",
				CompileItems: []string{"com.example|lib|1.0", ":|:core|debug|attr>x"},
				RuntimeItems: []string{"com.example|lib|1.0"},
				Libraries: map[string]model.ResolvedLibrary{
					"com.example|lib|1.0": {ArtifactPath: "/r/lib.jar"},
				},
			},
			":core/AndroidProject":      androidProject("debug", "release"),
			":core/BasicAndroidProject": &model.BasicAndroidProject{ProjectType: model.TypeLibrary, ProjectPath: ":core"},
			":core/VariantDependencies/debug": &model.VariantDependencies{Name: "debug"},
		},
		errs: map[string]error{},
	}
}

// androidByPath classifies :app and :core as Android, :tools as generic.
func androidByPath(handle model.Handle) bool {
	return handle.ProjectPath == ":app" || handle.ProjectPath == ":core"
}

func newTestOrchestrator(opts Options) *Orchestrator {
	o := NewOrchestrator(model.NewFetcher(nil), opts)
	o.manifestProbe = androidByPath
	return o
}

func TestFlattenPreOrder(t *testing.T) {
	root := model.Handle{
		Name: "root",
		Children: []model.Handle{
			{Name: "A", Children: []model.Handle{{Name: "A1"}, {Name: "A2"}}},
			{Name: "B"},
		},
	}
	flat := Flatten(root)
	names := make([]string, len(flat))
	for i, h := range flat {
		names[i] = h.Name
	}
	want := []string{"A", "A1", "A2", "B"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("flatten order = %v, want %v", names, want)
	}
}

func TestResolveFullProject(t *testing.T) {
	o := newTestOrchestrator(Options{})
	project, err := o.Resolve(context.Background(), fixtureSession(), "/proj")
	require.NoError(t, err)

	assert.Equal(t, "fixture", project.Name)
	require.Len(t, project.Modules, 3, "every tree node maps to exactly one module")

	app, ok := project.Modules[0].(AndroidModule)
	require.True(t, ok, "first module should be resolved, got %T", project.Modules[0])
	assert.Equal(t, ":app", app.Path)
	assert.Equal(t, model.TypeApplication, app.Kind)
	assert.Equal(t, "debug", app.SelectedVariant.Name, "debug tier of default selection")
	assert.Len(t, app.Variants, 2)

	// compile jar + project dep; the runtime duplicate of the jar collapses.
	require.Len(t, app.Dependencies, 2)
	jar, ok := app.Dependencies[0].(deps.JarDependency)
	require.True(t, ok)
	assert.Equal(t, deps.ScopeCompile, jar.Scope)
	projectDep, ok := app.Dependencies[1].(deps.ProjectVariantDependency)
	require.True(t, ok)
	assert.Equal(t, ":core", projectDep.ProjectPath)
	assert.Equal(t, "debug", projectDep.BuildType)

	// declared kotlin+java roots plus the generated root for debug.
	assert.Len(t, app.SourceRoots, 3)
	assert.True(t, app.SourceRoots[2].Generated)

	core, ok := project.Modules[1].(AndroidModule)
	require.True(t, ok)
	assert.Equal(t, model.TypeLibrary, core.Kind)
	assert.Equal(t, "debug", core.SelectedVariant.Name, "variant matched against reference")

	tools, ok := project.Modules[2].(GenericModule)
	require.True(t, ok)
	assert.Empty(t, tools.Dependencies)
	assert.Empty(t, tools.SourceRoots)
}

func TestResolveFaultIsolation(t *testing.T) {
	session := fixtureSession()
	session.errs[":core/AndroidProject"] = errors.New("model build crashed")

	o := newTestOrchestrator(Options{})
	project, err := o.Resolve(context.Background(), session, "/proj")
	require.NoError(t, err, "one module's failure must not fail the resolve")
	require.Len(t, project.Modules, 3)

	_, ok := project.Modules[0].(AndroidModule)
	assert.True(t, ok, "sibling before the failure resolves")

	failed, ok := project.Modules[1].(FailedModule)
	require.True(t, ok, "got %T", project.Modules[1])
	assert.Equal(t, ":core", failed.Path)
	assert.Contains(t, failed.Detail, "AndroidProject")
	assert.Error(t, failed.Cause)

	_, ok = project.Modules[2].(GenericModule)
	assert.True(t, ok, "sibling after the failure resolves")
}

func TestResolveRootTreeFailureAborts(t *testing.T) {
	o := newTestOrchestrator(Options{})
	_, err := o.Resolve(context.Background(), &fakeSession{}, "/proj")
	require.Error(t, err)
}

func TestResolvePrimaryCatalogFailureAborts(t *testing.T) {
	session := fixtureSession()
	session.errs[":app/AndroidProject"] = errors.New("variant model broken")

	o := newTestOrchestrator(Options{})
	_, err := o.Resolve(context.Background(), session, "/proj")
	require.Error(t, err, "no reference variant exists to propagate")
}

func TestResolveExplicitReferenceVariant(t *testing.T) {
	session := fixtureSession()
	// Without an application module, an explicit reference still works.
	delete(session.models, ":app/BasicAndroidProject")
	session.models[":app/VariantDependencies/release"] = &model.VariantDependencies{Name: "release"}
	session.models[":core/VariantDependencies/release"] = &model.VariantDependencies{Name: "release"}

	ref := variant.BuildVariant{Name: "release"}
	o := newTestOrchestrator(Options{ReferenceVariant: &ref})
	project, err := o.Resolve(context.Background(), session, "/proj")
	require.NoError(t, err)

	app, ok := project.Modules[0].(AndroidModule)
	require.True(t, ok, "got %T", project.Modules[0])
	assert.Equal(t, "release", app.SelectedVariant.Name)
	assert.Equal(t, model.TypeLibrary, app.Kind, "kind falls back to library without the basic model")
}

func TestResolveExcludedModule(t *testing.T) {
	o := newTestOrchestrator(Options{
		ExcludeModules: []glob.Glob{glob.MustCompile(":tools")},
	})
	project, err := o.Resolve(context.Background(), fixtureSession(), "/proj")
	require.NoError(t, err)
	require.Len(t, project.Modules, 3, "excluded nodes are never dropped")
	_, ok := project.Modules[2].(UnknownModule)
	assert.True(t, ok, "excluded node maps to UnknownModule, got %T", project.Modules[2])
}

func TestResolveIdempotent(t *testing.T) {
	o := newTestOrchestrator(Options{})
	first, err := o.Resolve(context.Background(), fixtureSession(), "/proj")
	require.NoError(t, err)
	second, err := o.Resolve(context.Background(), fixtureSession(), "/proj")
	require.NoError(t, err)

	require.Len(t, second.Modules, len(first.Modules))
	for i := range first.Modules {
		a, aOK := first.Modules[i].(AndroidModule)
		b, bOK := second.Modules[i].(AndroidModule)
		require.Equal(t, aOK, bOK)
		if !aOK {
			continue
		}
		assert.Equal(t, a.SelectedVariant.Name, b.SelectedVariant.Name)
		assert.Equal(t, a.Dependencies, b.Dependencies)
	}
}

func TestModuleKindNameExhaustive(t *testing.T) {
	cases := map[string]Module{
		"android": AndroidModule{},
		"generic": GenericModule{},
		"failed":  FailedModule{},
		"unknown": UnknownModule{},
	}
	for want, mod := range cases {
		if got := ModuleKindName(mod); got != want {
			t.Errorf("ModuleKindName(%T) = %q, want %q", mod, got, want)
		}
	}
}

func TestResolveRawPreservesNesting(t *testing.T) {
	session := fixtureSession()
	session.build.Root = model.Handle{
		Name:        "fixture",
		ProjectPath: ":",
		Children: []model.Handle{
			{Name: "app", ProjectPath: ":app", Children: []model.Handle{
				{Name: "wear", ProjectPath: ":app:wear"},
			}},
		},
	}

	o := newTestOrchestrator(Options{})
	root, err := o.ResolveRaw(context.Background(), session, "/proj")
	require.NoError(t, err)

	require.Len(t, root.Children, 1)
	app := root.Children[0]
	assert.Equal(t, ":app", app.Path)
	require.Len(t, app.Children, 1, "nesting preserved, not flattened")
	assert.Equal(t, ":app:wear", app.Children[0].Path)

	// Eager fetch: the available models are present, the absent ones are
	// recorded as missing rather than failing the walk.
	assert.Contains(t, app.Models, model.KindAndroidProject)
	assert.NotEmpty(t, app.Children[0].Missing)
}

func TestProjectCycles(t *testing.T) {
	project := &Project{Modules: []Module{
		AndroidModule{Path: ":a", Dependencies: []deps.Dependency{
			deps.ProjectDependency{ProjectPath: ":b"},
		}},
		AndroidModule{Path: ":b", Dependencies: []deps.Dependency{
			deps.ProjectVariantDependency{ProjectPath: ":a", BuildType: "debug"},
		}},
	}}

	cycles := ProjectCycles(project)
	require.Len(t, cycles, 1)
	rendered := RenderCycle(cycles[0])
	assert.Contains(t, rendered, ":a")
	assert.Contains(t, rendered, ":b")
	assert.Equal(t, cycles[0][0], cycles[0][len(cycles[0])-1], "entry node repeats at the end")
}

func TestProjectCyclesNone(t *testing.T) {
	project := &Project{Modules: []Module{
		AndroidModule{Path: ":a", Dependencies: []deps.Dependency{
			deps.ProjectDependency{ProjectPath: ":b"},
		}},
		AndroidModule{Path: ":b"},
	}}
	assert.Empty(t, ProjectCycles(project))
}
