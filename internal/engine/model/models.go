package model

// Kind names one tooling model the service can produce for a module.
type Kind string

const (
	KindGradleBuild         Kind = "GradleBuild"
	KindAndroidProject      Kind = "AndroidProject"
	KindBasicAndroidProject Kind = "BasicAndroidProject"
	KindAndroidDsl          Kind = "AndroidDsl"
	KindVariantDependencies Kind = "VariantDependencies"
	KindGradleModule        Kind = "GradleModule"
)

// AllKinds lists every per-module model kind, used by the raw traversal mode.
// KindGradleBuild is excluded: it is a build-level model, not a module-level one.
var AllKinds = []Kind{
	KindAndroidProject,
	KindBasicAndroidProject,
	KindAndroidDsl,
	KindGradleModule,
}

// Params carries optional fetch parameters. Only KindVariantDependencies
// consumes them.
type Params struct {
	VariantName   string
	ArtifactFlags []string
}

// Handle identifies one module in the build tree. Name and ProjectPath are
// stable identity; Dir locates the module on disk.
type Handle struct {
	Name        string // e.g. "app"
	ProjectPath string // e.g. ":app" or ":feature:login"
	Dir         string
	Children    []Handle
}

// GradleBuild is the build-level project tree model.
type GradleBuild struct {
	ProjectName string
	RootDir     string
	Root        Handle
}

type ProjectType string

const (
	TypeApplication ProjectType = "application"
	TypeLibrary     ProjectType = "library"
)

// AndroidProject is the full project model for an application or library
// module: its variants plus declared source providers.
type AndroidProject struct {
	Namespace       string
	Variants        []VariantModel
	SourceProviders []SourceProvider
}

type VariantModel struct {
	Name         string
	DisplayName  string
	MainArtifact ArtifactModel
}

// ArtifactModel describes one variant's main build artifact, the source of
// generated source directories.
type ArtifactModel struct {
	GeneratedSourceDirs []string
	AssembleTaskName    string
}

// SourceProvider enumerates declared source directories per language for one
// source set (main, flavor, build type).
type SourceProvider struct {
	Name         string
	KotlinDirs   []string
	JavaDirs     []string
	ResourceDirs []string
}

// BasicAndroidProject is the lightweight model used to tell application-type
// from library-type before the full model is needed.
type BasicAndroidProject struct {
	ProjectType ProjectType
	ProjectPath string
}

// AndroidDsl exposes the build-script DSL view, the only place the declared
// is-default flag of a product flavor is visible.
type AndroidDsl struct {
	ProductFlavors []FlavorModel
	BuildTypes     []string
}

type FlavorModel struct {
	Name      string
	Dimension string
	IsDefault *bool
}

// VariantDependencies carries the resolved dependency graph of one variant as
// opaque graph-item records per classpath, plus the resolved-libraries table
// keyed by the same item key format.
type VariantDependencies struct {
	Name         string
	CompileItems []string
	RuntimeItems []string
	TestItems    []string
	Libraries    map[string]ResolvedLibrary
}

// ResolvedLibrary is the enriched record backing one graph-item key.
// ExtractedJars is non-empty for archive libraries (aar) whose contained
// artifacts were already exploded by the build. Project-dependency records
// carry ProjectPath/BuildType/Capabilities instead of artifact paths.
type ResolvedLibrary struct {
	ArtifactPath  string
	ExtractedJars []string
	ProjectPath   string
	BuildType     string
	Capabilities  []string
}

// GradleModule is the minimal model for non-Android modules: declared source
// roots plus flat single-entry dependency records.
type GradleModule struct {
	ContentRoots []string
	Dependencies []GradleModuleDependency
}

type GradleModuleDependency struct {
	Coordinate string
	Path       string
}
