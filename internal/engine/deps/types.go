// Package deps decodes the opaque graph-item records of a resolved variant
// into typed dependency values. The key grammar is an external contract owned
// by the upstream tooling; key.go keeps it in one place.
package deps

import "strings"

type Scope string

const (
	ScopeCompile Scope = "compile"
	ScopeTest    Scope = "test"
	ScopeRuntime Scope = "runtime"
)

// DepKind tags each member of the closed dependency set.
type DepKind string

const (
	KindJar            DepKind = "jar"
	KindAar            DepKind = "aar"
	KindProjectVariant DepKind = "project_variant"
	KindProject        DepKind = "project"
	KindClassFolder    DepKind = "class_folder"
	KindLocalAar       DepKind = "local_aar"
)

// Dependency is the closed set of dependency records. Consumers handle every
// concrete type in an exhaustive switch; the unexported method keeps the set
// closed to this package.
type Dependency interface {
	Kind() DepKind
	// Identity is the dedup key within one module's collection:
	// coordinates for external dependencies, path otherwise. Scope is not
	// part of identity.
	Identity() string
	sealedDependency()
}

// JarDependency is an external single-artifact dependency.
type JarDependency struct {
	Path     string `json:"path"`
	Group    string `json:"group"`
	Artifact string `json:"artifact"`
	Version  string `json:"version"`
	Scope    Scope  `json:"scope"`
}

func (d JarDependency) Kind() DepKind { return KindJar }
func (d JarDependency) Identity() string {
	return strings.Join([]string{d.Group, d.Artifact, d.Version}, ":")
}
func (JarDependency) sealedDependency() {}

// AarDependency is an external archive whose contained artifacts (compiled
// classes jar plus any extra jars) were already extracted by the build.
type AarDependency struct {
	Path                  string   `json:"path"`
	ResolvedArtifactPaths []string `json:"resolvedArtifactPaths"`
	Group                 string   `json:"group"`
	Artifact              string   `json:"artifact"`
	Version               string   `json:"version"`
	Scope                 Scope    `json:"scope"`
}

func (d AarDependency) Kind() DepKind { return KindAar }
func (d AarDependency) Identity() string {
	return strings.Join([]string{d.Group, d.Artifact, d.Version}, ":")
}
func (AarDependency) sealedDependency() {}

// ProjectVariantDependency points at a sibling module pinned to a concrete
// build type.
type ProjectVariantDependency struct {
	ProjectPath  string   `json:"projectPath"`
	BuildType    string   `json:"buildType"`
	Capabilities []string `json:"capabilities,omitempty"`
	Scope        Scope    `json:"scope"`
}

func (d ProjectVariantDependency) Kind() DepKind { return KindProjectVariant }
func (d ProjectVariantDependency) Identity() string {
	return d.ProjectPath + "@" + d.BuildType
}
func (ProjectVariantDependency) sealedDependency() {}

// ProjectDependency points at a sibling module without a pinned build type.
type ProjectDependency struct {
	ProjectPath  string   `json:"projectPath"`
	Capabilities []string `json:"capabilities,omitempty"`
	Scope        Scope    `json:"scope"`
}

func (d ProjectDependency) Kind() DepKind    { return KindProject }
func (d ProjectDependency) Identity() string { return d.ProjectPath }
func (ProjectDependency) sealedDependency()  {}

// ClassFolderDependency is a build-produced folder of classes with no
// coordinates.
type ClassFolderDependency struct {
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
	Scope       Scope  `json:"scope"`
}

func (d ClassFolderDependency) Kind() DepKind    { return KindClassFolder }
func (d ClassFolderDependency) Identity() string { return d.Path }
func (ClassFolderDependency) sealedDependency()  {}

// LocalAarDependency is a build-produced archive with no coordinates.
type LocalAarDependency struct {
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
	Scope       Scope  `json:"scope"`
}

func (d LocalAarDependency) Kind() DepKind    { return KindLocalAar }
func (d LocalAarDependency) Identity() string { return d.Path }
func (LocalAarDependency) sealedDependency()  {}

// Set accumulates dependencies for one module, deduplicating by
// (kind, identity) while preserving insertion order.
type Set struct {
	order []Dependency
	seen  map[string]bool
}

func NewSet() *Set {
	return &Set{seen: make(map[string]bool)}
}

func (s *Set) Add(d Dependency) {
	if d == nil {
		return
	}
	key := string(d.Kind()) + "\x00" + d.Identity()
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.order = append(s.order, d)
}

func (s *Set) Len() int {
	return len(s.order)
}

func (s *Set) Items() []Dependency {
	out := make([]Dependency, len(s.order))
	copy(out, s.order)
	return out
}
