// Package resolver flattens the module tree, classifies each node, and
// dispatches per-module resolution, aggregating results with per-module fault
// isolation.
package resolver

import (
	"gradlens/internal/engine/deps"
	"gradlens/internal/engine/model"
	"gradlens/internal/engine/sources"
	"gradlens/internal/engine/variant"
)

// Project is the aggregated result of one resolve: immutable after
// construction, consumed by the exporters.
type Project struct {
	Name    string
	RootDir string
	Modules []Module
}

// Module is the closed set of per-module results. Every variant carries name
// and path so downstream tooling can locate a module by identity even when
// resolution failed. Consumers type-switch exhaustively; the unexported
// method keeps the set closed.
type Module interface {
	ModuleName() string
	ModulePath() string
	sealedModule()
}

// AndroidModule is a fully resolved application or library module.
type AndroidModule struct {
	Name            string
	Path            string
	Kind            model.ProjectType
	SelectedVariant variant.BuildVariant
	Variants        []variant.BuildVariant
	Dependencies    []deps.Dependency
	SourceRoots     []sources.SourceRoot
}

func (m AndroidModule) ModuleName() string { return m.Name }
func (m AndroidModule) ModulePath() string { return m.Path }
func (AndroidModule) sealedModule()        {}

// GenericModule is a non-Android module. The minimal generic path assembles
// it with empty collections; the fields exist as the extension point for
// language-specific resolution.
type GenericModule struct {
	Name         string
	Path         string
	SourceRoots  []sources.SourceRoot
	Dependencies []deps.Dependency
}

func (m GenericModule) ModuleName() string { return m.Name }
func (m GenericModule) ModulePath() string { return m.Path }
func (GenericModule) sealedModule()        {}

// FailedModule records a module whose resolution failed. Detail is the
// human-readable note from the failing outcome; Cause may be nil.
type FailedModule struct {
	Name   string
	Path   string
	Detail string
	Cause  error
}

func (m FailedModule) ModuleName() string { return m.Name }
func (m FailedModule) ModulePath() string { return m.Path }
func (FailedModule) sealedModule()        {}

// UnknownModule is a tree node that was deliberately not resolved (e.g.
// excluded by configuration). Identity only.
type UnknownModule struct {
	Name string
	Path string
}

func (m UnknownModule) ModuleName() string { return m.Name }
func (m UnknownModule) ModulePath() string { return m.Path }
func (UnknownModule) sealedModule()        {}

// ModuleKindName names the concrete variant of a Module. The switch is the
// exhaustiveness anchor: extend it (and its test) when adding a variant.
func ModuleKindName(m Module) string {
	switch m.(type) {
	case AndroidModule:
		return "android"
	case GenericModule:
		return "generic"
	case FailedModule:
		return "failed"
	case UnknownModule:
		return "unknown"
	default:
		return "unrecognized"
	}
}
