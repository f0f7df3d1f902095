// Package output serializes a resolved project for external consumers: plain
// JSON, the IDE workspace format, and module-graph diagrams.
package output

import (
	"encoding/json"
	"fmt"

	"gradlens/internal/engine/deps"
	"gradlens/internal/engine/resolver"
	"gradlens/internal/engine/sources"
	"gradlens/internal/engine/variant"
	"gradlens/internal/shared/util"
)

type projectJSON struct {
	Name    string       `json:"name"`
	RootDir string       `json:"rootDir"`
	Modules []moduleJSON `json:"modules"`
}

type moduleJSON struct {
	Kind            string                 `json:"kind"`
	Name            string                 `json:"name"`
	Path            string                 `json:"path"`
	ProjectType     string                 `json:"projectType,omitempty"`
	SelectedVariant *variant.BuildVariant  `json:"selectedVariant,omitempty"`
	Variants        []variant.BuildVariant `json:"variants,omitempty"`
	Dependencies    []dependencyJSON       `json:"dependencies,omitempty"`
	SourceRoots     []sources.SourceRoot   `json:"sourceRoots,omitempty"`
	Detail          string                 `json:"detail,omitempty"`
	Cause           string                 `json:"cause,omitempty"`
}

// dependencyJSON wraps the closed dependency set with an explicit kind tag so
// consumers can dispatch without reflection.
type dependencyJSON struct {
	Kind string          `json:"kind"`
	Data deps.Dependency `json:"data"`
}

// ProjectJSON renders the full resolved project, including failed and unknown
// modules, so no tree node disappears from the export.
func ProjectJSON(project *resolver.Project) ([]byte, error) {
	if project == nil {
		return nil, fmt.Errorf("nil project")
	}

	doc := projectJSON{
		Name:    project.Name,
		RootDir: project.RootDir,
		Modules: make([]moduleJSON, 0, len(project.Modules)),
	}
	for _, mod := range project.Modules {
		doc.Modules = append(doc.Modules, toModuleJSON(mod))
	}
	return json.MarshalIndent(doc, "", "  ")
}

// WriteProjectJSON writes the export, creating parent directories.
func WriteProjectJSON(project *resolver.Project, path string) error {
	data, err := ProjectJSON(project)
	if err != nil {
		return err
	}
	return util.WriteFileWithDirs(path, data, 0o644)
}

func toModuleJSON(mod resolver.Module) moduleJSON {
	out := moduleJSON{
		Kind: resolver.ModuleKindName(mod),
		Name: mod.ModuleName(),
		Path: mod.ModulePath(),
	}
	switch m := mod.(type) {
	case resolver.AndroidModule:
		selected := m.SelectedVariant
		out.ProjectType = string(m.Kind)
		out.SelectedVariant = &selected
		out.Variants = m.Variants
		out.SourceRoots = m.SourceRoots
		for _, dep := range m.Dependencies {
			out.Dependencies = append(out.Dependencies, dependencyJSON{
				Kind: string(dep.Kind()),
				Data: dep,
			})
		}
	case resolver.GenericModule:
		out.SourceRoots = m.SourceRoots
		for _, dep := range m.Dependencies {
			out.Dependencies = append(out.Dependencies, dependencyJSON{
				Kind: string(dep.Kind()),
				Data: dep,
			})
		}
	case resolver.FailedModule:
		out.Detail = m.Detail
		if m.Cause != nil {
			out.Cause = m.Cause.Error()
		}
	case resolver.UnknownModule:
		// identity only
	}
	return out
}
