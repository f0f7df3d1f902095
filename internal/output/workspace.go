package output

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"gradlens/internal/engine/deps"
	"gradlens/internal/engine/resolver"
	"gradlens/internal/shared/util"
)

// Workspace is the IDE-consumable rendering of a resolved project. The shape
// is pinned by workspaceSchema below; ToWorkspace and the schema must move
// together.
type Workspace struct {
	FormatVersion int               `json:"formatVersion"`
	Project       WorkspaceProject  `json:"project"`
	Modules       []WorkspaceModule `json:"modules"`
}

type WorkspaceProject struct {
	Name    string `json:"name"`
	RootDir string `json:"rootDir"`
}

type WorkspaceModule struct {
	Name         string        `json:"name"`
	Path         string        `json:"path"`
	Type         string        `json:"type"`
	Variant      string        `json:"variant,omitempty"`
	ContentRoots []ContentRoot `json:"contentRoots,omitempty"`
	OrderEntries []OrderEntry  `json:"orderEntries,omitempty"`
	Error        string        `json:"error,omitempty"`
}

type ContentRoot struct {
	Path      string `json:"path"`
	Language  string `json:"language,omitempty"`
	Generated bool   `json:"generated,omitempty"`
}

type OrderEntry struct {
	Kind   string   `json:"kind"`
	Name   string   `json:"name,omitempty"`
	Module string   `json:"module,omitempty"`
	Paths  []string `json:"paths,omitempty"`
	Scope  string   `json:"scope,omitempty"`
}

const workspaceFormatVersion = 1

// ToWorkspace maps the resolved project into the workspace schema.
func ToWorkspace(project *resolver.Project) (*Workspace, error) {
	if project == nil {
		return nil, fmt.Errorf("nil project")
	}

	ws := &Workspace{
		FormatVersion: workspaceFormatVersion,
		Project:       WorkspaceProject{Name: project.Name, RootDir: project.RootDir},
		Modules:       make([]WorkspaceModule, 0, len(project.Modules)),
	}
	for _, mod := range project.Modules {
		ws.Modules = append(ws.Modules, toWorkspaceModule(mod))
	}
	return ws, nil
}

func toWorkspaceModule(mod resolver.Module) WorkspaceModule {
	out := WorkspaceModule{
		Name: mod.ModuleName(),
		Path: mod.ModulePath(),
		Type: resolver.ModuleKindName(mod),
	}
	switch m := mod.(type) {
	case resolver.AndroidModule:
		out.Type = string(m.Kind)
		out.Variant = m.SelectedVariant.Name
		for _, root := range m.SourceRoots {
			out.ContentRoots = append(out.ContentRoots, ContentRoot{
				Path:      root.Path,
				Language:  string(root.Language),
				Generated: root.Generated,
			})
		}
		for _, dep := range m.Dependencies {
			out.OrderEntries = append(out.OrderEntries, toOrderEntry(dep))
		}
	case resolver.GenericModule:
		for _, root := range m.SourceRoots {
			out.ContentRoots = append(out.ContentRoots, ContentRoot{
				Path:     root.Path,
				Language: string(root.Language),
			})
		}
	case resolver.FailedModule:
		out.Error = m.Detail
	case resolver.UnknownModule:
		// identity only
	}
	return out
}

// toOrderEntry handles every dependency variant; the default arm exists only
// to surface a forgotten extension at test time.
func toOrderEntry(dep deps.Dependency) OrderEntry {
	scope := strings.ToUpper(string(depScope(dep)))
	switch d := dep.(type) {
	case deps.JarDependency:
		return OrderEntry{Kind: "library", Name: d.Identity(), Paths: []string{d.Path}, Scope: scope}
	case deps.AarDependency:
		return OrderEntry{Kind: "library", Name: d.Identity(), Paths: d.ResolvedArtifactPaths, Scope: scope}
	case deps.ProjectVariantDependency:
		return OrderEntry{Kind: "module", Module: d.ProjectPath, Name: d.BuildType, Scope: scope}
	case deps.ProjectDependency:
		return OrderEntry{Kind: "module", Module: d.ProjectPath, Scope: scope}
	case deps.ClassFolderDependency:
		return OrderEntry{Kind: "classFolder", Paths: []string{d.Path}, Scope: scope}
	case deps.LocalAarDependency:
		return OrderEntry{Kind: "library", Paths: []string{d.Path}, Scope: scope}
	default:
		return OrderEntry{Kind: "unsupported", Name: string(dep.Kind())}
	}
}

func depScope(dep deps.Dependency) deps.Scope {
	switch d := dep.(type) {
	case deps.JarDependency:
		return d.Scope
	case deps.AarDependency:
		return d.Scope
	case deps.ProjectVariantDependency:
		return d.Scope
	case deps.ProjectDependency:
		return d.Scope
	case deps.ClassFolderDependency:
		return d.Scope
	case deps.LocalAarDependency:
		return d.Scope
	default:
		return ""
	}
}

// WriteWorkspace validates the document against the embedded schema before
// writing; a schema violation is a bug in ToWorkspace, not in the caller.
func WriteWorkspace(project *resolver.Project, path string) error {
	ws, err := ToWorkspace(project)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(ws, "", "  ")
	if err != nil {
		return err
	}
	if err := ValidateWorkspace(data); err != nil {
		return fmt.Errorf("workspace export failed self-validation: %w", err)
	}
	return util.WriteFileWithDirs(path, data, 0o644)
}

// ValidateWorkspace checks serialized workspace JSON against the embedded
// OpenAPI schema.
func ValidateWorkspace(data []byte) error {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData([]byte(workspaceSchema))
	if err != nil {
		return fmt.Errorf("load workspace schema: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return fmt.Errorf("workspace schema is invalid: %w", err)
	}

	schemaRef, ok := doc.Components.Schemas["Workspace"]
	if !ok || schemaRef.Value == nil {
		return fmt.Errorf("workspace schema missing Workspace component")
	}

	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("unmarshal workspace document: %w", err)
	}
	return schemaRef.Value.VisitJSON(value)
}

const workspaceSchema = `
openapi: 3.0.3
info:
  title: gradlens workspace export
  version: "1.0"
paths: {}
components:
  schemas:
    Workspace:
      type: object
      required: [formatVersion, project, modules]
      properties:
        formatVersion:
          type: integer
          minimum: 1
        project:
          type: object
          required: [name, rootDir]
          properties:
            name:
              type: string
            rootDir:
              type: string
        modules:
          type: array
          items:
            type: object
            required: [name, path, type]
            properties:
              name:
                type: string
              path:
                type: string
              type:
                type: string
                enum: [application, library, generic, failed, unknown]
              variant:
                type: string
              contentRoots:
                type: array
                items:
                  type: object
                  required: [path]
                  properties:
                    path:
                      type: string
                    language:
                      type: string
                    generated:
                      type: boolean
              orderEntries:
                type: array
                items:
                  type: object
                  required: [kind]
                  properties:
                    kind:
                      type: string
                    name:
                      type: string
                    module:
                      type: string
                    paths:
                      type: array
                      items:
                        type: string
                    scope:
                      type: string
              error:
                type: string
`
