package deps

import (
	"gradlens/internal/engine/model"
	"gradlens/internal/shared/observability"
)

// Decode turns one graph-item record into a typed dependency. The enriched
// libraries table is keyed by the exact raw key. Decoding is best-effort by
// contract: malformed records and external keys without an enriched record
// yield (nil, false) and the item is dropped, never an error. Scope is
// assigned by the caller based on which classpath the item came from; the
// decoder is scope-agnostic.
func Decode(record string, libraries map[string]model.ResolvedLibrary, scope Scope) (Dependency, bool) {
	key, ok := ParseRecord(record)
	if !ok {
		observability.GraphItemsDropped.Inc()
		return nil, false
	}

	var dep Dependency
	if key.IsProject() {
		dep = decodeProject(key, libraries, scope)
	} else {
		dep, ok = decodeExternal(key, libraries, scope)
		if !ok {
			observability.GraphItemsDropped.Inc()
			return nil, false
		}
	}

	observability.DependenciesDecoded.WithLabelValues(string(dep.Kind())).Inc()
	return dep, true
}

// DecodeAll decodes a classpath's records into the set, assigning one scope to
// all of them.
func DecodeAll(records []string, libraries map[string]model.ResolvedLibrary, scope Scope, set *Set) {
	for _, record := range records {
		if dep, ok := Decode(record, libraries, scope); ok {
			set.Add(dep)
		}
	}
}

// decodeProject never fails: it degrades through enriched metadata, structural
// inference on the third segment, and finally a generic record.
func decodeProject(key Key, libraries map[string]model.ResolvedLibrary, scope Scope) Dependency {
	path := key.ProjectPath()

	if lib, ok := libraries[key.Raw]; ok && (lib.BuildType != "" || len(lib.Capabilities) > 0 || lib.ProjectPath != "") {
		if lib.ProjectPath != "" {
			path = lib.ProjectPath
		}
		if lib.BuildType != "" {
			return ProjectVariantDependency{
				ProjectPath:  path,
				BuildType:    lib.BuildType,
				Capabilities: lib.Capabilities,
				Scope:        scope,
			}
		}
		return ProjectDependency{ProjectPath: path, Capabilities: lib.Capabilities, Scope: scope}
	}

	// Structural inference: the third segment is either a literal build-type
	// token or, when it contains ">", a rendered attribute list.
	if len(key.Segments) < 3 {
		return ProjectDependency{ProjectPath: path, Capabilities: []string{}, Scope: scope}
	}
	third := key.Segments[2]
	if !containsAttributeSeparator(third) {
		return ProjectVariantDependency{ProjectPath: path, BuildType: third, Scope: scope}
	}
	return ProjectDependency{ProjectPath: path, Capabilities: []string{}, Scope: scope}
}

func decodeExternal(key Key, libraries map[string]model.ResolvedLibrary, scope Scope) (Dependency, bool) {
	if len(key.Segments) < 3 {
		return nil, false
	}
	lib, ok := libraries[key.Raw]
	if !ok {
		// Best-effort resolution: absence of an enriched record is routine.
		return nil, false
	}

	if len(lib.ExtractedJars) > 0 {
		return AarDependency{
			Path:                  lib.ArtifactPath,
			ResolvedArtifactPaths: lib.ExtractedJars,
			Group:                 key.Group(),
			Artifact:              key.Name(),
			Version:               key.Version(),
			Scope:                 scope,
		}, true
	}
	if lib.ArtifactPath != "" {
		return JarDependency{
			Path:     lib.ArtifactPath,
			Group:    key.Group(),
			Artifact: key.Name(),
			Version:  key.Version(),
			Scope:    scope,
		}, true
	}
	return nil, false
}

func containsAttributeSeparator(segment string) bool {
	for i := 0; i < len(segment); i++ {
		if segment[i] == '>' {
			return true
		}
	}
	return false
}
