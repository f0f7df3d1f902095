// Package sources enumerates per-language source directories for a module.
package sources

import (
	"gradlens/internal/core/errors"
	"gradlens/internal/engine/model"
)

type Language string

const (
	LangKotlin Language = "kotlin"
	LangJava   Language = "java"
	LangOther  Language = "other"
)

type SourceRoot struct {
	Path      string   `json:"path"`
	Language  Language `json:"language"`
	Generated bool     `json:"generated,omitempty"`
}

// DeclaredRoots emits one SourceRoot per declared source directory of each
// provider, in provider order: kotlin, then java, then other. Overlapping
// directories are kept as declared; deduplication is left to consumers that
// care.
func DeclaredRoots(project *model.AndroidProject) model.Outcome[[]SourceRoot] {
	if project == nil {
		return model.FailNote[[]SourceRoot](
			errors.New(errors.CodeModuleResolution, "nil project model"),
			"source roots require a project model",
		)
	}

	var roots []SourceRoot
	for _, provider := range project.SourceProviders {
		for _, dir := range provider.KotlinDirs {
			roots = append(roots, SourceRoot{Path: dir, Language: LangKotlin})
		}
		for _, dir := range provider.JavaDirs {
			roots = append(roots, SourceRoot{Path: dir, Language: LangJava})
		}
		for _, dir := range provider.ResourceDirs {
			roots = append(roots, SourceRoot{Path: dir, Language: LangOther})
		}
	}
	return model.Ok(roots)
}

// GeneratedRoots lists the generated source directories of the selected
// variant's main artifact. Generated code is emitted as Java by the toolchain,
// so that is the tag it gets. May overlap with declared roots.
func GeneratedRoots(variant model.VariantModel) []SourceRoot {
	roots := make([]SourceRoot, 0, len(variant.MainArtifact.GeneratedSourceDirs))
	for _, dir := range variant.MainArtifact.GeneratedSourceDirs {
		roots = append(roots, SourceRoot{Path: dir, Language: LangJava, Generated: true})
	}
	return roots
}
