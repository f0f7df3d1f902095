package sources

import (
	"reflect"
	"testing"

	"gradlens/internal/engine/model"
)

func TestDeclaredRoots(t *testing.T) {
	project := &model.AndroidProject{SourceProviders: []model.SourceProvider{
		{
			Name:         "main",
			KotlinDirs:   []string{"src/main/kotlin"},
			JavaDirs:     []string{"src/main/java"},
			ResourceDirs: []string{"src/main/res"},
		},
		{
			Name:       "debug",
			KotlinDirs: []string{"src/debug/kotlin"},
		},
	}}

	out := DeclaredRoots(project)
	if !out.OK() {
		t.Fatalf("DeclaredRoots: %v", out.Err())
	}
	want := []SourceRoot{
		{Path: "src/main/kotlin", Language: LangKotlin},
		{Path: "src/main/java", Language: LangJava},
		{Path: "src/main/res", Language: LangOther},
		{Path: "src/debug/kotlin", Language: LangKotlin},
	}
	if !reflect.DeepEqual(out.Value(), want) {
		t.Errorf("roots = %v, want %v", out.Value(), want)
	}
}

func TestDeclaredRootsNilProject(t *testing.T) {
	if out := DeclaredRoots(nil); out.OK() {
		t.Fatal("expected failure for nil project")
	}
}

func TestGeneratedRoots(t *testing.T) {
	variant := model.VariantModel{
		Name: "debug",
		MainArtifact: model.ArtifactModel{
			GeneratedSourceDirs: []string{"build/generated/source/buildConfig/debug"},
		},
	}
	roots := GeneratedRoots(variant)
	if len(roots) != 1 {
		t.Fatalf("len = %d", len(roots))
	}
	if !roots[0].Generated || roots[0].Language != LangJava {
		t.Errorf("root = %+v", roots[0])
	}
}

func TestGeneratedRootsMayOverlapDeclared(t *testing.T) {
	// Declared and generated roots are not deduplicated against each other.
	project := &model.AndroidProject{SourceProviders: []model.SourceProvider{
		{JavaDirs: []string{"build/generated/source/x"}},
	}}
	variant := model.VariantModel{MainArtifact: model.ArtifactModel{
		GeneratedSourceDirs: []string{"build/generated/source/x"},
	}}

	declared := DeclaredRoots(project).Value()
	all := append(declared, GeneratedRoots(variant)...)
	if len(all) != 2 {
		t.Errorf("expected overlap to survive, got %d roots", len(all))
	}
}
