package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse("")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("version = %d, want 1", cfg.Version)
	}
	if cfg.Paths.ProjectRoot != "." {
		t.Errorf("paths.project_root = %q, want .", cfg.Paths.ProjectRoot)
	}
	if cfg.Tooling.Rate != 8 || cfg.Tooling.Burst != 4 {
		t.Errorf("tooling defaults = %v/%d, want 8/4", cfg.Tooling.Rate, cfg.Tooling.Burst)
	}
	if cfg.Tooling.ConnectTimeout != 30*time.Second {
		t.Errorf("tooling.connect_timeout = %v, want 30s", cfg.Tooling.ConnectTimeout)
	}
	if cfg.History.Path != "data/state/history.db" {
		t.Errorf("history.path = %q", cfg.History.Path)
	}
	if cfg.History.ProjectKey != "." {
		t.Errorf("history.project_key = %q, want project root", cfg.History.ProjectKey)
	}
}

func TestParseFullDocument(t *testing.T) {
	doc := `
version = 1

[paths]
project_root = "/work/app"

[tooling]
rate = 2.5
burst = 2
connect_timeout = "10s"
artifact_flags = ["sources"]

[resolve]
reference_variant = "proDebug"
exclude_modules = [":legacy:*"]

[output]
json = "out/project.json"
mermaid = "out/modules.mmd"

[history]
enabled = true
path = "out/history.db"
project_key = "app"
`
	cfg, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Tooling.Rate != 2.5 {
		t.Errorf("tooling.rate = %v, want 2.5", cfg.Tooling.Rate)
	}
	if cfg.Resolve.ReferenceVariant != "proDebug" {
		t.Errorf("resolve.reference_variant = %q", cfg.Resolve.ReferenceVariant)
	}
	if cfg.Output.JSON != "out/project.json" {
		t.Errorf("output.json = %q", cfg.Output.JSON)
	}
	if !cfg.History.Enabled || cfg.History.ProjectKey != "app" {
		t.Errorf("history = %+v", cfg.History)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"bad version", "version = 9", "unsupported config version"},
		{"negative rate", "[tooling]\nrate = -1.0", "tooling.rate"},
		{"zero burst", "[tooling]\nburst = -2", "tooling.burst"},
		{"empty artifact flag", "[tooling]\nartifact_flags = [\" \"]", "artifact_flags"},
		{"empty exclude pattern", "[resolve]\nexclude_modules = [\"\"]", "exclude_modules"},
		{"bad exclude pattern", "[resolve]\nexclude_modules = [\":app[\"]", "invalid pattern"},
		{"history blank path", "[history]\nenabled = true\nproject_key = \" \"\npath = \" \"", "history.path"},
		{"history blank project key", "[history]\nenabled = true\npath = \"out/history.db\"\nproject_key = \" \"", "history.project_key"},
		{"observability without endpoint", "[observability]\nenabled = true", "otlp_endpoint"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.doc)
			if err == nil {
				t.Fatalf("expected error for %q", tc.doc)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gradlens.toml")
	if err := os.WriteFile(path, []byte("version = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("version = %d", cfg.Version)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GRADLENS_RESOLVE_REFERENCE_VARIANT", "release")
	t.Setenv("GRADLENS_TOOLING_BURST", "9")
	t.Setenv("GRADLENS_HISTORY_ENABLED", "not-a-bool")

	cfg, err := Parse("")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Resolve.ReferenceVariant != "release" {
		t.Errorf("reference variant = %q, want release", cfg.Resolve.ReferenceVariant)
	}
	if cfg.Tooling.Burst != 9 {
		t.Errorf("burst = %d, want 9", cfg.Tooling.Burst)
	}
	if cfg.History.Enabled {
		t.Error("invalid bool override should be ignored")
	}
}

func TestCompileExcludes(t *testing.T) {
	globs, err := CompileExcludes([]string{":legacy:*", ":app"})
	if err != nil {
		t.Fatalf("CompileExcludes: %v", err)
	}
	if !globs[0].Match(":legacy:auth") {
		t.Error(":legacy:* should match :legacy:auth")
	}
	if globs[0].Match(":legacy:auth:impl") {
		t.Error(":legacy:* should not cross the : separator")
	}
	if !globs[1].Match(":app") {
		t.Error(":app should match itself")
	}
}
