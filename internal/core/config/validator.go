package config

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

func validateVersion(cfg *Config) error {
	if cfg.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", cfg.Version)
	}
	if cfg.Version > 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateTooling(cfg *Config) error {
	if cfg.Tooling.Rate <= 0 {
		return fmt.Errorf("tooling.rate must be > 0, got %v", cfg.Tooling.Rate)
	}
	if cfg.Tooling.Burst < 1 {
		return fmt.Errorf("tooling.burst must be >= 1, got %d", cfg.Tooling.Burst)
	}
	for i, flag := range cfg.Tooling.ArtifactFlags {
		if strings.TrimSpace(flag) == "" {
			return fmt.Errorf("tooling.artifact_flags[%d] must not be empty", i)
		}
	}
	return nil
}

func validateResolve(cfg *Config) error {
	_, err := CompileExcludes(cfg.Resolve.ExcludeModules)
	return err
}

func validateHistory(cfg *Config) error {
	if !cfg.History.Enabled {
		return nil
	}
	if strings.TrimSpace(cfg.History.Path) == "" {
		return fmt.Errorf("history.path must not be empty when history.enabled=true")
	}
	if strings.TrimSpace(cfg.History.ProjectKey) == "" {
		return fmt.Errorf("history.project_key must not be empty when history.enabled=true")
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if cfg.Observability.Enabled && strings.TrimSpace(cfg.Observability.OTLPEndpoint) == "" {
		return fmt.Errorf("observability.otlp_endpoint must not be empty when observability.enabled=true")
	}
	return nil
}

// CompileExcludes compiles module exclusion patterns. Patterns match Gradle
// project paths, so ':' acts as the separator (e.g. ":legacy:*").
func CompileExcludes(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for i, pattern := range patterns {
		trimmed := strings.TrimSpace(pattern)
		if trimmed == "" {
			return nil, fmt.Errorf("resolve.exclude_modules[%d] must not be empty", i)
		}
		g, err := glob.Compile(trimmed, ':')
		if err != nil {
			return nil, fmt.Errorf("resolve.exclude_modules[%d]: invalid pattern %q: %w", i, trimmed, err)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}
