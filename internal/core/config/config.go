package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Version       int           `toml:"version"`
	Paths         Paths         `toml:"paths"`
	Tooling       Tooling       `toml:"tooling"`
	Resolve       Resolve       `toml:"resolve"`
	Output        Output        `toml:"output"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
}

type Paths struct {
	ProjectRoot string `toml:"project_root"`
	StateDir    string `toml:"state_dir"`
}

// Tooling controls how the build model service is queried. SnapshotDir points
// at a directory of captured model dumps; it is the connection target for the
// bundled snapshot client.
type Tooling struct {
	SnapshotDir    string        `toml:"snapshot_dir"`
	Rate           float64       `toml:"rate"`
	Burst          int           `toml:"burst"`
	ConnectTimeout time.Duration `toml:"connect_timeout"`
	ArtifactFlags  []string      `toml:"artifact_flags"`
}

type Resolve struct {
	ReferenceVariant string   `toml:"reference_variant"`
	ExcludeModules   []string `toml:"exclude_modules"`
	Raw              bool     `toml:"raw"`
}

type Output struct {
	JSON      string `toml:"json"`
	Workspace string `toml:"workspace"`
	DOT       string `toml:"dot"`
	Mermaid   string `toml:"mermaid"`
}

type History struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path"`
	ProjectKey string `toml:"project_key"`
}

type Observability struct {
	Enabled      bool   `toml:"enabled"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	ApplyEnvOverrides(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateTooling(&cfg); err != nil {
		return nil, err
	}
	if err := validateResolve(&cfg); err != nil {
		return nil, err
	}
	if err := validateHistory(&cfg); err != nil {
		return nil, err
	}
	if err := validateObservability(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	ApplyEnvOverrides(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Paths.ProjectRoot) == "" {
		cfg.Paths.ProjectRoot = "."
	}
	if strings.TrimSpace(cfg.Paths.StateDir) == "" {
		cfg.Paths.StateDir = "data/state"
	}

	if cfg.Tooling.Rate == 0 {
		cfg.Tooling.Rate = 8
	}
	if cfg.Tooling.Burst == 0 {
		cfg.Tooling.Burst = 4
	}
	if cfg.Tooling.ConnectTimeout <= 0 {
		cfg.Tooling.ConnectTimeout = 30 * time.Second
	}

	// History fields default only when omitted entirely: a blank value set on
	// purpose must reach validation, not be papered over.
	if cfg.History.Path == "" {
		cfg.History.Path = "data/state/history.db"
	}
	if cfg.History.ProjectKey == "" {
		cfg.History.ProjectKey = cfg.Paths.ProjectRoot
	}
}
