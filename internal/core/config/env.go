package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: GRADLENS_[SECTION]_[KEY] (e.g., GRADLENS_HISTORY_PATH).
func ApplyEnvOverrides(cfg *Config) {
	setEnvString(&cfg.Paths.ProjectRoot, "GRADLENS_PATHS_PROJECT_ROOT")
	setEnvString(&cfg.Paths.StateDir, "GRADLENS_PATHS_STATE_DIR")

	setEnvString(&cfg.Tooling.SnapshotDir, "GRADLENS_TOOLING_SNAPSHOT_DIR")
	setEnvFloat64(&cfg.Tooling.Rate, "GRADLENS_TOOLING_RATE")
	setEnvInt(&cfg.Tooling.Burst, "GRADLENS_TOOLING_BURST")
	setEnvDuration(&cfg.Tooling.ConnectTimeout, "GRADLENS_TOOLING_CONNECT_TIMEOUT")

	setEnvString(&cfg.Resolve.ReferenceVariant, "GRADLENS_RESOLVE_REFERENCE_VARIANT")

	setEnvBool(&cfg.History.Enabled, "GRADLENS_HISTORY_ENABLED")
	setEnvString(&cfg.History.Path, "GRADLENS_HISTORY_PATH")
	setEnvString(&cfg.History.ProjectKey, "GRADLENS_HISTORY_PROJECT_KEY")

	setEnvBool(&cfg.Observability.Enabled, "GRADLENS_OBSERVABILITY_ENABLED")
	setEnvString(&cfg.Observability.OTLPEndpoint, "GRADLENS_OBSERVABILITY_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key)
		*target = val
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			slog.Warn("ignoring invalid env override", "key", key, "value", val)
			return
		}
		*target = parsed
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			slog.Warn("ignoring invalid env override", "key", key, "value", val)
			return
		}
		*target = parsed
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			slog.Warn("ignoring invalid env override", "key", key, "value", val)
			return
		}
		*target = parsed
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			slog.Warn("ignoring invalid env override", "key", key, "value", val)
			return
		}
		*target = parsed
	}
}
