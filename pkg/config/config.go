package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete dittotree CLI configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (DITTOTREE_*)
//  2. Configuration file (YAML)
//  3. Default values
//
// Workload Configuration Pattern:
// The workload section carries a type selector plus one type-specific
// options map per generator; only the map matching the selected type is
// used, and the factory decodes it into the generator's own option struct.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Stress contains the stress-run settings
	Stress StressConfig `mapstructure:"stress"`

	// Workload specifies the workload generator type and its options
	Workload WorkloadConfig `mapstructure:"workload"`

	// Trace controls the post-run operation trace dump
	Trace TraceConfig `mapstructure:"trace"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required"`
}

// StressConfig contains the stress-run settings.
type StressConfig struct {
	// Workers is the number of concurrent workers issuing operations
	Workers int `mapstructure:"workers" validate:"required,gte=1"`

	// Duration is how long the run lasts
	Duration time.Duration `mapstructure:"duration" validate:"required,gt=0"`

	// OpsPerSecond caps the sustained operation rate across all workers;
	// zero means unlimited
	OpsPerSecond uint `mapstructure:"ops_per_second"`

	// Burst is the rate limiter's burst capacity; zero defaults to the
	// sustained rate
	Burst uint `mapstructure:"burst"`

	// Seed makes runs reproducible; workers derive their RNGs from it
	Seed int64 `mapstructure:"seed"`
}

// WorkloadConfig specifies workload generator configuration.
//
// The Type field determines which generator is used. Only the
// corresponding type-specific options section is read.
type WorkloadConfig struct {
	// Type specifies which workload generator to use
	// Valid values: uniform, hotspot
	Type string `mapstructure:"type" validate:"required,oneof=uniform hotspot"`

	// Uniform contains uniform-generator options
	// Only used when Type = "uniform"
	Uniform map[string]any `mapstructure:"uniform"`

	// Hotspot contains hotspot-generator options
	// Only used when Type = "hotspot"
	Hotspot map[string]any `mapstructure:"hotspot"`
}

// TraceConfig controls the operation trace dump.
type TraceConfig struct {
	// Enabled turns the post-run trace dump on; operations are recorded
	// for the replay check either way
	Enabled bool `mapstructure:"enabled"`

	// Path is the file the XDR trace is written to after the run
	Path string `mapstructure:"path"`
}

// Load reads configuration from the given file, applies environment
// overrides and defaults, and validates the result.
//
// An empty configPath loads defaults only (environment overrides still
// apply).
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DITTOTREE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about, so bind every scalar
	// setting explicitly (e.g. DITTOTREE_STRESS_WORKERS).
	for _, key := range []string{
		"logging.level", "logging.output",
		"stress.workers", "stress.duration", "stress.ops_per_second", "stress.burst", "stress.seed",
		"workload.type", "trace.enabled", "trace.path",
	} {
		_ = v.BindEnv(key)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
