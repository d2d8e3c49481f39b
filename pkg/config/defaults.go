package config

import (
	"strings"
	"time"
)

// ApplyDefaults sets default values for any unspecified configuration
// fields.
//
// Default Strategy:
//   - Zero values of fields that have a default are replaced with it;
//     ops_per_second, burst and trace.enabled keep their zero values
//   - Explicit values are preserved
//   - Generator-specific defaults are handled by the workload factories
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyStressDefaults(&cfg.Stress)
	applyWorkloadDefaults(&cfg.Workload)
	applyTraceDefaults(&cfg.Trace)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

// applyStressDefaults sets stress-run defaults.
func applyStressDefaults(cfg *StressConfig) {
	if cfg.Workers == 0 {
		cfg.Workers = 8
	}
	if cfg.Duration == 0 {
		cfg.Duration = 10 * time.Second
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
}

// applyWorkloadDefaults sets the workload type default.
func applyWorkloadDefaults(cfg *WorkloadConfig) {
	if cfg.Type == "" {
		cfg.Type = "uniform"
	}
}

// applyTraceDefaults sets the trace dump defaults.
func applyTraceDefaults(cfg *TraceConfig) {
	if cfg.Path == "" {
		cfg.Path = "dittotree-trace.xdr"
	}
}
