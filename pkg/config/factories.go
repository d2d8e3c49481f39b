package config

import (
	"fmt"

	"github.com/marmos91/dittotree/pkg/workload"
	"github.com/mitchellh/mapstructure"
)

// NewGenerator creates a workload generator based on configuration.
//
// This factory uses the Type field to pick the generator, then decodes the
// type-specific options map into the generator's own option struct.
//
// Supported types:
//   - "uniform": operations drawn uniformly over the path alphabet
//   - "hotspot": a biased share of operations lands in one subtree
func NewGenerator(cfg *WorkloadConfig) (workload.Generator, error) {
	switch cfg.Type {
	case "uniform":
		return newUniformGenerator(cfg.Uniform)
	case "hotspot":
		return newHotspotGenerator(cfg.Hotspot)
	default:
		return nil, fmt.Errorf("unknown workload type: %q", cfg.Type)
	}
}

// newUniformGenerator decodes uniform options and builds the generator.
func newUniformGenerator(options map[string]any) (workload.Generator, error) {
	type UniformOptions struct {
		Folders int `mapstructure:"folders"`
		Depth   int `mapstructure:"depth"`
	}

	opts := UniformOptions{Folders: 50, Depth: 3}
	if err := mapstructure.Decode(options, &opts); err != nil {
		return nil, fmt.Errorf("failed to decode uniform workload options: %w", err)
	}

	return workload.NewUniform(opts.Folders, opts.Depth)
}

// newHotspotGenerator decodes hotspot options and builds the generator.
func newHotspotGenerator(options map[string]any) (workload.Generator, error) {
	type HotspotOptions struct {
		Folders int     `mapstructure:"folders"`
		Depth   int     `mapstructure:"depth"`
		Bias    float64 `mapstructure:"bias"`
	}

	opts := HotspotOptions{Folders: 50, Depth: 3, Bias: 0.8}
	if err := mapstructure.Decode(options, &opts); err != nil {
		return nil, fmt.Errorf("failed to decode hotspot workload options: %w", err)
	}

	return workload.NewHotspot(opts.Folders, opts.Depth, opts.Bias)
}
