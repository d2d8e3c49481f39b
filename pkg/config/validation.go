package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags and custom rules.
//
// Struct tags cover the declarative part; validateCustomRules covers the
// relationships tags cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	return validateCustomRules(cfg)
}

// validateCustomRules performs custom validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	// A burst below the sustained rate silently throttles under the cap
	if cfg.Stress.OpsPerSecond > 0 && cfg.Stress.Burst > 0 && cfg.Stress.Burst < cfg.Stress.OpsPerSecond {
		return fmt.Errorf("stress: burst (%d) must not be below ops_per_second (%d)",
			cfg.Stress.Burst, cfg.Stress.OpsPerSecond)
	}

	// The selected workload type must come with its own options section or
	// none at all; a populated section for the other type is a typo
	switch cfg.Workload.Type {
	case "uniform":
		if len(cfg.Workload.Hotspot) > 0 {
			return fmt.Errorf("workload: hotspot options set but type is %q", cfg.Workload.Type)
		}
	case "hotspot":
		if len(cfg.Workload.Uniform) > 0 {
			return fmt.Errorf("workload: uniform options set but type is %q", cfg.Workload.Type)
		}
	}

	return nil
}

// formatValidationError rewrites validator's error into field-path form.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	for _, verr := range verrs {
		return fmt.Errorf("%s: failed %q validation (value: %v)",
			verr.Namespace(), verr.Tag(), verr.Value())
	}
	return err
}
