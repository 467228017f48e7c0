package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SourceRoot  string // root of the source tree to build
	OutputRoot  string // root of the mirrored output tree
	ConfigPath  string // flag source (.hcl attributes or .config ini)
	IncludeRoot string // include-path context, passed unchanged to every compile

	CC       string // external compiler binary; empty selects the default
	Workers  int    // bound on concurrent compiler invocations
	FailFast bool   // cancel the whole run on first failure

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.SourceRoot == "" {
		return nil, errors.New("SourceRoot is a required configuration field and cannot be empty")
	}
	if cfg.OutputRoot == "" {
		return nil, errors.New("OutputRoot is a required configuration field and cannot be empty")
	}
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	if cfg.Workers < 1 {
		return nil, errors.New("Workers must be at least 1")
	}
	return &cfg, nil
}
