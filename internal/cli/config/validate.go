package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
	validOutputs    = []string{"", "json", "table", "text"}
)

// Validate checks if the configuration is valid.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		errs = append(errs, fmt.Errorf("log_level must be one of %s, got %q", strings.Join(validLogLevels, "|"), c.LogLevel))
	}
	if !slices.Contains(validLogFormats, strings.ToLower(c.LogFormat)) {
		errs = append(errs, fmt.Errorf("log_format must be one of %s, got %q", strings.Join(validLogFormats, "|"), c.LogFormat))
	}
	if !slices.Contains(validOutputs, strings.ToLower(c.Output)) {
		errs = append(errs, fmt.Errorf("output must be one of json|table|text, got %q", c.Output))
	}
	if c.Chunk.Size <= 0 {
		errs = append(errs, fmt.Errorf("chunk.size must be positive, got %d", c.Chunk.Size))
	}
	if c.Chunk.Overlap < 0 || (c.Chunk.Size > 0 && c.Chunk.Overlap >= c.Chunk.Size) {
		errs = append(errs, fmt.Errorf("chunk.overlap must be in [0, chunk.size), got %d", c.Chunk.Overlap))
	}
	if c.Extract.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("extract.concurrency must be at least 1, got %d", c.Extract.Concurrency))
	}
	if c.Extract.Timeout < 0 {
		errs = append(errs, fmt.Errorf("extract.timeout must not be negative, got %s", c.Extract.Timeout))
	}
	if c.Ollama.URL == "" {
		errs = append(errs, errors.New("ollama.url is required"))
	}
	if c.Ollama.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("ollama.requests_per_second must not be negative, got %g", c.Ollama.RequestsPerSecond))
	}
	if c.Ollama.Burst < 0 {
		errs = append(errs, fmt.Errorf("ollama.burst must not be negative, got %d", c.Ollama.Burst))
	}

	return errors.Join(errs...)
}
