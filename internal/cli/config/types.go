// Package config provides configuration management for the joinlineage CLI.
//
// Values are layered from defaults, an optional YAML file, JOINLINEAGE_
// environment variables and explicitly set flags, in increasing priority.
package config

import "time"

// Default values.
const (
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultBranch         = "main"
	DefaultModel          = "llama3.2"
	DefaultOllamaURL      = "http://localhost:11434"
	DefaultChunkSize      = 2000
	DefaultChunkOverlap   = 200
	DefaultConcurrency    = 4
	DefaultTimeout        = 60 * time.Second
	DefaultOllamaBurst    = 1
	DefaultConfigBaseName = "joinlineage"
)

// DefaultExtensions are the source file extensions scanned by default.
var DefaultExtensions = []string{".py", ".sql", ".scala", ".ipynb"}

// Config holds all CLI configuration options.
type Config struct {
	LogLevel   string        `koanf:"log_level"`
	LogFormat  string        `koanf:"log_format"`
	Verbose    bool          `koanf:"verbose"`
	Output     string        `koanf:"output"`
	Branch     string        `koanf:"branch"`
	Model      string        `koanf:"model"`
	Extensions []string      `koanf:"extensions"`
	Chunk      ChunkConfig   `koanf:"chunk"`
	Extract    ExtractConfig `koanf:"extract"`
	Ollama     OllamaConfig  `koanf:"ollama"`
}

// ChunkConfig controls document splitting.
type ChunkConfig struct {
	Size    int `koanf:"size"`
	Overlap int `koanf:"overlap"`
}

// ExtractConfig controls join extraction.
type ExtractConfig struct {
	Concurrency int           `koanf:"concurrency"`
	Timeout     time.Duration `koanf:"timeout"`
}

// OllamaConfig holds the oracle endpoint settings.
type OllamaConfig struct {
	URL string `koanf:"url"`
	// RequestsPerSecond throttles oracle calls; 0 disables throttling
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
	// Cache reuses answers for identical prompts within one process
	Cache bool `koanf:"cache"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"log_level":                  DefaultLogLevel,
		"log_format":                 DefaultLogFormat,
		"verbose":                    false,
		"output":                     "",
		"branch":                     DefaultBranch,
		"model":                      DefaultModel,
		"extensions":                 DefaultExtensions,
		"chunk.size":                 DefaultChunkSize,
		"chunk.overlap":              DefaultChunkOverlap,
		"extract.concurrency":        DefaultConcurrency,
		"extract.timeout":            DefaultTimeout.String(),
		"ollama.url":                 DefaultOllamaURL,
		"ollama.requests_per_second": 0,
		"ollama.burst":               DefaultOllamaBurst,
		"ollama.cache":               true,
	}
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		LogLevel:   DefaultLogLevel,
		LogFormat:  DefaultLogFormat,
		Branch:     DefaultBranch,
		Model:      DefaultModel,
		Extensions: append([]string(nil), DefaultExtensions...),
		Chunk:      ChunkConfig{Size: DefaultChunkSize, Overlap: DefaultChunkOverlap},
		Extract:    ExtractConfig{Concurrency: DefaultConcurrency, Timeout: DefaultTimeout},
		Ollama:     OllamaConfig{URL: DefaultOllamaURL, Burst: DefaultOllamaBurst, Cache: true},
	}
}
