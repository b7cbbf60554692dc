package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file name looked up by the CLI.
const DefaultFile = "mdrender.yaml"

// Config is the on-disk configuration.
type Config struct {
	Source        string         `json:"source,omitempty" yaml:"source,omitempty"`
	Destination   string         `json:"destination,omitempty" yaml:"destination,omitempty"`
	Pattern       string         `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Keys          Keys           `json:"keys,omitempty" yaml:"keys,omitempty"`
	Wildcard      Wildcard       `json:"wildcard,omitempty" yaml:"wildcard,omitempty"`
	GlobalRefs    GlobalRefs     `json:"globalRefs,omitempty" yaml:"globalRefs,omitempty"`
	EngineOptions map[string]any `json:"engineOptions,omitempty" yaml:"engineOptions,omitempty"`
	Backend       string         `json:"backend,omitempty" yaml:"backend,omitempty"`
	UseMicromark  bool           `json:"useMicromark,omitempty" yaml:"useMicromark,omitempty"`
	Concurrency   int            `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	MetadataFile  string         `json:"metadataFile,omitempty" yaml:"metadataFile,omitempty"`
	Clean         bool           `json:"clean,omitempty" yaml:"clean,omitempty"`
	WriteFields   bool           `json:"writeFields,omitempty" yaml:"writeFields,omitempty"`
	Precompress   bool           `json:"precompress,omitempty" yaml:"precompress,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Source:        "src",
		Destination:   "build",
		EngineOptions: map[string]any{},
	}
}

// Option customises loading.
type Option func(*loader)

type loader struct {
	logger *zap.Logger
}

// WithLogger receives legacy migration warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Load reads path. Relative source, destination and metadataFile entries are
// resolved against the directory of path.
func Load(path string, options ...Option) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data, path, options...)
	if err != nil {
		return Config{}, err
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes data as JSON, falling back to YAML, then applies the legacy
// option migration and validates the result. source names the input in
// error messages.
func Parse(data []byte, source string, options ...Option) (Config, error) {
	l := &loader{logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}

	raw, err := decodeRaw(data, source)
	if err != nil {
		return Config{}, err
	}
	MigrateLegacy(raw, l.logger)

	normalised, err := json.Marshal(raw)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", source, err)
	}
	cfg := Default()
	if err := json.Unmarshal(normalised, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", source, err)
	}
	if cfg.EngineOptions == nil {
		cfg.EngineOptions = map[string]any{}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", source, err)
	}
	return cfg, nil
}

func decodeRaw(data []byte, source string) (map[string]any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]any{}, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err == nil {
		return raw, nil
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parse %s: invalid JSON or YAML: %w", source, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// Validate checks option shapes that decoding alone cannot catch.
func (c Config) Validate() error {
	if err := c.Keys.Validate(); err != nil {
		return err
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config: concurrency must not be negative")
	}
	if c.Metadata != nil && c.MetadataFile != "" {
		return fmt.Errorf("config: metadata and metadataFile are mutually exclusive")
	}
	return nil
}

// BackendName returns the renderer backend to use. An explicit backend wins
// over the legacy useMicromark switch.
func (c Config) BackendName() string {
	if c.Backend != "" {
		return c.Backend
	}
	if c.UseMicromark {
		return "micromark"
	}
	return ""
}

// LoadMetadata returns the metadata tree: the inline map, the decoded
// metadataFile, or an empty map.
func (c Config) LoadMetadata() (map[string]any, error) {
	if c.MetadataFile == "" {
		if c.Metadata == nil {
			return map[string]any{}, nil
		}
		return c.Metadata, nil
	}
	data, err := os.ReadFile(c.MetadataFile)
	if err != nil {
		return nil, fmt.Errorf("config: read metadata %s: %w", c.MetadataFile, err)
	}
	metadata, err := decodeRaw(data, c.MetadataFile)
	if err != nil {
		return nil, err
	}
	return metadata, nil
}

// Save writes c as YAML.
func Save(path string, c Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c *Config) resolvePaths(base string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	c.Source = resolve(c.Source)
	c.Destination = resolve(c.Destination)
	c.MetadataFile = resolve(c.MetadataFile)
}
