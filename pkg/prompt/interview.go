package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-mdrender/pkg/config"
)

// EngineSwitches are the boolean engine options offered by the interview.
var EngineSwitches = []string{"gfm", "tables", "sanitize", "breaks", "smartypants", "headerIds"}

// Interview asks for the settings of a new configuration, starting from base.
// backends lists the selectable renderer names; the first is the default
// unless base names another one.
func Interview(ctx context.Context, driver Driver, base config.Config, backends []string) (config.Config, error) {
	if driver == nil {
		return config.Config{}, errors.New("prompt: driver is required")
	}
	if len(backends) == 0 {
		return config.Config{}, errors.New("prompt: no backends to choose from")
	}
	cfg := base

	var err error
	if cfg.Source, err = driver.Input(ctx, InputConfig{
		Message:   "Source directory",
		Default:   base.Source,
		Validator: required("source directory"),
	}); err != nil {
		return config.Config{}, err
	}
	if cfg.Destination, err = driver.Input(ctx, InputConfig{
		Message:   "Destination directory",
		Default:   base.Destination,
		Validator: required("destination directory"),
	}); err != nil {
		return config.Config{}, err
	}

	defaultBackend := indexOf(backends, base.BackendName())
	if defaultBackend < 0 {
		defaultBackend = 0
	}
	choice, err := driver.Select(ctx, SelectConfig{
		Message:      "Renderer backend",
		Options:      backends,
		DefaultIndex: defaultBackend,
	})
	if err != nil {
		return config.Config{}, err
	}
	if choice < 0 || choice >= len(backends) {
		return config.Config{}, fmt.Errorf("prompt: backend choice %d out of range", choice)
	}
	cfg.Backend = backends[choice]
	cfg.UseMicromark = false

	files, err := driver.Input(ctx, InputConfig{
		Message: "Front matter keys to render (comma separated)",
		Default: joinKeys(base.Keys.Files),
	})
	if err != nil {
		return config.Config{}, err
	}
	global, err := driver.Input(ctx, InputConfig{
		Message: "Metadata keys to render (comma separated)",
		Default: joinKeys(base.Keys.Global),
	})
	if err != nil {
		return config.Config{}, err
	}
	cfg.Keys = config.Keys{Files: splitKeys(files), Global: splitKeys(global)}

	wildcard, err := driver.Confirm(ctx, ConfirmConfig{
		Message: "Expand * wildcards in keys?",
		Default: base.Wildcard.Enabled(),
	})
	if err != nil {
		return config.Config{}, err
	}
	cfg.Wildcard = config.Wildcard{}
	if wildcard {
		cfg.Wildcard.Token = config.DefaultWildcard
	}

	picked, err := driver.MultiSelect(ctx, SelectConfig{
		Message:  "Engine options",
		Options:  EngineSwitches,
		Defaults: enabledSwitches(base.EngineOptions),
	})
	if err != nil {
		return config.Config{}, err
	}
	engine := make(map[string]any, len(base.EngineOptions)+len(EngineSwitches))
	for name, value := range base.EngineOptions {
		engine[name] = value
	}
	for _, name := range EngineSwitches {
		engine[name] = false
	}
	for _, idx := range picked {
		if idx >= 0 && idx < len(EngineSwitches) {
			engine[EngineSwitches[idx]] = true
		}
	}
	cfg.EngineOptions = engine

	return cfg, nil
}

func required(label string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

func splitKeys(value string) []any {
	var out []any
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func joinKeys(keys []any) string {
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		switch k := key.(type) {
		case string:
			parts = append(parts, k)
		case []any:
			segments := make([]string, 0, len(k))
			for _, s := range k {
				if str, ok := s.(string); ok {
					segments = append(segments, str)
				}
			}
			parts = append(parts, strings.Join(segments, "."))
		case []string:
			parts = append(parts, strings.Join(k, "."))
		}
	}
	return strings.Join(parts, ", ")
}

func enabledSwitches(options map[string]any) []int {
	var out []int
	for i, name := range EngineSwitches {
		value, ok := options[name]
		if !ok {
			if name == "gfm" || name == "tables" {
				out = append(out, i)
			}
			continue
		}
		if enabled, _ := value.(bool); enabled {
			out = append(out, i)
		}
	}
	return out
}
