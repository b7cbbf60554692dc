package config

import (
	"strings"

	"go.uber.org/zap"
)

// LegacyEngineOptions are the top-level options of the marked-based releases
// that now belong in engineOptions.
var LegacyEngineOptions = []string{
	"baseUrl",
	"breaks",
	"gfm",
	"headerIds",
	"headerPrefix",
	"highlight",
	"langPrefix",
	"mangle",
	"pedantic",
	"sanitize",
	"sanitizer",
	"silent",
	"smartLists",
	"smartypants",
	"tokenizer",
	"walkTokens",
	"xhtml",
}

// MigrateLegacy moves legacy top-level options of raw into
// raw["engineOptions"] and returns the moved names. A legacy value replaces
// an engineOptions entry of the same name.
func MigrateLegacy(raw map[string]any, logger *zap.Logger) []string {
	if logger == nil {
		logger = zap.NewNop()
	}

	var moved []string
	for _, name := range LegacyEngineOptions {
		if _, ok := raw[name]; ok {
			moved = append(moved, name)
		}
	}
	if len(moved) == 0 {
		return nil
	}

	logger.Warn("Starting from version 2.0 marked engine options will need to be specified as options.engineOptions")

	engine, _ := raw["engineOptions"].(map[string]any)
	if engine == nil {
		engine = map[string]any{}
	}
	for _, name := range moved {
		engine[name] = raw[name]
		delete(raw, name)
	}
	raw["engineOptions"] = engine

	logger.Warn("Moved engine options " + strings.Join(moved, ", ") + " to options.engineOptions")
	return moved
}
