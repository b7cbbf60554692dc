package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-mdrender/pkg/keypath"
)

// DefaultWildcard is the token used when wildcard is set to true.
const DefaultWildcard = "*"

// Keys lists the keypaths rendered per document (Files) and in the shared
// metadata tree (Global). Each entry is a dot-delimited string or a list of
// strings.
type Keys struct {
	Files  []any `json:"files,omitempty" yaml:"files,omitempty"`
	Global []any `json:"global,omitempty" yaml:"global,omitempty"`
}

type keysObject struct {
	Files  []any `json:"files" yaml:"files"`
	Global []any `json:"global" yaml:"global"`
}

// Empty reports whether no keypaths are configured.
func (k Keys) Empty() bool {
	return len(k.Files) == 0 && len(k.Global) == 0
}

// Validate checks every keypath shape.
func (k Keys) Validate() error {
	if _, err := keypath.NormalizeAll(k.Files); err != nil {
		return fmt.Errorf("config: keys.files: %w", err)
	}
	if _, err := keypath.NormalizeAll(k.Global); err != nil {
		return fmt.Errorf("config: keys.global: %w", err)
	}
	return nil
}

// UnmarshalJSON accepts a list (document keys) or a {files, global} object.
func (k *Keys) UnmarshalJSON(data []byte) error {
	var list []any
	if err := json.Unmarshal(data, &list); err == nil {
		*k = Keys{Files: list}
		return nil
	}
	var obj keysObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("config: keys must be a list or an object with files and global: %w", err)
	}
	*k = Keys(obj)
	return nil
}

// UnmarshalYAML accepts a sequence (document keys) or a mapping.
func (k *Keys) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []any
		if err := node.Decode(&list); err != nil {
			return err
		}
		*k = Keys{Files: list}
		return nil
	case yaml.MappingNode:
		var obj keysObject
		if err := node.Decode(&obj); err != nil {
			return err
		}
		*k = Keys(obj)
		return nil
	default:
		return fmt.Errorf("config: line %d: keys must be a list or a mapping", node.Line)
	}
}

// MarshalYAML writes the short list form when only document keys are set.
func (k Keys) MarshalYAML() (any, error) {
	if len(k.Global) == 0 {
		return k.Files, nil
	}
	return keysObject(k), nil
}

// Wildcard holds the expansion token. An empty token disables expansion.
type Wildcard struct {
	Token string
}

// Enabled reports whether expansion is on.
func (w Wildcard) Enabled() bool {
	return w.Token != ""
}

func (w *Wildcard) set(value any) error {
	switch v := value.(type) {
	case nil:
		w.Token = ""
	case bool:
		w.Token = ""
		if v {
			w.Token = DefaultWildcard
		}
	case string:
		w.Token = v
	default:
		return fmt.Errorf("config: wildcard must be a boolean or a string, got %T", value)
	}
	return nil
}

// UnmarshalJSON accepts a boolean or a token string.
func (w *Wildcard) UnmarshalJSON(data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	return w.set(value)
}

// UnmarshalYAML accepts a boolean or a token string.
func (w *Wildcard) UnmarshalYAML(node *yaml.Node) error {
	var value any
	if err := node.Decode(&value); err != nil {
		return err
	}
	return w.set(value)
}

// MarshalYAML writes true for the default token and the token otherwise.
func (w Wildcard) MarshalYAML() (any, error) {
	switch w.Token {
	case "":
		return false, nil
	case DefaultWildcard:
		return true, nil
	default:
		return w.Token, nil
	}
}

// GlobalRefs is either an inline reference map or a keypath resolved against
// the metadata tree at processing time.
type GlobalRefs struct {
	Refs map[string]string
	Path string
}

// IsPath reports whether the references come from metadata.
func (g GlobalRefs) IsPath() bool {
	return g.Path != ""
}

func (g *GlobalRefs) set(value any) error {
	switch v := value.(type) {
	case nil:
		*g = GlobalRefs{}
	case string:
		*g = GlobalRefs{Path: v}
	case map[string]any:
		refs := make(map[string]string, len(v))
		for name, ref := range v {
			str, ok := ref.(string)
			if !ok {
				return fmt.Errorf("config: globalRefs.%s must be a string, got %T", name, ref)
			}
			refs[name] = str
		}
		*g = GlobalRefs{Refs: refs}
	default:
		return fmt.Errorf("config: globalRefs must be an object or a keypath string, got %T", value)
	}
	return nil
}

// UnmarshalJSON accepts an object of strings or a keypath string.
func (g *GlobalRefs) UnmarshalJSON(data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	return g.set(value)
}

// UnmarshalYAML accepts a mapping of strings or a keypath string.
func (g *GlobalRefs) UnmarshalYAML(node *yaml.Node) error {
	var value any
	if err := node.Decode(&value); err != nil {
		return err
	}
	return g.set(value)
}

// MarshalYAML writes the keypath or the reference map.
func (g GlobalRefs) MarshalYAML() (any, error) {
	if g.Path != "" {
		return g.Path, nil
	}
	if len(g.Refs) == 0 {
		return nil, nil
	}
	return g.Refs, nil
}
