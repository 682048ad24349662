// Package config loads brain definitions from ~/.cerebra and environment
// defaults from .env. Brain files are YAML validated against a JSON schema
// before use so a corrupt file fails loudly at startup rather than mid-chat.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Brain is one brain definition on disk.
type Brain struct {
	Name   string             `yaml:"name" json:"name"`
	LLM    LLM                `yaml:"llm" json:"llm"`
	Traits map[string]float64 `yaml:"traits,omitempty" json:"traits,omitempty"`
}

// LLM configures the logical self's provider.
type LLM struct {
	Provider    string  `yaml:"provider" json:"provider"`
	Model       string  `yaml:"model" json:"model"`
	APIBase     string  `yaml:"api_base,omitempty" json:"api_base,omitempty"`
	MaxTokens   int     `yaml:"max_tokens,omitempty" json:"max_tokens,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
}

// Provider API bases; a brain file's api_base overrides these.
var providerBases = map[string]string{
	"openrouter": "https://openrouter.ai/api/v1",
	"openai":     "https://api.openai.com/v1",
	"ollama":     "http://localhost:11434/v1",
	"local":      "http://localhost:5000/v1",
}

// APIBase resolves the effective API base for the brain's provider.
func (b *Brain) APIBase() string {
	if b.LLM.APIBase != "" {
		return strings.TrimRight(b.LLM.APIBase, "/")
	}
	if base, ok := providerBases[b.LLM.Provider]; ok {
		return base
	}
	return providerBases["openai"]
}

// brainSchema validates the structural shape of a brain file.
const brainSchema = `{
  "type": "object",
  "required": ["name", "llm"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "llm": {
      "type": "object",
      "required": ["model"],
      "properties": {
        "provider": {"type": "string"},
        "model": {"type": "string", "minLength": 1},
        "api_base": {"type": "string"},
        "max_tokens": {"type": "integer", "minimum": 1},
        "temperature": {"type": "number", "minimum": 0, "maximum": 2}
      }
    },
    "traits": {
      "type": "object",
      "additionalProperties": {"type": "number", "minimum": 0, "maximum": 1}
    }
  }
}`

// Dir returns the cerebra home directory, honoring CEREBRA_HOME.
func Dir() string {
	if dir := os.Getenv("CEREBRA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cerebra"
	}
	return filepath.Join(home, ".cerebra")
}

func brainsDir() string {
	return filepath.Join(Dir(), "brains")
}

// BrainPath returns the file backing the named brain.
func BrainPath(name string) string {
	return filepath.Join(brainsDir(), safeName(name), "brain.yaml")
}

func safeName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	out := strings.Trim(sb.String(), "_")
	if out == "" {
		return "default"
	}
	return out
}

// LoadEnv loads .env into the environment the way the rest of the toolchain
// expects. A missing file is fine; other errors are surfaced.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return fmt.Errorf("config: load .env: %w", err)
		}
	}
	return nil
}

// APIKey returns the provider API key from the environment.
func APIKey() string {
	if key := os.Getenv("CEREBRA_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("OPENAI_API_KEY")
}

// Save writes the brain file, creating directories as needed.
func Save(b *Brain) error {
	if b.Name == "" {
		return errors.New("config: brain name is required")
	}
	path := BrainPath(b.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create brain dir: %w", err)
	}
	data, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("config: encode brain: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write brain: %w", err)
	}
	return nil
}

// Load reads and validates the named brain. An empty name picks the first
// brain on disk.
func Load(name string) (*Brain, error) {
	if name == "" {
		names := List()
		if len(names) == 0 {
			return nil, errors.New("config: no brains configured; run 'cerebra init' first")
		}
		name = names[0]
	}
	path := BrainPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read brain %q: %w", name, err)
	}
	if err := validate(data); err != nil {
		return nil, fmt.Errorf("config: brain %q: %w", name, err)
	}
	var b Brain
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("config: decode brain %q: %w", name, err)
	}
	return &b, nil
}

// validate checks the YAML document against the brain schema.
func validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	jsonDoc, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert to json: %w", err)
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(brainSchema),
		gojsonschema.NewBytesLoader(jsonDoc),
	)
	if err != nil {
		return fmt.Errorf("run schema validation: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("invalid brain file: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// List returns the names of all brains on disk, sorted.
func List() []string {
	entries, err := os.ReadDir(brainsDir())
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(BrainPath(e.Name())); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Export writes the named brain to an export file in the given format
// (json or yaml) and returns the path.
func Export(name, format string) (string, error) {
	b, err := Load(name)
	if err != nil {
		return "", err
	}
	var data []byte
	switch format {
	case "json":
		data, err = json.MarshalIndent(b, "", "  ")
	case "yaml", "yml":
		data, err = yaml.Marshal(b)
	default:
		return "", fmt.Errorf("config: unsupported export format %q", format)
	}
	if err != nil {
		return "", fmt.Errorf("config: encode export: %w", err)
	}
	path := filepath.Join(Dir(), "exports", fmt.Sprintf("%s.%s", safeName(name), format))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("config: create export dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("config: write export: %w", err)
	}
	return path, nil
}
