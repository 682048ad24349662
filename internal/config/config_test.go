package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("CEREBRA_HOME", t.TempDir())

	in := &Brain{
		Name: "mother",
		LLM: LLM{
			Provider:    "openrouter",
			Model:       "deepseek/deepseek-chat",
			MaxTokens:   4096,
			Temperature: 0.8,
		},
		Traits: map[string]float64{"curious": 0.9},
	}
	require.NoError(t, Save(in))

	out, err := Load("mother")
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestLoadEmptyNamePicksFirstBrain(t *testing.T) {
	t.Setenv("CEREBRA_HOME", t.TempDir())

	require.NoError(t, Save(&Brain{Name: "zeta", LLM: LLM{Provider: "openai", Model: "gpt-4o"}}))
	require.NoError(t, Save(&Brain{Name: "alpha", LLM: LLM{Provider: "openai", Model: "gpt-4o"}}))

	b, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "alpha", b.Name, "brains are picked in sorted order")
}

func TestLoadWithoutAnyBrains(t *testing.T) {
	t.Setenv("CEREBRA_HOME", t.TempDir())

	_, err := Load("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no brains configured")
}

func TestLoadRejectsInvalidBrainFile(t *testing.T) {
	t.Setenv("CEREBRA_HOME", t.TempDir())

	path := BrainPath("broken")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	// model is required and temperature is out of range
	require.NoError(t, os.WriteFile(path, []byte("name: broken\nllm:\n  provider: openai\n  temperature: 9\n"), 0o644))

	_, err := Load("broken")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid brain file")
}

func TestListReturnsSortedBrains(t *testing.T) {
	t.Setenv("CEREBRA_HOME", t.TempDir())

	require.Empty(t, List())
	for _, name := range []string{"charlie", "alpha", "bravo"} {
		require.NoError(t, Save(&Brain{Name: name, LLM: LLM{Model: "m"}}))
	}
	// a directory without a brain file is not a brain
	require.NoError(t, os.MkdirAll(filepath.Join(Dir(), "brains", "empty"), 0o755))

	require.Equal(t, []string{"alpha", "bravo", "charlie"}, List())
}

func TestAPIBaseResolution(t *testing.T) {
	t.Parallel()

	cases := []struct {
		brain Brain
		want  string
	}{
		{Brain{LLM: LLM{Provider: "openrouter"}}, "https://openrouter.ai/api/v1"},
		{Brain{LLM: LLM{Provider: "ollama"}}, "http://localhost:11434/v1"},
		{Brain{LLM: LLM{Provider: "unknown"}}, "https://api.openai.com/v1"},
		{Brain{LLM: LLM{Provider: "openai", APIBase: "https://proxy.example/v1/"}}, "https://proxy.example/v1"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, tc.brain.APIBase(), tc.brain.LLM.Provider)
	}
}

func TestSafeNameSanitizesPathCharacters(t *testing.T) {
	t.Parallel()

	require.Equal(t, "my-brain_2", safeName("my-brain_2"))
	require.Equal(t, "a_b", safeName("a/b"))
	require.Equal(t, "default", safeName("../.."))
}

func TestAPIKeyPrefersCerebraKey(t *testing.T) {
	t.Setenv("CEREBRA_API_KEY", "cereb-key")
	t.Setenv("OPENAI_API_KEY", "openai-key")
	require.Equal(t, "cereb-key", APIKey())

	t.Setenv("CEREBRA_API_KEY", "")
	require.Equal(t, "openai-key", APIKey())
}

func TestExportFormats(t *testing.T) {
	t.Setenv("CEREBRA_HOME", t.TempDir())

	require.NoError(t, Save(&Brain{Name: "mother", LLM: LLM{Provider: "openai", Model: "gpt-4o"}}))

	jsonPath, err := Export("mother", "json")
	require.NoError(t, err)
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "{"))
	require.Contains(t, string(data), `"model": "gpt-4o"`)

	yamlPath, err := Export("mother", "yaml")
	require.NoError(t, err)
	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "model: gpt-4o")

	_, err = Export("mother", "toml")
	require.Error(t, err)
}
