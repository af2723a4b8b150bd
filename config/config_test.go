package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestReferenceTimeFallsBackToConferenceDefault(t *testing.T) {
	cases := []struct {
		name string
		cfg  ConferenceConfig
		want time.Time
	}{
		{
			"explicit date",
			ConferenceConfig{Year: 2025, ReferenceDate: "2025-12-01"},
			time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"unset date",
			ConferenceConfig{Year: 2025},
			time.Date(2025, time.June, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			"malformed date",
			ConferenceConfig{Year: 2026, ReferenceDate: "June 11th"},
			time.Date(2026, time.June, 11, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.ReferenceTime(); !got.Equal(tc.want) {
				t.Errorf("ReferenceTime() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{
		"llm": {"api_key": "file-key", "model": "gpt-4o-mini"},
		"conference": {"search_url": "http://search.local/api/query"}
	}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFPLANNER_CONFERENCE_NAME", "DevConf")
	t.Setenv("CONFPLANNER_CONFERENCE_REFERENCE_DATE", "2025-06-12")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.APIKey != "file-key" || cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("llm = %+v", cfg.LLM)
	}
	if cfg.Conference.Name != "DevConf" {
		t.Errorf("conference.name = %q, env override lost", cfg.Conference.Name)
	}
	if got := cfg.Conference.ReferenceTime(); got != time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC) {
		t.Errorf("reference time = %s", got)
	}
	// untouched keys keep their defaults
	if cfg.LLM.MaxTokens != 2048 || cfg.LLM.Temperature != 0.7 {
		t.Errorf("defaults lost: %+v", cfg.LLM)
	}
	if cfg.Conference.SearchTimeout != 30*time.Second {
		t.Errorf("search_timeout = %s", cfg.Conference.SearchTimeout)
	}
}

func TestLoadRequiresSearchURL(t *testing.T) {
	t.Setenv("CONFPLANNER_LLM_API_KEY", "k")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("CONFPLANNER_CONFERENCE_SEARCH_URL", "")

	if _, err := Load(""); err == nil {
		t.Fatal("expected search_url validation error")
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("CONFPLANNER_LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("CONFPLANNER_CONFERENCE_SEARCH_URL", "http://search.local/api/query")

	if _, err := Load(""); err == nil {
		t.Fatal("expected api key validation error")
	}
}

func TestLoadFallsBackToOpenAIKeyEnv(t *testing.T) {
	t.Setenv("CONFPLANNER_LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-fallback")
	t.Setenv("CONFPLANNER_CONFERENCE_SEARCH_URL", "http://search.local/api/query")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.APIKey != "sk-fallback" {
		t.Errorf("api key = %q", cfg.LLM.APIKey)
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
