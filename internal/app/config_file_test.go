package app

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFile_YAML(t *testing.T) {
	t.Parallel()
	path := writeTemp(t, "config.yaml", `
query: election coverage
serpapi:
  key: sk-123
  locale: id
cluster:
  mode: native
store:
  mode: memory
verbose: true
`)
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fc.Query != "election coverage" || fc.SerpAPI.Key != "sk-123" {
		t.Fatalf("unexpected parse: %+v", fc)
	}
	if fc.Cluster.Mode != "native" || fc.Store.Mode != "memory" || !fc.Verbose {
		t.Fatalf("unexpected parse: %+v", fc)
	}
}

func TestLoadConfigFile_JSON(t *testing.T) {
	t.Parallel()
	path := writeTemp(t, "config.json", `{"query":"q","hf":{"key":"hf-1","model":"m"}}`)
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fc.Query != "q" || fc.HF.Key != "hf-1" || fc.HF.Model != "m" {
		t.Fatalf("unexpected parse: %+v", fc)
	}
}

func TestApplyFileConfig_FlagsWin(t *testing.T) {
	t.Parallel()
	cfg := Config{Query: "from flag", SerpAPIKey: "flag-key"}
	fc := FileConfig{Query: "from file"}
	fc.SerpAPI.Key = "file-key"
	fc.SerpAPI.Locale = "id"
	ApplyFileConfig(&cfg, fc)
	if cfg.Query != "from flag" || cfg.SerpAPIKey != "flag-key" {
		t.Fatalf("explicit flags must not be overridden: %+v", cfg)
	}
	if cfg.Locale != "id" {
		t.Fatal("unset fields must come from file config")
	}
}

func TestApplyFileConfig_CrawlKnobs(t *testing.T) {
	t.Parallel()
	var fc FileConfig
	fc.Crawl.Robots = true
	fc.Crawl.Referer = "https://www.bing.com/"
	var cfg Config
	ApplyFileConfig(&cfg, fc)
	if !cfg.RobotsEnabled {
		t.Fatal("crawl.robots must enable the robots gate")
	}
	if cfg.Referer != "https://www.bing.com/" {
		t.Fatalf("crawl.referer not applied: %q", cfg.Referer)
	}
}

func TestApplyEnvToConfig_FillsOnlyUnset(t *testing.T) {
	t.Setenv("SERPAPI_KEY", "env-key")
	t.Setenv("HUGGINGFACE_API_KEY", "env-hf")
	t.Setenv("SKIP_LOOKUP", "true")
	cfg := Config{SerpAPIKey: "explicit"}
	ApplyEnvToConfig(&cfg)
	if cfg.SerpAPIKey != "explicit" {
		t.Fatal("explicit value must win over env")
	}
	if cfg.HFAPIKey != "env-hf" || !cfg.SkipLookup {
		t.Fatalf("env fallback not applied: %+v", cfg)
	}
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()
	valid := Config{Query: "q", SerpAPIKey: "k", HFAPIKey: "h"}
	if err := ValidateConfig(valid); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing query", func(c *Config) { c.Query = " " }},
		{"missing search key", func(c *Config) { c.SerpAPIKey = ""; c.FileSearchPath = "" }},
		{"bad clusterer", func(c *Config) { c.ClustererMode = "magic" }},
		{"bad summarizer", func(c *Config) { c.SummarizerMode = "none" }},
		{"mongo without uri", func(c *Config) { c.StoreMode = StoreMongo }},
		{"openai without model", func(c *Config) { c.SummarizerMode = SummarizerOpenAI; c.LLMModel = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			if err := ValidateConfig(cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
