package app

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.SerpAPIKey == "" {
		cfg.SerpAPIKey = os.Getenv("SERPAPI_KEY")
	}
	if cfg.SearchEngine == "" {
		cfg.SearchEngine = os.Getenv("SERPAPI_ENGINE")
	}
	if cfg.Locale == "" {
		cfg.Locale = os.Getenv("SEARCH_LOCALE")
	}
	if cfg.FileSearchPath == "" {
		cfg.FileSearchPath = os.Getenv("SEARCH_FILE")
	}

	if cfg.HFAPIKey == "" {
		cfg.HFAPIKey = os.Getenv("HUGGINGFACE_API_KEY")
	}
	if cfg.HFModel == "" {
		cfg.HFModel = os.Getenv("HUGGINGFACE_MODEL")
	}
	if cfg.HFBaseURL == "" {
		cfg.HFBaseURL = os.Getenv("HUGGINGFACE_BASE_URL")
	}

	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = os.Getenv("LLM_MODEL")
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = os.Getenv("LLM_API_KEY")
	}

	if cfg.MongoURI == "" {
		// Support both MONGO_URI and DATABASE_URL; prefer MONGO_URI if set
		v := os.Getenv("MONGO_URI")
		if v == "" {
			v = os.Getenv("DATABASE_URL")
		}
		cfg.MongoURI = v
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = os.Getenv("MONGO_DATABASE")
	}

	if cfg.ClusterCommand == "" {
		cfg.ClusterCommand = os.Getenv("CLUSTER_COMMAND")
	}

	if cfg.Referer == "" {
		cfg.Referer = os.Getenv("CRAWL_REFERER")
	}

	if cfg.MaxCandidates == 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("MAX_URLS"))); err == nil && n > 0 {
			cfg.MaxCandidates = n
		}
	}

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		switch strings.ToLower(strings.TrimSpace(os.Getenv(envKey))) {
		case "1", "true", "yes", "on":
			*dst = true
		}
	}
	setBool(&cfg.SkipLookup, "SKIP_LOOKUP")
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.DisableDelay, "CRAWL_NO_DELAY")
	setBool(&cfg.RobotsEnabled, "CRAWL_ROBOTS")
}
