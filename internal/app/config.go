package app

import (
	"errors"
	"strings"
)

// Clusterer and summarizer mode names accepted by Config.
const (
	ClustererSubprocess = "subprocess"
	ClustererNative     = "native"
	ClustererLLM        = "llm"

	SummarizerHuggingFace = "hf"
	SummarizerOpenAI      = "openai"

	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config holds runtime configuration for the application.
type Config struct {
	Query      string
	OutputPath string
	OutputPDF  string

	// Search
	SerpAPIKey     string
	SearchEngine   string
	Locale         string
	FileSearchPath string
	SearchLimit    int
	MaxCandidates  int

	// Crawl
	Concurrency  int
	DisableDelay bool
	Referer      string
	// RobotsEnabled gates fetches on robots.txt. Off by default: the crawler
	// presents browser headers and fetches the way a browser would.
	RobotsEnabled bool

	// Clustering
	ClustererMode  string
	ClusterCommand string
	MaxClusters    int

	// Summarization
	SummarizerMode string
	HFAPIKey       string
	HFModel        string
	HFBaseURL      string
	LLMBaseURL     string
	LLMModel       string
	LLMAPIKey      string

	// Persistence
	StoreMode     string
	MongoURI      string
	MongoDatabase string
	SkipLookup    bool

	// Behavior
	Verbose bool
}

// ValidateConfig performs minimal schema validation for required settings
// before any network work starts.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Query) == "" {
		return errors.New("config: query is required")
	}
	if strings.TrimSpace(cfg.SerpAPIKey) == "" && strings.TrimSpace(cfg.FileSearchPath) == "" {
		return errors.New("config: serpapi.key is required (or set SERPAPI_KEY, or use search.file)")
	}
	switch cfg.ClustererMode {
	case "", ClustererSubprocess, ClustererNative, ClustererLLM:
	default:
		return errors.New("config: cluster.mode must be subprocess, native or llm")
	}
	switch cfg.SummarizerMode {
	case "", SummarizerHuggingFace, SummarizerOpenAI:
	default:
		return errors.New("config: summarize.mode must be hf or openai")
	}
	switch cfg.SummarizerMode {
	case "", SummarizerHuggingFace:
		if strings.TrimSpace(cfg.HFAPIKey) == "" && strings.TrimSpace(cfg.HFBaseURL) == "" {
			return errors.New("config: hf.key is required (or set HUGGINGFACE_API_KEY)")
		}
	case SummarizerOpenAI:
		if strings.TrimSpace(cfg.LLMModel) == "" {
			return errors.New("config: llm.model is required (or set LLM_MODEL)")
		}
	}
	switch cfg.StoreMode {
	case "", StoreMemory, StoreMongo:
	default:
		return errors.New("config: store.mode must be mongo or memory")
	}
	if cfg.StoreMode == StoreMongo && strings.TrimSpace(cfg.MongoURI) == "" {
		return errors.New("config: mongo.uri is required when store.mode is mongo")
	}
	if cfg.SearchLimit < 0 || cfg.MaxCandidates < 0 || cfg.Concurrency < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	return nil
}
