package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested sections
// map naturally onto the flag namespace.
type FileConfig struct {
	Query     string `yaml:"query" json:"query"`
	Output    string `yaml:"output" json:"output"`
	OutputPDF string `yaml:"outputPDF" json:"outputPDF"`

	SerpAPI struct {
		Key    string `yaml:"key" json:"key"`
		Engine string `yaml:"engine" json:"engine"`
		Locale string `yaml:"locale" json:"locale"`
	} `yaml:"serpapi" json:"serpapi"`

	Search struct {
		File  string `yaml:"file" json:"file"`
		Limit int    `yaml:"limit" json:"limit"`
	} `yaml:"search" json:"search"`

	Crawl struct {
		MaxURLs     int    `yaml:"maxURLs" json:"maxURLs"`
		Concurrency int    `yaml:"concurrency" json:"concurrency"`
		NoDelay     bool   `yaml:"noDelay" json:"noDelay"`
		Robots      bool   `yaml:"robots" json:"robots"`
		Referer     string `yaml:"referer" json:"referer"`
	} `yaml:"crawl" json:"crawl"`

	Cluster struct {
		Mode    string `yaml:"mode" json:"mode"`
		Command string `yaml:"command" json:"command"`
		Max     int    `yaml:"max" json:"max"`
	} `yaml:"cluster" json:"cluster"`

	Summarize struct {
		Mode string `yaml:"mode" json:"mode"`
	} `yaml:"summarize" json:"summarize"`

	HF struct {
		Key   string `yaml:"key" json:"key"`
		Model string `yaml:"model" json:"model"`
		Base  string `yaml:"base" json:"base"`
	} `yaml:"hf" json:"hf"`

	LLM struct {
		BaseURL string `yaml:"base" json:"base"`
		Model   string `yaml:"model" json:"model"`
		APIKey  string `yaml:"key" json:"key"`
	} `yaml:"llm" json:"llm"`

	Store struct {
		Mode     string `yaml:"mode" json:"mode"`
		URI      string `yaml:"uri" json:"uri"`
		Database string `yaml:"database" json:"database"`
	} `yaml:"store" json:"store"`

	SkipLookup bool `yaml:"skipLookup" json:"skipLookup"`
	Verbose    bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset/zero in cfg. Flags should already have been parsed; this
// lets file config supply defaults while preserving explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	const outputDefault = "topic.md"

	if cfg.Query == "" && fc.Query != "" {
		cfg.Query = fc.Query
	}
	if (cfg.OutputPath == "" || cfg.OutputPath == outputDefault) && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if cfg.OutputPDF == "" && fc.OutputPDF != "" {
		cfg.OutputPDF = fc.OutputPDF
	}

	if cfg.SerpAPIKey == "" && fc.SerpAPI.Key != "" {
		cfg.SerpAPIKey = fc.SerpAPI.Key
	}
	if cfg.SearchEngine == "" && fc.SerpAPI.Engine != "" {
		cfg.SearchEngine = fc.SerpAPI.Engine
	}
	if cfg.Locale == "" && fc.SerpAPI.Locale != "" {
		cfg.Locale = fc.SerpAPI.Locale
	}
	if cfg.FileSearchPath == "" && fc.Search.File != "" {
		cfg.FileSearchPath = fc.Search.File
	}
	if cfg.SearchLimit == 0 && fc.Search.Limit > 0 {
		cfg.SearchLimit = fc.Search.Limit
	}

	if cfg.MaxCandidates == 0 && fc.Crawl.MaxURLs > 0 {
		cfg.MaxCandidates = fc.Crawl.MaxURLs
	}
	if cfg.Concurrency == 0 && fc.Crawl.Concurrency > 0 {
		cfg.Concurrency = fc.Crawl.Concurrency
	}
	if !cfg.DisableDelay && fc.Crawl.NoDelay {
		cfg.DisableDelay = true
	}
	if !cfg.RobotsEnabled && fc.Crawl.Robots {
		cfg.RobotsEnabled = true
	}
	if cfg.Referer == "" && fc.Crawl.Referer != "" {
		cfg.Referer = fc.Crawl.Referer
	}

	if cfg.ClustererMode == "" && fc.Cluster.Mode != "" {
		cfg.ClustererMode = fc.Cluster.Mode
	}
	if cfg.ClusterCommand == "" && fc.Cluster.Command != "" {
		cfg.ClusterCommand = fc.Cluster.Command
	}
	if cfg.MaxClusters == 0 && fc.Cluster.Max > 0 {
		cfg.MaxClusters = fc.Cluster.Max
	}

	if cfg.SummarizerMode == "" && fc.Summarize.Mode != "" {
		cfg.SummarizerMode = fc.Summarize.Mode
	}
	if cfg.HFAPIKey == "" && fc.HF.Key != "" {
		cfg.HFAPIKey = fc.HF.Key
	}
	if cfg.HFModel == "" && fc.HF.Model != "" {
		cfg.HFModel = fc.HF.Model
	}
	if cfg.HFBaseURL == "" && fc.HF.Base != "" {
		cfg.HFBaseURL = fc.HF.Base
	}
	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}

	if cfg.StoreMode == "" && fc.Store.Mode != "" {
		cfg.StoreMode = fc.Store.Mode
	}
	if cfg.MongoURI == "" && fc.Store.URI != "" {
		cfg.MongoURI = fc.Store.URI
	}
	if cfg.MongoDatabase == "" && fc.Store.Database != "" {
		cfg.MongoDatabase = fc.Store.Database
	}

	if !cfg.SkipLookup && fc.SkipLookup {
		cfg.SkipLookup = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
