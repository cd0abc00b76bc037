package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/goperspective/internal/cluster"
	"github.com/hyperifyio/goperspective/internal/llm"
	"github.com/hyperifyio/goperspective/internal/pipeline"
	"github.com/hyperifyio/goperspective/internal/robots"
	"github.com/hyperifyio/goperspective/internal/scrape"
	"github.com/hyperifyio/goperspective/internal/search"
	"github.com/hyperifyio/goperspective/internal/store"
	"github.com/hyperifyio/goperspective/internal/summarize"
)

// crawlerIdent is the identity presented to robots.txt when the gate is on.
const crawlerIdent = "goperspective/1.0 (+https://github.com/hyperifyio/goperspective)"

// App owns the wired pipeline and the artifact writing around one run.
type App struct {
	cfg      Config
	pipeline *pipeline.Pipeline
	store    store.TopicStore
}

// New validates cfg and wires every collaborator. The store connection is the
// only part that can fail here; everything else is lazy until Run.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	topicStore, err := newStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	clusterer, err := newClusterer(cfg)
	if err != nil {
		_ = topicStore.Close(ctx)
		return nil, err
	}

	var robotsManager *robots.Manager
	if cfg.RobotsEnabled {
		robotsManager = &robots.Manager{UserAgent: crawlerIdent}
	}
	crawler := &scrape.Crawler{
		Client: &scrape.Client{
			Referer: cfg.Referer,
			Robots:  robotsManager,
		},
		Concurrency:  cfg.Concurrency,
		DisableDelay: cfg.DisableDelay,
	}

	a := &App{
		cfg:   cfg,
		store: topicStore,
		pipeline: &pipeline.Pipeline{
			Search:        newSearchProvider(cfg),
			Crawler:       crawler,
			Clusterer:     clusterer,
			Summarizer:    newSummarizer(cfg),
			Store:         topicStore,
			SearchLimit:   cfg.SearchLimit,
			MaxCandidates: cfg.MaxCandidates,
			SkipLookup:    cfg.SkipLookup,
		},
	}
	return a, nil
}

// Close releases the store connection.
func (a *App) Close(ctx context.Context) {
	if a.store != nil {
		if err := a.store.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("store close failed")
		}
	}
}

// Run executes the pipeline for the configured query and writes the Markdown
// report (and optional PDF). A persistence failure is reported but does not
// discard the computed topic; the report is still written.
func (a *App) Run(ctx context.Context) error {
	started := time.Now()
	topic, err := a.pipeline.Run(ctx, a.cfg.Query)
	if err != nil {
		var perr *pipeline.Error
		if topic != nil && errors.As(err, &perr) && perr.Stage == pipeline.StagePersist {
			log.Warn().Err(err).Msg("topic computed but not persisted")
		} else {
			return err
		}
	}
	log.Info().
		Dur("elapsed", time.Since(started)).
		Int("perspectives", len(topic.Perspectives)).
		Msg("pipeline finished")

	report := RenderMarkdown(topic)
	if err := os.WriteFile(a.cfg.OutputPath, []byte(report), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("out", a.cfg.OutputPath).Msg("wrote topic report")

	if a.cfg.OutputPDF != "" {
		if err := writeTopicPDF(report, a.cfg.OutputPDF); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("out", a.cfg.OutputPDF).Msg("wrote PDF report")
	}
	return nil
}

func newSearchProvider(cfg Config) search.Provider {
	if cfg.FileSearchPath != "" {
		return &search.FileProvider{Path: cfg.FileSearchPath}
	}
	return &search.SerpAPI{
		APIKey: cfg.SerpAPIKey,
		Engine: cfg.SearchEngine,
		Locale: cfg.Locale,
	}
}

func newClusterer(cfg Config) (cluster.Clusterer, error) {
	switch cfg.ClustererMode {
	case "", ClustererSubprocess:
		command := strings.Fields(cfg.ClusterCommand)
		if len(command) == 0 {
			command = []string{"clusterd"}
		}
		return &cluster.Subprocess{Command: command}, nil
	case ClustererNative:
		return &cluster.TFIDF{K: cfg.MaxClusters}, nil
	case ClustererLLM:
		return &cluster.LLM{
			Client:      newLLMClient(cfg),
			Model:       cfg.LLMModel,
			MaxClusters: cfg.MaxClusters,
		}, nil
	default:
		return nil, fmt.Errorf("unknown clusterer mode %q", cfg.ClustererMode)
	}
}

func newSummarizer(cfg Config) summarize.Summarizer {
	if cfg.SummarizerMode == SummarizerOpenAI {
		return &summarize.OpenAI{Client: newLLMClient(cfg), Model: cfg.LLMModel}
	}
	return &summarize.HuggingFace{
		APIKey:  cfg.HFAPIKey,
		Model:   cfg.HFModel,
		BaseURL: cfg.HFBaseURL,
	}
}

func newLLMClient(cfg Config) llm.Client {
	transportCfg := openai.DefaultConfig(cfg.LLMAPIKey)
	if cfg.LLMBaseURL != "" {
		transportCfg.BaseURL = cfg.LLMBaseURL
	}
	transportCfg.HTTPClient = &http.Client{Timeout: 120 * time.Second}
	return &llm.OpenAIProvider{Inner: openai.NewClientWithConfig(transportCfg)}
}

func newStore(ctx context.Context, cfg Config) (store.TopicStore, error) {
	if cfg.StoreMode == StoreMongo {
		database := cfg.MongoDatabase
		if database == "" {
			database = "goperspective"
		}
		return store.NewMongoStore(ctx, cfg.MongoURI, database)
	}
	return store.NewMemoryStore(), nil
}
