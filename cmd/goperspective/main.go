package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goperspective/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		query          string
		outputPath     string
		outputPDF      string
		configPath     string
		envFile        string
		serpKey        string
		serpEngine     string
		locale         string
		fileSearchPath string
		searchLimit    int
		maxURLs        int
		concurrency    int
		noDelay        bool
		useRobots      bool
		referer        string
		clusterMode    string
		clusterCommand string
		maxClusters    int
		summarizeMode  string
		hfKey          string
		hfModel        string
		hfBase         string
		llmBaseURL     string
		llmModel       string
		llmKey         string
		storeMode      string
		mongoURI       string
		mongoDatabase  string
		skipLookup     bool
		verbose        bool
	)

	flag.StringVar(&query, "query", "", "Search query to research (min 2 characters)")
	flag.StringVar(&outputPath, "output", "topic.md", "Path to write the Markdown topic report")
	flag.StringVar(&outputPDF, "output.pdf", "", "Optional path to also write a PDF report")
	flag.StringVar(&configPath, "config", "", "Optional YAML/JSON config file")
	flag.StringVar(&envFile, "env.file", ".env", "Dotenv file to load before reading environment")
	flag.StringVar(&serpKey, "serpapi.key", "", "SerpAPI key")
	flag.StringVar(&serpEngine, "serpapi.engine", "", "SerpAPI engine (default google)")
	flag.StringVar(&locale, "lang", "", "Optional locale hint for search, e.g. 'id' or 'en-US'")
	flag.StringVar(&fileSearchPath, "search.file", "", "Path to JSON file for offline file-based search provider")
	flag.IntVar(&searchLimit, "search.limit", 0, "Results to request from the search provider (default 15)")
	flag.IntVar(&maxURLs, "crawl.maxURLs", 0, "Maximum URLs to crawl after filtering (default 10)")
	flag.IntVar(&concurrency, "crawl.concurrency", 0, "Parallel fetches per crawl chunk (default 3)")
	flag.BoolVar(&noDelay, "crawl.noDelay", false, "Skip the politeness delay between crawl chunks")
	flag.BoolVar(&useRobots, "crawl.robots", false, "Honor robots.txt before fetching (off by default)")
	flag.StringVar(&referer, "crawl.referer", "", "Referer header to send on fetches (default a search engine)")
	flag.StringVar(&clusterMode, "cluster.mode", "", "Clusterer: subprocess, native or llm (default subprocess)")
	flag.StringVar(&clusterCommand, "cluster.command", "", "Command line for the subprocess clusterer (default clusterd)")
	flag.IntVar(&maxClusters, "cluster.max", 0, "Maximum perspectives (default 3)")
	flag.StringVar(&summarizeMode, "summarize.mode", "", "Summarizer: hf or openai (default hf)")
	flag.StringVar(&hfKey, "hf.key", "", "Hugging Face API key")
	flag.StringVar(&hfModel, "hf.model", "", "Hugging Face summarization model")
	flag.StringVar(&hfBase, "hf.base", "", "Override Hugging Face inference URL")
	flag.StringVar(&llmBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	flag.StringVar(&llmModel, "llm.model", "", "Model name for llm clustering/summarization")
	flag.StringVar(&llmKey, "llm.key", "", "API key for OpenAI-compatible server")
	flag.StringVar(&storeMode, "store.mode", "", "Topic store: mongo or memory (default memory)")
	flag.StringVar(&mongoURI, "mongo.uri", "", "MongoDB connection URI")
	flag.StringVar(&mongoDatabase, "mongo.database", "", "MongoDB database name (default goperspective)")
	flag.BoolVar(&skipLookup, "skip-lookup", false, "Always run fresh, ignoring stored topics for this query")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if query == "" && flag.NArg() > 0 {
		query = flag.Arg(0)
	}

	if err := app.LoadEnvFile(envFile); err != nil {
		log.Warn().Err(err).Str("file", envFile).Msg("env file load failed")
	}

	cfg := app.Config{
		Query:          query,
		OutputPath:     outputPath,
		OutputPDF:      outputPDF,
		SerpAPIKey:     serpKey,
		SearchEngine:   serpEngine,
		Locale:         locale,
		FileSearchPath: fileSearchPath,
		SearchLimit:    searchLimit,
		MaxCandidates:  maxURLs,
		Concurrency:    concurrency,
		DisableDelay:   noDelay,
		RobotsEnabled:  useRobots,
		Referer:        referer,
		ClustererMode:  clusterMode,
		ClusterCommand: clusterCommand,
		MaxClusters:    maxClusters,
		SummarizerMode: summarizeMode,
		HFAPIKey:       hfKey,
		HFModel:        hfModel,
		HFBaseURL:      hfBase,
		LLMBaseURL:     llmBaseURL,
		LLMModel:       llmModel,
		LLMAPIKey:      llmKey,
		StoreMode:      storeMode,
		MongoURI:       mongoURI,
		MongoDatabase:  mongoDatabase,
		SkipLookup:     skipLookup,
		Verbose:        verbose,
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(2)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvToConfig(&cfg)

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		os.Exit(2)
	}
	defer a.Close(context.Background())

	if err := a.Run(ctx); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(2)
	}
}
