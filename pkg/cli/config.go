package cli

import (
	"context"
	"os"

	"github.com/consilium-med/consilium/pkg/adapter"
	"github.com/consilium-med/consilium/pkg/agents"
	"github.com/consilium-med/consilium/pkg/repository"
	"github.com/consilium-med/consilium/pkg/usecase/memory"
	"github.com/consilium-med/consilium/pkg/usecase/pipeline"
	"github.com/consilium-med/consilium/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const (
	backendMemory    = "memory"
	backendFirestore = "firestore"
)

// config holds configuration values
type config struct {
	logLevel string

	// Vector index backend
	backend    string
	project    string
	database   string
	collection string

	// Retrieval
	topK      int64
	threshold float64

	// Agents
	agentsFile string

	// Adapters
	geminiProject   string
	geminiLocation  string
	geminiModel     string
	embeddingModel  string
	anthropicAPIKey string
	openaiAPIKey    string
	openaiBaseURL   string
	openaiModel     string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("CONSILIUM_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "backend",
			Aliases:     []string{"b"},
			Usage:       "Vector index backend (memory or firestore)",
			Value:       backendMemory,
			Sources:     cli.EnvVars("CONSILIUM_BACKEND"),
			Destination: &cfg.backend,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "collection",
			Usage:       "Firestore collection for document vectors",
			Value:       "documents",
			Sources:     cli.EnvVars("CONSILIUM_COLLECTION"),
			Destination: &cfg.collection,
		},
		&cli.IntFlag{
			Name:        "top-k",
			Aliases:     []string{"k"},
			Usage:       "Documents retrieved per query",
			Value:       5,
			Sources:     cli.EnvVars("CONSILIUM_TOP_K"),
			Destination: &cfg.topK,
		},
		&cli.FloatFlag{
			Name:        "threshold",
			Aliases:     []string{"t"},
			Usage:       "Minimum similarity score for retrieved documents (0.0-1.0)",
			Value:       0.7,
			Sources:     cli.EnvVars("CONSILIUM_THRESHOLD"),
			Destination: &cfg.threshold,
		},
		&cli.StringFlag{
			Name:        "agents-file",
			Usage:       "YAML file overriding the built-in agent roster",
			Sources:     cli.EnvVars("CONSILIUM_AGENTS_FILE"),
			Destination: &cfg.agentsFile,
		},
	}
}

// llmFlags returns flags for model provider configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini generative model",
			Value:       "gemini-2.5-flash",
			Sources:     cli.EnvVars("GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
		&cli.StringFlag{
			Name:        "embedding-model",
			Usage:       "Gemini embedding model",
			Value:       "gemini-embedding-001",
			Sources:     cli.EnvVars("CONSILIUM_EMBEDDING_MODEL"),
			Destination: &cfg.embeddingModel,
		},
		&cli.StringFlag{
			Name:        "anthropic-api-key",
			Usage:       "Anthropic API key (enables the claude model reference)",
			Sources:     cli.EnvVars("ANTHROPIC_API_KEY"),
			Destination: &cfg.anthropicAPIKey,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "API key for OpenAI-compatible endpoints (enables the openai model reference)",
			Sources:     cli.EnvVars("OPENAI_API_KEY"),
			Destination: &cfg.openaiAPIKey,
		},
		&cli.StringFlag{
			Name:        "openai-base-url",
			Usage:       "Base URL of an OpenAI-compatible endpoint (e.g. Groq)",
			Sources:     cli.EnvVars("OPENAI_BASE_URL"),
			Destination: &cfg.openaiBaseURL,
		},
		&cli.StringFlag{
			Name:        "openai-model",
			Usage:       "Model name for the OpenAI-compatible endpoint",
			Value:       "gpt-4o-mini",
			Sources:     cli.EnvVars("OPENAI_MODEL"),
			Destination: &cfg.openaiModel,
		},
	}
}

// setupLogger installs the configured logger as default and attaches it to
// the context.
func (cfg *config) setupLogger(ctx context.Context) context.Context {
	logger := logging.New(cfg.logLevel, os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}

// newIndex creates the configured vector index backend
func (cfg *config) newIndex(ctx context.Context) (repository.VectorIndex, error) {
	switch cfg.backend {
	case backendMemory:
		return repository.NewMemory(), nil

	case backendFirestore:
		if cfg.project == "" {
			return nil, goerr.New("project is required for the firestore backend")
		}
		if cfg.database == "" {
			return nil, goerr.New("database is required for the firestore backend")
		}
		index, err := repository.NewFirestore(ctx, cfg.project, cfg.database, cfg.collection)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create firestore index")
		}
		return index, nil

	default:
		return nil, goerr.New("unknown backend", goerr.V("backend", cfg.backend))
	}
}

// newGemini creates a new Gemini adapter instance
func (cfg *config) newGemini(ctx context.Context) (*adapter.GeminiClient, error) {
	if cfg.geminiProject == "" {
		return nil, goerr.New("gemini-project is required")
	}
	if cfg.geminiLocation == "" {
		return nil, goerr.New("gemini-location is required")
	}
	return adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation,
		adapter.WithGenerativeModel(cfg.geminiModel),
		adapter.WithEmbeddingModel(cfg.embeddingModel),
	)
}

// newMemory creates the document memory backed by the configured index
func (cfg *config) newMemory(ctx context.Context) (*memory.UseCase, error) {
	index, err := cfg.newIndex(ctx)
	if err != nil {
		return nil, err
	}
	gemini, err := cfg.newGemini(ctx)
	if err != nil {
		return nil, err
	}
	return memory.New(index, gemini), nil
}

// generators maps model references to configured adapters. Gemini is always
// present; claude and openai join when their keys are set.
func (cfg *config) generators(gemini *adapter.GeminiClient) map[string]pipeline.Generator {
	generators := map[string]pipeline.Generator{
		"gemini": gemini,
	}
	if cfg.anthropicAPIKey != "" {
		generators["claude"] = adapter.NewClaude(cfg.anthropicAPIKey)
	}
	if cfg.openaiAPIKey != "" {
		generators["openai"] = adapter.NewOpenAI(cfg.openaiAPIKey, cfg.openaiBaseURL,
			adapter.WithOpenAIModel(cfg.openaiModel))
	}

	return generators
}

// newPipeline assembles the full pipeline: agents, flow, memory and models
func (cfg *config) newPipeline(ctx context.Context, maxLoops int) (*pipeline.Pipeline, error) {
	specs, flow, err := agents.Load(cfg.agentsFile)
	if err != nil {
		return nil, err
	}

	index, err := cfg.newIndex(ctx)
	if err != nil {
		return nil, err
	}

	gemini, err := cfg.newGemini(ctx)
	if err != nil {
		return nil, err
	}

	return pipeline.New(specs, flow, memory.New(index, gemini), cfg.generators(gemini), pipeline.Options{
		TopK:           int(cfg.topK),
		ScoreThreshold: cfg.threshold,
		MaxLoops:       maxLoops,
	})
}

// newStorage creates a new report archive instance
func (cfg *config) newStorage(ctx context.Context, bucketName string) (adapter.Storage, error) {
	if bucketName == "" {
		return nil, goerr.New("bucket name is required")
	}

	storage, err := adapter.NewStorage(ctx, bucketName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}
	return storage, nil
}
