package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tsuzuri-app/tsuzuri/pkg/adapter"
	"github.com/tsuzuri-app/tsuzuri/pkg/model"
	"github.com/tsuzuri-app/tsuzuri/pkg/repository"
	"github.com/tsuzuri-app/tsuzuri/pkg/usecase/curator"
	"github.com/tsuzuri-app/tsuzuri/pkg/usecase/journal"
	"github.com/tsuzuri-app/tsuzuri/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	// Caller identity
	user model.UserID

	// Repository
	project  string
	database string

	// Adapters
	geminiProject  string
	geminiLocation string
	geminiModel    string
	bucket         string

	// Curation parameters
	configPath string

	logLevel string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "Caller identity (journal owner ID)",
			Sources:     cli.EnvVars("TSUZURI_USER"),
			Destination: (*string)(&cfg.user),
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
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to curation config YAML",
			Sources:     cli.EnvVars("TSUZURI_CONFIG"),
			Destination: &cfg.configPath,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("TSUZURI_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
	}
}

// llmFlags returns flags for the generative backend with destination config
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
			Usage:       "Generative model name",
			Sources:     cli.EnvVars("GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
	}
}

// storageFlags returns flags for journal export storage
func storageFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bucket",
			Aliases:     []string{"b"},
			Usage:       "Cloud Storage bucket for journal exports",
			Sources:     cli.EnvVars("TSUZURI_EXPORT_BUCKET"),
			Destination: &cfg.bucket,
		},
	}
}

// withLogger attaches a logger configured from the flags to the context
func (cfg *config) withLogger(ctx context.Context, c *cli.Command) context.Context {
	logger := logging.New(cfg.logLevel, c.Root().ErrWriter)
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}

// newRepository creates a new repository instance
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	if cfg.project == "" {
		return nil, goerr.New("project is required")
	}
	if cfg.database == "" {
		return nil, goerr.New("database is required")
	}

	repo, err := repository.New(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newGemini creates a new Gemini adapter instance
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	if cfg.geminiProject == "" {
		return nil, goerr.New("gemini-project is required")
	}
	if cfg.geminiLocation == "" {
		return nil, goerr.New("gemini-location is required")
	}

	var opts []adapter.GeminiOption
	if cfg.geminiModel != "" {
		opts = append(opts, adapter.WithGenerativeModel(cfg.geminiModel))
	}
	return adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation, opts...)
}

// newCuratorConfig loads curation parameters from the config file, or the
// defaults when no file is given
func (cfg *config) newCuratorConfig() (*curator.Config, error) {
	if cfg.configPath == "" {
		return curator.DefaultConfig(), nil
	}
	return curator.LoadConfig(cfg.configPath)
}

// newJournal wires up the journal usecase with its dependencies
func (cfg *config) newJournal(ctx context.Context) (*journal.UseCase, error) {
	repo, err := cfg.newRepository(ctx)
	if err != nil {
		return nil, err
	}

	gemini, err := cfg.newGemini(ctx)
	if err != nil {
		return nil, err
	}

	curatorCfg, err := cfg.newCuratorConfig()
	if err != nil {
		return nil, err
	}

	cur := curator.New(repo, gemini, curator.WithConfig(curatorCfg))

	var opts []journal.Option
	if cfg.bucket != "" {
		storage, err := adapter.NewStorage(ctx, cfg.bucket)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create storage")
		}
		opts = append(opts, journal.WithStorage(storage))
	}

	return journal.New(repo, cur, opts...), nil
}
