package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/LuisVera22/service-gcp/internal/adapters/driven/drive"
	"github.com/LuisVera22/service-gcp/internal/adapters/driven/embedding"
	"github.com/LuisVera22/service-gcp/internal/adapters/driven/understanding/heuristic"
	uopenai "github.com/LuisVera22/service-gcp/internal/adapters/driven/understanding/openai"
	"github.com/LuisVera22/service-gcp/internal/adapters/driving/httpapi"
	"github.com/LuisVera22/service-gcp/internal/chunker"
	"github.com/LuisVera22/service-gcp/internal/config"
	"github.com/LuisVera22/service-gcp/internal/core/ports/driven"
	"github.com/LuisVera22/service-gcp/internal/core/services"
	"github.com/LuisVera22/service-gcp/internal/index"
	"github.com/LuisVera22/service-gcp/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// NewServeCmd constructs the serve command.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP search server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

// runServe wires the adapters to the core services and serves until
// interrupted.
func runServe(parent context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	source, err := newDriveSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer source.Close()

	embedder, err := embedding.New(embedding.Options{
		Provider: cfg.Embedding.Provider,
		APIKey:   cfg.Embedding.APIKey,
		BaseURL:  cfg.Embedding.BaseURL,
		Model:    cfg.Embedding.Model,
		Timeout:  cfg.Embedding.Timeout(),
	})
	if err != nil {
		return err
	}
	defer embedder.Close()
	logger.Info("Embedding provider: %s (%s, %d dimensions)",
		cfg.Embedding.Provider, embedder.ModelName(), embedder.Dimensions())

	understander, err := newUnderstanding(cfg)
	if err != nil {
		return err
	}
	defer understander.Close()

	splitter, err := chunker.New(
		chunker.WithChunkSize(cfg.Index.ChunkSize),
		chunker.WithOverlap(cfg.Index.ChunkOverlap),
		chunker.WithMaxChars(cfg.Index.MaxDocumentChars),
	)
	if err != nil {
		return err
	}

	store := index.NewStore()
	builder := services.NewIndexBuilder(
		source, embedder, splitter, store,
		cfg.Drive.RootFolderID, cfg.Index.EmbedConcurrency,
	)
	retrieval := services.NewRetrievalEngine(store, cfg.Index.SnippetLength)
	orchestrator := services.NewQueryOrchestrator(
		understander, embedder, builder, retrieval, store,
		services.RetrievalParams{
			TopKChunks:       cfg.Index.TopKChunks,
			TopKDocs:         cfg.Index.TopKDocs,
			DefaultThreshold: cfg.Index.DefaultThreshold,
			MinThreshold:     cfg.Index.MinThreshold,
			MaxThreshold:     cfg.Index.MaxThreshold,
			SnapshotTTL:      cfg.Index.SnapshotTTL(),
		},
	)

	server := httpapi.NewServer(
		httpapi.Config{
			Host:    cfg.Server.Host,
			Port:    cfg.Server.Port,
			Version: version,
		},
		orchestrator, builder, embedder, source,
	)

	logger.Info("service-gcp %s serving folder %s", version, cfg.Drive.RootFolderID)
	return server.Start(ctx)
}

// newDriveSource builds the document source from either a service
// account key or a static access token.
func newDriveSource(ctx context.Context, cfg *config.Config) (driven.DocumentSource, error) {
	driveCfg := drive.Config{
		PageSize:          cfg.Drive.PageSize,
		RequestTimeout:    cfg.Drive.RequestTimeout(),
		RequestsPerSecond: cfg.Drive.RequestsPerSecond,
		Burst:             cfg.Drive.Burst,
	}

	if cfg.Drive.CredentialsFile != "" {
		return drive.NewSource(ctx, driveCfg,
			option.WithCredentialsFile(cfg.Drive.CredentialsFile))
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.Drive.AccessToken,
		TokenType:   "Bearer",
	})
	return drive.NewSourceWithTokenSource(ctx, ts, driveCfg)
}

// newUnderstanding builds the query-understanding provider.
func newUnderstanding(cfg *config.Config) (driven.QueryUnderstandingService, error) {
	switch cfg.Understanding.Provider {
	case "openai":
		return uopenai.NewService(uopenai.Config{
			APIKey:  cfg.Understanding.APIKey,
			BaseURL: cfg.Understanding.BaseURL,
			Model:   cfg.Understanding.Model,
			Timeout: cfg.Understanding.Timeout(),
		})
	case "heuristic":
		return heuristic.New(), nil
	default:
		return nil, fmt.Errorf("unknown understanding provider %q", cfg.Understanding.Provider)
	}
}
