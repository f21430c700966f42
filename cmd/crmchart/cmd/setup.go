package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/crmchart/internal/chart"
	"github.com/dbsmedya/crmchart/internal/chartconfig"
	"github.com/dbsmedya/crmchart/internal/config"
	"github.com/dbsmedya/crmchart/internal/database"
	"github.com/dbsmedya/crmchart/internal/logger"
	"github.com/dbsmedya/crmchart/internal/metadata"
	"github.com/dbsmedya/crmchart/internal/metasource"
	"github.com/dbsmedya/crmchart/internal/resource"
)

// loadConfig reads the config file, applies CLI overrides and validates the
// result.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat, overrides.Source, overrides.Pretty)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildEnv holds what a command needs to run chart builds.
type buildEnv struct {
	cfg       *config.Config
	log       *logger.Logger
	assembler *chart.Assembler
	closer    io.Closer
}

// newBuildEnv loads configuration, opens the metadata source and creates an
// assembler. A non-empty metadataFile replaces the configured source with the
// entity metadata read from that file.
func newBuildEnv(ctx context.Context, metadataFile string) (*buildEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	var (
		source metadata.Source
		closer io.Closer
	)
	if metadataFile != "" {
		static, err := metasource.LoadStaticSource(metadataFile)
		if err != nil {
			return nil, err
		}
		log.Debugw("Using entity metadata file", "path", metadataFile, "entities", static.Len())
		source = static
	} else {
		source, closer, err = metasource.New(ctx, &cfg.MetadataSource, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open metadata source: %w", err)
		}
	}

	assembler, err := chart.NewAssembler(resource.Default,
		chart.WithSource(source),
		chart.WithLogger(log),
	)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}

	return &buildEnv{cfg: cfg, log: log, assembler: assembler, closer: closer}, nil
}

// Close releases the metadata source and flushes the logger.
func (e *buildEnv) Close() error {
	var err error
	if e.closer != nil {
		err = e.closer.Close()
	}
	_ = e.log.Sync()
	return err
}

// commandContext returns the command's context, canceled on SIGTERM or
// SIGINT. It is created before any source is opened so connection retries
// stop on a signal too.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return database.SetupSignalHandler(parent, nil)
}

// buildChart loads a request file and runs it through the assembler.
func buildChart(cmd *cobra.Command, requestPath, metadataFile string) (*chartconfig.Config, *buildEnv, error) {
	req, err := chart.LoadRequest(requestPath)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	env, err := newBuildEnv(ctx, metadataFile)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := env.assembler.Build(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			env.log.Warnw("Chart build canceled", "request", requestPath)
		}
		env.log.Errorw("Chart build failed", "request", requestPath, "error", err)
		env.Close()
		return nil, nil, err
	}
	return cfg, env, nil
}
