package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/helixir/comic-metadata-service/internal/app"
	"github.com/helixir/comic-metadata-service/internal/config"
	"github.com/helixir/comic-metadata-service/internal/domain"
	"github.com/helixir/comic-metadata-service/internal/observability"
)

// searcher is the part of the search service the commands use.
type searcher interface {
	SearchIssues(ctx context.Context, q domain.SearchQuery) ([]domain.IssueCandidate, error)
	SearchEnhanced(ctx context.Context, q domain.SearchQuery) ([]domain.IssueCandidate, error)
	SearchVolumes(ctx context.Context, series string, year int) ([]domain.VolumeCandidate, error)
	GetIssueMetadata(ctx context.Context, issueID int) (*domain.IssueMetadata, error)
	GetVolumeIssues(ctx context.Context, volumeID int) ([]domain.IssueCandidate, error)
	RateLimitStatus() []domain.EndpointStatus
}

type commandContext struct {
	envFile  *string
	logLevel *string
	jsonOut  *bool

	once    sync.Once
	service searcher
	err     error
}

func newCommandContext(envFile, logLevel *string, jsonOut *bool) *commandContext {
	return &commandContext{
		envFile:  envFile,
		logLevel: logLevel,
		jsonOut:  jsonOut,
	}
}

// ensureService loads .env and configuration once and wires the search
// service. The logger writes to stderr so stdout stays parseable.
func (c *commandContext) ensureService() (searcher, error) {
	c.once.Do(func() {
		envFile := ".env"
		if c.envFile != nil && strings.TrimSpace(*c.envFile) != "" {
			envFile = strings.TrimSpace(*c.envFile)
		}
		if err := config.LoadDotEnv(envFile); err != nil {
			c.err = err
			return
		}

		cfg, err := config.Load()
		if err != nil {
			c.err = fmt.Errorf("load config: %w", err)
			return
		}

		level := cfg.Logging.Level
		if c.logLevel != nil && strings.TrimSpace(*c.logLevel) != "" {
			level = strings.TrimSpace(*c.logLevel)
		}
		logger := observability.NewLogger(observability.LoggingConfig{
			Level:      level,
			Format:     "console",
			Output:     "stderr",
			TimeFormat: cfg.Logging.TimeFormat,
		})

		c.service = app.New(cfg, logger, app.Options{}).Search
	})
	return c.service, c.err
}

func (c *commandContext) wantJSON() bool {
	return c.jsonOut != nil && *c.jsonOut
}

// withService runs fn with the wired service and the command's context.
func (c *commandContext) withService(cmd *cobra.Command, fn func(context.Context, searcher) error) error {
	svc, err := c.ensureService()
	if err != nil {
		return err
	}
	return fn(cmd.Context(), svc)
}
