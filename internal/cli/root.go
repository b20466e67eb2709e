// Package cli holds the portalctl maintenance commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/feedback-portal/internal/config"
	"github.com/spec-kit/feedback-portal/internal/persistence"
	"github.com/spec-kit/feedback-portal/internal/repository"
)

// RootCmd assembles portalctl.
func RootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "portalctl",
		Short:   "Maintenance tool for the feedback portal",
		Version: version,
		Long: `portalctl works directly against the configured record store.
It reads the same environment (and .env file) as the API server.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(HashPasswordCmd())
	rootCmd.AddCommand(ExportCmd())
	rootCmd.AddCommand(StatsCmd())
	return rootCmd
}

type storeSession struct {
	cfg         *config.Config
	store       persistence.DocumentStore
	departments repository.DepartmentRepository
	feedback    repository.FeedbackRepository
}

func openStore(ctx context.Context) (*storeSession, error) {
	cfg, err := config.LoadStore()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	store, err := persistence.Open(ctx, cfg.Store, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	return &storeSession{
		cfg:         cfg,
		store:       store,
		departments: repository.NewDepartmentRepository(store),
		feedback:    repository.NewFeedbackRepository(store),
	}, nil
}

func (s *storeSession) Close() error {
	return s.store.Close()
}
