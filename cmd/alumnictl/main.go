// Command alumnictl runs administrative tasks against the configured alumni store.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alumni-network/alumni-api/internal/adapters/httpapi/apitypes"
	"github.com/alumni-network/alumni-api/internal/app/directory"
	"github.com/alumni-network/alumni-api/internal/platform/config"
	"github.com/alumni-network/alumni-api/internal/platform/logging"
	"github.com/alumni-network/alumni-api/internal/platform/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "alumnictl",
		Short: "Administrative tasks for the alumni directory",
		Long: `alumnictl works directly against the store configured for the API
(ALUMNI_STORAGE_BACKEND and friends, or a YAML file passed with --config).`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (defaults to $ALUMNI_CONFIG_FILE)")

	root.AddCommand(newSeedCmd(opts), newStatsCmd(opts), newMigrateCmd(opts))
	return root
}

// withStores loads configuration, opens the stores and hands them to fn.
func withStores(ctx context.Context, opts *rootOptions, storeOpts storage.Options, fn func(config.Config, *storage.Stores, *zap.Logger) error) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	stores, err := storage.Open(ctx, cfg, storeOpts, log)
	if err != nil {
		return err
	}
	defer func() { _ = stores.Close(context.Background()) }()
	return fn(cfg, stores, log)
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users, profiles and events from a YAML file",
		Long: `Load users, profiles and events from a YAML file.

Users are matched by email; existing users keep their id and password and only
their profile is updated.

Examples:
  alumnictl seed --file directory.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := readSeedFile(file)
			if err != nil {
				return err
			}
			return withStores(cmd.Context(), opts, storage.Options{Migrate: true}, func(_ config.Config, s *storage.Stores, log *zap.Logger) error {
				res, err := newSeeder(s).Seed(cmd.Context(), doc)
				if err != nil {
					return err
				}
				log.Info("seed complete",
					zap.Int("users_created", res.UsersCreated),
					zap.Int("users_existing", res.UsersExisting),
					zap.Int("profiles", res.Profiles),
					zap.Int("events", res.Events),
				)
				cmd.Printf("users: %d created, %d existing; profiles: %d; events: %d\n",
					res.UsersCreated, res.UsersExisting, res.Profiles, res.Events)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "seed YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print directory statistics as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStores(cmd.Context(), opts, storage.Options{}, func(_ config.Config, s *storage.Stores, log *zap.Logger) error {
				st, err := directory.NewService(s.Directory, log).Stats(cmd.Context())
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(apitypes.DirectoryStatsFromDomain(st))
			})
		},
	}
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply postgres migrations (or mongo indexes)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStores(cmd.Context(), opts, storage.Options{Migrate: true}, func(cfg config.Config, _ *storage.Stores, _ *zap.Logger) error {
				if cfg.Storage.Backend == config.BackendMemory {
					return fmt.Errorf("nothing to migrate for the memory backend")
				}
				cmd.Printf("%s schema is up to date\n", cfg.Storage.Backend)
				return nil
			})
		},
	}
}
