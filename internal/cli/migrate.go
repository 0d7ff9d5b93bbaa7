package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"superoutine/internal/repository"
	"superoutine/pkg/config"
	"superoutine/pkg/db"
	"superoutine/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	var (
		driver    string
		configDir string
		path      string
		printOnly bool
	)
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema to the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if printOnly {
				schema, err := repository.Schema(driver)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprint(cmd.OutOrStdout(), schema)
				return nil
			}
			cfg, err := config.Load(config.GetConfigEnv(), configDir)
			if err != nil {
				return err
			}
			if path != "" {
				cfg.Store.Path = path
			}
			return runMigrate(cmd.Context(), cmd.OutOrStdout(), driver, cfg)
		},
	}
	cmd.Flags().StringVar(&driver, "driver", repository.DriverSQLite, "postgres or sqlite")
	cmd.Flags().StringVar(&configDir, "config", "config", "configuration directory")
	cmd.Flags().StringVar(&path, "path", "", "sqlite file (overrides store.path)")
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the schema instead of applying it")
	return cmd
}

func runMigrate(ctx context.Context, w io.Writer, driver string, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.Log

	switch driver {
	case repository.DriverSQLite:
		store, err := repository.OpenLocalStore(ctx, cfg.Store.Path, log)
		if err != nil {
			return err
		}
		defer store.Close()
		_, _ = fmt.Fprintf(w, "%s sqlite schema applied to %s\n", Success("✓"), cfg.Store.Path)
	case repository.DriverPostgres:
		pool, err := db.NewConnection(ctx, cfg.DB, log)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := repository.MigratePostgres(ctx, pool); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "%s postgres schema applied to %s/%s\n", Success("✓"), cfg.DB.Host, cfg.DB.Name)
	default:
		return fmt.Errorf("unknown driver %q", driver)
	}
	return nil
}
