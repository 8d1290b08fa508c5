// root_cmd.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gewnthar/tzimport/config"
	"github.com/gewnthar/tzimport/database"
	"github.com/gewnthar/tzimport/models"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "tzimport",
	Short:         "TimeZoneDB reference data importer",
	Long:          "Fetches the TimeZoneDB zone list and per-zone DST details into a local SQLite (or MySQL) database.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger, err = config.NewLogger(cfg.Logging)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yaml", "path to the YAML config file")
}

// openStore opens the configured database with the schema in place. The list
// table is left alone; only an import recreates it.
func openStore(cmd *cobra.Command) (*database.Store, error) {
	store, err := database.Open(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	for _, table := range []string{models.TableZoneDetails, models.TableErrorLog} {
		exists, err := store.TableExists(cmd.Context(), table)
		if err != nil {
			store.Close()
			return nil, err
		}
		if !exists {
			logger.Warn("table not found, run populate first", zap.String("table", table))
		}
	}
	return store, nil
}
