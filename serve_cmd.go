// serve_cmd.go
package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gewnthar/tzimport/handlers"
	"github.com/gewnthar/tzimport/metrics"
	"github.com/gewnthar/tzimport/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the imported tables over HTTP",
	Long:  "Serves read endpoints over the store, /metrics, and POST /api/admin/refresh to run an import in the background.",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		m := metrics.New()
		var refresh func(ctx context.Context) error
		if err := cfg.RequireAPIKey(); err != nil {
			logger.Warn("admin refresh disabled: " + err.Error())
		} else {
			importer := services.NewImporterFromConfig(cfg, store, m, logger)
			// Imports stop with the server, not with the request that started them.
			baseCtx := cmd.Context()
			refresh = func(context.Context) error { return importer.Run(baseCtx) }
		}

		h := handlers.NewHandler(store, refresh, m.Registry(), logger)
		srv := handlers.NewHTTPServer(":"+cfg.Server.Port, h.Routes())
		err = handlers.ServeAndWait(cmd.Context(), logger, srv)
		// A running import keeps the store busy; let it finish before closing.
		h.Wait()
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
