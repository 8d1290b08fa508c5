// export_cmd.go
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gewnthar/tzimport/services"
)

var (
	exportTable string
	exportOut   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write an import table as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		var w io.Writer = cmd.OutOrStdout()
		if exportOut != "" && exportOut != "-" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportOut, err)
			}
			defer f.Close()
			w = f
		}

		if err := services.ExportTable(cmd.Context(), store, exportTable, w); err != nil {
			return err
		}
		logger.Info("table exported", zap.String("table", exportTable), zap.String("out", exportOut))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportTable, "table", "TZDB_ZONE_DETAILS", "table to export")
	exportCmd.Flags().StringVar(&exportOut, "out", "-", "output file, - for stdout")
	rootCmd.AddCommand(exportCmd)
}
