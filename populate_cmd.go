// populate_cmd.go
package main

import (
	"github.com/spf13/cobra"

	"github.com/gewnthar/tzimport/services"
)

var populateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Import the zone list and zone details",
	Long:  "Recreates TZDB_TIMEZONES from the API, then merges details of every zone into TZDB_ZONE_DETAILS.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return services.RunImport(cmd.Context(), cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(populateCmd)
}
