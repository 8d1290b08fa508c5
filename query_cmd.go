// query_cmd.go
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gewnthar/tzimport/services"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Print tables interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()
		return services.QueryLoop(cmd.Context(), os.Stdin, cmd.OutOrStdout(), store)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
