package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coinrelay/coinrelay/internal/output"
	"github.com/coinrelay/coinrelay/internal/routes"
)

var routesOutput string

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the forwarded routes",
	Long:  "List every local route, the upstream endpoint it maps to and its parameters (* = required).",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(routesOutput)
		if err != nil {
			return err
		}
		rendered, err := output.FormatRoutes(format, routes.Table)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
	routesCmd.Flags().StringVarP(&routesOutput, "output", "o", "table", "output format (table, json, markdown)")
}
