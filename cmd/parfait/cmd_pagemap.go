package main

import (
	"parfait/pkg/pagemap"

	"github.com/spf13/cobra"
)

var pagemapCmd = &cobra.Command{
	Use:   "pagemap",
	Short: "Page map commands",
}

var pagemapDescribeCmd = &cobra.Command{
	Use:   "describe [path]",
	Short: "Print the page, region, and control outline of a page map",
	Long: `Prints the artifact tree a page map defines. Without a path, the page map
named by the configuration is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: pagemapDescribe,
}

func init() {
	pagemapCmd.AddCommand(pagemapDescribeCmd)
}

func pagemapDescribe(cmd *cobra.Command, args []string) error {
	path := cfg.PageMap
	if len(args) == 1 {
		path = args[0]
	}
	m, err := pagemap.Load(path)
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}
	return pagemap.Describe(cmd.OutOrStdout(), m)
}
