package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"skillget/internal/config"
)

func newVersionCmd(jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := map[string]string{
				"version": config.Version,
				"commit":  config.Commit,
				"date":    config.Date,
			}
			if *jsonOutput {
				return printJSON(info)
			}
			fmt.Printf("skillget %s\ncommit: %s\nbuilt at: %s\n", config.Version, config.Commit, config.Date)
			return nil
		},
	}
}
