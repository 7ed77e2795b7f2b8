package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/buildinfo"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "neo4j-vector %s (commit: %s, built: %s)\n",
				buildinfo.Version, buildinfo.Revision, buildinfo.BuildDate)
			return err
		},
	}
}
