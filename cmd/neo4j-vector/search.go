package main

import (
	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/render"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		limit      int
		threshold  float64
		format     string
		properties []string
	)

	cmd := &cobra.Command{
		Use:   "search <phrase>",
		Short: "Search with any phrase in the embeddings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}

			svc, err := a.service()
			if err != nil {
				return err
			}
			defer closeService(svc, a.log)

			result, err := svc.Search(cmd.Context(), args[0], limit, threshold)
			if err != nil {
				return err
			}
			return render.Write(cmd.OutOrStdout(), f, result, properties)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 5, "maximum number of nodes to return")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0.0, "minimum similarity score")
	cmd.Flags().StringVarP(&format, "format", "f", string(render.FormatParameter), "output format: parameter, console, json or yaml")
	cmd.Flags().StringSliceVarP(&properties, "properties", "p", nil, "node properties to print")
	return cmd
}
