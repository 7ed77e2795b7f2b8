package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/neo4j-vector-go/internal/apptype"
	"github.com/ZanzyTHEbar/neo4j-vector-go/pkg/vector"
)

func newCreateEmbeddingCmd(a *app) *cobra.Command {
	var properties []string

	cmd := &cobra.Command{
		Use:   "create-embedding",
		Short: "Create embeddings for all nodes with the configured label",
		Long: "Concatenates the given properties of every node with the label, " +
			"creates an embedding for each node and stores it on the node. " +
			"The constraint and the similarity index are created when missing.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []vector.Option
			if a.verbose() {
				opts = append(opts, vector.WithProgress(progressReporter(cmd)))
			}

			svc, err := a.service(opts...)
			if err != nil {
				return err
			}
			defer closeService(svc, a.log)

			report, err := svc.CreateEmbeddings(cmd.Context(), properties)
			if err != nil {
				return err
			}

			summary := apptype.NewIngestSummary(report)
			for _, f := range summary.Failures {
				a.log.Debug("node left without embedding", zap.String("element_id", f.ElementID), zap.String("error", f.Error))
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Embedded %d of %d nodes (%d without text, %d failed).\n",
				summary.Embedded, summary.Found, summary.SkippedEmpty, summary.Failed)
			return err
		},
	}

	cmd.Flags().StringSliceVarP(&properties, "properties", "p", nil, "properties to concatenate into the embedding input, in order")
	_ = cmd.MarkFlagRequired("properties")
	return cmd
}

// progressReporter draws an ingestion progress bar on stderr.
func progressReporter(cmd *cobra.Command) func(done, total int) {
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("Embedding nodes"),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(cmd.ErrOrStderr())
				}),
			)
		}
		_ = bar.Set(done)
	}
}
