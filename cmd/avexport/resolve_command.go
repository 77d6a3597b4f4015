package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"avexport/internal/config"
	"avexport/internal/discovery"
	"avexport/internal/dpdash"
	"avexport/internal/ledger"
	"avexport/internal/logging"
	"avexport/internal/resolver"
)

// newResolveCommand shows where an interview's artifacts would land without
// copying, recording, or deleting anything. Useful for verifying path
// resolution against production data.
func newResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <interview-name>",
		Short: "Show destination paths for an interview's artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			interview := args[0]

			name, err := dpdash.Parse(interview)
			if err != nil {
				return fmt.Errorf("parse interview name: %w", err)
			}

			return ctx.withStore(func(cfg *config.Config, store *ledger.Store) error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Interview: %s (%s / %s / %s)\n",
					interview, name.Study, name.Subject, dpdash.DisplayLabel(name.DataType))

				exported, err := store.Exists(cmd.Context(), interview)
				if err != nil {
					return err
				}
				if exported {
					fmt.Fprintln(out, "Already exported: the ledger holds records for this interview.")
				}

				selector := discovery.New(store.DB(), logging.NewNop())
				artifacts, err := selector.CollectArtifacts(cmd.Context(), interview)
				if err != nil {
					return err
				}
				if len(artifacts) == 0 {
					fmt.Fprintln(out, "No artifacts found.")
					return nil
				}

				rows := make([][]string, 0, len(artifacts))
				for _, artifact := range artifacts {
					destination, err := resolver.Resolve(cfg.Paths.DataRoot, interview, artifact)
					if err != nil {
						return err
					}
					rows = append(rows, []string{
						string(artifact.Tag),
						string(artifact.Kind),
						artifact.SourcePath,
						destination,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Tag", "Kind", "Source", "Destination"}, rows))
				return nil
			})
		},
	}
}
