package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"avexport/internal/assets"
	"avexport/internal/config"
	"avexport/internal/ledger"
)

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the export audit trail",
	}

	ledgerCmd.AddCommand(newLedgerListCommand(ctx))
	ledgerCmd.AddCommand(newLedgerStatsCommand(ctx))
	ledgerCmd.AddCommand(newLedgerClaimsCommand(ctx))
	ledgerCmd.AddCommand(newLedgerHealthCommand(ctx))

	return ledgerCmd
}

func newLedgerListCommand(ctx *commandContext) *cobra.Command {
	var interviewFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List exported artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *ledger.Store) error {
				var (
					records []ledger.Record
					err     error
				)
				if interview := strings.TrimSpace(interviewFlag); interview != "" {
					records, err = store.ByInterview(cmd.Context(), interview)
				} else {
					records, err = store.List(cmd.Context())
				}
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No exports recorded.")
					return nil
				}

				rows := make([][]string, 0, len(records))
				for _, record := range records {
					rows = append(rows, []string{
						strconv.FormatInt(record.ID, 10),
						record.InterviewName,
						string(record.Tag),
						string(record.Tier),
						record.Destination,
						record.ExportedAt.Local().Format(time.RFC3339),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Interview", "Tag", "Tier", "Destination", "Exported"},
					rows, 0))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&interviewFlag, "interview", "", "Limit output to one interview name")
	return cmd
}

func newLedgerStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize ledger contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *ledger.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Interviews exported: %d\n", stats.Interviews)
				fmt.Fprintf(out, "Artifacts exported:  %d\n", stats.Artifacts)
				if len(stats.ByTag) == 0 {
					return nil
				}

				tags := make([]string, 0, len(stats.ByTag))
				for tag := range stats.ByTag {
					tags = append(tags, string(tag))
				}
				sort.Strings(tags)
				rows := make([][]string, 0, len(tags))
				for _, tag := range tags {
					rows = append(rows, []string{tag, strconv.Itoa(stats.ByTag[assets.Tag(tag)])})
				}
				fmt.Fprintln(out, renderTable([]string{"Tag", "Artifacts"}, rows, 1))
				return nil
			})
		},
	}
}

func newLedgerClaimsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "claims",
		Short: "List in-flight interview claims",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *ledger.Store) error {
				claims, err := store.Claims(cmd.Context())
				if err != nil {
					return err
				}
				if len(claims) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No active claims.")
					return nil
				}
				rows := make([][]string, 0, len(claims))
				for _, claim := range claims {
					rows = append(rows, []string{
						claim.InterviewName,
						claim.ClaimID,
						claim.ClaimedAt.Local().Format(time.RFC3339),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Interview", "Claim", "Claimed"}, rows))
				return nil
			})
		},
	}
}

func newLedgerHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check ledger database health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *ledger.Store) error {
				health, err := store.CheckHealth(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database:   %s\n", health.DBPath)
				fmt.Fprintf(out, "Exists:     %s\n", yesNo(health.DatabaseExists))
				fmt.Fprintf(out, "Readable:   %s\n", yesNo(health.DatabaseReadable))
				fmt.Fprintf(out, "Ledger:     %s\n", yesNo(health.TableExists))
				fmt.Fprintf(out, "Records:    %d\n", health.TotalRecords)
				fmt.Fprintf(out, "Integrity:  %s\n", yesNo(health.IntegrityCheck))
				if health.Error != "" {
					fmt.Fprintf(out, "Error:      %s\n", health.Error)
				}
				return nil
			})
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
