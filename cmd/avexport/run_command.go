package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"avexport/internal/daemon"
	"avexport/internal/discovery"
	"avexport/internal/ledger"
	"avexport/internal/logging"
	"avexport/internal/orchestrator"
	"avexport/internal/transfer"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the export loop in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if dryRun {
				cfg.Export.DryRun = true
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := ledger.Open(cfg)
			if err != nil {
				return fmt.Errorf("open ledger store: %w", err)
			}
			defer store.Close()

			selector := discovery.New(store.DB(), logger)
			engine := transfer.NewEngine(cfg, store, logger)
			loop := orchestrator.New(orchestrator.OptionsFromConfig(cfg), selector, engine, store, logger)

			d, err := daemon.New(cfg, loop, logger)
			if err != nil {
				return err
			}
			if err := d.Start(signalCtx); err != nil {
				return err
			}
			loopErr := d.Wait()
			d.Stop()
			return loopErr
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve and log destinations without copying, recording, or deleting")
	return cmd
}
