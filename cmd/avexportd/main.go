package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"avexport/internal/config"
	"avexport/internal/daemon"
	"avexport/internal/discovery"
	"avexport/internal/ledger"
	"avexport/internal/logging"
	"avexport/internal/orchestrator"
	"avexport/internal/transfer"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := ledger.Open(cfg)
	if err != nil {
		logger.Error("open ledger store", logging.Error(err))
		os.Exit(1)
	}
	defer store.Close()

	selector := discovery.New(store.DB(), logger)
	engine := transfer.NewEngine(cfg, store, logger)
	loop := orchestrator.New(orchestrator.OptionsFromConfig(cfg), selector, engine, store, logger)

	d, err := daemon.New(cfg, loop, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		os.Exit(1)
	}

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		os.Exit(1)
	}

	loopErr := d.Wait()
	d.Stop()
	if loopErr != nil {
		logger.Error("export loop failed", logging.Error(loopErr))
		os.Exit(1)
	}
	logger.Info("avexportd shut down")
}
