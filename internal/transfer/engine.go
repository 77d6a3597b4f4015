package transfer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"avexport/internal/assets"
	"avexport/internal/config"
	"avexport/internal/fileutil"
	"avexport/internal/ledger"
	"avexport/internal/logging"
	"avexport/internal/resolver"
	"avexport/internal/services"
)

// Engine exports one interview's artifact batch at a time.
type Engine struct {
	exportRoot string
	dryRun     bool
	store      *ledger.Store
	logger     *slog.Logger
}

// NewEngine constructs an Engine bound to the configured export root.
func NewEngine(cfg *config.Config, store *ledger.Store, logger *slog.Logger) *Engine {
	return &Engine{
		exportRoot: cfg.Paths.DataRoot,
		dryRun:     cfg.Export.DryRun,
		store:      store,
		logger:     logging.NewComponentLogger(logger, "transfer"),
	}
}

type resolvedArtifact struct {
	artifact    assets.Artifact
	destination string
}

// Export resolves, copies, records, and reclaims the interview's artifacts.
// It returns the number of artifacts exported. In dry-run mode it resolves
// and logs every destination but performs no filesystem or ledger writes.
func (e *Engine) Export(ctx context.Context, interviewName string, artifacts []assets.Artifact) (int, error) {
	logger := logging.WithContext(ctx, e.logger)

	resolved := make([]resolvedArtifact, 0, len(artifacts))
	for _, artifact := range artifacts {
		destination, err := resolver.Resolve(e.exportRoot, interviewName, artifact)
		if err != nil {
			return 0, err
		}
		resolved = append(resolved, resolvedArtifact{artifact: artifact, destination: destination})
	}

	if e.dryRun {
		for _, item := range resolved {
			logger.Info("dry run: would export artifact",
				logging.String(logging.FieldTag, string(item.artifact.Tag)),
				logging.String("source", item.artifact.SourcePath),
				logging.String("destination", item.destination))
		}
		return len(resolved), nil
	}

	for _, item := range resolved {
		if err := ctx.Err(); err != nil {
			return 0, services.Wrap(services.ErrTransfer, "transfer", "copy batch", interviewName, err)
		}
		if err := e.copyArtifact(item); err != nil {
			return 0, err
		}
		logger.Info("copied artifact",
			logging.String(logging.FieldTag, string(item.artifact.Tag)),
			logging.String("source", item.artifact.SourcePath),
			logging.String("destination", item.destination))
	}

	records := make([]ledger.Record, 0, len(resolved))
	for _, item := range resolved {
		records = append(records, ledger.NewRecord(interviewName, item.artifact, item.destination))
	}
	if err := e.store.InsertBatch(ctx, records); err != nil {
		return 0, services.Wrap(services.ErrQuery, "transfer", "record batch", interviewName, err)
	}

	e.reclaimSources(logger, resolved)
	return len(resolved), nil
}

func (e *Engine) copyArtifact(item resolvedArtifact) error {
	if err := os.MkdirAll(filepath.Dir(item.destination), 0o755); err != nil {
		return services.Wrap(services.ErrTransfer, "transfer", "create destination directory", item.destination, err)
	}

	switch item.artifact.Kind {
	case assets.KindFile:
		if err := fileutil.CopyFilePreserve(item.artifact.SourcePath, item.destination); err != nil {
			return services.Wrap(services.ErrTransfer, "transfer", "copy file", item.artifact.SourcePath, err)
		}
		return nil
	case assets.KindDirectory:
		if err := fileutil.CopyTree(item.artifact.SourcePath, item.destination); err != nil {
			return services.Wrap(services.ErrTransfer, "transfer", "copy directory", item.artifact.SourcePath, err)
		}
		return nil
	}
	return services.Wrap(services.ErrFatal, "transfer", "copy artifact",
		fmt.Sprintf("unhandled artifact kind %q for %s", item.artifact.Kind, item.artifact.SourcePath), nil)
}

// reclaimSources deletes exported sources once the ledger batch is durable.
// Tags that retain their source are skipped, and a deletion failure is only
// logged: the export already happened and the ledger row guards against a
// second attempt.
func (e *Engine) reclaimSources(logger *slog.Logger, resolved []resolvedArtifact) {
	for _, item := range resolved {
		if item.artifact.Tag.RetainSource() {
			continue
		}
		var err error
		switch item.artifact.Kind {
		case assets.KindFile:
			err = os.Remove(item.artifact.SourcePath)
		case assets.KindDirectory:
			err = os.RemoveAll(item.artifact.SourcePath)
		}
		if err != nil {
			logger.Warn("failed to reclaim exported source",
				logging.String(logging.FieldTag, string(item.artifact.Tag)),
				logging.String("source", item.artifact.SourcePath),
				logging.Error(err))
		}
	}
}
