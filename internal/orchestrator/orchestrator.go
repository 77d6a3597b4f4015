package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"avexport/internal/assets"
	"avexport/internal/config"
	"avexport/internal/logging"
	"avexport/internal/services"
)

// Selector finds exportable work in the shared pipeline database.
type Selector interface {
	NextReadyInterview(ctx context.Context, studyID string) (string, error)
	CollectArtifacts(ctx context.Context, interviewName string) ([]assets.Artifact, error)
}

// Exporter moves one interview's artifact batch into the export tree.
type Exporter interface {
	Export(ctx context.Context, interviewName string, artifacts []assets.Artifact) (int, error)
}

// ClaimStore marks interviews as in-flight across exporter instances.
type ClaimStore interface {
	Claim(ctx context.Context, interviewName, claimID string) (bool, error)
	ReleaseClaim(ctx context.Context, interviewName, claimID string) error
	ReleaseStaleClaims(ctx context.Context, cutoff time.Time) (int64, error)
}

// Options carries the loop's scheduling parameters.
type Options struct {
	Studies      []string
	IdleSnooze   time.Duration
	ErrorRetry   time.Duration
	ClaimTimeout time.Duration
	DryRun       bool
}

// OptionsFromConfig maps the workflow configuration onto loop options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Studies:      cfg.Export.Studies,
		IdleSnooze:   time.Duration(cfg.Workflow.IdleSnoozeSeconds) * time.Second,
		ErrorRetry:   time.Duration(cfg.Workflow.ErrorRetrySeconds) * time.Second,
		ClaimTimeout: time.Duration(cfg.Workflow.ClaimTimeoutMinutes) * time.Minute,
		DryRun:       cfg.Export.DryRun,
	}
}

// Orchestrator owns the scheduling state: the study cursor, the
// since-last-report counter, and in dry-run mode the set of interviews
// already resolved (nothing is persisted, so without it the same interview
// would be re-selected forever).
type Orchestrator struct {
	opts     Options
	selector Selector
	exporter Exporter
	claims   ClaimStore
	logger   *slog.Logger

	exportedSinceReport int
	dryRunSeen          map[string]struct{}
}

// New constructs the export loop over its collaborators.
func New(opts Options, selector Selector, exporter Exporter, claims ClaimStore, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		opts:       opts,
		selector:   selector,
		exporter:   exporter,
		claims:     claims,
		logger:     logging.NewComponentLogger(logger, "orchestrator"),
		dryRunSeen: make(map[string]struct{}),
	}
}

// Run cycles over the configured studies until the context is cancelled.
// It returns nil on cancellation and an error only for fatal conditions.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.logger.Info("export loop started",
		logging.Int("studies", len(o.opts.Studies)),
		logging.Bool("dry_run", o.opts.DryRun))

	for {
		if ctx.Err() != nil {
			o.logger.Info("export loop stopped")
			return nil
		}

		if err := o.runPass(ctx); err != nil {
			return err
		}

		if o.exportedSinceReport > 0 {
			o.logger.Info("exported assets",
				logging.Int("interviews", o.exportedSinceReport))
			o.exportedSinceReport = 0
		}

		o.logger.Info("no pending exports, snoozing",
			logging.Duration("snooze", o.opts.IdleSnooze))
		if !sleepContext(ctx, o.opts.IdleSnooze) {
			o.logger.Info("export loop stopped")
			return nil
		}
	}
}

// runPass visits every study once, draining each study's backlog before
// advancing the cursor. A pass ends with every study observed empty, which
// is what lets Run snooze exactly once afterwards.
func (o *Orchestrator) runPass(ctx context.Context) error {
	o.releaseStaleClaims(ctx)

	for _, study := range o.opts.Studies {
		studyCtx := services.WithStudy(ctx, study)
		for {
			if ctx.Err() != nil {
				return nil
			}

			interview, err := o.selector.NextReadyInterview(studyCtx, study)
			if err != nil {
				logging.WithContext(studyCtx, o.logger).Error("interview selection failed", logging.Error(err))
				if !sleepContext(ctx, o.opts.ErrorRetry) {
					return nil
				}
				break
			}
			if interview == "" {
				break
			}
			if o.opts.DryRun {
				if _, seen := o.dryRunSeen[interview]; seen {
					break
				}
				o.dryRunSeen[interview] = struct{}{}
			}

			ok, err := o.processInterview(services.WithInterview(studyCtx, interview), interview)
			if err != nil {
				return err
			}
			if ok {
				o.exportedSinceReport++
				continue
			}
			// A skipped interview stays claimed or errored for this cycle;
			// move to the next study rather than hammering the same study.
			break
		}
	}
	return nil
}

// processInterview claims, collects, and exports one interview. It returns
// true on a completed export, false on a recoverable skip, and a non-nil
// error only when the failure must terminate the process.
func (o *Orchestrator) processInterview(ctx context.Context, interview string) (bool, error) {
	logger := logging.WithContext(ctx, o.logger)

	claimID := uuid.NewString()
	if !o.opts.DryRun {
		won, err := o.claims.Claim(ctx, interview, claimID)
		if err != nil {
			logger.Error("claim failed", logging.Error(err))
			return false, nil
		}
		if !won {
			logger.Debug("interview claimed by another instance")
			return false, nil
		}
	}

	artifacts, err := o.selector.CollectArtifacts(ctx, interview)
	if err != nil {
		logger.Error("artifact collection failed", logging.Error(err))
		o.releaseClaim(ctx, interview, claimID)
		return false, nil
	}
	if len(artifacts) == 0 {
		// Ready upstream but nothing to move. Keep the claim so the
		// interview is not re-selected until the claim ages out.
		logger.Warn("no artifacts found for ready interview")
		return false, nil
	}

	exported, err := o.exporter.Export(ctx, interview, artifacts)
	if err != nil {
		o.releaseClaim(ctx, interview, claimID)
		if services.IsFatal(err) {
			logger.Error("fatal export failure", logging.Error(err))
			return false, err
		}
		logger.Error("export failed", logging.Error(err))
		return false, nil
	}

	o.releaseClaim(ctx, interview, claimID)
	logger.Info("interview exported", logging.Int("artifacts", exported))
	return true, nil
}

// releaseClaim drops this instance's claim. After a successful export the
// ledger rows are the gate, so the claim is just tidy-up; failures are only
// logged because a leftover claim ages out on its own.
func (o *Orchestrator) releaseClaim(ctx context.Context, interview, claimID string) {
	if o.opts.DryRun {
		return
	}
	if err := o.claims.ReleaseClaim(ctx, interview, claimID); err != nil {
		logging.WithContext(ctx, o.logger).Warn("claim release failed", logging.Error(err))
	}
}

func (o *Orchestrator) releaseStaleClaims(ctx context.Context) {
	if o.opts.DryRun || o.opts.ClaimTimeout <= 0 {
		return
	}
	cutoff := time.Now().Add(-o.opts.ClaimTimeout)
	released, err := o.claims.ReleaseStaleClaims(ctx, cutoff)
	if err != nil {
		o.logger.Warn("stale claim sweep failed", logging.Error(err))
		return
	}
	if released > 0 {
		o.logger.Info("released stale claims", logging.Int64("claims", released))
	}
}

// sleepContext blocks for the duration and reports false if the context was
// cancelled first.
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
