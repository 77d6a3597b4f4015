package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"avexport/internal/config"
	"avexport/internal/logging"
)

// Runner is the long-running loop the daemon supervises.
type Runner interface {
	Run(ctx context.Context) error
}

// Daemon wraps the export loop with single-instance locking and lifecycle
// control.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	loop   Runner

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
	loopErr error
}

// New constructs a daemon around the export loop.
func New(cfg *config.Config, loop Runner, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || loop == nil {
		return nil, errors.New("daemon requires config and loop")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "avexportd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		loop:     loop,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock and launches the export loop. The loop
// stops when ctx is cancelled or a fatal export error occurs.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := d.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another exporter instance is already running")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.running.Store(true)

	go func() {
		d.loopErr = d.loop.Run(loopCtx)
		close(d.done)
	}()

	d.logger.Info("exporter daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Wait blocks until the loop exits and returns its error, if any.
func (d *Daemon) Wait() error {
	if !d.running.Load() {
		return nil
	}
	<-d.done
	return d.loopErr
}

// Stop cancels the loop, waits for it to exit, and releases the lock. The
// loop finishes the interview in flight; cancellation is honored between
// interviews and between artifact copies.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	<-d.done
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("exporter daemon stopped")
}

// Running reports whether the loop is active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// LockPath returns the instance lock file location.
func (d *Daemon) LockPath() string {
	return d.lockPath
}
