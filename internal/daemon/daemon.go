package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/gofrs/flock"

	"colophon/internal/api"
	"colophon/internal/config"
	"colophon/internal/manuscripts"
	"colophon/internal/notifications"
	"colophon/internal/people"
	"colophon/internal/store"
	"colophon/internal/submissions"
	"colophon/internal/texts"
	"colophon/internal/workflow"
)

// Daemon owns the journal's long-running services and enforces
// single-instance execution via a lock file.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store

	directory *people.Directory
	accessor  *manuscripts.Accessor
	library   *texts.Library
	notifier  notifications.Service
	engine    *workflow.Engine
	intake    *submissions.Intake

	server *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	DatabasePath string
	LockFilePath string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, and logger")
	}

	directory := people.NewDirectory(st)
	accessor := manuscripts.NewAccessor(st, directory)
	library := texts.NewLibrary(st)
	notifier := notifications.NewService(cfg, directory)
	engine := workflow.NewEngine(accessor, directory, notifier, logger)
	intake := submissions.NewIntake(cfg.Paths.SubmissionsDir, accessor, notifier, logger)

	d := &Daemon{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		directory: directory,
		accessor:  accessor,
		library:   library,
		notifier:  notifier,
		engine:    engine,
		intake:    intake,
		lockPath:  cfg.LockFilePath(),
		lock:      flock.New(cfg.LockFilePath()),
	}
	server, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.server = server
	return d, nil
}

// Start acquires the daemon lock and brings up the API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another colophon daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	if d.server != nil {
		if err := d.server.start(runCtx); err != nil {
			_ = d.lock.Unlock()
			cancel()
			d.cancel = nil
			return err
		}
	}

	d.running.Store(true)
	d.logger.Info("colophon daemon started",
		"journal", d.cfg.Journal.Code, "lock", d.lockPath)
	return nil
}

// Stop shuts down the API server and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.server != nil {
		d.server.stop()
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", "error", err)
	}
	d.running.Store(false)
	d.logger.Info("colophon daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Addr returns the bound API address, or empty before Start.
func (d *Daemon) Addr() string {
	if d.server == nil {
		return ""
	}
	return d.server.addr()
}

// TestNotification triggers a test message using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Notifications.MailEndpoint) == "" {
		return false, "mail endpoint not configured", nil
	}
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// Status returns the current daemon status.
func (d *Daemon) Status(context.Context) Status {
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		DatabasePath: d.store.Path(),
		LockFilePath: d.lockPath,
	}
}

// Services returns the API service layer backed by this daemon.
func (d *Daemon) Services() (*api.ManuscriptService, *api.PeopleService, *api.TextService) {
	return api.NewManuscriptService(d.accessor, d.engine, d.intake),
		api.NewPeopleService(d.directory),
		api.NewTextService(d.library)
}
