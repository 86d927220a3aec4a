package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"nga/internal/config"
	"nga/internal/depgraph"
	ngaerrors "nga/internal/errors"
	"nga/internal/slogutil"
)

// session is the state shared by every command invocation.
type session struct {
	root   string
	cfg    *config.Config
	logger *slog.Logger
	close  func() error
}

// openSession resolves the workspace root, loads its configuration and
// builds the logger.
func openSession(cmd *cobra.Command) (*session, error) {
	root, err := filepath.Abs(workspaceDir)
	if err != nil {
		return nil, ngaerrors.NewNgaError(ngaerrors.WorkspaceUnreadable, "cannot resolve workspace root", err,
			ngaerrors.GetSuggestedFixes(ngaerrors.WorkspaceUnreadable))
	}

	cfg, err := config.LoadConfig(root)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closeLog, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return nil, err
	}
	return &session{root: root, cfg: cfg, logger: logger, close: closeLog}, nil
}

// newLogger builds the command logger. Flags override the configured
// level and format; --log-file tees every record as JSON into a file.
func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, func() error, error) {
	level := slogutil.LevelFromString(cfg.Logging.Level)
	switch {
	case logLevel != "":
		level = slogutil.LevelFromString(logLevel)
	case quiet || verbosity > 1:
		level = slogutil.LevelFromVerbosity(verbosity, quiet)
	}

	format := cfg.Logging.Format
	if logFormat != "" {
		format = logFormat
	}
	handler := slogutil.NewHandler(w, format, level)

	if logFile == "" {
		return slog.New(handler), func() error { return nil }, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	tee := slogutil.NewTeeHandler(handler, slogutil.NewHandler(f, "json", slog.LevelDebug))
	return slog.New(tee), f.Close, nil
}

// newContext returns a context cancelled on interrupt or termination.
func newContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// workspacePath resolves p against the workspace root unless it is absolute.
func workspacePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// storePath is the graph database location: the flag, else the config.
func storePath(s *session, flag string) string {
	if flag != "" {
		return workspacePath(s.root, flag)
	}
	return workspacePath(s.root, s.cfg.Output.DBPath)
}

// openStore opens the graph store and returns the latest run, or the run
// named by runID.
func openStore(ctx context.Context, s *session, path, runID string) (*depgraph.Store, string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, "", ngaerrors.NewNgaError(ngaerrors.StoreFailed, "no graph store found", err,
			ngaerrors.GetSuggestedFixes(ngaerrors.StoreFailed)).
			WithDetails(map[string]string{"path": path})
	}
	store, err := depgraph.OpenStore(path, s.logger)
	if err != nil {
		return nil, "", err
	}
	if runID != "" {
		return store, runID, nil
	}
	run, err := store.LatestRun(ctx)
	if err != nil {
		store.Close()
		return nil, "", ngaerrors.NewNgaError(ngaerrors.StoreFailed, "graph store has no runs", err,
			ngaerrors.GetSuggestedFixes(ngaerrors.StoreFailed))
	}
	return store, run.ID, nil
}

// storeFile maps a user supplied file argument onto the workspace-relative
// form the store uses. Arguments naming an existing file are taken relative
// to the working directory; anything else is already workspace-relative.
func storeFile(root, arg string) string {
	candidate := arg
	if !filepath.IsAbs(candidate) {
		if abs, err := filepath.Abs(candidate); err == nil {
			if _, statErr := os.Stat(abs); statErr == nil {
				candidate = abs
			}
		}
	}
	if filepath.IsAbs(candidate) {
		if rel, err := filepath.Rel(root, candidate); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(filepath.Clean(arg))
}
