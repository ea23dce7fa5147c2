package main

import (
	"fmt"
	"os"

	"github.com/archonlabs/archon/internal/config"
	"github.com/archonlabs/archon/internal/executor"
	"github.com/archonlabs/archon/internal/history"
	"github.com/archonlabs/archon/internal/learning"
	"github.com/archonlabs/archon/internal/planner"
	"github.com/archonlabs/archon/internal/reasoning"
	"github.com/archonlabs/archon/internal/tool"
)

// loadConfig honors the --config flag and falls back to discovery.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}
	return config.Load()
}

// engineDeps bundles everything buildEngine wires together so commands
// can reach the parts they report on.
type engineDeps struct {
	engine  *reasoning.Engine
	planner *planner.Planner
	store   *history.Store
	logger  *executor.DebugLogger
}

// Close releases the engine's file-backed resources.
func (d *engineDeps) Close() {
	if d.store != nil {
		d.store.Close()
	}
	d.logger.Close()
}

// buildEngine assembles the full pipeline: sandbox tool registry, planner
// with playbook, executor, reasoning engine and optional run history.
func buildEngine(cfg *config.Config) (*engineDeps, error) {
	plannerOpts := []planner.Option{planner.WithMaxSteps(cfg.Defaults.MaxPlanSteps)}
	if cfg.Planner.PlaybookPath != "" {
		pb := planner.NewPlaybook()
		if err := pb.LoadFile(cfg.Planner.PlaybookPath); err != nil {
			return nil, fmt.Errorf("load playbook: %w", err)
		}
		plannerOpts = append(plannerOpts, planner.WithPlaybook(pb))
	}
	p := planner.New(learning.NewStore(), plannerOpts...)

	logPath := cfg.Logging.DebugLog
	if debugLogPath != "" {
		logPath = debugLogPath
	}
	logger, err := executor.NewDebugLogger(logPath)
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}

	x := executor.New(p, tool.NewSandboxRegistry(),
		executor.WithMaxRetries(cfg.Defaults.MaxRetries),
		executor.WithMaxDepth(cfg.Defaults.MaxTreeDepth),
		executor.WithLogger(logger),
	)

	deps := &engineDeps{planner: p, logger: logger}

	var engineOpts []reasoning.Option
	if cfg.History.Enabled {
		store, err := openHistory(cfg)
		if err != nil {
			logger.Close()
			return nil, err
		}
		deps.store = store
		engineOpts = append(engineOpts, reasoning.WithRecorder(store))
	}

	deps.engine = reasoning.New(p, x, engineOpts...)
	return deps, nil
}

// openHistory opens and migrates the run-history database: the configured
// path if set, else the project database, else the global one.
func openHistory(cfg *config.Config) (*history.Store, error) {
	path := cfg.History.Path
	if path == "" {
		path = history.GlobalDBPath()
		if cwd, err := os.Getwd(); err == nil {
			if _, err := os.Stat(history.ProjectDBPath(cwd)); err == nil {
				path = history.ProjectDBPath(cwd)
			}
		}
	}

	store, err := history.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrate history database: %w", err)
	}
	return store, nil
}

// openHistoryReadOnly opens whichever history database exists, for the
// status and history commands. Returns nil when none exists yet.
func openHistoryReadOnly() (*history.Store, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	path := history.ProjectDBPath(cwd)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = history.GlobalDBPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	store, err := history.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrate history database: %w", err)
	}
	return store, nil
}
