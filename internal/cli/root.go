// Package cli implements the budget command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/budgetkeeper/internal/config"
	"github.com/mmynk/budgetkeeper/internal/metrics"
	"github.com/mmynk/budgetkeeper/internal/service"
	"github.com/mmynk/budgetkeeper/internal/storage"
	"github.com/mmynk/budgetkeeper/internal/storage/memory"
	"github.com/mmynk/budgetkeeper/internal/storage/redis"
	"github.com/mmynk/budgetkeeper/internal/storage/sqlite"
	"github.com/mmynk/budgetkeeper/pkg/logging"
)

// app holds what every command needs once the root command has set up
// configuration and storage.
type app struct {
	configPath string
	out        io.Writer

	cfg     config.Config
	adapter *storage.JSONAdapter
	svc     *service.BudgetService
	metrics *metrics.Recorder

	loadConfig func(path string) (config.Config, error)
	openKV     func(config.StorageConfig) (storage.KV, error)
	now        func() time.Time
}

func newApp(out io.Writer) *app {
	return &app{
		out: out,
		loadConfig: func(path string) (config.Config, error) {
			return config.Load(config.Options{Path: path})
		},
		openKV: openKV,
		now:    time.Now,
	}
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	a := newApp(os.Stdout)
	root := a.rootCmd()
	root.SetArgs(args)
	start := time.Now()
	cmd, err := root.ExecuteContextC(ctx)
	logCommand(cmd, err, time.Since(start))
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "budget",
		Short: "Plan a personal budget from reusable templates",
		Long: `budget keeps a reusable template of income, bills, expenses, savings and
debt lines. Each pay period is created as an independent copy of the
template, so paid flags and one-off items never leak between periods.

Data is stored in ~/.budgetkeeper/budget.db by default. See --config.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.SetOut(a.out)

	root.AddCommand(
		a.templateCmd(),
		a.periodCmd(),
		a.summaryCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.clearCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	logging.SetupWithLevel(cfg.LogLevel())

	kv, err := a.openKV(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}
	a.adapter = storage.NewJSONAdapter(kv)
	a.metrics = metrics.NewRecorder()

	a.svc, err = service.NewBudgetService(cmd.Context(), a.adapter,
		service.WithMetrics(a.metrics),
		service.WithClock(a.now),
	)
	if err != nil {
		return err
	}
	return nil
}

func (a *app) teardown(*cobra.Command, []string) error {
	if path := a.cfg.Metrics.TextfilePath; path != "" && a.metrics != nil {
		if err := a.metrics.WriteTextfile(path); err != nil {
			slog.Warn("Failed to write metrics textfile", "path", path, "error", err)
		}
	}
	return nil
}

func (a *app) close() {
	if a.adapter == nil {
		return
	}
	if err := a.adapter.Close(); err != nil {
		slog.Warn("Failed to close storage", "error", err)
	}
	a.adapter = nil
}

// openKV opens the configured storage backend.
func openKV(cfg config.StorageConfig) (storage.KV, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return sqlite.New(cfg.SQLitePath)
	case config.BackendRedis:
		return redis.New(redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendNone:
		return storage.Unavailable(), nil
	}
	return nil, errors.New("unknown storage backend " + cfg.Backend)
}
