package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kapilsuryawanshi/ReminderCLI/internal/config"
	"github.com/kapilsuryawanshi/ReminderCLI/internal/daemon"
	"github.com/kapilsuryawanshi/ReminderCLI/internal/notify"
	"github.com/kapilsuryawanshi/ReminderCLI/internal/proc"
	"github.com/kapilsuryawanshi/ReminderCLI/internal/storage"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the reminder daemon in the background",
	RunE: func(cmd *cobra.Command, args []string) error {
		return startDaemon()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the reminder daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopDaemon()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon and storage status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

var daemonCmd = &cobra.Command{
	Use:    "daemon",
	Short:  "Run the reminder daemon in the foreground",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon()
	},
}

func healthURL(port int) string {
	return fmt.Sprintf("http://127.0.0.1:%d/health", port)
}

func healthOK(port int) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(healthURL(port))
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func startDaemon() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctrl := proc.New(cfg.Storage.DataDir)
	if pid, running := ctrl.IsRunning(); running {
		printWarning("Reminder daemon is already running (PID %d)", pid)
		return nil
	}

	pid, err := ctrl.Start("daemon")
	if err != nil {
		return err
	}

	// Give the child a moment to come up before reporting success.
	for deadline := time.Now().Add(5 * time.Second); time.Now().Before(deadline); {
		if healthOK(cfg.Daemon.Port) {
			break
		}
		time.Sleep(200 * time.Millisecond)
	}

	printSuccess("Reminder daemon started with PID: %d", pid)
	return nil
}

func stopDaemon() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctrl := proc.New(cfg.Storage.DataDir)
	pid, err := ctrl.Stop()
	if errors.Is(err, proc.ErrNotRunning) {
		fmt.Println("Reminder daemon is not running")
		return nil
	}
	if err != nil {
		return err
	}

	printSuccess("Reminder daemon stopped (PID %d)", pid)
	return nil
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctrl := proc.New(cfg.Storage.DataDir)
	if pid, running := ctrl.IsRunning(); running {
		printStatus("Daemon", "running (PID %d)", pid)
		if healthOK(cfg.Daemon.Port) {
			printStatus("Health", "ok on port %d", cfg.Daemon.Port)
		} else {
			printStatus("Health", "not responding on port %d", cfg.Daemon.Port)
		}
	} else {
		printStatus("Daemon", "stopped")
	}

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close()

	reminders, err := store.ListAll()
	if err != nil {
		return fmt.Errorf("listing reminders: %w", err)
	}
	printStatus("Reminders", "%d", len(reminders))
	printStatus("Poll interval", "%s", cfg.Daemon.PollInterval)
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}

// durationOr parses a config duration string, falling back to def.
func durationOr(val string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(val)
	if err != nil {
		slog.Warn("invalid duration in config, using default", "value", val, "default", def, "error", err)
		return def
	}
	return d
}

func runDaemon() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize structured logging.
	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	// Refuse to double-start: a responding health endpoint means a live
	// daemon, a merely stale PID file self-heals inside IsRunning.
	ctrl := proc.New(cfg.Storage.DataDir)
	if healthOK(cfg.Daemon.Port) {
		if pid, running := ctrl.IsRunning(); running {
			return fmt.Errorf("daemon already running (PID %d)", pid)
		}
		return fmt.Errorf("daemon already running on port %d", cfg.Daemon.Port)
	}
	if err := ctrl.WritePID(); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer ctrl.RemovePID()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("closing storage", "error", err)
		}
	}()

	loop := daemon.NewLoop(
		store,
		notify.NewDialog(),
		durationOr(cfg.Daemon.PollInterval, 30*time.Second),
		durationOr(cfg.Daemon.Backoff, 2*time.Minute),
		durationOr(cfg.Daemon.Snooze, 5*time.Minute),
	)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Daemon.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: daemon.NewHealthHandler(version),
	}

	slog.Info("reminder daemon started", "pid", os.Getpid(), "addr", addr,
		"poll_interval", cfg.Daemon.PollInterval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loop.Run(gctx)
		return nil
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	slog.Info("reminder daemon stopped")
	return err
}
