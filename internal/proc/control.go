// Package proc controls the background daemon process: spawning it
// detached, tracking liveness through a PID marker file, and stopping
// it with a bounded grace period.
package proc

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrNotRunning is returned by Stop when no live daemon is found.
var ErrNotRunning = errors.New("daemon is not running")

// gracePeriod is how long Stop waits for a terminated daemon to exit
// before escalating to a hard kill.
const gracePeriod = 5 * time.Second

// Controller manages the daemon identified by a PID file in dataDir.
type Controller struct {
	pidPath string
	logPath string
}

func New(dataDir string) *Controller {
	return &Controller{
		pidPath: filepath.Join(dataDir, "remind.pid"),
		logPath: filepath.Join(dataDir, "daemon.log"),
	}
}

// IsRunning reports whether the daemon recorded in the PID file is
// alive. A stale marker (missing, unreadable, or pointing at a dead
// process) reads as not running and is discarded.
func (c *Controller) IsRunning() (int, bool) {
	pid, err := readPIDFile(c.pidPath)
	if err != nil {
		return 0, false
	}
	if !processAlive(pid) {
		os.Remove(c.pidPath)
		return 0, false
	}
	return pid, true
}

// Start re-executes the current binary with args as a detached
// background process, routes its output to the daemon log file, and
// records the child PID.
func (c *Controller) Start(args ...string) (int, error) {
	exe, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("locating executable: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.logPath), 0o755); err != nil {
		return 0, fmt.Errorf("creating data directory: %w", err)
	}
	logFile, err := os.OpenFile(c.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return 0, fmt.Errorf("opening daemon log: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(exe, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = detachAttr()

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("starting daemon: %w", err)
	}

	pid := cmd.Process.Pid
	if err := writePIDFile(c.pidPath, pid); err != nil {
		cmd.Process.Kill()
		return 0, fmt.Errorf("writing PID file: %w", err)
	}
	cmd.Process.Release()

	return pid, nil
}

// Stop terminates the running daemon, waiting up to the grace period
// for it to exit before killing it outright. The PID file is removed
// either way.
func (c *Controller) Stop() (int, error) {
	pid, ok := c.IsRunning()
	if !ok {
		return 0, ErrNotRunning
	}

	if err := terminate(pid); err != nil {
		os.Remove(c.pidPath)
		return pid, fmt.Errorf("stopping daemon (PID %d): %w", pid, err)
	}

	deadline := time.Now().Add(gracePeriod)
	for time.Now().Before(deadline) {
		if !processAlive(pid) {
			os.Remove(c.pidPath)
			return pid, nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	// Grace period elapsed; escalate.
	if err := kill(pid); err != nil {
		os.Remove(c.pidPath)
		return pid, fmt.Errorf("killing daemon (PID %d): %w", pid, err)
	}
	os.Remove(c.pidPath)
	return pid, nil
}

// WritePID records the current process in the PID file. Called by the
// daemon itself when run in the foreground.
func (c *Controller) WritePID() error {
	return writePIDFile(c.pidPath, os.Getpid())
}

// RemovePID deletes the PID file, but only if it still belongs to the
// current process.
func (c *Controller) RemovePID() {
	if pid, err := readPIDFile(c.pidPath); err == nil && pid == os.Getpid() {
		os.Remove(c.pidPath)
	}
}

func writePIDFile(path string, pid int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}
