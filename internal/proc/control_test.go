package proc

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsRunningNoPIDFile(t *testing.T) {
	c := New(t.TempDir())
	if pid, running := c.IsRunning(); running {
		t.Errorf("IsRunning = (%d, true) with no PID file", pid)
	}
}

func TestIsRunningLiveProcess(t *testing.T) {
	c := New(t.TempDir())
	if err := c.WritePID(); err != nil {
		t.Fatalf("WritePID: %v", err)
	}

	pid, running := c.IsRunning()
	if !running {
		t.Fatal("IsRunning = false for the current process")
	}
	if pid != os.Getpid() {
		t.Errorf("pid = %d, want %d", pid, os.Getpid())
	}
}

// A PID file pointing at a dead process is a stale marker: it reads as
// not-running and gets cleaned up.
func TestIsRunningStaleMarkerSelfHeals(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)

	// PID max on Linux defaults to 4194304; anything above it is never alive.
	if err := writePIDFile(c.pidPath, 99999999); err != nil {
		t.Fatalf("writePIDFile: %v", err)
	}

	if pid, running := c.IsRunning(); running {
		t.Errorf("IsRunning = (%d, true) for a dead PID", pid)
	}
	if _, err := os.Stat(filepath.Join(dir, "remind.pid")); !os.IsNotExist(err) {
		t.Error("stale PID file was not discarded")
	}
}

func TestIsRunningGarbagePIDFile(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)

	if err := os.WriteFile(c.pidPath, []byte("not-a-pid"), 0o644); err != nil {
		t.Fatalf("writing garbage PID file: %v", err)
	}

	if _, running := c.IsRunning(); running {
		t.Error("IsRunning = true for unreadable PID content")
	}
}

func TestRemovePIDOnlyOwn(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)

	// A PID file belonging to another process stays put.
	if err := writePIDFile(c.pidPath, os.Getpid()+1); err != nil {
		t.Fatalf("writePIDFile: %v", err)
	}
	c.RemovePID()
	if _, err := os.Stat(c.pidPath); err != nil {
		t.Error("RemovePID deleted another process's PID file")
	}

	// Our own is removed.
	if err := c.WritePID(); err != nil {
		t.Fatalf("WritePID: %v", err)
	}
	c.RemovePID()
	if _, err := os.Stat(c.pidPath); !os.IsNotExist(err) {
		t.Error("RemovePID left our own PID file behind")
	}
}

func TestStopNotRunning(t *testing.T) {
	c := New(t.TempDir())
	if _, err := c.Stop(); err != ErrNotRunning {
		t.Errorf("Stop error = %v, want ErrNotRunning", err)
	}
}

func TestPIDRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "remind.pid")
	if err := writePIDFile(path, 1234); err != nil {
		t.Fatalf("writePIDFile: %v", err)
	}
	pid, err := readPIDFile(path)
	if err != nil {
		t.Fatalf("readPIDFile: %v", err)
	}
	if pid != 1234 {
		t.Errorf("pid = %d, want 1234", pid)
	}
}
