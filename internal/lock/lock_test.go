package lock

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locks", "sales.lock")

	l, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	held, pid, err := IsHeld(path)
	if err != nil || !held || pid != os.Getpid() {
		t.Errorf("IsHeld = %v, %d, %v", held, pid, err)
	}

	// The owning process may acquire again.
	if _, err := Acquire(path); err != nil {
		t.Errorf("re-acquire by owner: %v", err)
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := l.Release(); err != nil {
		t.Errorf("second Release: %v", err)
	}
	if held, _, _ := IsHeld(path); held {
		t.Error("lock should be free after release")
	}
}

func TestAcquire_HeldByOther(t *testing.T) {
	cmd := exec.Command("sleep", "5")
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot start helper process: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})

	path := filepath.Join(t.TempDir(), "sales.lock")
	if err := os.WriteFile(path, []byte(strconv.Itoa(cmd.Process.Pid)), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Acquire(path); !errors.Is(err, ErrHeld) {
		t.Errorf("expected ErrHeld, got %v", err)
	}
}

func TestAcquire_StaleOrGarbage(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{"garbage": "not a pid", "zero": "0"} {
		path := filepath.Join(dir, name+".lock")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Acquire(path); err != nil {
			t.Errorf("%s: expected takeover, got %v", name, err)
		}
	}
}
