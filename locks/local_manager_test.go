package locks

import (
	"context"
	"testing"
)

func TestLocalManagerAcquireRelease(t *testing.T) {
	m := NewLocalManager()
	ctx := context.Background()

	ok, err := m.Acquire(ctx, "file:/a.txt")
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}

	// Held lock cannot be re-acquired
	ok, err = m.Acquire(ctx, "file:/a.txt")
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if ok {
		t.Error("held lock was acquired twice")
	}

	// Independent keys do not contend
	ok, err = m.Acquire(ctx, "file:/b.txt")
	if err != nil || !ok {
		t.Errorf("independent key acquire: ok=%v err=%v", ok, err)
	}

	if err := m.Release(ctx, "file:/a.txt"); err != nil {
		t.Fatalf("release: %v", err)
	}

	ok, err = m.Acquire(ctx, "file:/a.txt")
	if err != nil || !ok {
		t.Errorf("acquire after release: ok=%v err=%v", ok, err)
	}
}

func TestLocalManagerCancelledContext(t *testing.T) {
	m := NewLocalManager()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Acquire(ctx, "key"); err == nil {
		t.Error("acquire with cancelled context should fail")
	}
	if err := m.Release(ctx, "key"); err == nil {
		t.Error("release with cancelled context should fail")
	}
}

func TestLocalManagerClose(t *testing.T) {
	m := NewLocalManager()
	ctx := context.Background()

	if _, err := m.Acquire(ctx, "key"); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Close drops all held locks
	ok, err := m.Acquire(ctx, "key")
	if err != nil || !ok {
		t.Errorf("acquire after close: ok=%v err=%v", ok, err)
	}
}
