package editing

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestManagerCreateGetRemove(t *testing.T) {
	m := NewManager()
	a := m.Create()
	b := m.Create()
	if a.ID() == b.ID() {
		t.Fatalf("expected distinct ids, got=%s", a.ID())
	}

	got, err := m.Get(a.ID())
	if err != nil || got != a {
		t.Fatalf("expected session a, got=%v err=%v", got, err)
	}
	if !m.Remove(a.ID()) {
		t.Fatal("expected remove to succeed")
	}
	if m.Remove(a.ID()) {
		t.Fatal("expected second remove to fail")
	}
	if _, err := m.Get(a.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got=%v", err)
	}
	if n := len(m.List()); n != 1 {
		t.Fatalf("expected one session listed, got=%d", n)
	}
}

func TestManagerReapsIdleSessions(t *testing.T) {
	m := NewManager()
	stale := m.Create()
	fresh := m.Create()

	stale.touch(time.Now().UTC().Add(-time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx, 10*time.Millisecond, time.Minute)
	time.Sleep(50 * time.Millisecond)

	if _, err := m.Get(stale.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected stale session reaped, got=%v", err)
	}
	if !m.Touch(fresh.ID()) {
		t.Fatal("expected fresh session kept")
	}
}

func TestManagerKeepsRunningSessions(t *testing.T) {
	m := NewManager()
	s := m.Create()
	if _, err := s.StartRun(); err != nil {
		t.Fatalf("start run: %v", err)
	}
	s.touch(time.Now().UTC().Add(-time.Hour))

	if n := m.reap(time.Minute); n != 0 {
		t.Fatalf("expected running session kept, reaped=%d", n)
	}
	if m.Len() != 1 {
		t.Fatalf("expected one session, got=%d", m.Len())
	}
}

func TestManagerRemoveAbortsRun(t *testing.T) {
	m := NewManager()
	s := m.Create()
	run, err := s.StartRun()
	if err != nil {
		t.Fatalf("start run: %v", err)
	}
	m.Remove(s.ID())
	if !run.Done() {
		t.Fatal("expected run aborted on remove")
	}
}
