package status

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestPersistentOverwrites(t *testing.T) {
	t.Parallel()

	r := New()
	r.Persistent(AreaMain, "first", LevelInfo)
	r.Persistent(AreaMain, "second", LevelDanger)

	msg, ok := r.PersistentMessage(AreaMain)
	if !ok {
		t.Fatal("expected a message in the main area")
	}
	if msg.Text != "second" {
		t.Errorf("Text = %q, want %q", msg.Text, "second")
	}
	if msg.Level != LevelDanger {
		t.Errorf("Level = %q, want %q", msg.Level, LevelDanger)
	}
}

func TestPersistentAreasIndependent(t *testing.T) {
	t.Parallel()

	r := New()
	r.Persistent("promo", "promo message", LevelInfo)
	r.Persistent("single-promo", "single message", LevelWarning)

	if msg, _ := r.PersistentMessage("promo"); msg.Text != "promo message" {
		t.Errorf("promo area = %q, want untouched", msg.Text)
	}
	if msg, _ := r.PersistentMessage("single-promo"); msg.Text != "single message" {
		t.Errorf("single-promo area = %q", msg.Text)
	}
}

func TestTransientExpires(t *testing.T) {
	t.Parallel()

	r := New()
	r.Transient("save-status", "Saved!", LevelSuccess, 20*time.Millisecond)

	if _, ok := r.TransientMessage("save-status"); !ok {
		t.Fatal("message should be visible immediately")
	}

	deadline := time.Now().Add(time.Second)
	for {
		if _, ok := r.TransientMessage("save-status"); !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("transient message never expired")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestTransientSupersedesTimer(t *testing.T) {
	t.Parallel()

	r := New()
	r.Transient("k", "first", LevelInfo, 30*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	// Second message resets the clock; the first timer must not clear it.
	r.Transient("k", "second", LevelInfo, 200*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	msg, ok := r.TransientMessage("k")
	if !ok {
		t.Fatal("second message was cleared by the superseded timer")
	}
	if msg.Text != "second" {
		t.Errorf("Text = %q, want %q", msg.Text, "second")
	}
}

func TestTransientStickyWithoutDuration(t *testing.T) {
	t.Parallel()

	r := New()
	r.Transient("k", "working...", LevelInfo, 0)
	time.Sleep(30 * time.Millisecond)

	if _, ok := r.TransientMessage("k"); !ok {
		t.Fatal("sticky message should stay until cleared")
	}

	r.ClearTransient("k")
	if _, ok := r.TransientMessage("k"); ok {
		t.Fatal("message should be gone after ClearTransient")
	}
}

func TestClearTransientIdempotent(t *testing.T) {
	t.Parallel()

	r := New()
	var events []Event
	var mu sync.Mutex
	r.Subscribe(func(ev Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})

	r.ClearTransient("never-set")
	r.ClearTransient("never-set")

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 0 {
		t.Errorf("clearing an unset key emitted %d events, want 0", len(events))
	}
}

func TestToastIDsUnique(t *testing.T) {
	t.Parallel()

	r := New()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := r.Toast("hello", LevelInfo, 0)
		if !strings.HasPrefix(id, "toast-") {
			t.Fatalf("toast id %q missing prefix", id)
		}
		if seen[id] {
			t.Fatalf("duplicate toast id %q", id)
		}
		seen[id] = true
	}
	if got := len(r.ActiveToasts()); got != 50 {
		t.Errorf("ActiveToasts() = %d, want 50", got)
	}
}

func TestDismissToastIdempotent(t *testing.T) {
	t.Parallel()

	r := New()
	id := r.Toast("bye", LevelWarning, 0)

	r.DismissToast(id)
	r.DismissToast(id) // second dismiss is a no-op

	if got := len(r.ActiveToasts()); got != 0 {
		t.Errorf("ActiveToasts() = %d, want 0", got)
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	t.Parallel()

	r := New()
	var mu sync.Mutex
	var got []Event
	r.Subscribe(func(ev Event) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	})

	r.Persistent(AreaMain, "hello", LevelInfo)
	r.Transient("k", "hi", LevelSuccess, 0)
	r.ClearTransient("k")

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 3 {
		t.Fatalf("received %d events, want 3", len(got))
	}
	if got[0].Channel != ChannelPersistent || got[0].Key != AreaMain {
		t.Errorf("event 0 = %+v", got[0])
	}
	if got[1].Channel != ChannelTransient || got[1].Cleared {
		t.Errorf("event 1 = %+v", got[1])
	}
	if !got[2].Cleared {
		t.Errorf("event 2 should be a clear, got %+v", got[2])
	}
}
