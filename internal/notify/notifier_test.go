package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vera-byte/vgo-diet/internal/notify"
)

func TestNotifyDropsWithinWindow(t *testing.T) {
	clock := notify.NewManualClock(time.Unix(1700000000, 0))
	rec := &notify.Recorder{}
	n := notify.New(notify.NewMemoryLimiter(clock), rec)
	ctx := context.Background()

	tests := []struct {
		name    string
		advance time.Duration
		want    bool
	}{
		{name: "first", advance: 0, want: true},
		{name: "same instant", advance: 0, want: false},
		{name: "inside window", advance: 499 * time.Millisecond, want: false},
		{name: "window elapsed", advance: time.Millisecond, want: true},
		{name: "just after reopen", advance: 100 * time.Millisecond, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock.Advance(tt.advance)
			if got := n.Notify(ctx, tt.name); got != tt.want {
				t.Errorf("Notify() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := rec.Messages(); len(got) != 2 || got[0] != "first" || got[1] != "window elapsed" {
		t.Errorf("unexpected messages: %v", got)
	}
}

func TestNotifyConcurrentShowsOnce(t *testing.T) {
	clock := notify.NewManualClock(time.Unix(1700000000, 0))
	rec := &notify.Recorder{}
	n := notify.New(notify.NewMemoryLimiter(clock), rec)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.Notify(context.Background(), "boom")
		}()
	}
	wg.Wait()

	if rec.Len() != 1 {
		t.Fatalf("expected exactly one notification, got %d", rec.Len())
	}
}

func TestNotifyCustomWindow(t *testing.T) {
	clock := notify.NewManualClock(time.Unix(0, 0))
	rec := &notify.Recorder{}
	n := notify.New(notify.NewMemoryLimiter(clock), rec, notify.WithWindow(2*time.Second), notify.WithKey("k"))

	n.Notify(context.Background(), "a")
	clock.Advance(time.Second)
	n.Notify(context.Background(), "b")
	clock.Advance(time.Second)
	n.Notify(context.Background(), "c")

	if got := rec.Messages(); len(got) != 2 || got[1] != "c" {
		t.Errorf("unexpected messages: %v", got)
	}
}

type failingLimiter struct{}

func (failingLimiter) Acquire(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}

func (failingLimiter) Reset(context.Context, string) error { return nil }

func TestNotifyFailsOpen(t *testing.T) {
	rec := &notify.Recorder{}
	n := notify.New(failingLimiter{}, rec)
	if !n.Notify(context.Background(), "x") {
		t.Fatal("expected notification to be shown when limiter errors")
	}
}

func TestNoOpLimiterAlwaysShows(t *testing.T) {
	rec := &notify.Recorder{}
	n := notify.New(notify.NoOpLimiter{}, rec)
	for i := 0; i < 3; i++ {
		n.Notify(context.Background(), "x")
	}
	if rec.Len() != 3 {
		t.Fatalf("expected 3 notifications, got %d", rec.Len())
	}
}

func TestMemoryLimiterReset(t *testing.T) {
	l := notify.NewMemoryLimiter(notify.NewManualClock(time.Unix(0, 0)))
	ctx := context.Background()
	if ok, _ := l.Acquire(ctx, "k", time.Minute); !ok {
		t.Fatal("first acquire should succeed")
	}
	if ok, _ := l.Acquire(ctx, "k", time.Minute); ok {
		t.Fatal("second acquire should fail")
	}
	if err := l.Reset(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := l.Acquire(ctx, "k", time.Minute); !ok {
		t.Fatal("acquire after reset should succeed")
	}
}

func TestNewLimiterTypes(t *testing.T) {
	tests := []struct {
		typ     string
		wantErr bool
	}{
		{typ: "", wantErr: false},
		{typ: "memory", wantErr: false},
		{typ: "none", wantErr: false},
		{typ: "redis", wantErr: false},
		{typ: "etcd", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			_, err := notify.NewLimiter(notify.LimiterConfig{Type: tt.typ, RedisAddr: "127.0.0.1:0"})
			if (err != nil) != tt.wantErr {
				t.Errorf("NewLimiter(%q) err = %v, wantErr %v", tt.typ, err, tt.wantErr)
			}
		})
	}
}

func TestRedisLimiterKey(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   string
	}{
		{name: "default prefix", want: "vgo-diet:notify:error-message"},
		{name: "custom prefix", prefix: "team-a", want: "team-a:error-message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := notify.NewLimiter(notify.LimiterConfig{Type: "redis", Prefix: tt.prefix, RedisAddr: "127.0.0.1:0"})
			if err != nil {
				t.Fatal(err)
			}
			rl, ok := l.(*notify.RedisLimiter)
			if !ok {
				t.Fatalf("limiter = %T, want *notify.RedisLimiter", l)
			}
			defer rl.Close()
			if got := rl.Key(notify.DefaultKey); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}
