// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/zintix-labs/slotstop/errs"
	"github.com/zintix-labs/slotstop/game"
	"github.com/zintix-labs/slotstop/panel"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Add(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestStore(limit, hist int) (*Store, *panel.ManualScheduler, *fakeClock) {
	sched := panel.NewManualScheduler()
	clk := &fakeClock{t: time.Unix(1700000000, 0)}
	st := NewStore(Options{
		TTL:         time.Minute,
		MaxSessions: limit,
		HistorySize: hist,
		Seed:        7,
		Scheduler:   sched,
		Now:         clk.Now,
	})
	return st, sched, clk
}

func playRound(t *testing.T, s *Session, sched *panel.ManualScheduler) {
	t.Helper()
	if !s.Controller().Start() {
		t.Fatalf("start rejected")
	}
	for i := 0; i < game.PanelCount; i++ {
		sched.Advance(panel.TickInterval)
		if ok, err := s.Controller().Stop(i); !ok || err != nil {
			t.Fatalf("stop %d: ok=%v err=%v", i, ok, err)
		}
	}
}

func TestCreateGetDelete(t *testing.T) {
	st, _, _ := newTestStore(4, 5)
	s, err := st.Create()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(s.ID); err != nil {
		t.Fatalf("id %q is not a uuid: %v", s.ID, err)
	}
	if !s.Board().Snapshot().StartEnabled {
		t.Fatalf("new session must start with START enabled")
	}
	got, err := st.Get(s.ID)
	if err != nil || got != s {
		t.Fatalf("get: %v", err)
	}
	if err := st.Delete(s.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Get(s.ID); errs.LevelOf(err) != errs.NotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := st.Delete(s.ID); errs.LevelOf(err) != errs.NotFound {
		t.Fatalf("double delete should be not found, got %v", err)
	}
	if s.Controller().Start() {
		t.Fatalf("deleted session must not start")
	}
}

func TestCapacity(t *testing.T) {
	st, _, _ := newTestStore(2, 5)
	for i := 0; i < 2; i++ {
		if _, err := st.Create(); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := st.Create(); errs.LevelOf(err) != errs.Warn {
		t.Fatalf("expected warn at capacity, got %v", err)
	}
	if st.Len() != 2 {
		t.Fatalf("len=%d", st.Len())
	}
}

func TestHistoryRing(t *testing.T) {
	st, sched, _ := newTestStore(1, 3)
	s, err := st.Create()
	if err != nil {
		t.Fatal(err)
	}
	if len(s.History()) != 0 {
		t.Fatalf("fresh session has history")
	}
	for i := 0; i < 5; i++ {
		playRound(t, s, sched)
	}
	h := s.History()
	if len(h) != 3 {
		t.Fatalf("history len=%d want 3", len(h))
	}
	for i, want := range []uint64{3, 4, 5} {
		if h[i].Seq != want {
			t.Fatalf("history[%d].Seq=%d want %d", i, h[i].Seq, want)
		}
	}
}

func TestSweepExpiresIdle(t *testing.T) {
	st, _, clk := newTestStore(4, 5)
	a, _ := st.Create()
	b, _ := st.Create()

	clk.Add(40 * time.Second)
	if _, err := st.Get(b.ID); err != nil {
		t.Fatal(err)
	}
	clk.Add(30 * time.Second)

	if n := st.Sweep(); n != 1 {
		t.Fatalf("swept %d want 1", n)
	}
	if _, err := st.Get(a.ID); errs.LevelOf(err) != errs.NotFound {
		t.Fatalf("idle session should be gone")
	}
	if _, err := st.Get(b.ID); err != nil {
		t.Fatalf("touched session should survive: %v", err)
	}
}

func TestRunShutdown(t *testing.T) {
	st, _, _ := newTestStore(4, 5)
	s, _ := st.Create()

	errCh := make(chan error, 1)
	go func() { errCh <- st.Run() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	// Run 可能尚未啟動；Shutdown 兩種情況都必須正常結束
	if err := st.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return")
	}
	if st.Len() != 0 || s.Controller().Status().StartEnabled {
		t.Fatalf("shutdown must close every session")
	}
}

func TestSeededSessionsAreReproducible(t *testing.T) {
	a, _, _ := newTestStore(1, 1)
	b, _, _ := newTestStore(1, 1)
	sa, _ := a.Create()
	sb, _ := b.Create()
	pa, pb := sa.Board().Snapshot().Panels, sb.Board().Snapshot().Panels
	for i := range pa {
		if pa[i].Image != pb[i].Image {
			t.Fatalf("same seed, different initial image at %d", i)
		}
	}
}
