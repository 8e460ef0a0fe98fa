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

package view

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/slotstop/game"
	"github.com/zintix-labs/slotstop/panel"
	"github.com/zintix-labs/slotstop/symbol"
)

func TestBoardTracksController(t *testing.T) {
	b := NewBoard()
	sched := panel.NewManualScheduler()
	c, err := game.New(game.Options{Picker: symbol.NewSeededPicker(3), Scheduler: sched, Surface: b})
	if err != nil {
		t.Fatal(err)
	}
	s := b.Snapshot()
	if len(s.Panels) != game.PanelCount || !s.StartEnabled {
		t.Fatalf("unexpected initial board %+v", s)
	}
	for i, pv := range s.Panels {
		if pv.Index != i || pv.StopEnabled || pv.Asset == "" {
			t.Fatalf("panel %d not initialised: %+v", i, pv)
		}
	}

	c.Start()
	s = b.Snapshot()
	if s.StartEnabled {
		t.Fatalf("start should be disabled")
	}
	for _, pv := range s.Panels {
		if !pv.StopEnabled {
			t.Fatalf("stop should be enabled: %+v", pv)
		}
	}
	for i := 0; i < game.PanelCount; i++ {
		sched.Advance(panel.TickInterval)
		c.Stop(i)
	}
	s = b.Snapshot()
	if !s.StartEnabled {
		t.Fatalf("start should be enabled after the round")
	}
	ps := c.Panels()
	for i, pv := range s.Panels {
		if pv.Image != ps[i].Image() || pv.Unmatched != ps[i].Marked() {
			t.Fatalf("board out of sync for panel %d: %+v", i, pv)
		}
	}
}

func TestBoardWait(t *testing.T) {
	b := NewBoard()
	b.CreatePanelVisual(0)
	v := b.Snapshot().Version

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := b.Wait(ctx, v); err == nil {
		t.Fatalf("expected timeout without changes")
	}

	done := make(chan Snapshot, 1)
	go func() {
		s, _ := b.Wait(context.Background(), v)
		done <- s
	}()
	time.Sleep(5 * time.Millisecond)
	b.SetStartEnabled(true)
	select {
	case s := <-done:
		if s.Version <= v || !s.StartEnabled {
			t.Fatalf("unexpected snapshot %+v", s)
		}
	case <-time.After(time.Second):
		t.Fatalf("wait did not wake up")
	}

	// 已經落後的版本立即回傳
	s, err := b.Wait(context.Background(), 0)
	if err != nil || s.Version == 0 {
		t.Fatalf("stale version should return immediately")
	}
}

func TestTermFormatAlignsWideGlyphs(t *testing.T) {
	s := Snapshot{
		StartEnabled: true,
		Panels: []PanelView{
			{Index: 0, Image: symbol.Seven, StopEnabled: true},
			{Index: 1, Image: symbol.Bell, Unmatched: true},
			{Index: 2, Image: symbol.Cherry},
		},
	}
	out := NewTerm(nil, false, false).Format(s)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), out)
	}
	want := runewidth.StringWidth(lines[0])
	for i := 1; i < 4; i++ {
		if w := runewidth.StringWidth(lines[i]); w != want {
			t.Fatalf("line %d width %d != %d:\n%s", i, w, want, out)
		}
	}
	if !strings.Contains(out, "🔔 x") || !strings.Contains(out, "[STOP 1]") || !strings.Contains(out, "[START (s)]") {
		t.Fatalf("missing markers:\n%s", out)
	}
}
