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

package panel

import (
	"testing"
	"time"
)

func TestManualSchedulerOrder(t *testing.T) {
	s := NewManualScheduler()
	var order []int
	s.AfterFunc(30*time.Millisecond, func() { order = append(order, 3) })
	s.AfterFunc(10*time.Millisecond, func() { order = append(order, 1) })
	s.AfterFunc(10*time.Millisecond, func() { order = append(order, 2) })
	if n := s.Advance(5 * time.Millisecond); n != 0 {
		t.Fatalf("nothing due yet, fired %d", n)
	}
	if n := s.Advance(25 * time.Millisecond); n != 3 {
		t.Fatalf("expected 3 fired, got %d", n)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("unexpected order %v", order)
	}
	if s.Now() != 30*time.Millisecond {
		t.Fatalf("clock at %v", s.Now())
	}
}

func TestManualSchedulerStop(t *testing.T) {
	s := NewManualScheduler()
	fired := false
	tm := s.AfterFunc(time.Millisecond, func() { fired = true })
	if !tm.Stop() {
		t.Fatalf("first stop should cancel")
	}
	if tm.Stop() {
		t.Fatalf("second stop should report false")
	}
	s.Advance(time.Second)
	if fired || s.Pending() != 0 {
		t.Fatalf("cancelled timer fired")
	}
}

func TestManualSchedulerRearmWithinAdvance(t *testing.T) {
	s := NewManualScheduler()
	n := 0
	var tick func()
	tick = func() {
		n++
		s.AfterFunc(10*time.Millisecond, tick)
	}
	s.AfterFunc(10*time.Millisecond, tick)
	s.Advance(55 * time.Millisecond)
	if n != 5 {
		t.Fatalf("expected 5 re-armed ticks, got %d", n)
	}
	if s.Pending() != 1 {
		t.Fatalf("expected one pending tick, got %d", s.Pending())
	}
}
