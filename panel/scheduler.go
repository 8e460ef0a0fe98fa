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
	"slices"
	"sync"
	"time"
)

// Scheduler 排程一次性工作，回傳可取消的 Timer。
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer 是已排程工作的取消把手。
// Stop 回傳 true 代表成功阻止觸發；已觸發的工作無法取消。
type Timer interface {
	Stop() bool
}

// RealScheduler 使用 time.AfterFunc，每次觸發都在獨立 goroutine 執行。
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler 是虛擬時鐘：只有呼叫 Advance 時才會觸發到期的工作。
// 工作依到期時間、同時到期者依排程順序觸發，並且在呼叫 Advance 的 goroutine 上同步執行。
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	s   *ManualScheduler
	at  time.Duration
	seq uint64
	f   func()
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, at: s.now + max(d, 0), seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	i := slices.Index(t.s.timers, t)
	if i < 0 {
		return false
	}
	t.s.timers = slices.Delete(t.s.timers, i, i+1)
	return true
}

// Advance 推進虛擬時間 d，回傳本次觸發的工作數。
// 觸發中新排程且落在推進範圍內的工作也會被觸發。
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	target := s.now + max(d, 0)
	s.mu.Unlock()

	fired := 0
	for {
		s.mu.Lock()
		i := s.nextDue(target)
		if i < 0 {
			s.now = target
			s.mu.Unlock()
			return fired
		}
		t := s.timers[i]
		s.timers = slices.Delete(s.timers, i, i+1)
		s.now = t.at
		s.mu.Unlock()

		t.f()
		fired++
	}
}

func (s *ManualScheduler) nextDue(target time.Duration) int {
	best := -1
	for i, t := range s.timers {
		if t.at > target {
			continue
		}
		if best < 0 || t.at < s.timers[best].at || (t.at == s.timers[best].at && t.seq < s.timers[best].seq) {
			best = i
		}
	}
	return best
}

// Pending 回傳尚未觸發且未被取消的工作數
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Now 回傳目前虛擬時間
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}
