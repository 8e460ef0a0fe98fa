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

// Package session 管理 HTTP 玩家各自的一台機器（Controller + Board + 局歷史）。
// 只存在記憶體，重啟或閒置逾時即消失。
package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/zintix-labs/slotstop/errs"
	"github.com/zintix-labs/slotstop/game"
	"github.com/zintix-labs/slotstop/panel"
	"github.com/zintix-labs/slotstop/sdk/core"
	"github.com/zintix-labs/slotstop/symbol"
	"github.com/zintix-labs/slotstop/view"
)

// Session 是單一玩家的機器
type Session struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`

	ctrl     *game.Controller
	board    *view.Board
	lastSeen atomic.Int64 // unix nano

	mu      sync.Mutex
	history []game.Round // 環形緩衝
	next    int
	full    bool
}

func (s *Session) Controller() *game.Controller { return s.ctrl }
func (s *Session) Board() *view.Board           { return s.board }

// History 依時間先後回傳最近的局紀錄
func (s *Session) History() []game.Round {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.full {
		out := make([]game.Round, s.next)
		copy(out, s.history[:s.next])
		return out
	}
	out := make([]game.Round, 0, len(s.history))
	out = append(out, s.history[s.next:]...)
	out = append(out, s.history[:s.next]...)
	return out
}

func (s *Session) RoundResolved(r game.Round) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[s.next] = r
	s.next++
	if s.next == len(s.history) {
		s.next = 0
		s.full = true
	}
}

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

func (s *Session) idle(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

type Options struct {
	TTL         time.Duration   // 閒置多久後回收
	MaxSessions int             // 同時存活上限
	HistorySize int             // 每個 session 保留的局數
	Seed        int64           // < 0 表示每個 session 使用隨機 seed
	Scheduler   panel.Scheduler // nil 時使用 panel.RealScheduler
	Log         *slog.Logger
	Now         func() time.Time
}

// Store 是 session 容器，同時是 app.Component：Run 期間定期清掉閒置的 session。
type Store struct {
	opt   Options
	seeds *core.SeedMaker
	log   *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	running  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewStore(opt Options) *Store {
	if opt.TTL <= 0 {
		opt.TTL = 10 * time.Minute
	}
	opt.MaxSessions = max(1, opt.MaxSessions)
	opt.HistorySize = max(1, opt.HistorySize)
	if opt.Log == nil {
		opt.Log = slog.New(slog.DiscardHandler)
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.Scheduler == nil {
		opt.Scheduler = panel.RealScheduler{}
	}
	base := opt.Seed
	if base < 0 {
		var err error
		if base, err = core.NewSeed(); err != nil {
			base = opt.Now().UnixNano()
		}
	}
	return &Store{
		opt:      opt,
		seeds:    core.NewSeedMaker(base),
		log:      opt.Log,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Create 建立新 session；達到上限時回傳 Warn。
func (st *Store) Create() (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.sessions) >= st.opt.MaxSessions {
		return nil, errs.Warnf("session limit reached (%d)", st.opt.MaxSessions)
	}

	now := st.opt.Now()
	s := &Session{
		ID:      uuid.NewString(),
		Created: now,
		board:   view.NewBoard(),
		history: make([]game.Round, st.opt.HistorySize),
	}
	s.touch(now)
	ctrl, err := game.New(game.Options{
		Picker:    symbol.NewSeededPicker(st.seeds.Next()),
		Scheduler: st.opt.Scheduler,
		Surface:   s.board,
		Log:       st.log.With(slog.String("session", s.ID)),
		OnRound:   s,
	})
	if err != nil {
		return nil, errs.Wrap(err, "create session")
	}
	s.ctrl = ctrl
	st.sessions[s.ID] = s
	st.log.Debug("session.create", slog.String("session", s.ID), slog.Int("live", len(st.sessions)))
	return s, nil
}

// Get 取得 session 並更新最後使用時間
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, errs.NewWithExtra(errs.NotFound, "session not found", id)
	}
	s.touch(st.opt.Now())
	return s, nil
}

// Delete 移除 session 並停止它的動畫
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if !ok {
		return errs.NewWithExtra(errs.NotFound, "session not found", id)
	}
	s.ctrl.Close()
	return nil
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep 回收閒置超過 TTL 的 session，回傳回收數量。
func (st *Store) Sweep() int {
	now := st.opt.Now()
	var expired []*Session
	st.mu.Lock()
	for id, s := range st.sessions {
		if s.idle(now) >= st.opt.TTL {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.ctrl.Close()
	}
	if len(expired) > 0 {
		st.log.Info("session.sweep", slog.Int("expired", len(expired)), slog.Int("live", st.Len()))
	}
	return len(expired)
}

// Run 週期性執行 Sweep，直到 Shutdown。
func (st *Store) Run() error {
	st.running.Store(true)
	defer close(st.done)
	every := max(st.opt.TTL/4, time.Second)
	tk := time.NewTicker(every)
	defer tk.Stop()
	for {
		select {
		case <-tk.C:
			st.Sweep()
		case <-st.stop:
			return nil
		}
	}
}

// Shutdown 停止清理迴圈並關閉所有 session。Run 未啟動時也可呼叫。
func (st *Store) Shutdown(ctx context.Context) error {
	st.stopOnce.Do(func() { close(st.stop) })

	st.mu.Lock()
	all := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()
	for _, s := range all {
		s.ctrl.Close()
	}
	if !st.running.Load() {
		return nil
	}

	select {
	case <-st.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
