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

// Package game 組裝三個 Panel、START 控制與結果判定，形成一台可反覆遊玩的機器。
//
// 狀態機：Idle（START 可按）→ Spinning（START 停用，仍有 Panel 在轉）→
// 第三個 STOP 時判定結果、重新啟用 START → 回到 Idle。沒有終止狀態。
package game

import (
	"log/slog"
	"sync"
	"time"

	"github.com/zintix-labs/slotstop/errs"
	"github.com/zintix-labs/slotstop/panel"
	"github.com/zintix-labs/slotstop/symbol"
)

// PanelCount 固定為 3
const PanelCount = 3

// Surface 是整台機器的呈現層：三組 Panel 視覺加上 START 控制。
type Surface interface {
	panel.Surface
	SetStartEnabled(enabled bool)
}

// Round 是一局結束時的結果紀錄
type Round struct {
	Seq       uint64                   `json:"seq" yaml:"seq"`
	Images    [PanelCount]symbol.Image `json:"images" yaml:"images"`
	Unmatched [PanelCount]bool         `json:"unmatched" yaml:"unmatched"`
	Outcome   Outcome                  `json:"outcome" yaml:"outcome"`
	StartedAt time.Time                `json:"started_at" yaml:"started_at"`
	EndedAt   time.Time                `json:"ended_at" yaml:"ended_at"`
}

// RoundListener 在每局判定後被呼叫（不持有 Controller 鎖）。
type RoundListener interface {
	RoundResolved(r Round)
}

type RoundListenerFunc func(Round)

func (f RoundListenerFunc) RoundResolved(r Round) { f(r) }

type State uint8

const (
	Idle State = iota
	Spinning
)

func (s State) String() string {
	if s == Spinning {
		return "spinning"
	}
	return "idle"
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Status 是 Controller 的狀態快照
type Status struct {
	State        State  `json:"state"`
	Remaining    int    `json:"remaining"`
	StartEnabled bool   `json:"start_enabled"`
	Rounds       uint64 `json:"rounds"`
}

type Options struct {
	Picker    panel.Picker    // 必填
	Scheduler panel.Scheduler // nil 時使用 panel.RealScheduler
	Surface   Surface         // 必填
	Log       *slog.Logger    // nil 時丟棄
	OnRound   RoundListener   // 選填
	Now       func() time.Time
}

// Controller 持有整台機器唯一的可變共享狀態：剩餘待停 Panel 數與 START 是否可按。
type Controller struct {
	log     *slog.Logger
	surface Surface
	onRound RoundListener
	now     func() time.Time
	panels  [PanelCount]*panel.Panel

	mu           sync.Mutex
	remaining    int
	startEnabled bool
	rounds       uint64
	startedAt    time.Time
	closed       bool
}

func New(opt Options) (*Controller, error) {
	if opt.Picker == nil {
		return nil, errs.NewFatal("game: picker is required")
	}
	if opt.Surface == nil {
		return nil, errs.NewFatal("game: surface is required")
	}
	if opt.Scheduler == nil {
		opt.Scheduler = panel.RealScheduler{}
	}
	if opt.Log == nil {
		opt.Log = slog.New(slog.DiscardHandler)
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}

	c := &Controller{
		log:          opt.Log,
		surface:      opt.Surface,
		onRound:      opt.OnRound,
		now:          opt.Now,
		remaining:    PanelCount,
		startEnabled: true,
	}
	for i := range c.panels {
		c.panels[i] = panel.New(i, opt.Picker, opt.Scheduler, opt.Surface, c)
	}
	c.surface.SetStartEnabled(true)
	return c, nil
}

func (c *Controller) Panels() [PanelCount]*panel.Panel { return c.panels }

// Start 是 START 的點擊處理。START 停用時回傳 false 且不做事。
func (c *Controller) Start() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.startEnabled || c.closed {
		return false
	}
	c.startEnabled = false
	c.surface.SetStartEnabled(false)
	c.startedAt = c.now()
	for _, p := range c.panels {
		p.Activate()
		p.Spin()
	}
	c.log.Debug("round.start", slog.Uint64("round", c.rounds+1))
	return true
}

// Stop 點擊第 idx 個 Panel 的 STOP。STOP 停用時回傳 false。
func (c *Controller) Stop(idx int) (bool, error) {
	if idx < 0 || idx >= PanelCount {
		return false, errs.Warnf("panel index %d out of range [0,%d)", idx, PanelCount)
	}
	return c.panels[idx].Stop(), nil
}

// PanelStopped 實作 panel.Listener：遞減剩餘數，歸零時判定結果、重開 START 並重設為 3，
// 三個動作在同一把鎖內完成。
func (c *Controller) PanelStopped(p *panel.Panel) {
	c.mu.Lock()
	errs.Assert(c.remaining > 0, "stop notification from panel %d with remaining=%d", p.Index(), c.remaining)
	c.remaining--
	c.log.Debug("panel.stop", slog.Int("panel", p.Index()), slog.String("image", p.Image().String()), slog.Int("remaining", c.remaining))
	if c.remaining > 0 {
		c.mu.Unlock()
		return
	}

	CheckResult(c.panels)
	c.rounds++
	r := Round{Seq: c.rounds, StartedAt: c.startedAt, EndedAt: c.now()}
	for i, q := range c.panels {
		r.Images[i] = q.Image()
		r.Unmatched[i] = q.Marked()
	}
	_, r.Outcome = Evaluate(r.Images)
	if !c.closed {
		c.startEnabled = true
		c.surface.SetStartEnabled(true)
	}
	c.remaining = PanelCount
	c.mu.Unlock()

	c.log.Info("round.resolved",
		slog.Uint64("round", r.Seq),
		slog.String("outcome", r.Outcome.String()),
		slog.Any("images", r.Images),
		slog.Duration("took", r.EndedAt.Sub(r.StartedAt)),
	)
	if c.onRound != nil {
		c.onRound.RoundResolved(r)
	}
}

// Status 回傳目前狀態快照
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{Remaining: c.remaining, StartEnabled: c.startEnabled, Rounds: c.rounds}
	if !c.startEnabled && !c.closed {
		st.State = Spinning
	}
	return st
}

// Close 取消所有動畫並停用全部控制；之後 Start 一律無效。可重複呼叫。
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.startEnabled = false
	c.surface.SetStartEnabled(false)
	for _, p := range c.panels {
		p.Halt()
	}
}
