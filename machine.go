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

package slotstop

import (
	"log/slog"
	"time"

	"github.com/zintix-labs/slotstop/errs"
	"github.com/zintix-labs/slotstop/game"
	"github.com/zintix-labs/slotstop/panel"
	"github.com/zintix-labs/slotstop/sdk/core"
	"github.com/zintix-labs/slotstop/symbol"
)

// MaxHoldTicks 是自動玩家在按下一個 STOP 前最多等待的 tick 數
const MaxHoldTicks = 40

// Machine 是一台無畫面的機器：Controller 跑在虛擬時鐘上，由自動玩家操作。
//
// 並發語意：同一台 Machine 不應被多 goroutine 同時 PlayRound；
// 併發模擬由上層建立多台 Machine 分給不同 worker。
type Machine struct {
	ctrl   *game.Controller
	sched  *panel.ManualScheduler
	player core.RAND // 自動玩家的等待時間與停止順序
	last   game.Round
	done   bool
}

// NewMachine 以兩個 seed 分別建立選圖來源與自動玩家來源，兩者互不影響。
func NewMachine(pickSeed, playerSeed int64, log *slog.Logger) (*Machine, error) {
	m := &Machine{
		sched:  panel.NewManualScheduler(),
		player: core.Default().New(playerSeed),
	}
	ctrl, err := game.New(game.Options{
		Picker:    symbol.NewPicker(core.Default().New(pickSeed)),
		Scheduler: m.sched,
		Surface:   discardSurface{},
		Log:       log,
		OnRound:   game.RoundListenerFunc(m.resolved),
		Now:       m.virtualNow,
	})
	if err != nil {
		return nil, errs.Wrap(err, "build machine")
	}
	m.ctrl = ctrl
	return m, nil
}

func (m *Machine) resolved(r game.Round) {
	m.last = r
	m.done = true
}

func (m *Machine) virtualNow() time.Time {
	return time.Unix(0, 0).Add(m.sched.Now())
}

// PlayRound 玩完整一局：按 START，隨機等待後依隨機順序按下三個 STOP。
func (m *Machine) PlayRound() (game.Round, error) {
	m.done = false
	if !m.ctrl.Start() {
		return game.Round{}, errs.NewFatal("machine: start control is disabled between rounds")
	}
	order := [game.PanelCount]int{0, 1, 2}
	for i := len(order) - 1; i > 0; i-- {
		j := m.player.IntN(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	for _, idx := range order {
		hold := 1 + m.player.IntN(MaxHoldTicks)
		m.sched.Advance(time.Duration(hold) * panel.TickInterval)
		if _, err := m.ctrl.Stop(idx); err != nil {
			return game.Round{}, err
		}
	}
	if !m.done {
		return game.Round{}, errs.NewFatal("machine: round did not resolve after three stops")
	}
	return m.last, nil
}

func (m *Machine) Close() { m.ctrl.Close() }

type discardSurface struct{ panel.Discard }

func (discardSurface) SetStartEnabled(bool) {}
