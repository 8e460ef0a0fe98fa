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

// Package panel 實作單一轉輪面板：一個圖案顯示與一個 STOP 控制。
//
// 每個 Panel 自己管理轉動動畫（可取消的自我重排程 tick）與目前圖案；
// 停止時透過 Listener 通知上層控制器。
package panel

import (
	"sync"
	"time"

	"github.com/zintix-labs/slotstop/errs"
	"github.com/zintix-labs/slotstop/symbol"
)

// TickInterval 是轉動時換圖的固定間隔
const TickInterval = 50 * time.Millisecond

// Picker 提供隨機圖案
type Picker interface {
	PickImage() symbol.Image
}

// Listener 接收 Panel 停止通知。呼叫時 Panel 不持有自身鎖。
type Listener interface {
	PanelStopped(p *Panel)
}

type Panel struct {
	idx      int
	picker   Picker
	sched    Scheduler
	vis      Visual
	listener Listener

	mu        sync.Mutex
	img       symbol.Image
	stoppable bool   // STOP 控制是否啟用
	marked    bool   // unmatched 標記
	tick      Timer  // 轉動中才非 nil
	gen       uint64 // 每次開始/停止轉動都遞增，舊 tick 看到不同 gen 就不再重排
}

// New 建立 Panel：建立視覺元件、顯示隨機初始圖案、STOP 為停用，且沒有任何動畫在跑。
func New(idx int, picker Picker, sched Scheduler, surface Surface, l Listener) *Panel {
	p := &Panel{
		idx:      idx,
		picker:   picker,
		sched:    sched,
		vis:      surface.CreatePanelVisual(idx),
		listener: l,
	}
	p.img = picker.PickImage()
	p.vis.SetPanelImage(p.img)
	p.vis.SetControlEnabled(false)
	return p
}

func (p *Panel) Index() int { return p.idx }

func (p *Panel) Image() symbol.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.img
}

func (p *Panel) Stoppable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stoppable
}

func (p *Panel) Spinning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tick != nil
}

func (p *Panel) Marked() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.marked
}

// Activate 清除 unmatched 標記並啟用 STOP，不啟動動畫。可重複呼叫。
func (p *Panel) Activate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	errs.Assert(p.tick == nil, "panel %d activated while its animation is still armed", p.idx)
	p.marked = false
	p.vis.SetUnmatchedMarker(false)
	p.stoppable = true
	p.vis.SetControlEnabled(true)
}

// Spin 換上新圖並排程下一個 tick，直到 Stop 取消為止。
// 已在轉動時延續原本的迴圈；STOP 已停用（尚未 Activate，或已被停下）時不做事。
func (p *Panel) Spin() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tick != nil || !p.stoppable {
		return
	}
	p.gen++
	p.stepLocked(p.gen)
}

func (p *Panel) step(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// 已觸發但晚於 Stop 取得鎖的 tick
	if gen != p.gen || p.tick == nil {
		return
	}
	p.stepLocked(gen)
}

func (p *Panel) stepLocked(gen uint64) {
	p.img = p.picker.PickImage()
	p.vis.SetPanelImage(p.img)
	p.tick = p.sched.AfterFunc(TickInterval, func() { p.step(gen) })
}

// Stop 是 STOP 控制的點擊處理。
// STOP 已停用時回傳 false 且不做事；否則停用 STOP、取消下一個 tick 並通知 Listener。
func (p *Panel) Stop() bool {
	p.mu.Lock()
	if !p.stoppable {
		p.mu.Unlock()
		return false
	}
	p.stoppable = false
	p.vis.SetControlEnabled(false)
	p.cancelLocked()
	p.mu.Unlock()

	if p.listener != nil {
		p.listener.PanelStopped(p)
	}
	return true
}

// Halt 取消動畫並停用 STOP，但不通知 Listener。用於整台機器下線。
func (p *Panel) Halt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stoppable = false
	p.vis.SetControlEnabled(false)
	p.cancelLocked()
}

func (p *Panel) cancelLocked() {
	if p.tick != nil {
		p.tick.Stop()
		p.tick = nil
	}
	p.gen++
}

// IsUnmatched 當本 Panel 的圖案與另外兩個都不同時回傳 true（兩兩比較，不是集合比較）。
func (p *Panel) IsUnmatched(other1, other2 *Panel) bool {
	img := p.Image()
	return img != other1.Image() && img != other2.Image()
}

// MarkUnmatched 只套用視覺標記，不改變圖案。
func (p *Panel) MarkUnmatched() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.marked = true
	p.vis.SetUnmatchedMarker(true)
}
