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

// Package view 提供 game.Surface 的實作：記憶體中的 Board 與終端機渲染。
package view

import (
	"context"
	"sync"

	"github.com/zintix-labs/slotstop/panel"
	"github.com/zintix-labs/slotstop/symbol"
)

type PanelView struct {
	Index       int          `json:"index"        yaml:"index"`
	Image       symbol.Image `json:"image"        yaml:"image"`
	Asset       string       `json:"asset"        yaml:"asset"`
	StopEnabled bool         `json:"stop_enabled" yaml:"stop_enabled"`
	Unmatched   bool         `json:"unmatched"    yaml:"unmatched"`
}

// Snapshot 是 Board 某一版本的完整畫面
type Snapshot struct {
	Version      uint64      `json:"version"       yaml:"version"`
	StartEnabled bool        `json:"start_enabled" yaml:"start_enabled"`
	Panels       []PanelView `json:"panels"        yaml:"panels"`
}

// Board 把整台機器的視覺狀態記在記憶體中，每次變更版本號 +1。
// Web API 與終端機都從 Snapshot 讀畫面。
type Board struct {
	mu      sync.Mutex
	version uint64
	start   bool
	panels  []PanelView
	changed chan struct{} // 每次變更時 close 並換新
}

func NewBoard() *Board {
	return &Board{changed: make(chan struct{})}
}

func (b *Board) CreatePanelVisual(idx int) panel.Visual {
	b.mu.Lock()
	defer b.mu.Unlock()
	for len(b.panels) <= idx {
		b.panels = append(b.panels, PanelView{Index: len(b.panels)})
	}
	b.bumpLocked()
	return &boardPanel{b: b, idx: idx}
}

func (b *Board) SetStartEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.start = enabled
	b.bumpLocked()
}

func (b *Board) update(idx int, fn func(pv *PanelView)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.panels[idx])
	b.bumpLocked()
}

func (b *Board) bumpLocked() {
	b.version++
	close(b.changed)
	b.changed = make(chan struct{})
}

func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Board) snapshotLocked() Snapshot {
	s := Snapshot{Version: b.version, StartEnabled: b.start, Panels: make([]PanelView, len(b.panels))}
	copy(s.Panels, b.panels)
	return s
}

// Wait 阻塞到版本超過 since 或 ctx 結束。ctx 結束時回傳當下畫面與 ctx.Err()。
func (b *Board) Wait(ctx context.Context, since uint64) (Snapshot, error) {
	for {
		b.mu.Lock()
		if b.version > since {
			s := b.snapshotLocked()
			b.mu.Unlock()
			return s, nil
		}
		ch := b.changed
		b.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return b.Snapshot(), ctx.Err()
		}
	}
}

// Changed 回傳下一次變更時會被 close 的 channel
func (b *Board) Changed() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.changed
}

type boardPanel struct {
	b   *Board
	idx int
}

func (p *boardPanel) SetPanelImage(img symbol.Image) {
	p.b.update(p.idx, func(pv *PanelView) {
		pv.Image = img
		pv.Asset = img.Asset()
	})
}

func (p *boardPanel) SetControlEnabled(enabled bool) {
	p.b.update(p.idx, func(pv *PanelView) { pv.StopEnabled = enabled })
}

func (p *boardPanel) SetUnmatchedMarker(on bool) {
	p.b.update(p.idx, func(pv *PanelView) { pv.Unmatched = on })
}
