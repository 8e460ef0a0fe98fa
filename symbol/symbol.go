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

// Package symbol 定義面板可顯示的圖案集合與隨機選圖器。
package symbol

import (
	"github.com/zintix-labs/slotstop/errs"
	"github.com/zintix-labs/slotstop/sdk/core"
)

// Image 是圖案識別碼，比較以識別碼為準，不以渲染結果為準。
type Image uint8

const (
	Seven Image = iota
	Bell
	Cherry

	// Count 是圖案總數（固定 3 種）
	Count = 3
)

type info struct {
	name  string
	asset string
	glyph string
}

var infos = [Count]info{
	Seven:  {name: "SEVEN", asset: "img/seven.svg", glyph: "7"},
	Bell:   {name: "BELL", asset: "img/bell.svg", glyph: "🔔"},
	Cherry: {name: "CHERRY", asset: "img/cherry.svg", glyph: "🍒"},
}

// All 依固定順序回傳全部圖案
func All() [Count]Image {
	return [Count]Image{Seven, Bell, Cherry}
}

func (i Image) Valid() bool { return i < Count }

func (i Image) String() string {
	if !i.Valid() {
		return "UNKNOWN"
	}
	return infos[i].name
}

// Asset 回傳圖檔相對路徑（web 前端使用）
func (i Image) Asset() string {
	if !i.Valid() {
		return ""
	}
	return infos[i].asset
}

// Glyph 回傳終端機顯示用字元
func (i Image) Glyph() string {
	if !i.Valid() {
		return "?"
	}
	return infos[i].glyph
}

func (i Image) MarshalText() ([]byte, error) {
	if !i.Valid() {
		return nil, errs.Fatalf("invalid image id %d", uint8(i))
	}
	return []byte(infos[i].name), nil
}

func (i *Image) UnmarshalText(b []byte) error {
	img, err := Parse(string(b))
	if err != nil {
		return err
	}
	*i = img
	return nil
}

// Parse 由名稱解析圖案
func Parse(name string) (Image, error) {
	for idx, in := range infos {
		if in.name == name {
			return Image(idx), nil
		}
	}
	return 0, errs.Warnf("unknown image %q", name)
}

// Picker 為選圖器：每次呼叫都獨立地從固定集合中均勻抽一張。
type Picker struct {
	rnd core.RAND
}

// NewPicker 以給定亂數來源建立 Picker；來源若會被多個 goroutine 使用，需先以 core.Locked 包裝。
func NewPicker(rnd core.RAND) *Picker {
	return &Picker{rnd: rnd}
}

// NewSeededPicker 建立併發安全、可重現的 Picker。
func NewSeededPicker(seed int64) *Picker {
	return NewPicker(core.NewLocked(core.Default().New(seed)))
}

func (p *Picker) PickImage() Image {
	return Image(p.rnd.IntN(Count))
}
