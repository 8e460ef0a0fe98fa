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

import "github.com/zintix-labs/slotstop/symbol"

// Surface 是呈現層：為每個 Panel 建立一組視覺元件。
type Surface interface {
	CreatePanelVisual(idx int) Visual
}

// Visual 是 Panel 驅動的視覺合約，實作不得回傳錯誤（視為永遠成功）。
type Visual interface {
	SetPanelImage(img symbol.Image)
	SetControlEnabled(enabled bool)
	SetUnmatchedMarker(on bool)
}

// Discard 是不做任何呈現的 Surface（模擬器使用）
type Discard struct{}

func (Discard) CreatePanelVisual(int) Visual { return discardVisual{} }

type discardVisual struct{}

func (discardVisual) SetPanelImage(symbol.Image) {}
func (discardVisual) SetControlEnabled(bool)     {}
func (discardVisual) SetUnmatchedMarker(bool)    {}
