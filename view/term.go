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
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ANSI 顏色代碼
const (
	ansiRed   = "\033[31m"
	ansiGreen = "\033[32m"
	ansiDim   = "\033[2m"
	ansiReset = "\033[0m"
	ansiClear = "\033[H\033[2J"
)

const cellWidth = 10

// Term 以方框把三個 Panel 畫成一列，unmatched 以紅色與 x 標示。
type Term struct {
	w     io.Writer
	color bool
	clear bool
}

// NewTerm color 控制是否輸出 ANSI 顏色；clear 控制每次繪製前是否清屏。
func NewTerm(w io.Writer, color, clear bool) *Term {
	return &Term{w: w, color: color, clear: clear}
}

func (t *Term) Render(s Snapshot) error {
	_, err := io.WriteString(t.w, t.Format(s))
	return err
}

// Format 回傳畫面字串（不含清屏碼以外的游標控制）
func (t *Term) Format(s Snapshot) string {
	var sb strings.Builder
	if t.clear {
		sb.WriteString(ansiClear)
	}
	border := "+" + strings.Repeat(strings.Repeat("-", cellWidth)+"+", len(s.Panels)) + "\n"

	sb.WriteString(border)
	sb.WriteString("|")
	for _, pv := range s.Panels {
		glyph := pv.Image.Glyph()
		if pv.Unmatched {
			glyph += " x"
		}
		sb.WriteString(t.paint(center(glyph, cellWidth), pv.Unmatched, ansiRed))
		sb.WriteString("|")
	}
	sb.WriteString("\n")

	sb.WriteString("|")
	for i, pv := range s.Panels {
		label := "STOP " + string(rune('1'+i))
		if !pv.StopEnabled {
			sb.WriteString(t.paint(center(label, cellWidth), true, ansiDim))
		} else {
			sb.WriteString(center("["+label+"]", cellWidth))
		}
		sb.WriteString("|")
	}
	sb.WriteString("\n")
	sb.WriteString(border)

	inner := runewidth.StringWidth(border) - 1
	start := "START (s)"
	if s.StartEnabled {
		sb.WriteString(t.paint(center("["+start+"]", inner), true, ansiGreen))
	} else {
		sb.WriteString(t.paint(center(start, inner), true, ansiDim))
	}
	sb.WriteString("\n")
	return sb.String()
}

func (t *Term) paint(s string, on bool, code string) string {
	if !t.color || !on {
		return s
	}
	return code + s + ansiReset
}

// center 以顯示寬度（非 byte、非 rune 數）置中，emoji 佔兩格
func center(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return runewidth.Truncate(s, width, "")
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}
