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

package game

import (
	"github.com/zintix-labs/slotstop/errs"
	"github.com/zintix-labs/slotstop/panel"
	"github.com/zintix-labs/slotstop/symbol"
)

// Outcome 是一局的分類結果
type Outcome uint8

const (
	Jackpot Outcome = iota // 三個相同
	Pair                   // 兩個相同，一個 unmatched
	Miss                   // 三個都不同
)

var outcomeNames = [...]string{Jackpot: "JACKPOT", Pair: "PAIR", Miss: "MISS"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "UNKNOWN"
}

func (o Outcome) MarshalText() ([]byte, error) {
	if int(o) >= len(outcomeNames) {
		return nil, errs.Fatalf("invalid outcome %d", uint8(o))
	}
	return []byte(outcomeNames[o]), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	for i, n := range outcomeNames {
		if n == string(b) {
			*o = Outcome(i)
			return nil
		}
	}
	return errs.Warnf("unknown outcome %q", string(b))
}

// CheckResult 對每個 Panel 與另外兩個比較，unmatched 者套上標記。
// 每局只在三個 Panel 都停止後呼叫一次。
func CheckResult(panels [PanelCount]*panel.Panel) {
	for i, p := range panels {
		o1, o2 := panels[(i+1)%PanelCount], panels[(i+2)%PanelCount]
		if p.IsUnmatched(o1, o2) {
			p.MarkUnmatched()
		}
	}
}

// Evaluate 以與 CheckResult 相同的兩兩比較規則計算結果，不碰任何 Panel。
func Evaluate(images [PanelCount]symbol.Image) ([PanelCount]bool, Outcome) {
	var unmatched [PanelCount]bool
	n := 0
	for i, img := range images {
		if img != images[(i+1)%PanelCount] && img != images[(i+2)%PanelCount] {
			unmatched[i] = true
			n++
		}
	}
	return unmatched, outcomeOf(n)
}

func outcomeOf(unmatched int) Outcome {
	switch unmatched {
	case 0:
		return Jackpot
	case 1:
		return Pair
	default:
		return Miss
	}
}
