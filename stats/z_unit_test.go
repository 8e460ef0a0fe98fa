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

package stats

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/slotstop/game"
	"github.com/zintix-labs/slotstop/symbol"
)

func round(imgs ...symbol.Image) game.Round {
	var r game.Round
	copy(r.Images[:], imgs)
	r.Unmatched, r.Outcome = game.Evaluate(r.Images)
	return r
}

// 列舉 27 種組合各一次：分布應與理論完全一致
func exhaustive() *Collector {
	c := NewCollector()
	for _, a := range symbol.All() {
		for _, b := range symbol.All() {
			for _, d := range symbol.All() {
				c.Record(round(a, b, d))
			}
		}
	}
	return c
}

func TestExpectedSumsToOne(t *testing.T) {
	sum := Expected(game.Jackpot) + Expected(game.Pair) + Expected(game.Miss)
	if math.Abs(sum-1) > 1e-12 {
		t.Fatalf("expected probabilities sum to %v", sum)
	}
}

func TestExhaustiveMatchesTheory(t *testing.T) {
	r := exhaustive().Report(1, 1, time.Second)
	if r.Rounds != 27 {
		t.Fatalf("rounds = %d", r.Rounds)
	}
	want := map[game.Outcome]int{game.Jackpot: 3, game.Pair: 18, game.Miss: 6}
	for _, o := range r.Outcomes {
		if o.Count != want[o.Outcome] {
			t.Fatalf("%s count %d want %d", o.Outcome, o.Count, want[o.Outcome])
		}
		if o.CI.Lo > o.Rate || o.CI.Hi < o.Rate {
			t.Fatalf("%s CI %+v does not contain %v", o.Outcome, o.CI, o.Rate)
		}
	}
	if r.OutcomeFit.ChiSquare > 1e-9 || r.OutcomeFit.PValue != 1 {
		t.Fatalf("perfect fit expected, got %+v", r.OutcomeFit)
	}
	if r.SymbolFit.DF != 6 || r.SymbolFit.ChiSquare > 1e-9 {
		t.Fatalf("symbol fit %+v", r.SymbolFit)
	}
	// 18 個 PAIR 各 1 個 unmatched，6 個 MISS 各 3 個：共 36，三個位置平均
	for i, n := range r.Unmatched {
		if n != 12 {
			t.Fatalf("panel %d unmatched %d want 12", i, n)
		}
	}
}

func TestSkewedDistributionRejected(t *testing.T) {
	c := NewCollector()
	for i := 0; i < 900; i++ {
		c.Record(round(symbol.Seven, symbol.Seven, symbol.Seven))
	}
	r := c.Report(1, 1, 0)
	if r.OutcomeFit.PValue > 1e-6 || r.SymbolFit.PValue > 1e-6 {
		t.Fatalf("all-jackpot sample must be rejected: %+v %+v", r.OutcomeFit, r.SymbolFit)
	}
}

func TestMerge(t *testing.T) {
	a, b := exhaustive(), exhaustive()
	a.Merge(b)
	if a.Rounds != 54 || a.Outcomes[game.Pair] != 36 || a.Freq[0][symbol.Bell] != 18 {
		t.Fatalf("merge wrong: %+v", a)
	}
}

func TestWilsonEdges(t *testing.T) {
	if ci := wilson(0, 0, 1.96); ci != (CI{}) {
		t.Fatalf("empty sample: %+v", ci)
	}
	ci := wilson(0, 100, 1.96)
	if ci.Lo > 1e-12 || ci.Hi <= 0 || ci.Hi > 0.05 {
		t.Fatalf("zero successes: %+v", ci)
	}
	ci = wilson(100, 100, 1.96)
	if ci.Hi < 1-1e-12 || ci.Lo < 0.95 {
		t.Fatalf("all successes: %+v", ci)
	}
}

func TestRenders(t *testing.T) {
	r := exhaustive().Report(42, 2, 1500*time.Millisecond)

	var buf bytes.Buffer
	if err := (JSONRender{}).Write(&buf, r); err != nil {
		t.Fatal(err)
	}
	var back map[string]any
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatal(err)
	}
	if back["rounds"].(float64) != 27 {
		t.Fatalf("json rounds = %v", back["rounds"])
	}

	buf.Reset()
	if err := (YAMLRender{}).Write(&buf, r); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "unmatched: [12, 12, 12]") {
		t.Fatalf("innermost sequences should be flow style:\n%s", buf.String())
	}

	buf.Reset()
	if err := (TableRender{}).Write(&buf, r); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	w := runewidth.StringWidth(lines[0])
	for i, l := range lines {
		if runewidth.StringWidth(l) != w {
			t.Fatalf("line %d misaligned:\n%s", i, buf.String())
		}
	}
	if !strings.Contains(buf.String(), "JACKPOT") {
		t.Fatalf("table misses outcomes:\n%s", buf.String())
	}

	if _, err := RenderByName("xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
