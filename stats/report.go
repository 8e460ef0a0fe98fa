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

// Package stats 彙整模擬局數的結果分布，並與理論機率比較。
package stats

import (
	"math"
	"time"

	"github.com/zintix-labs/slotstop/game"
	"github.com/zintix-labs/slotstop/symbol"
	"gonum.org/v1/gonum/stat/distuv"
)

// 理論機率：27 種等機率組合中 3 種全同、18 種恰兩同、6 種全異
var expected = [3]float64{
	game.Jackpot: 3.0 / 27.0,
	game.Pair:    18.0 / 27.0,
	game.Miss:    6.0 / 27.0,
}

// Expected 回傳在均勻選圖下該結果的理論機率
func Expected(o game.Outcome) float64 {
	if int(o) >= len(expected) {
		return 0
	}
	return expected[o]
}

// Collector 累計局結果，非併發安全：每個 worker 一個，最後 Merge。
type Collector struct {
	Rounds    int
	Outcomes  [3]int
	Freq      [game.PanelCount][symbol.Count]int
	Unmatched [game.PanelCount]int
}

func NewCollector() *Collector { return &Collector{} }

func (c *Collector) Record(r game.Round) {
	c.Rounds++
	c.Outcomes[r.Outcome]++
	for i, img := range r.Images {
		c.Freq[i][img]++
		if r.Unmatched[i] {
			c.Unmatched[i]++
		}
	}
}

func (c *Collector) Merge(o *Collector) {
	c.Rounds += o.Rounds
	for i := range c.Outcomes {
		c.Outcomes[i] += o.Outcomes[i]
	}
	for i := range c.Freq {
		for j := range c.Freq[i] {
			c.Freq[i][j] += o.Freq[i][j]
		}
		c.Unmatched[i] += o.Unmatched[i]
	}
}

// CI 信賴區間
type CI struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

type OutcomeStat struct {
	Outcome  game.Outcome `json:"outcome"  yaml:"outcome"`
	Count    int          `json:"count"    yaml:"count"`
	Rate     float64      `json:"rate"     yaml:"rate"`
	Expected float64      `json:"expected" yaml:"expected"`
	CI       CI           `json:"ci95"     yaml:"ci95"`
}

// GoF 是卡方適合度檢定結果
type GoF struct {
	ChiSquare float64 `json:"chi_square" yaml:"chi_square"`
	DF        int     `json:"df"         yaml:"df"`
	PValue    float64 `json:"p_value"    yaml:"p_value"`
}

type Report struct {
	Seed       int64               `json:"seed"        yaml:"seed"`
	Workers    int                 `json:"workers"     yaml:"workers"`
	Rounds     int                 `json:"rounds"      yaml:"rounds"`
	Elapsed    time.Duration       `json:"elapsed_ns"  yaml:"elapsed"`
	Outcomes   []OutcomeStat       `json:"outcomes"    yaml:"outcomes"`
	OutcomeFit GoF                 `json:"outcome_fit" yaml:"outcome_fit"`
	SymbolFreq [][symbol.Count]int `json:"symbol_freq" yaml:"symbol_freq"`
	SymbolFit  GoF                 `json:"symbol_fit"  yaml:"symbol_fit"`
	Unmatched  []int               `json:"unmatched"   yaml:"unmatched"`
}

// Report 產生報告。z 取自標準常態 97.5% 分位數（95% 雙尾）。
func (c *Collector) Report(seed int64, workers int, elapsed time.Duration) *Report {
	r := &Report{
		Seed:       seed,
		Workers:    workers,
		Rounds:     c.Rounds,
		Elapsed:    elapsed,
		SymbolFreq: make([][symbol.Count]int, game.PanelCount),
		Unmatched:  make([]int, game.PanelCount),
	}
	copy(r.SymbolFreq, c.Freq[:])
	copy(r.Unmatched, c.Unmatched[:])

	z := distuv.UnitNormal.Quantile(0.975)
	obs := make([]float64, 0, len(expected))
	exp := make([]float64, 0, len(expected))
	for o := game.Jackpot; o <= game.Miss; o++ {
		st := OutcomeStat{Outcome: o, Count: c.Outcomes[o], Expected: Expected(o)}
		if c.Rounds > 0 {
			st.Rate = float64(st.Count) / float64(c.Rounds)
		}
		st.CI = wilson(st.Count, c.Rounds, z)
		r.Outcomes = append(r.Outcomes, st)
		obs = append(obs, float64(st.Count))
		exp = append(exp, st.Expected*float64(c.Rounds))
	}
	r.OutcomeFit = chiSquare(obs, exp, len(obs)-1)

	// 每個 Panel 各自檢定均勻，自由度相加
	obs, exp = obs[:0], exp[:0]
	for i := range c.Freq {
		for _, n := range c.Freq[i] {
			obs = append(obs, float64(n))
			exp = append(exp, float64(c.Rounds)/symbol.Count)
		}
	}
	r.SymbolFit = chiSquare(obs, exp, game.PanelCount*(symbol.Count-1))
	return r
}

// wilson 計算二項比例的 Wilson score interval
func wilson(k, n int, z float64) CI {
	if n == 0 {
		return CI{}
	}
	nf := float64(n)
	p := float64(k) / nf
	z2 := z * z
	den := 1 + z2/nf
	mid := (p + z2/(2*nf)) / den
	half := z * math.Sqrt(p*(1-p)/nf+z2/(4*nf*nf)) / den
	return CI{Lo: max(mid-half, 0), Hi: min(mid+half, 1)}
}

func chiSquare(obs, exp []float64, df int) GoF {
	g := GoF{DF: df, PValue: 1}
	for i := range obs {
		if exp[i] <= 0 {
			continue
		}
		d := obs[i] - exp[i]
		g.ChiSquare += d * d / exp[i]
	}
	if df > 0 && g.ChiSquare > 0 {
		g.PValue = 1 - distuv.ChiSquared{K: float64(df)}.CDF(g.ChiSquare)
	}
	return g
}
