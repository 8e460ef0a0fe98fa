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
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang = language.English

// TableRender 以等寬表格輸出，數字加千分位
type TableRender struct{}

func (TableRender) Write(w io.Writer, r *Report) error {
	p := message.NewPrinter(lang)

	keys := []string{"Rounds", "Workers", "Seed", "Elapsed", "Rounds/sec"}
	msg := map[string]string{
		"Rounds":     p.Sprintf("%d", r.Rounds),
		"Workers":    p.Sprintf("%d", r.Workers),
		"Seed":       p.Sprintf("%d", r.Seed),
		"Elapsed":    r.Elapsed.Round(time.Millisecond).String(),
		"Rounds/sec": p.Sprintf("%d", perSecond(r)),
	}
	for _, o := range r.Outcomes {
		k := o.Outcome.String()
		keys = append(keys, k)
		msg[k] = p.Sprintf("%d  %.3f%% [%.3f%%,%.3f%%] exp %.3f%%", o.Count, 100*o.Rate, 100*o.CI.Lo, 100*o.CI.Hi, 100*o.Expected)
	}
	keys = append(keys, "Outcome χ² p", "Symbol χ² p")
	msg["Outcome χ² p"] = p.Sprintf("%.4f (χ²=%.3f df=%d)", r.OutcomeFit.PValue, r.OutcomeFit.ChiSquare, r.OutcomeFit.DF)
	msg["Symbol χ² p"] = p.Sprintf("%.4f (χ²=%.3f df=%d)", r.SymbolFit.PValue, r.SymbolFit.ChiSquare, r.SymbolFit.DF)
	for i, n := range r.Unmatched {
		k := p.Sprintf("Panel %d unmatched", i+1)
		keys = append(keys, k)
		msg[k] = p.Sprintf("%d", n)
	}

	_, err := io.WriteString(w, fmtTable("slotstop simulation", keys, msg))
	return err
}

func perSecond(r *Report) int {
	sec := r.Elapsed.Seconds()
	if sec <= 0 {
		return 0
	}
	return int(float64(r.Rounds) / sec)
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	maxKeyLen, maxValLen := 0, 0
	for _, k := range keys {
		maxKeyLen = max(maxKeyLen, runewidth.StringWidth(k))
		maxValLen = max(maxValLen, runewidth.StringWidth(msg[k]))
	}
	maxKeyLen += 2
	maxValLen += 2

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	if titleW > totalInner {
		maxValLen += titleW - totalInner
		totalInner = titleW
	}
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var sb strings.Builder
	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	sb.WriteString("+" + strings.Repeat("-", totalInner) + "+\n")
	sb.WriteString("|" + blank(left) + title + blank(right) + "|\n")
	sb.WriteString(divider)
	for _, k := range keys {
		v := msg[k]
		sb.WriteString("| " + k + blank(maxKeyLen-2-runewidth.StringWidth(k)) + " | " + v + blank(maxValLen-2-runewidth.StringWidth(v)) + " |\n")
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
