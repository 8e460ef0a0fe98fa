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

// Package slotstop 提供無畫面的模擬器：以虛擬時鐘大量遊玩完整局數並統計結果分布。
package slotstop

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/slotstop/errs"
	"github.com/zintix-labs/slotstop/sdk/core"
	"github.com/zintix-labs/slotstop/stats"
)

// Simulator 以 base seed 派生每台機台的 seed，結果可重現（同 seed、同 workers）。
type Simulator struct {
	seed  int64
	seeds *core.SeedMaker
	log   *slog.Logger
}

// NewSimulator seed < 0 時由 crypto/rand 產生。
func NewSimulator(seed int64, log *slog.Logger) (*Simulator, error) {
	if seed < 0 {
		s, err := core.NewSeed()
		if err != nil {
			return nil, errs.Wrap(err, "generate seed")
		}
		seed = s
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Simulator{seed: seed, seeds: core.NewSeedMaker(seed), log: log}, nil
}

func (s *Simulator) Seed() int64 { return s.seed }

// Run 以 workers 台機台併發遊玩共 rounds 局，回傳合併後的報表。
func (s *Simulator) Run(rounds int, workers int, showpb bool) (*stats.Report, error) {
	if rounds < 1 {
		return nil, errs.NewWarn("rounds must > 0")
	}
	if workers < 1 {
		return nil, errs.NewWarn("workers must > 0")
	}
	workers = min(workers, rounds)

	machines := make([]*Machine, workers)
	for i := range machines {
		m, err := NewMachine(s.seeds.Next(), s.seeds.Next(), s.log)
		if err != nil {
			return nil, err
		}
		machines[i] = m
	}
	defer func() {
		for _, m := range machines {
			m.Close()
		}
	}()

	cols := make([]*stats.Collector, workers)
	errCh := make(chan error, workers)
	wg := new(sync.WaitGroup)

	bar := pb.StartNew(rounds)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for w := 0; w < workers; w++ {
		n := rounds / workers
		if w < rounds%workers {
			n++
		}
		cols[w] = stats.NewCollector()
		wg.Add(1)
		go func(m *Machine, col *stats.Collector, n int) {
			defer wg.Done()
			for range n {
				r, err := m.PlayRound()
				if err != nil {
					errCh <- err
					return
				}
				col.Record(r)
				bar.Increment()
			}
		}(machines[w], cols[w], n)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	close(errCh)
	if err := <-errCh; err != nil {
		return nil, err
	}

	total := stats.NewCollector()
	for _, c := range cols {
		total.Merge(c)
	}
	s.log.Info("sim.done", slog.Int("rounds", total.Rounds), slog.Int("workers", workers), slog.Duration("used", used))
	return total.Report(s.seed, workers, used), nil
}
