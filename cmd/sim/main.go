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

package main

import (
	"flag"
	"log"
	"os"

	"github.com/zintix-labs/slotstop"
	"github.com/zintix-labs/slotstop/sdk/perf"
	"github.com/zintix-labs/slotstop/server/logger"
	"github.com/zintix-labs/slotstop/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type config struct {
	rounds  int
	workers int
	seed    int64
	format  string
	bar     bool
	logMode string
	pprof   string
}

func bindVar() *config {
	cfg := new(config)
	flag.IntVar(&cfg.rounds, "rounds", 1000000, "rounds to play")
	flag.IntVar(&cfg.workers, "workers", 1, "number of machines played concurrently")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 base seed, < 0 for random")
	flag.StringVar(&cfg.format, "format", "table", "report format: table|json|yaml")
	flag.BoolVar(&cfg.bar, "bar", true, "show progress bar")
	flag.StringVar(&cfg.logMode, "log-mode", "silence", "log mode: dev|prod|silence")
	flag.StringVar(&cfg.pprof, "p", "", "pprof: '', cpu, heap, allocs")
	flag.Parse()
	return cfg
}

func main() {
	cfg := bindVar()

	render, err := stats.RenderByName(cfg.format)
	if err != nil {
		log.Fatal(err)
	}
	mode, err := logger.ParseMode(cfg.logMode)
	if err != nil {
		log.Fatal(err)
	}
	sim, err := slotstop.NewSimulator(cfg.seed, logger.New(mode))
	if err != nil {
		log.Fatal(err)
	}

	// 機器可讀格式時 banner 與進度條走 stderr，stdout 只留報表
	banner := os.Stdout
	if cfg.format != "table" {
		banner = os.Stderr
	}
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)
	p.Fprintf(banner, "%s[WORKERS:%d] [ROUNDS:%d] [SEED:%d]%s\n", green, cfg.workers, cfg.rounds, sim.Seed(), reset)

	var (
		rep    *stats.Report
		simErr error
	)
	prof, err := perf.Run(perf.DefaultDir, cfg.pprof, func() {
		rep, simErr = sim.Run(cfg.rounds, cfg.workers, cfg.bar)
	})
	if err != nil {
		log.Fatal(err)
	}
	if simErr != nil {
		log.Fatal(simErr)
	}
	if prof != "" {
		p.Fprintf(banner, "profile written to %s\n", prof)
	}
	if err := render.Write(os.Stdout, rep); err != nil {
		log.Fatal(err)
	}
}
