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
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/zintix-labs/slotstop/game"
	"github.com/zintix-labs/slotstop/sdk/core"
	"github.com/zintix-labs/slotstop/server/logger"
	"github.com/zintix-labs/slotstop/symbol"
	"github.com/zintix-labs/slotstop/view"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const help = "s: start   1/2/3: stop panel   q: quit   (press enter after each key)"

func main() {
	var (
		seed    = flag.Int64("seed", -1, "picker seed, < 0 for random")
		color   = flag.Bool("color", true, "ANSI colors")
		logMode = flag.String("log-mode", "silence", "log mode: dev|prod|silence")
	)
	flag.Parse()

	if *seed < 0 {
		s, err := core.NewSeed()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		*seed = s
	}
	mode, err := logger.ParseMode(*logMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	p := newPlayer(os.Stdout, *color)
	ctrl, err := game.New(game.Options{
		Picker:  symbol.NewSeededPicker(*seed),
		Surface: p.board,
		Log:     logger.New(mode),
		OnRound: p,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer ctrl.Close()

	go p.redraw()
	p.loop(os.Stdin, ctrl)
}

// player 把 Board 的每次變更畫到終端機，並統計每局結果。
type player struct {
	board *view.Board
	term  *view.Term
	out   io.Writer
	pr    *message.Printer

	mu     sync.Mutex
	tally  map[game.Outcome]int
	last   string
	rounds int
}

func newPlayer(out io.Writer, color bool) *player {
	return &player{
		board: view.NewBoard(),
		term:  view.NewTerm(out, color, true),
		out:   out,
		pr:    message.NewPrinter(language.English),
		tally: make(map[game.Outcome]int),
	}
}

func (p *player) RoundResolved(r game.Round) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rounds++
	p.tally[r.Outcome]++
	p.last = r.Outcome.String()
}

func (p *player) redraw() {
	for {
		ch := p.board.Changed()
		p.draw()
		<-ch
	}
}

func (p *player) draw() {
	_ = p.term.Render(p.board.Snapshot())
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pr.Fprintf(p.out, "rounds %d  jackpot %d  pair %d  miss %d", p.rounds,
		p.tally[game.Jackpot], p.tally[game.Pair], p.tally[game.Miss])
	if p.last != "" {
		p.pr.Fprintf(p.out, "  last: %s", p.last)
	}
	fmt.Fprintf(p.out, "\n%s\n> ", help)
}

func (p *player) loop(in io.Reader, ctrl *game.Controller) {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		switch cmd := strings.TrimSpace(sc.Text()); cmd {
		case "q", "quit":
			return
		case "s", "":
			ctrl.Start()
		case "1", "2", "3":
			_, _ = ctrl.Stop(int(cmd[0] - '1'))
		}
		p.draw()
	}
}
