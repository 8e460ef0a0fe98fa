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

// Package perf 包裝 runtime/pprof，讓 cmd/sim 以 -p 旗標輸出 profile。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/slotstop/errs"
)

// DefaultDir 是 profile 檔的預設輸出目錄
const DefaultDir = "build/profiling"

// Run 依 mode 包住 exe 執行：""（不量測）、cpu、heap、allocs。
// 回傳寫出的檔案路徑（未量測時為空字串）。
func Run(dir, mode string, exe func()) (string, error) {
	if mode == "" {
		exe()
		return "", nil
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.WrapWithExtra(err, "create profile dir", dir)
	}
	path := filepath.Join(dir, mode+".pprof")

	switch mode {
	case "cpu":
		return path, cpu(path, exe)
	case "heap", "allocs":
		exe()
		// heap 快照前先 GC，讓 in-use 視圖貼近最新狀態
		if mode == "heap" {
			runtime.GC()
		}
		return path, snapshot(path, mode)
	default:
		return "", errs.Warnf("unknown profile mode %q: cpu|heap|allocs", mode)
	}
}

// cpu 的輸出也可直接當作 PGO 的 default.pgo
func cpu(path string, exe func()) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.WrapWithExtra(err, "create cpu profile", path)
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "start cpu profile")
	}
	defer pprof.StopCPUProfile()
	exe()
	return nil
}

func snapshot(path, name string) error {
	prof := pprof.Lookup(name)
	if prof == nil {
		return errs.Fatalf("profile %q not available", name)
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.WrapWithExtra(err, "create profile", path)
	}
	defer f.Close()
	if err := prof.WriteTo(f, 0); err != nil {
		return errs.Wrap(err, "write profile")
	}
	return nil
}
