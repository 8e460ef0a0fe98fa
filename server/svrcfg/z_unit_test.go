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

package svrcfg

import (
	"testing"

	"github.com/zintix-labs/slotstop/config"
	"github.com/zintix-labs/slotstop/errs"
)

func TestValidFillsDefaults(t *testing.T) {
	sc := &SvrCfg{}
	if err := sc.Valid(); err != nil {
		t.Fatal(err)
	}
	if sc.Log == nil || sc.Config == nil || sc.Store == nil {
		t.Fatalf("defaults not filled: %+v", sc)
	}
}

func TestValidRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.LogMode = "loud"
	sc := &SvrCfg{Config: cfg}
	if err := sc.Valid(); errs.LevelOf(err) != errs.Warn {
		t.Fatalf("expected warn, got %v", err)
	}
}
