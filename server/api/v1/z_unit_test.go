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

package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/zintix-labs/slotstop/panel"
	"github.com/zintix-labs/slotstop/server/netsvr"
	"github.com/zintix-labs/slotstop/server/svrcfg"
	"github.com/zintix-labs/slotstop/session"
	"github.com/zintix-labs/slotstop/view"
)

func newPollFixture(t *testing.T, timeout time.Duration) (http.Handler, *session.Session) {
	t.Helper()
	sCfg := &svrcfg.SvrCfg{
		Store: session.NewStore(session.Options{Seed: 3, Scheduler: panel.NewManualScheduler()}),
	}
	if err := sCfg.Valid(); err != nil {
		t.Fatal(err)
	}
	h, err := NewSessionHandler(sCfg)
	if err != nil {
		t.Fatal(err)
	}
	h.pollTimeout = timeout
	svr := netsvr.NewChiServerDefault()
	svr.Group("/v1", h.Register)

	s, err := sCfg.Store.Create()
	if err != nil {
		t.Fatal(err)
	}
	return svr.Handler(), s
}

func get(t *testing.T, h http.Handler, path string) view.Snapshot {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s: %d %s", path, rec.Code, rec.Body.String())
	}
	var snap view.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	return snap
}

func TestPollReturnsImmediatelyWhenBehind(t *testing.T) {
	h, s := newPollFixture(t, time.Minute)
	cur := s.Board().Snapshot().Version
	snap := get(t, h, "/v1/sessions/"+s.ID+"?since=0")
	if snap.Version != cur {
		t.Fatalf("version=%d want %d", snap.Version, cur)
	}
}

func TestPollTimeoutReturnsCurrentBoard(t *testing.T) {
	h, s := newPollFixture(t, 30*time.Millisecond)
	cur := s.Board().Snapshot().Version
	snap := get(t, h, "/v1/sessions/"+s.ID+"?since="+strconv.FormatUint(cur, 10))
	if snap.Version != cur {
		t.Fatalf("timeout should return the unchanged board")
	}
}

func TestPollWakesOnChange(t *testing.T) {
	h, s := newPollFixture(t, 5*time.Second)
	cur := s.Board().Snapshot().Version

	got := make(chan view.Snapshot, 1)
	go func() {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sessions/"+s.ID+"?since="+strconv.FormatUint(cur, 10), nil))
		var snap view.Snapshot
		_ = json.NewDecoder(rec.Body).Decode(&snap)
		got <- snap
	}()

	time.Sleep(20 * time.Millisecond)
	s.Controller().Start()

	select {
	case snap := <-got:
		if snap.Version <= cur {
			t.Fatalf("woke with stale version %d", snap.Version)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("poll did not wake on board change")
	}
}
