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
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/zintix-labs/slotstop/errs"
	"github.com/zintix-labs/slotstop/server/httperr"
	"github.com/zintix-labs/slotstop/server/netsvr"
	"github.com/zintix-labs/slotstop/server/svrcfg"
	"github.com/zintix-labs/slotstop/session"
	"github.com/zintix-labs/slotstop/view"
)

// PollTimeout 是 GET /v1/sessions/{id}?since=N 最長的等待時間
const PollTimeout = 5 * time.Second

type created struct {
	ID    string        `json:"id"`
	Board view.Snapshot `json:"board"`
}

// ============================================================
// ** SessionHandler **
// ============================================================

type SessionHandler struct {
	store       *session.Store
	log         *slog.Logger
	pollTimeout time.Duration
}

func NewSessionHandler(sCfg *svrcfg.SvrCfg) (*SessionHandler, error) {
	if sCfg == nil || sCfg.Store == nil {
		return nil, errs.NewFatal("session store is required")
	}
	return &SessionHandler{store: sCfg.Store, log: sCfg.Log, pollTimeout: PollTimeout}, nil
}

// Register 掛上 /sessions 底下的所有路由
func (h *SessionHandler) Register(r netsvr.NetRouter) {
	r.Post("/sessions", h.Create)
	r.Get("/sessions/{id}", h.State)
	r.Delete("/sessions/{id}", h.Delete)
	r.Post("/sessions/{id}/start", h.Start)
	r.Post("/sessions/{id}/panels/{idx}/stop", h.Stop)
	r.Get("/sessions/{id}/rounds", h.Rounds)
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Create()
	if err != nil {
		h.fail(w, err)
		return
	}
	httperr.Write(w, http.StatusCreated, created{ID: s.ID, Board: s.Board().Snapshot()})
}

// State 回傳畫面。帶 since 時長輪詢：等到版本超過 since，逾時則回傳當下畫面。
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	raw := r.URL.Query().Get("since")
	if raw == "" {
		httperr.Write(w, http.StatusOK, s.Board().Snapshot())
		return
	}
	since, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		h.fail(w, errs.NewWithExtra(errs.Warn, "invalid since", raw))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.pollTimeout)
	defer cancel()
	snap, err := s.Board().Wait(ctx, since)
	if err != nil {
		// 客戶端已離開就不必回應；輪詢逾時不是錯誤，回傳未變的畫面
		if r.Context().Err() != nil {
			return
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			h.fail(w, err)
			return
		}
	}
	httperr.Write(w, http.StatusOK, snap)
}

// Start 點擊 START。START 停用時照樣回 200 與當下畫面。
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Controller().Start()
	httperr.Write(w, http.StatusOK, s.Board().Snapshot())
}

// Stop 點擊第 idx（0 起算）個 STOP
func (h *SessionHandler) Stop(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	raw := netsvr.URLParam(r, "idx")
	idx, err := strconv.Atoi(raw)
	if err != nil {
		h.fail(w, errs.NewWithExtra(errs.Warn, "invalid panel index", raw))
		return
	}
	if _, err := s.Controller().Stop(idx); err != nil {
		h.fail(w, err)
		return
	}
	httperr.Write(w, http.StatusOK, s.Board().Snapshot())
}

func (h *SessionHandler) Rounds(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	httperr.Write(w, http.StatusOK, s.History())
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(netsvr.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.store.Get(netsvr.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) fail(w http.ResponseWriter, err error) {
	httperr.Log(h.log, "api.v1", err)
	httperr.Errs(w, err)
}
