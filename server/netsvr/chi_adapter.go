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

package netsvr

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// Options 是 HTTP server 的可調參數，零值欄位使用預設。
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

const defaultAddr = ":5808"

// ChiAdapter 以 chi 實作 NetSvr，handler / middleware 都走 net/http。
type ChiAdapter struct {
	router chi.Router
	server *http.Server
	addr   string
}

func NewChiServer(opt Options) *ChiAdapter {
	if opt.Addr == "" {
		opt.Addr = defaultAddr
	}
	if opt.ReadTimeout <= 0 {
		opt.ReadTimeout = 10 * time.Second
	}
	if opt.WriteTimeout <= 0 {
		opt.WriteTimeout = 10 * time.Second
	}
	if opt.IdleTimeout <= 0 {
		opt.IdleTimeout = 120 * time.Second
	}
	cr := chi.NewRouter()
	return &ChiAdapter{
		router: cr,
		server: &http.Server{
			Addr:              opt.Addr,
			Handler:           cr,
			ReadTimeout:       opt.ReadTimeout,
			ReadHeaderTimeout: opt.ReadTimeout,
			WriteTimeout:      opt.WriteTimeout,
			IdleTimeout:       opt.IdleTimeout,
		},
		addr: opt.Addr,
	}
}

func NewChiServerDefault() *ChiAdapter {
	return NewChiServer(Options{})
}

func (c *ChiAdapter) Ready() bool {
	return c != nil && c.router != nil && c.server != nil &&
		strings.Contains(c.addr, ":") && c.server.Handler == c.router
}

func (c *ChiAdapter) Run() error {
	return c.server.ListenAndServe()
}

func (c *ChiAdapter) Shutdown(ctx context.Context) error {
	return c.server.Shutdown(ctx)
}

func (c *ChiAdapter) Use(mw func(http.Handler) http.Handler) { c.router.Use(mw) }

func (c *ChiAdapter) Get(path string, h http.HandlerFunc)    { c.router.Get(path, h) }
func (c *ChiAdapter) Post(path string, h http.HandlerFunc)   { c.router.Post(path, h) }
func (c *ChiAdapter) Delete(path string, h http.HandlerFunc) { c.router.Delete(path, h) }
func (c *ChiAdapter) Handle(pattern string, h http.Handler)  { c.router.Handle(pattern, h) }

func (c *ChiAdapter) Group(path string, fn func(NetRouter)) {
	c.router.Route(path, func(r chi.Router) {
		fn(&ChiAdapter{router: r})
	})
}

func (c *ChiAdapter) Address() string { return c.addr }

// Handler 回傳根路由，供 httptest 或嵌入其他 server 使用
func (c *ChiAdapter) Handler() http.Handler { return c.router }

// URLParam 讀取路由參數（例如 /sessions/{id}）
func URLParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}
