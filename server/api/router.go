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

package api

import (
	"log/slog"
	"net/http"

	"github.com/zintix-labs/slotstop/server/api/index"
	v1 "github.com/zintix-labs/slotstop/server/api/v1"
	"github.com/zintix-labs/slotstop/server/httperr"
	"github.com/zintix-labs/slotstop/server/netsvr"
	"github.com/zintix-labs/slotstop/server/netsvr/middleware"
	"github.com/zintix-labs/slotstop/server/svrcfg"
)

// RegisterRoutes 註冊
func RegisterRoutes(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) error {
	registerMiddleware(svr, sCfg)   // 1. 註冊 middleware
	registerIndex(svr)              // 2. 註冊主頁與圖片
	registerHealth(svr, sCfg)       // 3. 健康檢查
	return registerV1API(svr, sCfg) // 4. 註冊 v1 api
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(sCfg.Log))
	svr.Use(middleware.Recover(sCfg.Log))
	svr.Use(middleware.CORS(sCfg.Config.CORSOrigins))
	svr.Use(middleware.Compression)
}

// 註冊主頁
func registerIndex(svr netsvr.NetRouter) {
	svr.Get("/", index.IndexHandlerFn)
	svr.Get("/img/*", index.Assets)
	svr.Get("/static/*", index.Static)
}

func registerHealth(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) {
	svr.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httperr.Write(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"sessions": sCfg.Store.Len(),
		})
	})
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) error {
	h, err := v1.NewSessionHandler(sCfg)
	if err != nil {
		sCfg.Log.Error("register v1", slog.Any("err", err))
		return err
	}
	svr.Group("/v1", h.Register)
	return nil
}
