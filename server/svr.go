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

package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/slotstop/errs"
	"github.com/zintix-labs/slotstop/server/api"
	"github.com/zintix-labs/slotstop/server/app"
	"github.com/zintix-labs/slotstop/server/netsvr"
	"github.com/zintix-labs/slotstop/server/svrcfg"
)

// Run 是 server 套件的組裝器與啟動入口。
//
// 它負責：
//  1. 驗證 SvrCfg（logger、config、session store）。
//  2. 依 config 建立 HTTP server（netsvr）。
//  3. 註冊路由與 middleware（api.RegisterRoutes）。
//  4. 以 app.App 同時跑 HTTP server 與 session 清理，收到信號後依反序關閉。
//
// Run 不處理設定檔與環境變數，這些由 cmd 層載入後放進 SvrCfg。
func Run(sCfg *svrcfg.SvrCfg) error {
	if err := sCfg.Valid(); err != nil {
		// 防止外層傳入的logger不可用
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	cfg := sCfg.Config
	svr := netsvr.NewChiServer(netsvr.Options{
		Addr:         cfg.Addr,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	return RunWithSvr(sCfg, svr)
}

// RunWithSvr 與 Run 相同，但由呼叫端注入 NetSvr（自訂 adapter、listener 或 TLS）。
// 若注入的是 ChiAdapter，會要求 Ready() 為 true。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	if err := sCfg.Valid(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if svr == nil {
		return errs.NewFatal("svr is required")
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		return errs.NewFatal("default server is not ready")
	}

	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		return errs.Wrap(err, "register routes")
	}

	// store 先註冊：關閉時 HTTP 先停，再清掉 session
	a := app.NewWith(sCfg.Log, sCfg.Store, svr)
	sCfg.Log.Info("[slotstop] listening", slog.String("addr", addrOf(svr)))
	if err := a.Run(); err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
		return err
	}
	return nil
}

func addrOf(svr netsvr.NetSvr) string {
	if s, ok := svr.(*netsvr.ChiAdapter); ok {
		return s.Address()
	}
	return "custom"
}
