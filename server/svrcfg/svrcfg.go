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
	"log/slog"

	"github.com/zintix-labs/slotstop/config"
	"github.com/zintix-labs/slotstop/errs"
	"github.com/zintix-labs/slotstop/server/logger"
	"github.com/zintix-labs/slotstop/session"
)

// SvrCfg 是 server 組裝所需的全部依賴，由 cmd 層建立後注入。
type SvrCfg struct {
	Log    *slog.Logger
	Config *config.Config
	Store  *session.Store
}

func (sc *SvrCfg) Valid() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}

	if sc.Config == nil {
		sc.Config = config.Default()
	}
	if err := sc.Config.Valid(); err != nil {
		return errs.Wrap(err, "server config")
	}
	if sc.Store == nil {
		sc.Store = session.NewStore(session.Options{
			TTL:         sc.Config.SessionTTL,
			MaxSessions: sc.Config.MaxSessions,
			HistorySize: sc.Config.HistorySize,
			Seed:        sc.Config.Seed,
			Log:         sc.Log,
		})
	}
	return nil
}
