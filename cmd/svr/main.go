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
	"fmt"
	"net"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/zintix-labs/slotstop/config"
	"github.com/zintix-labs/slotstop/errs"
	"github.com/zintix-labs/slotstop/server"
	"github.com/zintix-labs/slotstop/server/logger"
	"github.com/zintix-labs/slotstop/server/svrcfg"
)

// 設定優先序：預設值 → -config YAML → .env 與 SLOTSTOP_* 環境變數 → 指令列 flag
func main() {
	var (
		cfgPath = flag.String("config", "", "yaml config file")
		envFile = flag.String("env", ".env", "dotenv file (ignored when missing)")
		addr    = flag.String("addr", "", "listen address, overrides config")
		logMode = flag.String("log-mode", "", "log mode: dev|prod|silence, overrides config")
		open    = flag.Bool("open", false, "open the game page in a browser once listening")
	)
	flag.Parse()

	cfg, err := loadConfig(*cfgPath, *envFile, *addr, *logMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	mode, _ := logger.ParseMode(cfg.LogMode)
	log, ah := logger.NewAsync(cfg.LogBuffer, mode)
	defer ah.Close()

	if *open {
		go func() {
			url := "http://" + dialAddr(cfg.Addr) + "/"
			if err := waitForTCP(cfg.Addr, 5*time.Second); err != nil {
				log.Warn("server not ready: " + err.Error())
				return
			}
			if err := openBrowser(url); err != nil {
				log.Warn("open browser failed: " + err.Error())
			}
		}()
	}

	if err := server.Run(&svrcfg.SvrCfg{Log: log, Config: cfg}); err != nil {
		ah.Close()
		os.Exit(1)
	}
}

func loadConfig(path, envFile, addr, logMode string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.LoadEnv(envFile); err != nil {
		return nil, err
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if logMode != "" {
		cfg.LogMode = logMode
	}
	if err := cfg.Valid(); err != nil {
		return nil, errs.Wrap(err, "config")
	}
	return cfg, nil
}

func dialAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "127.0.0.1" + addr
	}
	return addr
}

func waitForTCP(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", dialAddr(addr), 200*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("timeout waiting for %s", addr)
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
