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

// Package config 載入伺服器設定：預設值 → YAML 檔 → .env / 環境變數，最後由 cmd 以 flag 覆寫。
package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/zintix-labs/slotstop/errs"
	"gopkg.in/yaml.v3"
)

const envPrefix = "SLOTSTOP_"

type Config struct {
	Addr         string        `yaml:"addr"`
	LogMode      string        `yaml:"log_mode"`
	LogBuffer    int           `yaml:"log_buffer"`
	SessionTTL   time.Duration `yaml:"session_ttl"`
	MaxSessions  int           `yaml:"max_sessions"`
	HistorySize  int           `yaml:"history_size"`
	CORSOrigins  []string      `yaml:"cors_origins"`
	Seed         int64         `yaml:"seed"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

func Default() *Config {
	return &Config{
		Addr:         ":5808",
		LogMode:      "dev",
		LogBuffer:    4096,
		SessionTTL:   10 * time.Minute,
		MaxSessions:  1024,
		HistorySize:  20,
		Seed:         -1,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Load 讀取 YAML 設定檔，未出現的欄位保留預設值；未知欄位視為錯誤。
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.WrapWithExtra(err, "read config", path)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		e := errs.NewWithExtra(errs.Warn, "invalid config", path)
		e.Cause = err
		return nil, e
	}
	return cfg, nil
}

// LoadEnv 先載入 .env 檔（不存在則略過，不覆寫已存在的環境變數），再套用 SLOTSTOP_* 環境變數。
func (c *Config) LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errs.WrapWithExtra(err, "load env file", f)
		}
	}
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(envPrefix + "ADDR"); ok {
		c.Addr = v
	}
	if v, ok := lookup(envPrefix + "LOG_MODE"); ok {
		c.LogMode = v
	}
	if v, ok := lookup(envPrefix + "CORS_ORIGINS"); ok {
		c.CORSOrigins = splitList(v)
	}
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SESSION_TTL", &c.SessionTTL},
		{"READ_TIMEOUT", &c.ReadTimeout},
		{"WRITE_TIMEOUT", &c.WriteTimeout},
	}
	for _, d := range durations {
		if v, ok := lookup(envPrefix + d.key); ok {
			td, err := time.ParseDuration(v)
			if err != nil {
				return errs.NewWithExtra(errs.Warn, "invalid duration", envPrefix+d.key+"="+v)
			}
			*d.dst = td
		}
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"MAX_SESSIONS", &c.MaxSessions},
		{"HISTORY_SIZE", &c.HistorySize},
		{"LOG_BUFFER", &c.LogBuffer},
	}
	for _, n := range ints {
		if v, ok := lookup(envPrefix + n.key); ok {
			iv, err := strconv.Atoi(v)
			if err != nil {
				return errs.NewWithExtra(errs.Warn, "invalid integer", envPrefix+n.key+"="+v)
			}
			*n.dst = iv
		}
	}
	if v, ok := lookup(envPrefix + "SEED"); ok {
		sv, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errs.NewWithExtra(errs.Warn, "invalid seed", envPrefix+"SEED="+v)
		}
		c.Seed = sv
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Valid 檢查必要欄位並把數值夾在合理範圍。
func (c *Config) Valid() error {
	if c.Addr == "" || !strings.Contains(c.Addr, ":") {
		return errs.Warnf("invalid addr %q: want host:port or :port", c.Addr)
	}
	switch c.LogMode {
	case "dev", "prod", "silence":
	default:
		return errs.Warnf("invalid log_mode %q: dev|prod|silence", c.LogMode)
	}
	// 1 <= MaxSessions <= 100k
	c.MaxSessions = min(max(1, c.MaxSessions), 100000)
	// 1 <= HistorySize <= 1000
	c.HistorySize = min(max(1, c.HistorySize), 1000)
	c.LogBuffer = max(64, c.LogBuffer)
	if c.SessionTTL < time.Second {
		c.SessionTTL = time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	return nil
}
