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

// Package errs 定義全專案共用的分級錯誤型別。
package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : 錯誤分級，讓最上層（HTTP / CLI）理解嚴重程度
type ErrLevel uint8

const (
	None     ErrLevel = iota
	Fatal             // 系統不可恢復，或程式不變量被破壞
	Warn              // 呼叫端輸入問題
	Log               // 只需記錄
	NotFound          // 查無資源
)

var errLvMap = map[ErrLevel]string{
	None:     "",
	Fatal:    "fatal",
	Warn:     "warn",
	Log:      "log",
	NotFound: "not_found",
}

func (l ErrLevel) String() string {
	if str, ok := errLvMap[l]; ok {
		return str
	}
	return ""
}

// E 是統一的錯誤型別。
// Message 為主訊息；Extra 為呼叫端追加的上下文；Cause 串接下層錯誤。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
}

func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s %s", e.ErrLv, e.Message)
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

func (e *E) Unwrap() error { return e.Cause }

func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E    { return New(Fatal, msg) }
func NewWarn(msg string) *E     { return New(Warn, msg) }
func NewLog(msg string) *E      { return New(Log, msg) }
func NewNotFound(msg string) *E { return New(NotFound, msg) }

func Fatalf(format string, a ...any) *E { return NewFatal(fmt.Sprintf(format, a...)) }
func Warnf(format string, a ...any) *E  { return NewWarn(fmt.Sprintf(format, a...)) }

func NewWithExtra(errLv ErrLevel, msg string, extra string) *E {
	e := New(errLv, msg)
	e.Extra = extra
	return e
}

// Wrap 包裝底層錯誤。
//   - cause 已經是 *E：沿用其 ErrLv。
//   - 其他錯誤（標準庫或三方依賴）：一律視為 Fatal。
//
// 可預期且可處理的情境請直接 New 並指定等級，不要 Wrap。
func Wrap(cause error, msg string) *E {
	r := New(LevelOf(cause), msg)
	r.Cause = cause
	return r
}

func WrapWithExtra(cause error, msg string, extra string) *E {
	r := Wrap(cause, msg)
	r.Extra = extra
	return r
}

// LevelOf 回傳錯誤鏈上第一個 *E 的等級；非 *E 視為 Fatal，nil 為 None。
func LevelOf(err error) ErrLevel {
	if err == nil {
		return None
	}
	var e *E
	if errors.As(err, &e) {
		return e.ErrLv
	}
	return Fatal
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Assert 在不變量被破壞時以 Fatal 等級 panic。
// 只用於「不可能發生、發生代表程式錯誤」的檢查，不用於輸入驗證。
func Assert(cond bool, format string, a ...any) {
	if !cond {
		panic(Fatalf(format, a...))
	}
}
