package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/zintix-labs/slotstop/errs"
	"github.com/zintix-labs/slotstop/server/httperr"
)

// Recover 把 handler panic（包含 errs.Assert 的不變量錯誤）記成 Error log 並回 JSON 500。
// http.ErrAbortHandler 照原樣往上拋，交給 net/http 中斷連線。
func Recover(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rv := recover()
				if rv == nil {
					return
				}
				if err, ok := rv.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rv)
				}
				err, ok := rv.(error)
				if !ok {
					err = fmt.Errorf("%v", rv)
				}
				log.Error("http.panic",
					slog.String("path", r.URL.Path),
					slog.String("req_id", GetReqID(r)),
					slog.String("errlv", errs.LevelOf(err).String()),
					slog.Any("err", err),
					slog.String("stack", string(debug.Stack())),
				)
				httperr.Errs(w, errs.Wrap(err, "panic"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
