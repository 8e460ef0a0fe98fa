package netsvr

import (
	"net/http"

	"github.com/zintix-labs/slotstop/server/app"
)

// NetSvr 封裝「路由 + 服務啟停」，只交給最外層組裝器使用，其他層面向 NetRouter。
// NetSvr 同時是 app.Component，可直接交給 app.App 管理生命週期。
type NetSvr interface {
	NetRouter
	app.Component
}

// NetRouter 只有路由行為，Group 回呼拿不到 Run/Shutdown。
type NetRouter interface {
	Use(middleware func(http.Handler) http.Handler)

	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)
	Delete(path string, h http.HandlerFunc)
	Handle(pattern string, h http.Handler)

	Group(path string, fn func(NetRouter))
}
