// Package app 定義長期運行元件的最小生命週期抽象。
package app

import "context"

// Component 是可啟動 / 可關閉的長生命週期元件。
//   - Run() 阻塞直到元件停止（正常或錯誤）。
//   - Shutdown(ctx) 要求優雅關閉，實作方應尊重 ctx deadline。
//
// 典型實例：HTTP Server、session 清理器。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}
