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

// Package index 提供內嵌的瀏覽器頁面與圖片資源。
package index

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed web
var webFS embed.FS

var (
	indexHTML []byte
	static    http.Handler
)

func init() {
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	if indexHTML, err = fs.ReadFile(sub, "index.html"); err != nil {
		panic(err)
	}
	static = http.FileServerFS(sub)
}

// IndexHandlerFn 回傳主頁
func IndexHandlerFn(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(indexHTML)
}

// Assets 服務 /img/* 與 /static/*，路徑對應 web/ 目錄
func Assets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	static.ServeHTTP(w, r)
}

// Static 把 /static/x 轉成 web/x
func Static(w http.ResponseWriter, r *http.Request) {
	r2 := r.Clone(r.Context())
	r2.URL.Path = r.URL.Path[len("/static"):]
	Assets(w, r2)
}
