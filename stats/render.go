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

package stats

import (
	"encoding/json"
	"io"

	"github.com/zintix-labs/slotstop/errs"
	"gopkg.in/yaml.v3"
)

// Render 定義報告輸出格式
type Render interface {
	Write(w io.Writer, r *Report) error
}

// RenderByName 依名稱取得 Render：table | json | yaml
func RenderByName(name string) (Render, error) {
	switch name {
	case "", "table":
		return TableRender{}, nil
	case "json":
		return JSONRender{}, nil
	case "yaml":
		return YAMLRender{}, nil
	default:
		return nil, errs.Warnf("unknown report format %q", name)
	}
}

type JSONRender struct{}

func (JSONRender) Write(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// YAMLRender 外層陣列維持展開，最內層一維陣列改成 flow style：[a, b, c]
type YAMLRender struct{}

func (YAMLRender) Write(w io.Writer, r *Report) error {
	var node yaml.Node
	if err := node.Encode(r); err != nil {
		return errs.Wrap(err, "encode report")
	}
	flowInnermost(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(&node)
}

func flowInnermost(n *yaml.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			flowInnermost(c)
		}
	case yaml.SequenceNode:
		nested := false
		for _, c := range n.Content {
			if c != nil && (c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode) {
				nested = true
			}
			flowInnermost(c)
		}
		if !nested {
			n.Style = yaml.FlowStyle
		}
	}
}
