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

package symbol

import (
	"encoding/json"
	"testing"
)

func TestPickImageInRangeAndCoversAll(t *testing.T) {
	p := NewSeededPicker(1)
	seen := [Count]int{}
	for i := 0; i < 3000; i++ {
		img := p.PickImage()
		if !img.Valid() {
			t.Fatalf("picked invalid image %d", img)
		}
		seen[img]++
	}
	for i, n := range seen {
		if n == 0 {
			t.Fatalf("image %s never picked", Image(i))
		}
	}
}

func TestPickerReproducible(t *testing.T) {
	a := NewSeededPicker(99)
	b := NewSeededPicker(99)
	for i := 0; i < 50; i++ {
		if a.PickImage() != b.PickImage() {
			t.Fatalf("sequence diverged at %d", i)
		}
	}
}

func TestImageText(t *testing.T) {
	bs, err := json.Marshal([]Image{Seven, Bell, Cherry})
	if err != nil {
		t.Fatal(err)
	}
	if string(bs) != `["SEVEN","BELL","CHERRY"]` {
		t.Fatalf("unexpected json %s", bs)
	}
	var back []Image
	if err := json.Unmarshal(bs, &back); err != nil {
		t.Fatal(err)
	}
	if back[2] != Cherry {
		t.Fatalf("round trip lost value: %v", back)
	}
	if _, err := Parse("PLUM"); err == nil {
		t.Fatalf("expected error for unknown name")
	}
	if Image(7).Asset() != "" || Image(7).Valid() {
		t.Fatalf("out of range image must be invalid")
	}
}
