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

package core

import (
	"crypto/rand"
	"math"
	"math/big"
	"sync"
	"sync/atomic"
)

// RAND 定義遊戲所需的亂數取樣能力。
type RAND interface {
	// Uint64 回傳 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// IntN 回傳 [0,n) 的 int 亂數，若 n <= 0 回傳 -1。
	IntN(int) int
}

// Factory 以 seed 建立 RAND。相同實作與 seed 必須產生相同序列（可重現）。
type Factory interface {
	New(seed int64) RAND
}

// DefaultFactory 產生 PCG64。
type DefaultFactory struct{}

func (DefaultFactory) New(seed int64) RAND { return NewPCG64(seed) }

func Default() Factory { return DefaultFactory{} }

// Locked 讓單一 RAND 可以被多個 goroutine 共用。
//
// 每個 Panel 的 timer 都在自己的 goroutine 觸發，同一局的三個 Panel 共用一個來源，
// 所以取樣必須序列化。
type Locked struct {
	mu  sync.Mutex
	src RAND
}

func NewLocked(src RAND) *Locked {
	return &Locked{src: src}
}

func (l *Locked) Uint64() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Uint64()
}

func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

func (l *Locked) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}

// NewSeed 由 crypto/rand 產生非負 seed。
func NewSeed() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}

const mask63 = uint64(1<<63) - 1

// SeedMaker 從 base seed 派生不重複的子 seed，可併發呼叫。
type SeedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func NewSeedMaker(seed int64) *SeedMaker {
	s := &SeedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// Next 推進 full-period LCG (mod 2^63) 再以 mix63 打散，回傳值一定非負。
func (s *SeedMaker) Next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next))
		}
	}
}

func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
