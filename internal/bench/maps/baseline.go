// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
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

package maps

// baseline is the built-in Go map, grown on demand with no pre-sizing.
// Values are stored by reference, as a general-purpose map would.
type baseline struct {
	m map[int][]byte
}

func newBaseline() *baseline {
	return &baseline{m: make(map[int][]byte)}
}

func (b *baseline) Put(key int, value []byte) error {
	b.m[key] = value
	return nil
}

func (b *baseline) Get(key int) ([]byte, bool) {
	v, ok := b.m[key]
	return v, ok
}

// Clear empties the map; the runtime keeps the bucket array.
func (b *baseline) Clear() { clear(b.m) }

func (b *baseline) Destroy() error { return nil }

func (b *baseline) Len() int { return len(b.m) }

func (b *baseline) Variant() Variant { return Baseline }
