// Copyright 2025 Poiesic Systems
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

package storage

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/poiesic/newslens/core"
)

// CacheKey derives the embedding cache key for text under model.
func CacheKey(model, text string) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, core.ContentKey(model+"\x00"+text))
	return key
}

// MarshalVector serializes a vector as little-endian float32 values.
func MarshalVector(vec core.Vector) []byte {
	buf := make([]byte, 4*len(vec))
	for i, x := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(x))
	}
	return buf
}

// UnmarshalVector deserializes a vector written by MarshalVector.
func UnmarshalVector(data []byte) (core.Vector, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty vector", ErrSerializationFailed)
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of float32 values", ErrTruncatedData, len(data))
	}
	vec := make(core.Vector, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return vec, nil
}
