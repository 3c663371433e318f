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
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/gait/core"
)

// vectorSer serializes embedding vectors as raw float32 slices.
var vectorSer = ord.NewSliceSer[float32](raw.Float32)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSerializationFailed, err)
	}
	return core.ID(v), nil
}

// MarshalDocument serializes a Document to bytes. Timestamps are stored
// with microsecond precision.
func MarshalDocument(doc *core.Document) []byte {
	size := varint.Uint64.Size(uint64(doc.Id)) +
		ord.String.Size(doc.Content) +
		ord.String.Size(doc.Source) +
		ord.String.Size(doc.Filename) +
		ord.String.Size(doc.Type) +
		varint.Int.Size(doc.ChunkId) +
		varint.Int.Size(doc.ChunkSize) +
		vectorSer.Size(doc.Vector) +
		varint.Int64.Size(doc.InsertedAt.UnixMicro())

	buf := make([]byte, size)
	n := varint.Uint64.Marshal(uint64(doc.Id), buf)
	n += ord.String.Marshal(doc.Content, buf[n:])
	n += ord.String.Marshal(doc.Source, buf[n:])
	n += ord.String.Marshal(doc.Filename, buf[n:])
	n += ord.String.Marshal(doc.Type, buf[n:])
	n += varint.Int.Marshal(doc.ChunkId, buf[n:])
	n += varint.Int.Marshal(doc.ChunkSize, buf[n:])
	n += vectorSer.Marshal(doc.Vector, buf[n:])
	varint.Int64.Marshal(doc.InsertedAt.UnixMicro(), buf[n:])
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc := &core.Document{}
	n := 0

	id, sz, err := varint.Uint64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: id: %v", ErrSerializationFailed, err)
	}
	doc.Id = core.ID(id)
	n += sz

	if doc.Content, sz, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: content: %v", ErrSerializationFailed, err)
	}
	n += sz

	if doc.Source, sz, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: source: %v", ErrSerializationFailed, err)
	}
	n += sz

	if doc.Filename, sz, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: filename: %v", ErrSerializationFailed, err)
	}
	n += sz

	if doc.Type, sz, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: type: %v", ErrSerializationFailed, err)
	}
	n += sz

	if doc.ChunkId, sz, err = varint.Int.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: chunk id: %v", ErrSerializationFailed, err)
	}
	n += sz

	if doc.ChunkSize, sz, err = varint.Int.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: chunk size: %v", ErrSerializationFailed, err)
	}
	n += sz

	if doc.Vector, sz, err = vectorSer.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: vector: %v", ErrSerializationFailed, err)
	}
	n += sz

	micros, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: inserted at: %v", ErrSerializationFailed, err)
	}
	doc.InsertedAt = time.UnixMicro(micros).UTC()

	return doc, nil
}
