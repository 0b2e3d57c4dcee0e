// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package pngme

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"strings"
	"unicode/utf8"
)

// MaxChunkLength is the largest data length the PNG specification allows in a single chunk.
const MaxChunkLength = 1<<31 - 1

// Bytes of length, type and CRC around the data of every chunk.
const chunkOverhead = 12

// Chunk is a single length/type/data/CRC record of a PNG datastream.
// A Chunk is never modified after it is created.
type Chunk struct {
	length uint32
	typ    ChunkType
	data   []byte
	crc    uint32
}

// NewChunk creates a chunk of type typ holding a copy of data.
// The length and CRC are computed from typ and data.
func NewChunk(typ ChunkType, data []byte) Chunk {
	d := make([]byte, len(data))
	copy(d, data)
	return Chunk{
		length: uint32(len(d)),
		typ:    typ,
		data:   d,
		crc:    checksum(typ, d),
	}
}

// ParseChunk parses the chunk at the start of b.
// Bytes after the chunk's CRC are ignored.
func ParseChunk(b []byte) (Chunk, error) {
	return readChunk(newStreamReader(bytes.NewReader(b)), MaxChunkLength)
}

// readChunk reads one chunk from sr and verifies its CRC.
func readChunk(sr *streamReader, limit uint32) (Chunk, error) {
	start := sr.offset
	length, err := sr.read4E("chunk length")
	if err != nil {
		return Chunk{}, err
	}
	if length > limit {
		return Chunk{}, newFormatErrorf("chunk at offset %d declares length %d, exceeds limit %d", start, length, limit)
	}
	typ, err := sr.readChunkTypeE()
	if err != nil {
		return Chunk{}, err
	}
	data, err := sr.readBytesE(int64(length), fmt.Sprintf("%s chunk data", typ))
	if err != nil {
		return Chunk{}, err
	}
	crc, err := sr.read4E(fmt.Sprintf("%s chunk CRC", typ))
	if err != nil {
		return Chunk{}, err
	}

	if computed := checksum(typ, data); computed != crc {
		return Chunk{}, newError(KindValidation, &CRCError{Type: typ, Stored: crc, Computed: computed}, "chunk at offset %d", start)
	}

	return Chunk{
		length: length,
		typ:    typ,
		data:   data,
		crc:    crc,
	}, nil
}

// checksum computes the CRC-32 (ISO-HDLC, the IEEE polynomial) of typ followed by data.
func checksum(typ ChunkType, data []byte) uint32 {
	crc := crc32.Update(0, crc32.IEEETable, typ[:])
	return crc32.Update(crc, crc32.IEEETable, data)
}

// Length returns the length of the chunk data.
func (c Chunk) Length() uint32 {
	return c.length
}

// Type returns the chunk type.
func (c Chunk) Type() ChunkType {
	return c.typ
}

// Data returns the chunk data.
// The returned slice must not be modified.
func (c Chunk) Data() []byte {
	return c.data
}

// CRC returns the chunk's checksum.
func (c Chunk) CRC() uint32 {
	return c.crc
}

// DataAsString returns the chunk data as a string.
// It fails with a KindEncoding error if the data is not valid UTF-8.
func (c Chunk) DataAsString() (string, error) {
	if !utf8.Valid(c.data) {
		return "", newEncodingErrorf("%s chunk data is not valid UTF-8", c.typ)
	}
	return string(c.data), nil
}

// Bytes returns the chunk in its wire format.
func (c Chunk) Bytes() []byte {
	b := make([]byte, 0, chunkOverhead+len(c.data))
	return c.appendBytes(b)
}

func (c Chunk) appendBytes(b []byte) []byte {
	b = binary.BigEndian.AppendUint32(b, c.length)
	b = append(b, c.typ[:]...)
	b = append(b, c.data...)
	return binary.BigEndian.AppendUint32(b, c.crc)
}

// WriteTo writes the chunk in its wire format to w.
func (c Chunk) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.Bytes())
	return int64(n), err
}

// Equal reports whether c and other have the same length, type, data and CRC.
func (c Chunk) Equal(other Chunk) bool {
	return c.length == other.length &&
		c.typ == other.typ &&
		c.crc == other.crc &&
		bytes.Equal(c.data, other.data)
}

// String returns a summary of the chunk. The data itself is not included.
func (c Chunk) String() string {
	var sb strings.Builder
	sb.WriteString("Chunk {\n")
	fmt.Fprintf(&sb, "  Length: %d\n", c.length)
	fmt.Fprintf(&sb, "  Type: %s\n", c.typ)
	fmt.Fprintf(&sb, "  Data: %d bytes\n", len(c.data))
	fmt.Fprintf(&sb, "  Crc: %d\n", c.crc)
	sb.WriteString("}")
	return sb.String()
}
