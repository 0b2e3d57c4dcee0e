// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Package pngme reads and writes the chunk structure of PNG files.
// It is mainly meant for hiding messages in custom ancillary chunks.
package pngme

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Signature is the fixed 8-byte header of every PNG datastream.
var Signature = [8]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

var chunkTypeIEND = ChunkType{'I', 'E', 'N', 'D'}

var defaultRegistry = DefaultRegistry()

// Options contains the options for the Decode function.
type Options struct {
	// The Reader (typically a *os.File) to read the PNG from.
	R io.Reader

	// LimitChunkSize is the maximum data length accepted for a single chunk.
	// Chunks declaring a larger length fail with a KindFormat error.
	// Default value is MaxChunkLength.
	LimitChunkSize uint32

	// If set, decoding stops after the IEND chunk.
	// Any bytes following it are ignored and reported through Warnf.
	// By default all chunks are read until R is exhausted, including any
	// chunks appended after IEND.
	StopAtIEND bool

	// Warnf will be called for each warning.
	Warnf func(string, ...any)
}

// PNG is an ordered list of chunks.
type PNG struct {
	chunks []Chunk
}

// New creates a PNG holding chunks.
func New(chunks ...Chunk) *PNG {
	return &PNG{chunks: append([]Chunk(nil), chunks...)}
}

// ParsePNG parses b, which must start with Signature followed by zero or more chunks.
func ParsePNG(b []byte) (*PNG, error) {
	return Decode(Options{R: bytes.NewReader(b)})
}

// Decode reads a PNG datastream from opts.R.
// Any malformed chunk fails the whole decode.
func Decode(opts Options) (*PNG, error) {
	if opts.R == nil {
		return nil, fmt.Errorf("no reader provided")
	}
	if opts.LimitChunkSize == 0 {
		opts.LimitChunkSize = MaxChunkLength
	}
	if opts.Warnf == nil {
		opts.Warnf = func(string, ...any) {}
	}

	sr := newStreamReader(opts.R)

	if err := sr.readNIntoBufE(len(Signature), "signature"); err != nil {
		if IsInvalidFormat(err) {
			return nil, newFormatErrorf("not a PNG: input shorter than the signature")
		}
		return nil, err
	}
	if !bytes.Equal(sr.buf[:len(Signature)], Signature[:]) {
		return nil, newFormatErrorf("not a PNG: invalid signature % x", sr.buf[:len(Signature)])
	}

	p := &PNG{}
	for {
		eof, err := sr.atEOF()
		if err != nil {
			return nil, err
		}
		if eof {
			break
		}
		c, err := readChunk(sr, opts.LimitChunkSize)
		if err != nil {
			return nil, err
		}
		p.chunks = append(p.chunks, c)

		if opts.StopAtIEND && c.typ == chunkTypeIEND {
			if eof, _ := sr.atEOF(); !eof {
				opts.Warnf("ignoring trailing data after IEND at offset %d", sr.offset)
			}
			break
		}
	}

	return p, nil
}

// Chunks returns the chunks in order.
// The returned slice is a copy and may be modified.
func (p *PNG) Chunks() []Chunk {
	return append([]Chunk(nil), p.chunks...)
}

// AppendChunk adds c to the end of the chunk list.
func (p *PNG) AppendChunk(c Chunk) {
	p.chunks = append(p.chunks, c)
}

// RemoveFirstChunk removes and returns the first chunk of type typ.
// It returns a KindNotFound error if there is no such chunk.
func (p *PNG) RemoveFirstChunk(typ string) (Chunk, error) {
	i := p.indexOf(typ)
	if i == -1 {
		return Chunk{}, newNotFoundErrorf("no chunk of type %q", typ)
	}
	c := p.chunks[i]
	chunks := make([]Chunk, 0, len(p.chunks)-1)
	chunks = append(chunks, p.chunks[:i]...)
	p.chunks = append(chunks, p.chunks[i+1:]...)
	return c, nil
}

// ChunkByType returns the first chunk of type typ.
func (p *PNG) ChunkByType(typ string) (Chunk, bool) {
	i := p.indexOf(typ)
	if i == -1 {
		return Chunk{}, false
	}
	return p.chunks[i], true
}

// AutoChunkDetect returns the first chunk whose type is not defined by the PNG specification.
func (p *PNG) AutoChunkDetect() (Chunk, bool) {
	return p.AutoChunkDetectIn(defaultRegistry)
}

// AutoChunkDetectIn returns the first chunk whose type is not in known.
func (p *PNG) AutoChunkDetectIn(known *Registry) (Chunk, bool) {
	for _, c := range p.chunks {
		if !known.Contains(c.typ) {
			return c, true
		}
	}
	return Chunk{}, false
}

func (p *PNG) indexOf(typ string) int {
	for i, c := range p.chunks {
		if c.typ.String() == typ {
			return i
		}
	}
	return -1
}

// Bytes returns the PNG datastream: Signature followed by every chunk in order.
func (p *PNG) Bytes() []byte {
	size := len(Signature)
	for _, c := range p.chunks {
		size += chunkOverhead + len(c.data)
	}
	b := make([]byte, 0, size)
	b = append(b, Signature[:]...)
	for _, c := range p.chunks {
		b = c.appendBytes(b)
	}
	return b
}

// WriteTo writes the PNG datastream to w.
func (p *PNG) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(Signature[:])
	written := int64(n)
	if err != nil {
		return written, err
	}
	for _, c := range p.chunks {
		n, err := c.WriteTo(w)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// String returns the signature followed by a summary of each chunk.
func (p *PNG) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Signature: % x\n", Signature[:])
	for _, c := range p.chunks {
		sb.WriteString(c.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
