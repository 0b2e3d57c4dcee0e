// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package pngme

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Chunk data up to this size is read into a slice allocated up front.
// Larger chunks are read through a growing buffer, so a corrupt length
// field can not make us allocate more than the input actually holds.
const maxPreallocSize = 64 * 1024

// streamReader is a wrapper around a Reader that provides methods to read the
// big endian fields of a PNG datastream.
// Note that this is not thread safe.
type streamReader struct {
	r         *bufio.Reader
	byteOrder binary.ByteOrder

	buf []byte

	// Number of bytes consumed so far.
	offset int64
}

func newStreamReader(r io.Reader) *streamReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &streamReader{
		r:         br,
		byteOrder: binary.BigEndian,
		buf:       make([]byte, 8),
	}
}

// atEOF reports whether the underlying reader is exhausted.
func (e *streamReader) atEOF() (bool, error) {
	_, err := e.r.Peek(1)
	if err == io.EOF {
		return true, nil
	}
	return false, err
}

func (e *streamReader) readNIntoBufE(n int, what string) error {
	if n > cap(e.buf) {
		e.buf = make([]byte, n)
	}
	n2, err := io.ReadFull(e.r, e.buf[:n])
	e.offset += int64(n2)
	if err != nil {
		return e.wrapReadErr(err, what, int64(n), int64(n2))
	}
	return nil
}

func (e *streamReader) read4E(what string) (uint32, error) {
	const n = 4
	if err := e.readNIntoBufE(n, what); err != nil {
		return 0, err
	}
	return e.byteOrder.Uint32(e.buf[:n]), nil
}

func (e *streamReader) readChunkTypeE() (ChunkType, error) {
	var t ChunkType
	if err := e.readNIntoBufE(len(t), "chunk type"); err != nil {
		return t, err
	}
	copy(t[:], e.buf)
	return t, nil
}

// readBytesE reads exactly length bytes into a newly allocated slice owned by the caller.
func (e *streamReader) readBytesE(length int64, what string) ([]byte, error) {
	if length == 0 {
		return []byte{}, nil
	}
	if length <= maxPreallocSize {
		b := make([]byte, length)
		n, err := io.ReadFull(e.r, b)
		e.offset += int64(n)
		if err != nil {
			return nil, e.wrapReadErr(err, what, length, int64(n))
		}
		return b, nil
	}

	var buff bytes.Buffer
	n, err := io.CopyN(&buff, e.r, length)
	e.offset += n
	if err != nil {
		return nil, e.wrapReadErr(err, what, length, n)
	}
	return buff.Bytes(), nil
}

func (e *streamReader) wrapReadErr(err error, what string, want, got int64) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return newError(KindFormat, io.ErrUnexpectedEOF, "truncated %s at offset %d: need %d bytes, got %d", what, e.offset-got, want, got)
	}
	return fmt.Errorf("read %s at offset %d: %w", what, e.offset-got, err)
}
