// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package pngme_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/bep/pngme"

	qt "github.com/frankban/quicktest"
)

const secretMessage = "This is where your secret message will be!"

// CRC-32 of "RuSt" followed by secretMessage.
const secretMessageCRC = 2882656334

func chunkBytes(length uint32, typ string, data []byte, crc uint32) []byte {
	b := binary.BigEndian.AppendUint32(nil, length)
	b = append(b, typ...)
	b = append(b, data...)
	return binary.BigEndian.AppendUint32(b, crc)
}

func TestNewChunk(t *testing.T) {
	c := qt.New(t)

	chunk := pngme.NewChunk(pngme.MustParseChunkType("RuSt"), []byte(secretMessage))
	c.Assert(chunk.Length(), qt.Equals, uint32(42))
	c.Assert(chunk.CRC(), qt.Equals, uint32(secretMessageCRC))
	c.Assert(chunk.Type().String(), qt.Equals, "RuSt")
	c.Assert(string(chunk.Data()), qt.Equals, secretMessage)

	c.Run("Copies data", func(c *qt.C) {
		data := []byte("abc")
		chunk := pngme.NewChunk(pngme.MustParseChunkType("ruSt"), data)
		data[0] = 'x'
		c.Assert(string(chunk.Data()), qt.Equals, "abc")
	})

	c.Run("Empty", func(c *qt.C) {
		chunk := pngme.NewChunk(pngme.MustParseChunkType("IEND"), nil)
		c.Assert(chunk.Length(), qt.Equals, uint32(0))
		// The well known CRC of an IEND chunk.
		c.Assert(chunk.CRC(), qt.Equals, uint32(0xae426082))
		c.Assert(chunk.Bytes(), qt.DeepEquals, []byte{0, 0, 0, 0, 'I', 'E', 'N', 'D', 0xae, 0x42, 0x60, 0x82})
	})
}

func TestParseChunk(t *testing.T) {
	c := qt.New(t)

	b := chunkBytes(42, "RuSt", []byte(secretMessage), secretMessageCRC)
	chunk, err := pngme.ParseChunk(b)
	c.Assert(err, qt.IsNil)
	c.Assert(chunk.Length(), qt.Equals, uint32(42))
	c.Assert(chunk.Type().String(), qt.Equals, "RuSt")
	c.Assert(chunk.CRC(), qt.Equals, uint32(secretMessageCRC))
	s, err := chunk.DataAsString()
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, secretMessage)

	c.Run("Trailing bytes are ignored", func(c *qt.C) {
		chunk2, err := pngme.ParseChunk(append(b, 1, 2, 3))
		c.Assert(err, qt.IsNil)
		c.Assert(chunk2, eq, chunk)
	})

	c.Run("Type is only checked structurally", func(c *qt.C) {
		data := []byte("x")
		typ := pngme.NewChunkType([4]byte{'1', '2', '3', '4'})
		crc := pngme.NewChunk(typ, data).CRC()
		chunk, err := pngme.ParseChunk(chunkBytes(1, "1234", data, crc))
		c.Assert(err, qt.IsNil)
		c.Assert(chunk.Type().IsValid(), qt.IsFalse)
	})
}

func TestParseChunkInvalidCRC(t *testing.T) {
	c := qt.New(t)

	_, err := pngme.ParseChunk(chunkBytes(42, "RuSt", []byte(secretMessage), secretMessageCRC-1))
	c.Assert(err, qt.IsNotNil)
	c.Assert(pngme.IsValidation(err), qt.IsTrue)

	var crcErr *pngme.CRCError
	c.Assert(errors.As(err, &crcErr), qt.IsTrue)
	c.Assert(crcErr.Stored, qt.Equals, uint32(secretMessageCRC-1))
	c.Assert(crcErr.Computed, qt.Equals, uint32(secretMessageCRC))
	c.Assert(crcErr.Type.String(), qt.Equals, "RuSt")
}

func TestParseChunkBitFlips(t *testing.T) {
	c := qt.New(t)

	original := chunkBytes(42, "RuSt", []byte(secretMessage), secretMessageCRC)

	// Every bit of the data and the CRC field.
	for i := 8; i < len(original); i++ {
		for bit := 0; bit < 8; bit++ {
			b := bytes.Clone(original)
			b[i] ^= 1 << bit
			_, err := pngme.ParseChunk(b)
			c.Assert(pngme.IsValidation(err), qt.IsTrue, qt.Commentf("byte %d bit %d: %v", i, bit, err))
		}
	}
}

func TestParseChunkTruncated(t *testing.T) {
	c := qt.New(t)

	b := chunkBytes(42, "RuSt", []byte(secretMessage), secretMessageCRC)
	for _, n := range []int{0, 3, 4, 7, 8, 20, len(b) - 4, len(b) - 1} {
		_, err := pngme.ParseChunk(b[:n])
		c.Assert(pngme.IsInvalidFormat(err), qt.IsTrue, qt.Commentf("length %d: %v", n, err))
	}

	_, err := pngme.ParseChunk(b[:20])
	c.Assert(err, qt.ErrorMatches, `pngme: truncated RuSt chunk data at offset 8: need 42 bytes, got 12: unexpected EOF`)

	c.Run("Huge declared length", func(c *qt.C) {
		_, err := pngme.ParseChunk(chunkBytes(1<<31-1, "RuSt", []byte("short"), 0))
		c.Assert(pngme.IsInvalidFormat(err), qt.IsTrue)
	})

	c.Run("Declared length above the PNG maximum", func(c *qt.C) {
		_, err := pngme.ParseChunk(chunkBytes(1<<31, "RuSt", nil, 0))
		c.Assert(pngme.IsInvalidFormat(err), qt.IsTrue)
		c.Assert(err, qt.ErrorMatches, `.*exceeds limit.*`)
	})
}

func TestChunkRoundTrip(t *testing.T) {
	c := qt.New(t)

	large := bytes.Repeat([]byte{0, 1, 2, 0xfe, 0xff}, 30000)

	for _, data := range [][]byte{nil, []byte("hello"), []byte{0, 0xff, 0x80}, []byte(secretMessage), large} {
		chunk := pngme.NewChunk(pngme.MustParseChunkType("ruSt"), data)
		b := chunk.Bytes()
		c.Assert(len(b), qt.Equals, 12+len(data))

		parsed, err := pngme.ParseChunk(b)
		c.Assert(err, qt.IsNil)
		c.Assert(parsed, eq, chunk)
		c.Assert(parsed.Bytes(), qt.DeepEquals, b)

		var buf bytes.Buffer
		n, err := chunk.WriteTo(&buf)
		c.Assert(err, qt.IsNil)
		c.Assert(n, qt.Equals, int64(len(b)))
		c.Assert(buf.Bytes(), qt.DeepEquals, b)
	}
}

func TestChunkDataAsString(t *testing.T) {
	c := qt.New(t)

	chunk := pngme.NewChunk(pngme.MustParseChunkType("ruSt"), []byte("Blåbærsyltetøy"))
	s, err := chunk.DataAsString()
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, "Blåbærsyltetøy")

	chunk = pngme.NewChunk(pngme.MustParseChunkType("ruSt"), []byte{0xff, 0xfe, 'a'})
	_, err = chunk.DataAsString()
	c.Assert(pngme.IsEncoding(err), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, `pngme: ruSt chunk data is not valid UTF-8`)
}

func TestChunkString(t *testing.T) {
	c := qt.New(t)

	chunk := pngme.NewChunk(pngme.MustParseChunkType("RuSt"), []byte(secretMessage))
	s := chunk.String()
	c.Assert(s, qt.Contains, "Length: 42")
	c.Assert(s, qt.Contains, "Type: RuSt")
	c.Assert(s, qt.Contains, "Data: 42 bytes")
	c.Assert(s, qt.Contains, "Crc: 2882656334")
	c.Assert(s, qt.Not(qt.Contains), "secret")
}

func TestChunkEqual(t *testing.T) {
	c := qt.New(t)

	a := pngme.NewChunk(pngme.MustParseChunkType("ruSt"), []byte("a"))
	c.Assert(a.Equal(pngme.NewChunk(pngme.MustParseChunkType("ruSt"), []byte("a"))), qt.IsTrue)
	c.Assert(a.Equal(pngme.NewChunk(pngme.MustParseChunkType("ruSt"), []byte("b"))), qt.IsFalse)
	c.Assert(a.Equal(pngme.NewChunk(pngme.MustParseChunkType("ruSu"), []byte("a"))), qt.IsFalse)
}
