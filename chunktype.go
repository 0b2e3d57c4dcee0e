// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package pngme

import (
	"bytes"
	"encoding"
)

var (
	_ encoding.TextUnmarshaler = (*ChunkType)(nil)
	_ encoding.TextMarshaler   = ChunkType{}
)

// The property bit of each chunk type byte, see
// https://www.w3.org/TR/png/#5Chunk-naming-conventions
const propertyBit = 0x20

// ChunkType is the 4-byte code identifying a chunk, e.g. IHDR or tEXt.
// The zero value is not a valid chunk type.
type ChunkType [4]byte

// NewChunkType creates a ChunkType from b.
// Any 4 bytes are accepted, use IsValid to check whether b is a conforming type code.
func NewChunkType(b [4]byte) ChunkType {
	return ChunkType(b)
}

// ParseChunkType parses s, which must be exactly 4 ASCII letters.
func ParseChunkType(s string) (ChunkType, error) {
	var t ChunkType
	if len(s) != len(t) {
		return t, newValidationErrorf("chunk type %q must be %d bytes long, got %d", s, len(t), len(s))
	}
	for i := 0; i < len(s); i++ {
		if !isASCIILetter(s[i]) {
			return t, newValidationErrorf("chunk type %q: byte %#02x at index %d is not an ASCII letter", s, s[i], i)
		}
		t[i] = s[i]
	}
	return t, nil
}

// MustParseChunkType is like ParseChunkType but panics on error.
func MustParseChunkType(s string) ChunkType {
	t, err := ParseChunkType(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Bytes returns the raw type code.
func (t ChunkType) Bytes() [4]byte {
	return t
}

// IsValid reports whether all bytes are ASCII letters and the reserved bit is unset.
func (t ChunkType) IsValid() bool {
	for _, b := range t {
		if !isASCIILetter(b) {
			return false
		}
	}
	return t.IsReservedBitValid()
}

// IsCritical reports whether the chunk is needed to display the image (uppercase first letter).
func (t ChunkType) IsCritical() bool {
	return t[0]&propertyBit == 0
}

// IsPublic reports whether the type is part of the PNG specification or a registered
// extension (uppercase second letter).
func (t ChunkType) IsPublic() bool {
	return t[1]&propertyBit == 0
}

// IsReservedBitValid reports whether the reserved bit in the third letter is unset,
// as required for all chunk types conforming to the current PNG specification.
func (t ChunkType) IsReservedBitValid() bool {
	return t[2]&propertyBit == 0
}

// IsSafeToCopy reports whether editors that do not recognize the chunk may copy it
// unchanged to a modified file (lowercase last letter).
func (t ChunkType) IsSafeToCopy() bool {
	return t[3]&propertyBit != 0
}

// Compare returns -1, 0 or +1 depending on whether t sorts before, equal to or after u.
func (t ChunkType) Compare(u ChunkType) int {
	return bytes.Compare(t[:], u[:])
}

// String returns the type code as ASCII text.
func (t ChunkType) String() string {
	return string(t[:])
}

func (t ChunkType) MarshalText() (text []byte, err error) {
	return []byte(t.String()), nil
}

func (t *ChunkType) UnmarshalText(text []byte) error {
	v, err := ParseChunkType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func isASCIILetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
