// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package pngme

import (
	"bytes"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ChunkTypeText is the tEXt chunk type.
var ChunkTypeText = ChunkType{'t', 'E', 'X', 't'}

const maxKeywordLength = 79

// TextEntry is a keyword/text pair stored in a tEXt chunk.
type TextEntry struct {
	Keyword string
	Text    string
}

// NewTextChunk creates a tEXt chunk. keyword and text are stored as ISO 8859-1,
// keyword must be between 1 and 79 characters.
func NewTextChunk(keyword, text string) (Chunk, error) {
	enc := charmap.ISO8859_1.NewEncoder()
	kw, err := encodeLatin1(enc, keyword, "keyword")
	if err != nil {
		return Chunk{}, err
	}
	if len(kw) == 0 || len(kw) > maxKeywordLength {
		return Chunk{}, newValidationErrorf("tEXt keyword must be 1 to %d characters, got %d", maxKeywordLength, len(kw))
	}
	if bytes.IndexByte(kw, 0) != -1 {
		return Chunk{}, newValidationErrorf("tEXt keyword %q contains a null character", keyword)
	}
	txt, err := encodeLatin1(enc, text, "text")
	if err != nil {
		return Chunk{}, err
	}

	data := make([]byte, 0, len(kw)+1+len(txt))
	data = append(data, kw...)
	data = append(data, 0)
	data = append(data, txt...)
	return NewChunk(ChunkTypeText, data), nil
}

// DecodeText decodes the keyword and text of the tEXt chunk c.
func DecodeText(c Chunk) (keyword, text string, err error) {
	if c.typ != ChunkTypeText {
		return "", "", newValidationErrorf("expected a %s chunk, got %s", ChunkTypeText, c.typ)
	}
	kw, txt, found := bytes.Cut(c.data, []byte{0})
	if !found {
		return "", "", newFormatErrorf("tEXt chunk has no keyword separator")
	}
	dec := charmap.ISO8859_1.NewDecoder()
	if keyword, err = dec.String(string(kw)); err != nil {
		return "", "", newError(KindEncoding, err, "decode tEXt keyword")
	}
	if text, err = dec.String(string(txt)); err != nil {
		return "", "", newError(KindEncoding, err, "decode tEXt text")
	}
	return keyword, text, nil
}

// TextEntries decodes all tEXt chunks in p, in order.
func (p *PNG) TextEntries() ([]TextEntry, error) {
	var entries []TextEntry
	for _, c := range p.chunks {
		if c.typ != ChunkTypeText {
			continue
		}
		kw, txt, err := DecodeText(c)
		if err != nil {
			return nil, err
		}
		entries = append(entries, TextEntry{Keyword: kw, Text: txt})
	}
	return entries, nil
}

func encodeLatin1(enc *encoding.Encoder, s, what string) ([]byte, error) {
	for _, r := range s {
		if r > 0xff {
			return nil, newEncodingErrorf("tEXt %s %q: %q is not representable in ISO 8859-1", what, s, r)
		}
	}
	b, err := enc.Bytes([]byte(s))
	if err != nil {
		return nil, newError(KindEncoding, err, "encode tEXt %s", what)
	}
	return b, nil
}
