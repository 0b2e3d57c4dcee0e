// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package pngme

import (
	"bytes"

	"github.com/rwcarlsen/goexif/exif"
)

// ChunkTypeEXIF is the eXIf chunk type.
var ChunkTypeEXIF = ChunkType{'e', 'X', 'I', 'f'}

// EXIF decodes the first eXIf chunk in p.
// It returns a KindNotFound error if p has no eXIf chunk.
func (p *PNG) EXIF() (*exif.Exif, error) {
	// http://ftp-osl.osuosl.org/pub/libpng/documents/pngext-1.5.0.html#C.eXIf
	// The data segment of the eXIf chunk is a TIFF structure starting with "II" or "MM",
	// without the JPEG APP1 marker and the "Exif" identifier.
	c, found := p.ChunkByType(ChunkTypeEXIF.String())
	if !found {
		return nil, newNotFoundErrorf("no %s chunk", ChunkTypeEXIF)
	}
	x, err := exif.Decode(bytes.NewReader(c.data))
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return nil, newError(KindFormat, err, "decode %s chunk", ChunkTypeEXIF)
	}
	return x, nil
}
