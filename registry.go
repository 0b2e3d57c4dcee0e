// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package pngme

import (
	"slices"
)

// Source: https://www.w3.org/TR/png-3/#4Concepts.FormatTypes
var standardChunkTypes = []string{
	// Critical.
	"IHDR", "PLTE", "IDAT", "IEND",

	// Ancillary.
	"acTL", "cHRM", "cICP", "cLLI", "eXIf", "fcTL", "fdAT", "gAMA", "hIST",
	"iCCP", "iTXt", "mDCv", "pHYs", "sBIT", "sPLT", "sRGB", "tEXt", "tIME",
	"tRNS", "zTXt",
}

// Registry is a set of chunk types known to the caller.
// It is used by AutoChunkDetect to tell standard chunks from custom ones.
// The zero value is an empty Registry ready to use.
type Registry struct {
	types map[ChunkType]struct{}
}

// NewRegistry creates a Registry holding types.
func NewRegistry(types ...ChunkType) *Registry {
	r := &Registry{}
	for _, t := range types {
		r.Add(t)
	}
	return r
}

// DefaultRegistry returns a new Registry with all chunk types defined by the PNG specification.
func DefaultRegistry() *Registry {
	r := &Registry{}
	for _, s := range standardChunkTypes {
		r.Add(MustParseChunkType(s))
	}
	return r
}

// Add adds t to the set.
func (r *Registry) Add(t ChunkType) {
	if r.types == nil {
		r.types = make(map[ChunkType]struct{})
	}
	r.types[t] = struct{}{}
}

// Contains reports whether t is in the set.
func (r *Registry) Contains(t ChunkType) bool {
	_, found := r.types[t]
	return found
}

// Len returns the number of types in the set.
func (r *Registry) Len() int {
	return len(r.types)
}

// Types returns the types in the set in byte order.
func (r *Registry) Types() []ChunkType {
	types := make([]ChunkType, 0, len(r.types))
	for t := range r.types {
		types = append(types, t)
	}
	slices.SortFunc(types, ChunkType.Compare)
	return types
}
