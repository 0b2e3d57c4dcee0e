// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package pngme

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an Error.
//
//go:generate stringer -type=ErrorKind
type ErrorKind int

const (
	// KindFormat is used for truncated input, a missing signature and declared sizes the input can not satisfy.
	KindFormat ErrorKind = iota + 1
	// KindValidation is used for CRC mismatches and malformed chunk type codes.
	KindValidation
	// KindNotFound is used when a chunk type is not present in a PNG.
	KindNotFound
	// KindEncoding is used when chunk data can not be decoded as text.
	KindEncoding
)

// Error is the error type returned by this package.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "pngme: " + e.Msg
	}
	if e.Msg == "" {
		return "pngme: " + e.Err.Error()
	}
	return fmt.Sprintf("pngme: %s: %v", e.Msg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
// This allows errors.Is(err, &Error{Kind: KindNotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Msg == "" && t.Err == nil
}

// CRCError is wrapped in a KindValidation error when the stored checksum of a chunk
// does not match the one computed over its type and data.
type CRCError struct {
	Type     ChunkType
	Stored   uint32
	Computed uint32
}

func (e *CRCError) Error() string {
	return fmt.Sprintf("crc mismatch in %s chunk: stored %#08x, computed %#08x", e.Type, e.Stored, e.Computed)
}

func newError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func newFormatErrorf(format string, args ...any) error {
	return newError(KindFormat, nil, format, args...)
}

func newValidationErrorf(format string, args ...any) error {
	return newError(KindValidation, nil, format, args...)
}

func newNotFoundErrorf(format string, args ...any) error {
	return newError(KindNotFound, nil, format, args...)
}

func newEncodingErrorf(format string, args ...any) error {
	return newError(KindEncoding, nil, format, args...)
}

func isKind(err error, kind ErrorKind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// IsInvalidFormat reports whether err is, or wraps, a KindFormat error.
func IsInvalidFormat(err error) bool {
	return isKind(err, KindFormat)
}

// IsValidation reports whether err is, or wraps, a KindValidation error.
func IsValidation(err error) bool {
	return isKind(err, KindValidation)
}

// IsNotFound reports whether err is, or wraps, a KindNotFound error.
func IsNotFound(err error) bool {
	return isKind(err, KindNotFound)
}

// IsEncoding reports whether err is, or wraps, a KindEncoding error.
func IsEncoding(err error) bool {
	return isKind(err, KindEncoding)
}
