// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/bep/pngme"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

var errUsage = errors.New("usage")

type command struct {
	stdout io.Writer
	warnf  func(string, ...any)

	limitChunkSize uint
}

func run(args []string, stdout io.Writer, warnf func(string, ...any)) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd := &command{stdout: stdout, warnf: warnf}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.UintVar(&cmd.limitChunkSize, "limit", pngme.MaxChunkLength, "maximum accepted chunk data length in bytes")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if cmd.limitChunkSize == 0 || cmd.limitChunkSize > pngme.MaxChunkLength {
		return fmt.Errorf("%s: -limit must be between 1 and %d", args[0], pngme.MaxChunkLength)
	}
	rest := fs.Args()

	switch args[0] {
	case "encode":
		if len(rest) != 3 && len(rest) != 4 {
			return errUsage
		}
		output := rest[0]
		if len(rest) == 4 {
			output = rest[3]
		}
		return cmd.encode(rest[0], rest[1], rest[2], output)
	case "decode":
		if len(rest) != 1 && len(rest) != 2 {
			return errUsage
		}
		var typ string
		if len(rest) == 2 {
			typ = rest[1]
		}
		return cmd.decode(rest[0], typ)
	case "remove":
		if len(rest) != 2 {
			return errUsage
		}
		return cmd.remove(rest[0], rest[1])
	case "print":
		if len(rest) != 1 {
			return errUsage
		}
		return cmd.print(rest[0])
	default:
		return errUsage
	}
}

// encode appends a chunk of type typ holding message and writes the result to output.
func (cmd *command) encode(filename, typ, message, output string) error {
	p, err := cmd.load(filename)
	if err != nil {
		return err
	}
	t, err := pngme.ParseChunkType(typ)
	if err != nil {
		return err
	}
	if !t.IsValid() {
		cmd.warnf("chunk type %s has the reserved bit set", t)
	}
	if t.IsCritical() {
		cmd.warnf("chunk type %s is critical, decoders that do not know it will reject the file", t)
	}
	p.AppendChunk(pngme.NewChunk(t, []byte(message)))
	return cmd.save(filename, output, p)
}

// decode prints the message stored in the first chunk of type typ.
// If typ is empty, the first chunk of a non standard type is used.
func (cmd *command) decode(filename, typ string) error {
	p, err := cmd.load(filename)
	if err != nil {
		return err
	}

	var (
		c     pngme.Chunk
		found bool
	)
	if typ == "" {
		c, found = p.AutoChunkDetect()
		if !found {
			return &pngme.Error{Kind: pngme.KindNotFound, Msg: fmt.Sprintf("%s: no custom chunk found", filename)}
		}
	} else {
		c, found = p.ChunkByType(typ)
		if !found {
			return &pngme.Error{Kind: pngme.KindNotFound, Msg: fmt.Sprintf("%s: no chunk of type %q", filename, typ)}
		}
	}

	message, err := c.DataAsString()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.stdout, message)
	return err
}

// remove removes the first chunk of type typ and writes the file back.
func (cmd *command) remove(filename, typ string) error {
	p, err := cmd.load(filename)
	if err != nil {
		return err
	}
	c, err := p.RemoveFirstChunk(typ)
	if err != nil {
		return err
	}
	if c.Type().IsCritical() {
		cmd.warnf("removed critical chunk %s", c.Type())
	}
	return cmd.save(filename, filename, p)
}

// print prints all chunks, followed by any tEXt entries and EXIF tags.
func (cmd *command) print(filename string) error {
	p, err := cmd.load(filename)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.stdout, p)

	entries, err := p.TextEntries()
	if err != nil {
		cmd.warnf("%s: %v", filename, err)
	}
	for _, e := range entries {
		fmt.Fprintf(cmd.stdout, "Text: %s: %s\n", e.Keyword, e.Text)
	}

	x, err := p.EXIF()
	switch {
	case pngme.IsNotFound(err):
	case err != nil:
		cmd.warnf("%s: %v", filename, err)
	default:
		var w exifWalker
		if err := x.Walk(&w); err != nil {
			return err
		}
		sort.Strings(w.lines)
		for _, line := range w.lines {
			fmt.Fprintf(cmd.stdout, "EXIF: %s\n", line)
		}
	}

	return nil
}

func (cmd *command) load(filename string) (*pngme.PNG, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := pngme.Decode(pngme.Options{
		R:              f,
		LimitChunkSize: uint32(cmd.limitChunkSize),
		Warnf:          cmd.warnf,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return p, nil
}

func (cmd *command) save(source, output string, p *pngme.PNG) error {
	perm := os.FileMode(0o644)
	if fi, err := os.Stat(source); err == nil {
		perm = fi.Mode().Perm()
	}
	return os.WriteFile(output, p.Bytes(), perm)
}

type exifWalker struct {
	lines []string
}

func (w *exifWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	w.lines = append(w.lines, fmt.Sprintf("%s: %s", name, tag))
	return nil
}
