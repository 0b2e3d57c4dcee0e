// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Command pngme hides messages in PNG files.
//
// Usage:
//
//	pngme encode <file> <chunk type> <message> [output file]
//	pngme decode <file> [chunk type]
//	pngme remove <file> <chunk type>
//	pngme print <file>
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("pngme: ")

	flag.Usage = usage
	flag.Parse()

	if err := run(flag.Args(), os.Stdout, log.Printf); err != nil {
		if err == errUsage {
			usage()
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage:
  %[1]s encode <file> <chunk type> <message> [output file]
  %[1]s decode <file> [chunk type]
  %[1]s remove <file> <chunk type>
  %[1]s print <file>
`, os.Args[0])
	flag.PrintDefaults()
}
