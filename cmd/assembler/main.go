// Command assembler is the batch entry point: each argument names a
// source file without its extension, and <arg>.as is assembled in
// turn, producing <arg>.ob (plus <arg>.ent and <arg>.ext when they
// would not be empty) for every file that assembles without error. A
// failure in one file
// is reported and does not prevent the remaining files from being
// processed, mirroring the original implementation's per-argument loop.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-asc/asc2000/internal/settings"
	"github.com/go-asc/asc2000/internal/shell"
)

func main() {
	interactive := flag.Bool("i", false, "start the interactive shell instead of batch-assembling files")
	flag.Parse()
	args := flag.Args()

	if *interactive {
		s := shell.New()
		s.Run(os.Stdin, os.Stdout, true)
		return
	}

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "ERROR: no source file specified")
		fmt.Fprintln(os.Stderr, "usage: assembler <file> [<file> ...]  (reads <file>.as)")
		os.Exit(1)
	}

	failed := false
	cfg := settings.New()
	for _, filename := range args {
		if err := assembleOne(filename, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

func assembleOne(filename string, cfg *settings.Settings) error {
	a, err := shell.AssembleFile(filename+".as", cfg)
	if err != nil {
		return err
	}
	for _, e := range a.Errors() {
		fmt.Fprintln(os.Stderr, e)
	}
	if len(a.Errors()) > 0 {
		return fmt.Errorf("assembly failed with %d error(s)", len(a.Errors()))
	}
	return nil
}
