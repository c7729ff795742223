/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Command cw-bwt builds the Burrows-Wheeler Transform of a file using the
// context-wise incremental (cw-bwt) construction engine (spec.md §6).
//
// Usage: cw-bwt <text_file> <bwt_file> [k]
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	cwbwt "github.com/cwbwt-go/cwbwt"
	"github.com/cwbwt-go/cwbwt/transform"
)

func main() {
	os.Exit(run(os.Args))
}

// run is separated from main so tests can drive it without os.Exit.
func run(args []string) int {
	app := application()
	err := app.Run(args)
	if err == nil {
		return 0
	}

	fmt.Fprintln(os.Stderr, err)
	if ec, ok := err.(cli.ExitCoder); ok {
		return ec.ExitCode()
	}
	return 1
}

func application() *cli.App {
	return &cli.App{
		Name:      "cw-bwt",
		Usage:     "build the Burrows-Wheeler Transform of a file in compressed working memory",
		UsageText: "cw-bwt <text_file> <bwt_file> [k]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "print progress, entropy and memory statistics to stdout",
			},
			&cli.UintFlag{
				Name:  "overhead",
				Value: 5,
				Usage: "target automaton footprint, as a percentage of n bits, when k is not given and -overhead-select is set",
			},
			&cli.BoolFlag{
				Name:  "overhead-select",
				Usage: "pick k by automaton footprint instead of the default sigma^k <= n/log^3(n) heuristic",
			},
		},
		Action: build,
		// cli's default handler calls os.Exit on a cli.Exit error; run
		// reports the error and maps it to an exit code itself.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func build(c *cli.Context) error {
	if c.Args().Len() < 2 {
		return cli.Exit("usage: cw-bwt <text_file> <bwt_file> [k]", 1)
	}

	inPath := c.Args().Get(0)
	outPath := c.Args().Get(1)

	opts := cwbwt.DefaultBuildOptions()
	opts.Verbose = c.Bool("verbose")

	if c.Args().Len() >= 3 {
		k, err := strconv.Atoi(c.Args().Get(2))
		if err != nil {
			return cli.Exit(fmt.Sprintf("invalid k %q: %v", c.Args().Get(2), err), 1)
		}
		opts.KSelect = cwbwt.KExplicit
		opts.K = uint(k)
	} else if c.Bool("overhead-select") {
		opts.KSelect = cwbwt.KOverhead
		opts.OverheadPercent = c.Uint("overhead")
	}

	var listeners []cwbwt.Listener
	if opts.Verbose {
		listeners = append(listeners, stdoutListener{})
	}

	b, err := transform.BuildFromFile(inPath, opts, listeners...)
	if err != nil {
		return cli.Exit(err.Error(), exitCodeFor(err))
	}

	if err := writeBWT(b, outPath); err != nil {
		return cli.Exit(err.Error(), exitCodeFor(err))
	}

	if opts.Verbose {
		printStats(b)
	}

	return nil
}

// writeBWT streams the finished BWT to path. A failure mid-write truncates
// the partial output rather than leaving a corrupt file around (spec.md
// §7's propagation policy).
func writeBWT(b *transform.Builder, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return cwbwt.NewError(cwbwt.IoError, err.Error())
	}

	w := bufio.NewWriter(f)
	it := b.Iterator()

	for it.HasNext() {
		s, err := it.Next()
		if err != nil {
			f.Truncate(0)
			f.Close()
			return err
		}
		if err := w.WriteByte(s); err != nil {
			f.Truncate(0)
			f.Close()
			return cwbwt.NewError(cwbwt.IoError, err.Error())
		}
	}

	if err := w.Flush(); err != nil {
		f.Truncate(0)
		f.Close()
		return cwbwt.NewError(cwbwt.IoError, err.Error())
	}

	return f.Close()
}

func printStats(b *transform.Builder) {
	fmt.Printf("k-th order empirical entropy: %.4f bits/symbol\n", b.EmpiricalEntropy())
	fmt.Printf("actual (Huffman) entropy:     %.4f bits/symbol\n", b.ActualEntropy())
	fmt.Printf("context length k:             %d\n", b.ContextLength())
	fmt.Printf("reachable contexts:           %d\n", b.NumContexts())
	fmt.Printf("peak memory:                  %d bytes\n", b.PeakBytes())
}

// exitCodeFor maps a BuildError's kind to a process exit code; any other
// error (should not happen, the core never returns anything else) exits 1.
func exitCodeFor(err error) int {
	be, ok := err.(*cwbwt.BuildError)
	if !ok {
		return 1
	}
	switch be.Kind {
	case cwbwt.InvalidInput:
		return 2
	case cwbwt.InvalidParameter:
		return 3
	case cwbwt.CapacityExceeded:
		return 4
	case cwbwt.InternalError:
		return 5
	case cwbwt.IoError:
		return 6
	default:
		return 1
	}
}

// stdoutListener prints build Events to stdout, the CLI's --verbose wiring
// (spec.md §6: "progress and statistics to stdout when verbose"). The core
// itself never writes to stdout.
type stdoutListener struct{}

func (stdoutListener) ProcessEvent(evt *cwbwt.Event) {
	fmt.Println(evt.String())
}
