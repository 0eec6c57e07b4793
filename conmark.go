// MIT License

// Copyright (c) 2020 Senna Mavri

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// This CLI utility runs a command listed below to run its
// corresponding output generator on a conmark source file.
//
// Usage:
//   conmark [command]
//
// Available Commands:
//   help        Help about any command
//   html        HTML page generator for conmark source files
//
// Flags:
//   -h, --help   help for conmark
//
// Use "conmark [command] --help" for more information about a command.
//
// Flags may also be supplied through the CONMARKFLAGS environment
// variable, split on shell word boundaries and applied before the
// command line.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/renameio"
	sq "github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"mavri.cc/conmark/document"
	"mavri.cc/conmark/gen/html"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "conmark generator",
		Short: "output generation for conmark source files",
		Long: `This CLI utility runs a command listed below to run its
corresponding output generator on a conmark source file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var outputfile string
	var timeout time.Duration
	htmlCmd := &cobra.Command{
		Use:                   "html [input] [-o output]",
		Short:                 "HTML page generator for conmark source files",
		Long: `This command compiles conmark source into a standalone HTML page.
All source text is escaped on the way out. Sections, tables, and
glosses are numbered in source order, and references resolve against
the ids declared in the source.

If no input file is specified, input is read from standard input.
Similarly, if no output argument is specified, output is written to
standard output. With -o, the page is written to a temporary file and
moved into place atomically, so readers never observe a partial page.`,
		Args:                  cobra.MaximumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := os.Stdin
			var err error
			if len(args) != 0 {
				src, err = os.Open(args[0])
				if err != nil {
					return err
				}
			}
			defer src.Close()
			doc, err := document.Build(src)
			if err != nil {
				return err
			}
			ctx := context.Background()
			if timeout > -1 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			g := html.GenContext(ctx, doc)
			if len(outputfile) != 0 {
				t, err := renameio.TempFile("", outputfile)
				if err != nil {
					return err
				}
				defer t.Cleanup()
				g.Stdout = t
				if err := g.Run(); err != nil {
					return err
				}
				return t.CloseAtomicallyReplace()
			}
			g.Stdout = os.Stdout
			return g.Run()
		},
	}
	// pflag includes the argument type when it unquotes its usage.
	// To prevent this behavior we prefix the usage with backquotes ``.
	htmlCmd.Flags().StringVarP(&outputfile, "output", "o", "", "``name of the output file")
	htmlCmd.Flags().DurationVarP(&timeout, "timeout", "t", -1, "``timeout used to halt a long-running generator")
	// Set string version of default value to be zero-value to prevent it from being printed by FlagUsages.
	htmlCmd.Flags().Lookup("timeout").DefValue = "0"

	rootCmd.AddCommand(htmlCmd)
	if env := os.Getenv("CONMARKFLAGS"); env != "" {
		words, err := sq.Split(env)
		if err != nil {
			fmt.Fprintf(os.Stderr, "conmark: CONMARKFLAGS: %v\n", err)
			os.Exit(1)
		}
		rootCmd.SetArgs(append(words, os.Args[1:]...))
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "conmark: %v\n", err)
		os.Exit(1)
	}
}
