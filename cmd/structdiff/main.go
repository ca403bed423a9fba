// Command structdiff deep-compares two YAML or JSON documents and reports
// the first structural difference.
//
// Usage:
//
//	structdiff expected.yaml actual.json
//
// Documents are decoded into plain trees and compared member by member with
// the document member source, so keys carrying synthesized-name mangling
// reconcile with their plain counterparts. The exit code is 0 when the
// documents match and 1 when they differ.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/amandengue/nfluent/report"
	"github.com/amandengue/nfluent/structural"
)

func main() {
	noColor := flag.Bool("no-color", false, "disable ANSI colors even on a terminal")
	quiet := flag.Bool("q", false, "suppress output, report through the exit code only")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] expected actual\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	expected, err := decode(flag.Arg(0))
	if err != nil {
		slog.Error("decoding expected document", "file", flag.Arg(0), "err", err)
		os.Exit(2)
	}
	actual, err := decode(flag.Arg(1))
	if err != nil {
		slog.Error("decoding actual document", "file", flag.Arg(1), "err", err)
		os.Exit(2)
	}

	c := structural.New(structural.WithMemberSource(structural.DocumentSource{}))
	verdict := c.Compare(expected, actual)

	if !*quiet {
		r := report.Renderer{Color: !*noColor && isatty.IsTerminal(os.Stdout.Fd())}
		fmt.Println(r.Equality(verdict))
	}
	if !verdict.OK() {
		os.Exit(1)
	}
}

// decode reads one YAML document; JSON is a YAML subset, so .json files
// need no separate path.
func decode(name string) (any, error) {
	buf, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := yaml.Unmarshal(buf, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return doc, nil
}
