package main

import (
	"flag"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	out := flag.String("out", "", "output file path (default: <input>_postcard.go)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: postcardgen [-out file] <source.go>")
		os.Exit(2)
	}
	in := flag.Arg(0)

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, in, nil, parser.ParseComments)
	if err != nil {
		fmt.Fprintf(os.Stderr, "postcardgen: %v\n", err)
		os.Exit(1)
	}

	src, err := generate(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "postcardgen: %v\n", err)
		os.Exit(1)
	}

	outPath := *out
	if outPath == "" {
		base := strings.TrimSuffix(in, ".go")
		outPath = base + "_postcard.go"
	}

	if err := os.WriteFile(outPath, []byte(src), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "postcardgen: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "postcardgen: wrote %s\n", filepath.Clean(outPath))
}
