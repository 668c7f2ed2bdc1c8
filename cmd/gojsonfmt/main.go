// Command gojsonfmt reformats JSON documents through the resolver,
// exercising the ambient stack: kong flag parsing, the Logger
// interface, and errgroup-based concurrent fan-out.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"golang.org/x/sync/errgroup"

	"github.com/rnats/gojson"
	"github.com/rnats/gojson/internal/jsonopts"
	"github.com/rnats/gojson/log"
)

type cli struct {
	Version kong.VersionFlag `kong:"short='v',help='Show version and exit.'"`

	Files []string `kong:"arg,optional,help='JSON files to reformat; reads stdin if omitted.'"`

	Naming        string `kong:"default='as-declared',enum='as-declared,camel,snake,ada',help='Member naming convention.'"`
	ExcludeNulls  bool   `kong:"help='Omit nil pointer, interface, map and slice members instead of writing null.'"`
	Escape        string `kong:"default='default',enum='default,non-ascii,html',help='Escape mode.'"`
	AllowComments bool   `kong:"help='Tolerate // and /* */ comments in input.'"`
	AllowTrailing bool   `kong:"help='Tolerate a trailing comma before a closing bracket.'"`
	MaxDepth      int    `kong:"default=0,help='Recursion guard ceiling; 0 uses the default of 64.'"`
	Verbose       bool   `kong:"short='V',help='Log resolver cache activity to stderr.'"`
	Concurrency   int    `kong:"default=1,help='Number of files to process concurrently.'"`
}

func main() {
	var c cli
	kong.Parse(&c,
		kong.Name("gojsonfmt"),
		kong.Description("Reformats JSON documents through the gojson resolver."),
		kong.UsageOnError(),
	)
	if err := run(&c); err != nil {
		fmt.Fprintln(os.Stderr, "gojsonfmt:", err)
		os.Exit(1)
	}
}

func run(c *cli) error {
	logger := log.Discard
	if c.Verbose {
		logger = log.NewStdLogger(log.LevelDebug)
	}

	resolver := gojson.NewResolver(
		gojson.Naming(namingFromFlag(c.Naming)),
		gojson.ExcludeNulls(c.ExcludeNulls),
		gojson.EscapeMode(escapeFromFlag(c.Escape)),
		gojson.Comments(commentsFromFlags(c.AllowComments)),
		gojson.AllowTrailingCommas(c.AllowTrailing),
		gojson.MaxDepth(c.MaxDepth),
	).WithLogger(logger)

	if len(c.Files) == 0 {
		return reformatStream(resolver, os.Stdin, os.Stdout)
	}

	limit := c.Concurrency
	if limit < 1 {
		limit = 1
	}
	g := new(errgroup.Group)
	g.SetLimit(limit)
	for _, path := range c.Files {
		path := path
		g.Go(func() error {
			return reformatFile(resolver, path)
		})
	}
	return g.Wait()
}

func reformatFile(r *gojson.Resolver, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	out, err := os.CreateTemp(filepath.Dir(path), ".gojsonfmt-*")
	if err != nil {
		return err
	}
	defer os.Remove(out.Name())
	if err := reformatStream(r, f, out); err != nil {
		out.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Rename(out.Name(), path)
}

func reformatStream(r *gojson.Resolver, in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(bufio.NewReader(in))
	if err != nil {
		return err
	}
	var v any
	if err := r.Unmarshal(data, &v); err != nil {
		return err
	}
	encoded, err := r.Marshal(v)
	if err != nil {
		return err
	}
	_, err = out.Write(encoded)
	return err
}

func namingFromFlag(s string) jsonopts.Naming {
	switch s {
	case "camel":
		return jsonopts.CamelCase
	case "snake":
		return jsonopts.SnakeCase
	case "ada":
		return jsonopts.AdaCase
	default:
		return jsonopts.AsDeclared
	}
}

func escapeFromFlag(s string) jsonopts.EscapeMode {
	switch s {
	case "non-ascii":
		return jsonopts.EscapeNonASCII
	case "html":
		return jsonopts.EscapeHTML
	default:
		return jsonopts.EscapeDefault
	}
}

func commentsFromFlags(allow bool) jsonopts.CommentHandling {
	if allow {
		return jsonopts.SkipComments
	}
	return jsonopts.DisallowComments
}
