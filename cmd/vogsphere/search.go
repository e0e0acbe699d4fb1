package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/vinayprograms/vogsphere/archive"
	"github.com/vinayprograms/vogsphere/errors"
	"github.com/vinayprograms/vogsphere/export"
)

func runSearch(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	dir := fs.String("archive", e.defaultArchiveDir(), "Archive directory")
	limit := fs.Int("limit", archive.DefaultLimit, "Maximum results")
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "Usage: vogsphere search [flags] [query]\n\n")
		fmt.Fprintf(e.stderr, "Query syntax: words, \"phrases\", tags:name, +required -excluded. No query lists recent notes.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return errors.InvalidInput(err.Error())
	}

	a, err := archive.Open(*dir)
	if err != nil {
		return err
	}
	defer a.Close()

	hits, err := a.Search(ctx, strings.Join(fs.Args(), " "), *limit)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Fprintln(e.stdout, "No notes found.")
		return nil
	}
	for _, h := range hits {
		fmt.Fprintf(e.stdout, "%s  %s\n", export.FormatDate(h.CreatedAt.Local()), h.Title)
		if h.Source != "" {
			fmt.Fprintf(e.stdout, "    %s\n", h.Source)
		}
		if len(h.Tags) > 0 {
			fmt.Fprintf(e.stdout, "    #%s\n", strings.Join(h.Tags, " #"))
		}
	}
	return nil
}
