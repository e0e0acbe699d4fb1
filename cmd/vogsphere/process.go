package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/vinayprograms/vogsphere/agents"
	"github.com/vinayprograms/vogsphere/archive"
	"github.com/vinayprograms/vogsphere/credentials"
	"github.com/vinayprograms/vogsphere/errors"
	"github.com/vinayprograms/vogsphere/export"
	"github.com/vinayprograms/vogsphere/extract"
	"github.com/vinayprograms/vogsphere/llm"
	"github.com/vinayprograms/vogsphere/profiles"
	"github.com/vinayprograms/vogsphere/telemetry"
)

type processFlags struct {
	profile    string
	outDir     string
	language   string
	archiveDir string
	noArchive  bool
	noResearch bool
	print      bool
	pageURL    string
}

func runProcess(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	var f processFlags
	fs.StringVar(&f.profile, "profile", "", "Profile id or name (default: active profile)")
	fs.StringVar(&f.outDir, "out", ".", "Directory the note is written to")
	fs.StringVar(&f.language, "lang", "", "Output language (default: profile language)")
	fs.StringVar(&f.archiveDir, "archive", e.defaultArchiveDir(), "Archive directory")
	fs.BoolVar(&f.noArchive, "no-archive", false, "Do not index the note")
	fs.BoolVar(&f.noResearch, "no-research", false, "Skip the research analysis section")
	fs.BoolVar(&f.print, "print", false, "Print the note instead of writing a file")
	fs.StringVar(&f.pageURL, "url", "", "Source URL recorded for a local file")
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "Usage: vogsphere process [flags] <url | file.html | ->\n\n")
		fmt.Fprintf(e.stderr, "A target of - reads an extractor result ({title, content, url, siteName} or {error}) from stdin.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return errors.InvalidInput(err.Error())
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.InvalidInput("process takes exactly one target")
	}
	target := fs.Arg(0)

	tp, err := telemetry.InitFromEnv(ctx, version, e.verbose)
	if err != nil {
		e.logger.Warn("tracing disabled", map[string]interface{}{"error": err.Error()})
	}
	if tp != nil {
		defer tp.Shutdown(context.Background())
	}

	m, err := e.manager(ctx)
	if err != nil {
		return err
	}
	profile, err := selectProfile(m, f.profile)
	if err != nil {
		return err
	}
	if f.language != "" {
		profile.Language = f.language
	}
	fillAPIKey(e, &profile)

	extractor, err := extractorFor(e, target, f.pageURL)
	if err != nil {
		return err
	}

	runner := agents.NewRunner(
		llm.WithTracing(llm.NewClient()),
		agents.WithLogger(e.logger.WithComponent("agents")),
		agents.WithOptions(agents.Options{SkipResearch: f.noResearch}),
	)
	md, err := runner.Process(ctx, extractor, target, profile)
	if err != nil {
		return err
	}

	filename := export.Filename(md)
	if f.print {
		fmt.Fprint(e.stdout, md)
	} else {
		path, err := export.Write(f.outDir, md)
		if err != nil {
			return err
		}
		e.logger.NoteExported(path)
		fmt.Fprintln(e.stdout, path)
	}

	if !f.noArchive {
		if err := archiveNote(ctx, f.archiveDir, md, filename); err != nil {
			e.logger.Warn("note not archived", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

func selectProfile(m *profiles.Manager, ref string) (profiles.Profile, error) {
	if ref == "" {
		return m.Active()
	}
	return m.Find(ref)
}

// fillAPIKey fills an empty key from credentials.toml or the environment.
// The filled key is used for this run only and never saved.
func fillAPIKey(e *env, p *profiles.Profile) {
	if p.Fields.APIKey != "" {
		return
	}
	creds, path, err := credentials.Load()
	if err != nil {
		e.logger.Warn("credentials not loaded", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
	if key := creds.GetAPIKey(string(p.Provider)); key != "" {
		p.Fields.APIKey = key
		e.logger.Debug("api key filled", map[string]interface{}{"provider": string(p.Provider)})
	}
}

func extractorFor(e *env, target, pageURL string) (extract.Extractor, error) {
	if target == "-" {
		content, err := extract.DecodeResult(e.stdin)
		if err != nil {
			return nil, err
		}
		return extract.Static{Value: content}, nil
	}
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return extract.NewHTTP(nil), nil
	}
	if _, err := os.Stat(target); err == nil {
		return extract.File{URL: pageURL}, nil
	}
	return nil, errors.InvalidInput(fmt.Sprintf("target %q is neither a URL nor a readable file", target))
}

func archiveNote(ctx context.Context, dir, md, filename string) error {
	a, err := archive.Open(dir)
	if err != nil {
		return err
	}
	defer a.Close()
	_, err = a.Index(ctx, archive.NoteFromMarkdown(md, filename))
	return err
}
