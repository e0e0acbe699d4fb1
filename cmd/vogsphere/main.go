// Command vogsphere turns a web page into a structured Markdown research
// note with a single LLM call.
//
// Usage:
//
//	vogsphere [-config path] [-env path] [-v] <command> [args]
//
// Commands:
//
//	process  extract a page and write its note
//	profile  list, show, create, select, edit or delete provider profiles
//	search   query the archive of generated notes
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vinayprograms/vogsphere/errors"
	"github.com/vinayprograms/vogsphere/logging"
	"github.com/vinayprograms/vogsphere/profiles"
)

var version = "dev"

// env is the state shared by every command.
type env struct {
	configPath string
	verbose    bool
	jsonErrors bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger *logging.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("vogsphere", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", profiles.DefaultPath(), "Profile settings file")
		envFile    = fs.String("env", ".env", "Environment file loaded before credential lookup")
		verbose    = fs.Bool("v", false, "Debug logging")
		jsonErrors = fs.Bool("json", false, "Print errors as JSON")
	)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: vogsphere [flags] <process|profile|search> [args]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	if err := loadEnvFile(*envFile); err != nil {
		fmt.Fprintf(stderr, "warning: %v\n", err)
	}

	logger := logging.New().WithComponent("vogsphere")
	logger.SetOutput(stderr)
	if *verbose {
		logger.SetLevel(logging.LevelDebug)
	}

	e := &env{
		configPath: *configPath,
		verbose:    *verbose,
		jsonErrors: *jsonErrors,
		stdin:      stdin,
		stdout:     stdout,
		stderr:     stderr,
		logger:     logger,
	}

	var err error
	switch cmd, rest := fs.Arg(0), fs.Args()[1:]; cmd {
	case "process":
		err = runProcess(ctx, e, rest)
	case "profile", "profiles":
		err = runProfile(ctx, e, rest)
	case "search":
		err = runSearch(ctx, e, rest)
	case "version":
		fmt.Fprintln(stdout, version)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}

	if err != nil {
		e.printError(err)
		return 1
	}
	return 0
}

// loadEnvFile loads path into the process environment. A missing file is
// not an error; variables already set are left alone.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func (e *env) printError(err error) {
	if e.jsonErrors {
		coded := errors.AsError(err)
		if coded == nil {
			coded = errors.Wrap(err, "vogsphere")
		}
		data, _ := json.Marshal(coded)
		fmt.Fprintln(e.stderr, string(data))
		return
	}
	fmt.Fprintf(e.stderr, "Error: %v\n", err)
}

// manager opens the profile store and runs migration.
func (e *env) manager(ctx context.Context) (*profiles.Manager, error) {
	m := profiles.NewManager(profiles.NewFileStore(e.configPath))
	if err := m.Init(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// defaultArchiveDir sits next to the profile file.
func (e *env) defaultArchiveDir() string {
	return filepath.Join(filepath.Dir(e.configPath), "archive")
}
