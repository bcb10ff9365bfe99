package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cargomutate/cargomutate/internal/app"
)

var ErrHelpRequested = errors.New("help requested")

// stringList accumulates repeated occurrences of a flag into a slice, the
// hand-rolled flag.Value shape the teacher's flag.FlagSet style needs for
// any option that may be given more than once.
type stringList []string

func (s *stringList) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func ParseArgs(args []string) (app.Request, error) {
	req := app.DefaultRequest()

	for _, arg := range args {
		if isHelpArg(arg) {
			return req, ErrHelpRequested
		}
	}

	fs := flag.NewFlagSet("cargomutate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	dir := fs.String("dir", req.RepoPath, "cargo workspace directory")
	pkg := fs.String("package", req.Package, "restrict to one workspace package")
	var examine, exclude, examineRe, excludeRe stringList
	fs.Var(&examine, "examine", "only mutate files matching glob")
	fs.Var(&exclude, "exclude", "skip files matching glob")
	fs.Var(&examineRe, "examine-re", "only keep mutants whose display text matches pattern")
	fs.Var(&excludeRe, "exclude-re", "drop mutants whose display text matches pattern")
	timeoutSeconds := fs.Int("timeout", int(req.Timeout.Seconds()), "per-subprocess timeout in seconds")
	noBaseline := fs.Bool("no-baseline", req.NoBaseline, "skip the baseline check/build/test pass")
	listFiles := fs.Bool("list-files", req.ListFilesOnly, "print the files that would be scanned and exit")
	listMutants := fs.Bool("list-mutants", req.ListMutants, "print the mutants that would be applied and exit")
	jsonPath := fs.String("json", req.JSONPath, "write a machine-readable JSON summary to this path")
	verbose := fs.Bool("verbose", req.Verbose, "print debug-level diagnostics")
	fs.BoolVar(verbose, "v", req.Verbose, "print debug-level diagnostics (shorthand)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return req, ErrHelpRequested
		}
		return req, err
	}
	if fs.NArg() > 0 {
		return req, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if *timeoutSeconds <= 0 {
		return req, fmt.Errorf("--timeout must be > 0")
	}

	req.RepoPath = strings.TrimSpace(*dir)
	req.Package = strings.TrimSpace(*pkg)
	req.ExamineGlobs = []string(examine)
	req.ExcludeGlobs = []string(exclude)
	req.ExamineRe = []string(examineRe)
	req.ExcludeRe = []string(excludeRe)
	req.Timeout = time.Duration(*timeoutSeconds) * time.Second
	req.NoBaseline = *noBaseline
	req.ListFilesOnly = *listFiles
	req.ListMutants = *listMutants
	req.JSONPath = strings.TrimSpace(*jsonPath)
	req.Verbose = *verbose

	return req, nil
}

func isHelpArg(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}
