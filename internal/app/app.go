// Package app wires the CLI's parsed Request into the discovery and
// execution pipeline, and renders the result back into a single string for
// cli.CommandLine to print.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cargomutate/cargomutate/internal/cargotool"
	"github.com/cargomutate/cargomutate/internal/diagnostics"
	"github.com/cargomutate/cargomutate/internal/driver"
	"github.com/cargomutate/cargomutate/internal/interrupt"
	"github.com/cargomutate/cargomutate/internal/journal"
	"github.com/cargomutate/cargomutate/internal/mutantsconfig"
	"github.com/cargomutate/cargomutate/internal/report"
	"github.com/cargomutate/cargomutate/internal/workspace"
)

// ErrMutantsSurvived is returned when the run completed cleanly but at
// least one mutant was not caught by the test suite. cli.CommandLine maps
// it to a distinct exit code so CI can tell "ran fine, found a gap" apart
// from "failed to run".
var ErrMutantsSurvived = errors.New("one or more mutants were not caught")

// App is the Executor the CLI drives.
type App struct {
	Out io.Writer
}

// New constructs an App. in is accepted to match the teacher's
// Execute(out, in) constructor shape; a mutation run never reads stdin.
func New(out io.Writer, in io.Reader) *App {
	return &App{Out: out}
}

func (a *App) Execute(ctx context.Context, req Request) (string, error) {
	repoPath, err := workspace.NormalizeRepoPath(req.RepoPath)
	if err != nil {
		return "", fmt.Errorf("normalizing repo path: %w", err)
	}

	tool, err := cargotool.Locate(repoPath)
	if err != nil {
		return "", fmt.Errorf("locating cargo project: %w", err)
	}

	fileCfg, err := mutantsconfig.Load(tool.Root)
	if err != nil {
		return "", err
	}
	cfg := mergeConfig(fileCfg, req)

	diagLogger := diagnostics.New(a.diagOut(), req.Verbose)

	logDir := filepath.Join(tool.Root, "mutants.out")
	var jrnl *journal.Journal
	jrnlErr := os.MkdirAll(logDir, 0o755)
	if jrnlErr == nil {
		jrnl, jrnlErr = journal.Create(filepath.Join(logDir, "journal.yaml"))
	}
	if jrnlErr != nil {
		diagLogger.Warn("could not open run journal: %v", jrnlErr)
		jrnl = nil
	}
	if jrnl != nil {
		defer jrnl.Close()
	}

	d := driver.New(tool, cfg, driver.DefaultTreeCopier, diagLogger, jrnl, new(interrupt.Flag), logDir)

	result, runErr := d.Run(driver.Request{
		Package:       req.Package,
		Timeout:       req.Timeout,
		NoBaseline:    req.NoBaseline,
		ListFilesOnly: req.ListFilesOnly,
		ListMutants:   req.ListMutants,
	})

	rendered, renderErr := a.render(result, req)
	if runErr != nil {
		if rendered != "" {
			return rendered, runErr
		}
		return "", runErr
	}
	if renderErr != nil {
		return "", renderErr
	}

	if mutantSurvived(result) {
		return rendered, ErrMutantsSurvived
	}
	return rendered, nil
}

func (a *App) diagOut() io.Writer {
	if a.Out != nil {
		return a.Out
	}
	return io.Discard
}

func (a *App) render(result driver.RunResult, req Request) (string, error) {
	if req.ListFilesOnly {
		var buf bytes.Buffer
		for _, f := range result.SeenFiles {
			fmt.Fprintln(&buf, f.String())
		}
		return buf.String(), nil
	}
	if req.ListMutants {
		var buf bytes.Buffer
		for _, m := range result.Mutants {
			fmt.Fprintln(&buf, m.String())
		}
		return buf.String(), nil
	}

	if req.JSONPath != "" {
		if err := writeJSONSummary(result, req.JSONPath); err != nil {
			return "", err
		}
	}

	var buf bytes.Buffer
	printer := &report.Printer{Out: &buf}
	if err := printer.Print(result); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeJSONSummary(result driver.RunResult, path string) error {
	var buf bytes.Buffer
	printer := &report.Printer{Out: &buf, JSON: true}
	if err := printer.Print(result); err != nil {
		return fmt.Errorf("rendering JSON summary: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for JSON summary: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing JSON summary to %s: %w", path, err)
	}
	return nil
}

func mergeConfig(fileCfg mutantsconfig.Config, req Request) mutantsconfig.Config {
	cfg := fileCfg
	cfg.ExamineGlobs = append(append([]string{}, cfg.ExamineGlobs...), req.ExamineGlobs...)
	cfg.ExcludeGlobs = append(append([]string{}, cfg.ExcludeGlobs...), req.ExcludeGlobs...)
	cfg.ExamineRe = append(append([]string{}, cfg.ExamineRe...), req.ExamineRe...)
	cfg.ExcludeRe = append(append([]string{}, cfg.ExcludeRe...), req.ExcludeRe...)
	return cfg
}

func mutantSurvived(result driver.RunResult) bool {
	for _, mr := range result.MutantResults {
		if mr.Label == "NOT CAUGHT" {
			return true
		}
	}
	return false
}
