// Package driver wires discovery, build-directory staging, per-phase
// subprocess invocation, and outcome classification into complete runs.
package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cargomutate/cargomutate/internal/cargotool"
	"github.com/cargomutate/cargomutate/internal/diagnostics"
	"github.com/cargomutate/cargomutate/internal/interrupt"
	"github.com/cargomutate/cargomutate/internal/journal"
	"github.com/cargomutate/cargomutate/internal/mutantsconfig"
	"github.com/cargomutate/cargomutate/internal/mutate"
	"github.com/cargomutate/cargomutate/internal/outcome"
	"github.com/cargomutate/cargomutate/internal/procexec"
	"github.com/cargomutate/cargomutate/internal/treepath"
	"github.com/cargomutate/cargomutate/internal/walker"
)

// Request carries the per-run options the CLI gathers.
type Request struct {
	Package       string
	Timeout       time.Duration
	NoBaseline    bool
	ListFilesOnly bool
	ListMutants   bool
}

// MutantResult is one mutant's full phase history and final label.
type MutantResult struct {
	Mutant   mutate.Mutant
	Phases   []outcome.Record
	Label    string
	ShowLogs bool
}

// RunResult is everything one invocation of the driver produced.
type RunResult struct {
	SeenFiles     []treepath.Path
	Mutants       []mutate.Mutant
	Warnings      []string
	BaselinePhase []outcome.Record
	MutantResults []MutantResult
}

// phaseRunner executes one phase invocation. Swappable in tests so the
// driver can be exercised without a real cargo binary.
type phaseRunner func(argv []string, dir string, env []string, timeout time.Duration, logSink io.Writer, interrupted func() bool) (procexec.Result, error)

// Driver glues the discovery and execution subsystems together for one
// workspace.
type Driver struct {
	Tool        *cargotool.Tool
	Config      mutantsconfig.Config
	Copier      TreeCopier
	Diagnostics *diagnostics.Logger
	Journal     *journal.Journal
	Interrupt   *interrupt.Flag
	LogDir      string

	runPhase phaseRunner
}

// New constructs a Driver with the default (real-subprocess) phase
// runner.
func New(tool *cargotool.Tool, cfg mutantsconfig.Config, copier TreeCopier, diag *diagnostics.Logger, jrnl *journal.Journal, interruptFlag *interrupt.Flag, logDir string) *Driver {
	d := &Driver{
		Tool:        tool,
		Config:      cfg,
		Copier:      copier,
		Diagnostics: diag,
		Journal:     jrnl,
		Interrupt:   interruptFlag,
		LogDir:      logDir,
	}
	d.runPhase = d.runRealPhase
	return d
}

func (d *Driver) interrupted() bool {
	return d.Interrupt != nil && d.Interrupt.IsSet()
}

func (d *Driver) runRealPhase(argv []string, dir string, env []string, timeout time.Duration, logSink io.Writer, interrupted func() bool) (procexec.Result, error) {
	return procexec.Run(procexec.Options{
		Argv:        argv,
		Env:         env,
		Dir:         dir,
		Timeout:     timeout,
		LogSink:     logSink,
		Interrupted: interrupted,
	})
}

// Discover runs the tree walker from the build-tool adapter's root files.
func (d *Driver) Discover() (walker.Result, error) {
	seeds, err := d.Tool.RootFiles()
	if err != nil {
		return walker.Result{}, fmt.Errorf("enumerating root files: %w", err)
	}
	opts := walker.Options{
		ExamineGlobs: d.Config.ExamineGlobs,
		ExcludeGlobs: d.Config.ExcludeGlobs,
		ExamineRe:    d.Config.ExamineRe,
		ExcludeRe:    d.Config.ExcludeRe,
	}
	return walker.Walk(d.Tool.Root, seeds, opts, d.interrupted)
}

// Run performs discovery and, unless req restricts to a listing mode,
// executes the baseline and every surviving mutant.
func (d *Driver) Run(req Request) (RunResult, error) {
	walked, err := d.Discover()
	if err != nil {
		return RunResult{}, err
	}
	return d.runWithWalked(walked, req)
}

// runWithWalked runs the baseline and mutant evaluation phases against an
// already-computed walk result, separated out from Run so tests can
// supply a walker.Result without a real build-tool subprocess.
func (d *Driver) runWithWalked(walked walker.Result, req Request) (RunResult, error) {
	result := RunResult{
		SeenFiles: walked.SeenFiles,
		Mutants:   walked.Mutants,
		Warnings:  walked.Warnings,
	}
	for _, w := range walked.Warnings {
		if d.Diagnostics != nil {
			d.Diagnostics.Warn("%s", w)
		}
	}
	if req.ListFilesOnly || req.ListMutants {
		return result, nil
	}

	stagingRoot, err := os.MkdirTemp("", "cargomutate-*")
	if err != nil {
		return result, fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(stagingRoot)

	baselineDir := filepath.Join(stagingRoot, "baseline")
	if err := d.Copier.CopyTree(d.Tool.Root, baselineDir); err != nil {
		return result, fmt.Errorf("staging baseline: %w", err)
	}

	if !req.NoBaseline {
		records, ok, err := d.runPhases(outcome.Baseline, baselineDir, req)
		result.BaselinePhase = records
		d.journalPhases("", outcome.Baseline, records)
		if err != nil {
			return result, err
		}
		if !ok {
			return result, fmt.Errorf("baseline failed: %s", lastLabel(records))
		}
	}

	for _, m := range walked.Mutants {
		if d.interrupted() {
			return result, fmt.Errorf("interrupted")
		}
		mr, err := d.runMutant(m, baselineDir, stagingRoot, req)
		if err != nil {
			return result, err
		}
		result.MutantResults = append(result.MutantResults, mr)
	}
	return result, nil
}

func (d *Driver) runMutant(m mutate.Mutant, baselineDir, stagingRoot string, req Request) (MutantResult, error) {
	mutantDir := filepath.Join(stagingRoot, "mutant")
	if err := os.RemoveAll(mutantDir); err != nil {
		return MutantResult{}, err
	}
	if err := d.Copier.CopyTree(baselineDir, mutantDir); err != nil {
		return MutantResult{}, fmt.Errorf("staging mutant: %w", err)
	}
	if err := applyMutation(mutantDir, m); err != nil {
		return MutantResult{}, fmt.Errorf("applying mutation: %w", err)
	}

	records, _, err := d.runPhases(outcome.Mutant, mutantDir, req)
	if err != nil {
		return MutantResult{}, err
	}
	d.journalPhases(m.String(), outcome.Mutant, records)

	last := records[len(records)-1]
	return MutantResult{
		Mutant:   m,
		Phases:   records,
		Label:    outcome.Classify(last),
		ShowLogs: outcome.ShouldShowLogs(last),
	}, nil
}

// runPhases runs Check, then Build, then Test in the staged directory
// dir, stopping at the first non-Success result. It returns every phase
// actually run and whether the scenario fully succeeded.
func (d *Driver) runPhases(scenario outcome.Scenario, dir string, req Request) ([]outcome.Record, bool, error) {
	var records []outcome.Record
	for _, phase := range []outcome.Phase{outcome.Check, outcome.Build, outcome.Test} {
		record, err := d.runOnePhase(scenario, phase, dir, req)
		if err != nil {
			return records, false, err
		}
		records = append(records, record)
		if record.Result != outcome.Success {
			return records, false, nil
		}
	}
	return records, true, nil
}

func (d *Driver) runOnePhase(scenario outcome.Scenario, phase outcome.Phase, dir string, req Request) (outcome.Record, error) {
	argv := d.Tool.Argv(req.Package, phase, cargotool.Options{
		AdditionalCargoArgs:     d.Config.AdditionalCargoArgs,
		AdditionalCargoTestArgs: d.Config.AdditionalCargoTestArgs,
	})
	env := []string{
		"CARGO_ENCODED_RUSTFLAGS=" + cargotool.RustFlags(),
		"INSTA_UPDATE=no",
	}

	logPath, logSink, closeLog, err := d.openLog(scenario, phase)
	if err != nil {
		return outcome.Record{}, err
	}
	defer closeLog()

	procResult, err := d.runPhase(argv, dir, env, req.Timeout, logSink, d.interrupted)
	if err != nil {
		return outcome.Record{}, fmt.Errorf("running %s %s: %w", scenario, phase, err)
	}
	return outcome.Record{
		Scenario: scenario,
		Phase:    phase,
		Result:   procResult.CargoResult,
		LogPath:  logPath,
		Elapsed:  procResult.Elapsed,
	}, nil
}

func (d *Driver) openLog(scenario outcome.Scenario, phase outcome.Phase) (string, io.Writer, func(), error) {
	if d.LogDir == "" {
		return "", io.Discard, func() {}, nil
	}
	if err := os.MkdirAll(d.LogDir, 0o755); err != nil {
		return "", nil, nil, fmt.Errorf("creating log dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s-%d.log", scenario, phase, time.Now().UnixNano())
	path := filepath.Join(d.LogDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", nil, nil, fmt.Errorf("creating log file: %w", err)
	}
	return path, f, func() { f.Close() }, nil
}

func (d *Driver) journalPhases(mutantDisplay string, scenario outcome.Scenario, records []outcome.Record) {
	if d.Journal == nil {
		return
	}
	for _, r := range records {
		_ = d.Journal.Append(journal.Entry{
			Mutant:   mutantDisplay,
			Scenario: scenario.String(),
			Phase:    r.Phase.String(),
			Result:   r.Result.String(),
			Label:    outcome.Classify(r),
			Elapsed:  r.Elapsed.String(),
		})
	}
}

func lastLabel(records []outcome.Record) string {
	if len(records) == 0 {
		return "no phases ran"
	}
	return outcome.Classify(records[len(records)-1])
}

// applyMutation splices a mutant's replacement text into its function
// body at the recorded span, inside the staged tree rooted at dir.
func applyMutation(dir string, m mutate.Mutant) error {
	full, err := m.SourceFile.TreeRelativePath.Within(dir)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return err
	}
	if int(m.Location.EndByte) > len(data) || m.Location.StartByte > m.Location.EndByte {
		return fmt.Errorf("mutation span out of range for %s", full)
	}
	replacement := "{ " + m.ReplacementText() + " }"
	patched := make([]byte, 0, len(data)-int(m.Location.EndByte-m.Location.StartByte)+len(replacement))
	patched = append(patched, data[:m.Location.StartByte]...)
	patched = append(patched, []byte(replacement)...)
	patched = append(patched, data[m.Location.EndByte:]...)
	return os.WriteFile(full, patched, 0o644)
}
