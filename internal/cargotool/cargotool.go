// Package cargotool adapts this tool to the Cargo build-tool contract:
// locating the manifest, enumerating workspace packages and
// mutation-eligible targets, and computing the argv and compiler flags
// for each phase invocation.
package cargotool

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/cargomutate/cargomutate/internal/outcome"
	"github.com/cargomutate/cargomutate/internal/source"
	"github.com/cargomutate/cargomutate/internal/treepath"
)

// Options carries the user- and config-supplied extras that shape argv.
type Options struct {
	AdditionalCargoArgs     []string
	AdditionalCargoTestArgs []string
}

// Target is one build target of a package: a library, a binary, a test
// harness, and so on.
type Target struct {
	Name    string
	Kinds   []string
	SrcPath treepath.Path
}

// Eligible reports whether this target is a mutation candidate: at least
// one kind string ends with "lib" or equals "bin".
func (t Target) Eligible() bool {
	for _, k := range t.Kinds {
		if strings.HasSuffix(k, "lib") || k == "bin" {
			return true
		}
	}
	return false
}

// Package is a workspace member: its targets, keyed by manifest path.
type Package struct {
	Name         string
	ManifestPath string
	Targets      []Target
}

// commandRunner executes a build-tool subcommand and returns its stdout.
// Exists as a seam so Tool can be exercised without a real cargo binary.
type commandRunner func(dir, binary string, args ...string) ([]byte, error)

func runCommand(dir, binary string, args ...string) ([]byte, error) {
	cmd := exec.Command(binary, args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("%s %s: %w: %s", binary, strings.Join(args, " "), err, exitErr.Stderr)
		}
		return nil, fmt.Errorf("%s %s: %w", binary, strings.Join(args, " "), err)
	}
	return out, nil
}

// Tool is a located Cargo workspace: its root directory, its manifest,
// and the binary used to drive it.
type Tool struct {
	Root         string
	ManifestPath string
	Binary       string
	run          commandRunner
}

func binaryName() string {
	if v := os.Getenv("CARGO"); v != "" {
		return v
	}
	return "cargo"
}

// Locate runs `cargo locate-project` in dir and resolves the enclosing
// workspace root from its result.
func Locate(dir string) (*Tool, error) {
	return locate(dir, binaryName(), runCommand)
}

func locate(dir, binary string, run commandRunner) (*Tool, error) {
	out, err := run(dir, binary, "locate-project")
	if err != nil {
		return nil, fmt.Errorf("locate-project: %w", err)
	}
	var parsed struct {
		Root string `json:"root"`
	}
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("parsing locate-project output: %w", err)
	}
	if parsed.Root == "" {
		return nil, fmt.Errorf("locate-project returned no manifest root")
	}
	return &Tool{
		Root:         filepath.Dir(parsed.Root),
		ManifestPath: parsed.Root,
		Binary:       binary,
		run:          run,
	}, nil
}

type metadataPackage struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	ManifestPath string           `json:"manifest_path"`
	Targets      []metadataTarget `json:"targets"`
}

type metadataTarget struct {
	Name    string   `json:"name"`
	Kind    []string `json:"kind"`
	SrcPath string   `json:"src_path"`
}

type metadataOutput struct {
	Packages         []metadataPackage `json:"packages"`
	WorkspaceMembers []string          `json:"workspace_members"`
}

// Packages runs `cargo metadata` and returns the workspace's own
// packages (dependencies are excluded via the workspace_members set).
func (t *Tool) Packages() ([]Package, error) {
	out, err := t.run(t.Root, t.Binary, "metadata", "--manifest-path", t.ManifestPath, "--format-version=1")
	if err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	var parsed metadataOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("parsing metadata output: %w", err)
	}
	members := make(map[string]bool, len(parsed.WorkspaceMembers))
	for _, id := range parsed.WorkspaceMembers {
		members[id] = true
	}

	var packages []Package
	for _, pkg := range parsed.Packages {
		if !members[pkg.ID] {
			continue
		}
		p := Package{Name: pkg.Name, ManifestPath: pkg.ManifestPath}
		for _, tgt := range pkg.Targets {
			rel, err := filepath.Rel(t.Root, tgt.SrcPath)
			if err != nil {
				return nil, fmt.Errorf("target %s: %w", tgt.Name, err)
			}
			tp, err := treepath.New(filepath.ToSlash(rel))
			if err != nil {
				return nil, fmt.Errorf("target %s: %w", tgt.Name, err)
			}
			p.Targets = append(p.Targets, Target{Name: tgt.Name, Kinds: tgt.Kind, SrcPath: tp})
		}
		packages = append(packages, p)
	}
	return packages, nil
}

// RootFiles enumerates every candidate source file the walker should
// start from: every .rs file beneath the parent directory of each
// mutation-eligible target's src_path, sorted by tree-relative path for
// determinism.
func (t *Tool) RootFiles() ([]*source.File, error) {
	packages, err := t.Packages()
	if err != nil {
		return nil, err
	}

	type scanDir struct {
		dir treepath.Path
		pkg string
	}
	var scanDirs []scanDir
	seenDir := map[string]bool{}
	for _, pkg := range packages {
		for _, tgt := range pkg.Targets {
			if !tgt.Eligible() {
				continue
			}
			dir := tgt.SrcPath.Parent()
			key := pkg.Name + "\x00" + dir.String()
			if seenDir[key] {
				continue
			}
			seenDir[key] = true
			scanDirs = append(scanDirs, scanDir{dir: dir, pkg: pkg.Name})
		}
	}

	type candidate struct {
		path treepath.Path
		pkg  string
	}
	var candidates []candidate
	seenPath := map[string]bool{}
	for _, sd := range scanDirs {
		absDir, err := sd.dir.Within(t.Root)
		if err != nil {
			return nil, err
		}
		walkErr := filepath.WalkDir(absDir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(p) != ".rs" {
				return nil
			}
			rel, err := filepath.Rel(t.Root, p)
			if err != nil {
				return err
			}
			relSlash := filepath.ToSlash(rel)
			if seenPath[relSlash] {
				return nil
			}
			seenPath[relSlash] = true
			tp, err := treepath.New(relSlash)
			if err != nil {
				return err
			}
			candidates = append(candidates, candidate{path: tp, pkg: sd.pkg})
			return nil
		})
		if walkErr != nil {
			return nil, walkErr
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].path.String() < candidates[j].path.String()
	})

	seeds := make([]*source.File, 0, len(candidates))
	for _, c := range candidates {
		f, err := source.New(t.Root, c.path, c.pkg)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, f)
	}
	return seeds, nil
}

// Argv builds the argument vector for one phase invocation. pkg is empty
// for workspace-wide invocations.
func (t *Tool) Argv(pkg string, phase outcome.Phase, opts Options) []string {
	argv := []string{t.Binary, phase.String()}
	if phase == outcome.Check || phase == outcome.Build {
		argv = append(argv, "--tests")
	}
	if pkg != "" {
		argv = append(argv, "--package", pkg)
	} else {
		argv = append(argv, "--workspace")
	}
	argv = append(argv, opts.AdditionalCargoArgs...)
	if phase == outcome.Test {
		argv = append(argv, opts.AdditionalCargoTestArgs...)
	}
	return argv
}

// encodedFlagSeparator is the unit separator Cargo uses to encode
// CARGO_ENCODED_RUSTFLAGS.
const encodedFlagSeparator = "\x1f"

// RustFlags computes the encoded compiler-flags string for the
// subprocess environment: CARGO_ENCODED_RUSTFLAGS if set, else RUSTFLAGS
// split on spaces, else empty — with "--cap-lints=allow" unconditionally
// appended last, so mutants are never rejected for unrelated lints.
func RustFlags() string {
	var flags []string
	if v, ok := os.LookupEnv("CARGO_ENCODED_RUSTFLAGS"); ok && v != "" {
		flags = splitNonEmpty(v, encodedFlagSeparator)
	} else if v, ok := os.LookupEnv("RUSTFLAGS"); ok && v != "" {
		flags = splitNonEmpty(v, " ")
	}
	flags = append(flags, "--cap-lints=allow")
	return strings.Join(flags, encodedFlagSeparator)
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// CargoHomeDir resolves the cargo home directory: CARGO_HOME if set,
// else the platform home directory's .cargo subdirectory.
func CargoHomeDir() (string, error) {
	if v := os.Getenv("CARGO_HOME"); v != "" {
		return v, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".cargo"), nil
}

// EnclosingConfigFiles walks upward from workspaceRoot looking for
// .cargo/config.toml or .cargo/config at each directory, then checks the
// cargo home directory for the same pair. It is best-effort and,
// per an open design question, its result is computed but not yet
// merged into RustFlags.
func EnclosingConfigFiles(workspaceRoot string) []string {
	var found []string
	dir := workspaceRoot
	for {
		if p, ok := firstExisting(dir, ".cargo/config.toml", ".cargo/config"); ok {
			found = append(found, p)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	if home, err := CargoHomeDir(); err == nil {
		if p, ok := firstExisting(home, "config.toml", "config"); ok {
			found = append(found, p)
		}
	}
	return dedupPreserveOrder(found)
}

func firstExisting(base string, relatives ...string) (string, bool) {
	for _, rel := range relatives {
		candidate := filepath.Join(base, filepath.FromSlash(rel))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

func dedupPreserveOrder(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
