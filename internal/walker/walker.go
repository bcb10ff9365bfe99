// Package walker performs the breadth-first traversal of a workspace's
// source files, invoking the AST visitor on each and applying the
// examine/exclude filters to the mutants it finds.
package walker

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/gobwas/glob"

	"github.com/cargomutate/cargomutate/internal/astvisit"
	"github.com/cargomutate/cargomutate/internal/mutate"
	"github.com/cargomutate/cargomutate/internal/source"
	"github.com/cargomutate/cargomutate/internal/treepath"
)

// ErrInterrupted is returned when the interrupt callback fires mid-walk.
var ErrInterrupted = errors.New("walk interrupted")

// Options configures which discovered mutants survive the walk.
type Options struct {
	ExamineGlobs []string
	ExcludeGlobs []string
	ExamineRe    []string
	ExcludeRe    []string
}

// Result is everything the walk produced.
type Result struct {
	Mutants   []mutate.Mutant
	SeenFiles []treepath.Path
	Warnings  []string
}

// Walk runs a breadth-first traversal starting from seeds, following `mod`
// statements the AST visitor discovers, and returns the surviving mutants.
// interrupted, if non-nil, is polled before visiting each file.
func Walk(root string, seeds []*source.File, opts Options, interrupted func() bool) (Result, error) {
	examineGlobs, err := compileGlobs(opts.ExamineGlobs)
	if err != nil {
		return Result{}, fmt.Errorf("examine globs: %w", err)
	}
	excludeGlobs, err := compileGlobs(opts.ExcludeGlobs)
	if err != nil {
		return Result{}, fmt.Errorf("exclude globs: %w", err)
	}
	examineRe, err := compileRegexes(opts.ExamineRe)
	if err != nil {
		return Result{}, fmt.Errorf("examine-re: %w", err)
	}
	excludeRe, err := compileRegexes(opts.ExcludeRe)
	if err != nil {
		return Result{}, fmt.Errorf("exclude-re: %w", err)
	}

	queue := append([]*source.File(nil), seeds...)
	visited := map[string]bool{}
	var result Result

	for len(queue) > 0 {
		if interrupted != nil && interrupted() {
			return Result{}, ErrInterrupted
		}
		file := queue[0]
		queue = queue[1:]

		key := file.TreeRelativeSlashes()
		if visited[key] {
			continue
		}
		visited[key] = true

		discovered, err := astvisit.Discover(file, root)
		if err != nil {
			return Result{}, err
		}
		result.Warnings = append(result.Warnings, discovered.Warnings...)

		for _, modPath := range discovered.MoreFiles {
			if visited[modPath.String()] {
				continue
			}
			child, err := source.New(root, modPath, file.PackageName)
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("reading %s: %v", modPath, err))
				continue
			}
			queue = append(queue, child)
		}

		if examineGlobs.configured() && !examineGlobs.matches(key) {
			continue
		}
		if excludeGlobs.configured() && excludeGlobs.matches(key) {
			continue
		}

		fileMutants := discovered.Mutants
		if len(examineRe) > 0 {
			fileMutants = retainMatching(fileMutants, examineRe)
		}
		if len(excludeRe) > 0 {
			fileMutants = dropMatching(fileMutants, excludeRe)
		}

		result.Mutants = append(result.Mutants, fileMutants...)
		result.SeenFiles = append(result.SeenFiles, file.TreeRelativePath)
	}
	return result, nil
}

type globset struct {
	patterns []glob.Glob
}

func compileGlobs(patterns []string) (*globset, error) {
	gs := &globset{}
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		gs.patterns = append(gs.patterns, g)
	}
	return gs, nil
}

func (g *globset) configured() bool {
	return g != nil && len(g.patterns) > 0
}

func (g *globset) matches(path string) bool {
	for _, p := range g.patterns {
		if p.Match(path) {
			return true
		}
	}
	return false
}

func compileRegexes(patterns []string) ([]*regexp.Regexp, error) {
	var out []*regexp.Regexp
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func retainMatching(mutants []mutate.Mutant, patterns []*regexp.Regexp) []mutate.Mutant {
	var kept []mutate.Mutant
	for _, m := range mutants {
		if matchesAny(m, patterns) {
			kept = append(kept, m)
		}
	}
	return kept
}

func dropMatching(mutants []mutate.Mutant, patterns []*regexp.Regexp) []mutate.Mutant {
	var kept []mutate.Mutant
	for _, m := range mutants {
		if !matchesAny(m, patterns) {
			kept = append(kept, m)
		}
	}
	return kept
}

func matchesAny(m mutate.Mutant, patterns []*regexp.Regexp) bool {
	display := m.String()
	for _, re := range patterns {
		if re.MatchString(display) {
			return true
		}
	}
	return false
}
