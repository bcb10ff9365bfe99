// Package journal persists a running record of outcomes as a stream of
// YAML documents, one per completed phase invocation, so a run can be
// inspected or resumed after an interruption.
package journal

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Entry is one journaled event.
type Entry struct {
	Mutant   string `yaml:"mutant,omitempty"`
	Scenario string `yaml:"scenario"`
	Phase    string `yaml:"phase,omitempty"`
	Result   string `yaml:"result"`
	Label    string `yaml:"label"`
	Elapsed  string `yaml:"elapsed,omitempty"`
}

// Journal is an append-only, crash-tolerant record of Entries.
type Journal struct {
	file *os.File
	enc  *yaml.Encoder
}

// Create opens path for append, creating it (and an empty file) if
// necessary.
func Create(path string) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	return &Journal{file: f, enc: yaml.NewEncoder(f)}, nil
}

// Append writes one entry as its own YAML document and flushes it to disk
// immediately, so a crash mid-run loses at most the in-flight entry.
func (j *Journal) Append(e Entry) error {
	if err := j.enc.Encode(e); err != nil {
		return fmt.Errorf("writing journal entry: %w", err)
	}
	return j.file.Sync()
}

// Close flushes and closes the underlying file.
func (j *Journal) Close() error {
	if err := j.enc.Close(); err != nil {
		j.file.Close()
		return err
	}
	return j.file.Close()
}

// ReadAll reads every entry previously written to path, in order.
func ReadAll(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	var entries []Entry
	for {
		var e Entry
		err := dec.Decode(&e)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing journal %s: %w", path, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
