// Package report renders a completed run as a human-readable table or a
// machine-readable, schema-validated JSON summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/hako/durafmt"
	"github.com/xeipuuv/gojsonschema"

	"github.com/cargomutate/cargomutate/internal/diagnostics"
	"github.com/cargomutate/cargomutate/internal/driver"
	"github.com/cargomutate/cargomutate/internal/outcome"
)

// summarySchema is the machine-readable report's JSON Schema. Any
// document Printer.printJSON would emit is validated against it before
// being written, so a shape drift is caught at development time rather
// than silently handed to a downstream consumer.
const summarySchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["seen_files", "mutants"],
	"properties": {
		"seen_files": {"type": "array", "items": {"type": "string"}},
		"mutants": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "label"],
				"properties": {
					"name": {"type": "string"},
					"label": {"type": "string"},
					"elapsed_seconds": {"type": "number"}
				}
			}
		}
	}
}`

// Printer renders a driver.RunResult to Out.
type Printer struct {
	Out  io.Writer
	JSON bool
}

// Print renders result in the configured format.
func (p *Printer) Print(result driver.RunResult) error {
	if p.JSON {
		return p.printJSON(result)
	}
	return p.printText(result)
}

func (p *Printer) printText(result driver.RunResult) error {
	if len(result.BaselinePhase) > 0 {
		last := result.BaselinePhase[len(result.BaselinePhase)-1]
		fmt.Fprintf(p.Out, "baseline: %s (%s)\n\n", diagnostics.Label(outcome.Classify(last)), humanElapsed(sumElapsed(result.BaselinePhase)))
	}

	tw := tabwriter.NewWriter(p.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MUTANT\tOUTCOME\tELAPSED")
	for _, mr := range result.MutantResults {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", mr.Mutant.String(), diagnostics.Label(mr.Label), humanElapsed(sumElapsed(mr.Phases)))
	}
	return tw.Flush()
}

type jsonMutant struct {
	Name           string  `json:"name"`
	Label          string  `json:"label"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

type jsonSummary struct {
	SeenFiles []string     `json:"seen_files"`
	Mutants   []jsonMutant `json:"mutants"`
}

func (p *Printer) printJSON(result driver.RunResult) error {
	summary := jsonSummary{SeenFiles: []string{}, Mutants: []jsonMutant{}}
	for _, f := range result.SeenFiles {
		summary.SeenFiles = append(summary.SeenFiles, f.String())
	}
	for _, mr := range result.MutantResults {
		summary.Mutants = append(summary.Mutants, jsonMutant{
			Name:           mr.Mutant.String(),
			Label:          mr.Label,
			ElapsedSeconds: sumElapsed(mr.Phases).Seconds(),
		})
	}

	encoded, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	if err := validateAgainstSchema(encoded); err != nil {
		return fmt.Errorf("summary did not match its own schema: %w", err)
	}
	_, err = p.Out.Write(append(encoded, '\n'))
	return err
}

func validateAgainstSchema(document []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(summarySchema)
	docLoader := gojsonschema.NewBytesLoader(document)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if !result.Valid() {
		return fmt.Errorf("%v", result.Errors())
	}
	return nil
}

func sumElapsed(records []outcome.Record) time.Duration {
	var total time.Duration
	for _, r := range records {
		total += r.Elapsed
	}
	return total
}

func humanElapsed(d time.Duration) string {
	return durafmt.Parse(d).LimitFirstN(2).String()
}
