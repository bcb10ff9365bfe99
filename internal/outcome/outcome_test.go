package outcome

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyBaselineAndSourceTree(t *testing.T) {
	require.Equal(t, "ok", Classify(Record{Scenario: SourceTree, Phase: Test, Result: Success}))
	require.Equal(t, "ok", Classify(Record{Scenario: Baseline, Phase: Build, Result: Success}))
	require.Equal(t, "FAILED", Classify(Record{Scenario: Baseline, Phase: Test, Result: Failure}))
	require.Equal(t, "TIMEOUT", Classify(Record{Scenario: SourceTree, Phase: Check, Result: Timeout}))
}

func TestClassifyMutant(t *testing.T) {
	require.Equal(t, "caught", Classify(Record{Scenario: Mutant, Phase: Test, Result: Failure}))
	require.Equal(t, "NOT CAUGHT", Classify(Record{Scenario: Mutant, Phase: Test, Result: Success}))
	require.Equal(t, "build ok", Classify(Record{Scenario: Mutant, Phase: Build, Result: Success}))
	require.Equal(t, "check ok", Classify(Record{Scenario: Mutant, Phase: Check, Result: Success}))
	require.Equal(t, "build failed", Classify(Record{Scenario: Mutant, Phase: Build, Result: Failure}))
	require.Equal(t, "check failed", Classify(Record{Scenario: Mutant, Phase: Check, Result: Failure}))
	require.Equal(t, "TIMEOUT", Classify(Record{Scenario: Mutant, Phase: Test, Result: Timeout}))
}

func TestShouldShowLogs(t *testing.T) {
	require.False(t, ShouldShowLogs(Record{Scenario: Mutant, Phase: Test, Result: Failure}))
	require.False(t, ShouldShowLogs(Record{Scenario: Baseline, Phase: Test, Result: Success}))
	require.True(t, ShouldShowLogs(Record{Scenario: Mutant, Phase: Test, Result: Success}))
	require.True(t, ShouldShowLogs(Record{Scenario: Mutant, Phase: Build, Result: Failure}))
	require.True(t, ShouldShowLogs(Record{Scenario: Mutant, Phase: Test, Result: Timeout}))
}
