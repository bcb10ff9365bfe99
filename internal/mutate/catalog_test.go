package mutate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpsForReturnTypeNoReturn(t *testing.T) {
	require.Equal(t, []MutationOp{Unit}, OpsForReturnType(ReturnShape{Present: false}))
}

func TestOpsForReturnTypeBool(t *testing.T) {
	require.Equal(t, []MutationOp{True, False}, OpsForReturnType(ReturnShape{Present: true, Segments: []string{"bool"}}))
}

func TestOpsForReturnTypeString(t *testing.T) {
	require.Equal(t, []MutationOp{EmptyString, Xyzzy}, OpsForReturnType(ReturnShape{Present: true, Segments: []string{"String"}}))
}

func TestOpsForReturnTypeResultByFinalSegment(t *testing.T) {
	require.Equal(t, []MutationOp{OkDefault}, OpsForReturnType(ReturnShape{Present: true, Segments: []string{"Result"}}))
	require.Equal(t, []MutationOp{OkDefault}, OpsForReturnType(ReturnShape{Present: true, Segments: []string{"std", "io", "Result"}}))
}

func TestOpsForReturnTypeDefaultFallback(t *testing.T) {
	require.Equal(t, []MutationOp{Default}, OpsForReturnType(ReturnShape{Present: true, Segments: []string{"u32"}}))
	require.Equal(t, []MutationOp{Default}, OpsForReturnType(ReturnShape{Present: true}))
}

func TestOpsForReturnTypeQualifiedBoolIsNotBool(t *testing.T) {
	// "identifier path exactly bool" requires a single unqualified segment.
	require.Equal(t, []MutationOp{Default}, OpsForReturnType(ReturnShape{Present: true, Segments: []string{"std", "bool"}}))
}

func TestRemoveExcessSpacesMatchesSpecExamples(t *testing.T) {
	got := RemoveExcessSpaces("<impl Iterator for MergeTrees < AE , BE , AIT , BIT > > :: next -> Option < Self ::  Item >")
	require.Equal(t, "<impl Iterator for MergeTrees<AE, BE, AIT, BIT>>::next -> Option<Self::Item>", got)

	require.Equal(t, "Lex<'buf>::take", RemoveExcessSpaces("Lex < 'buf >::take"))
}

func TestRemoveExcessSpacesIsIdempotent(t *testing.T) {
	inputs := []string{
		"<impl Iterator for MergeTrees < AE , BE , AIT , BIT > > :: next -> Option < Self ::  Item >",
		"Lex < 'buf >::take",
		"plain_name",
		"",
	}
	for _, in := range inputs {
		once := RemoveExcessSpaces(in)
		twice := RemoveExcessSpaces(once)
		require.Equal(t, once, twice, "not idempotent for %q", in)
	}
}
