// Package testutil implements various utilities to reduce boilerplate in unit
// tests a la testify.
package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/zombodb/zdbscan/pkg/nodes"
)

// nodeOptions compares method tables by identity, since they hold funcs, and
// treats nil and empty lists as equal.
var nodeOptions = []cmp.Option{
	cmp.Comparer(func(a, b *nodes.CustomPathMethods) bool { return a == b }),
	cmp.Comparer(func(a, b *nodes.CustomScanMethods) bool { return a == b }),
	cmp.Comparer(func(a, b *nodes.CustomExecMethods) bool { return a == b }),
	cmpopts.IgnoreUnexported(nodes.TupleTableSlot{}),
	cmpopts.EquateEmpty(),
}

// RequireEqualEmptyNil is a version of require.Equal, but considers nil
// slices/maps to be equal to empty slices/maps.
func RequireEqualEmptyNil(t *testing.T, expected, actual interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	opts := []cmp.Option{cmpopts.EquateEmpty()}
	msgAndArgs = append(msgAndArgs, cmp.Diff(expected, actual, opts...))
	require.Truef(t, cmp.Equal(expected, actual, opts...), "Should be equal", msgAndArgs...)
}

// RequireNodesEqual requires two node trees to be equal, printing a diff of
// the trees when they are not.
func RequireNodesEqual(t *testing.T, expected, actual nodes.Node, msgAndArgs ...interface{}) {
	t.Helper()
	diff := cmp.Diff(expected, actual, nodeOptions...)
	msgAndArgs = append(msgAndArgs, diff)
	require.Truef(t, diff == "", "Nodes should be equal", msgAndArgs...)
}
