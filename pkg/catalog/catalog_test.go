package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zombodb/zdbscan/pkg/nodes"
)

func newTestCatalog(t *testing.T) *MemCatalog {
	t.Helper()
	c, err := New()
	require.NoError(t, err)
	return c
}

func TestBootstrap(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(t)
	require.Equal(t, nodes.TextOID, c.TypenameGetTypid("text"))
	require.Equal(t, nodes.AnyElementOID, c.TypenameGetTypid("anyelement"))
	require.Equal(t, nodes.Oid(96), c.OperatorOid([]string{"="}, nodes.Int4OID, nodes.Int4OID))
	require.Equal(t, nodes.Oid(98), c.OperatorOid([]string{NamespaceCatalog, "="}, nodes.TextOID, nodes.TextOID))
	require.Equal(t, "int4", c.TypeName(nodes.Int4OID))
	require.Equal(t, "424242", c.TypeName(424242))
}

func TestLookupMiss(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(t)
	require.Equal(t, nodes.InvalidOid, c.TypenameGetTypid("zdbquery"))
	require.Equal(t, nodes.InvalidOid, c.OperatorOid([]string{"==>"}, nodes.AnyElementOID, nodes.TextOID))
	require.Equal(t, nodes.InvalidOid, c.OperatorOid([]string{"a", "b", "c"}, nodes.TextOID, nodes.TextOID))
	require.Equal(t, nodes.InvalidOid, c.OperatorOid([]string{"public", "="}, nodes.TextOID, nodes.TextOID))
}

func TestCreateTypeAndOperator(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(t)
	queryType, err := c.CreateType(NamespacePublic, "zdbquery")
	require.NoError(t, err)
	require.GreaterOrEqual(t, queryType, nodes.FirstNormalOid)
	require.Equal(t, queryType, c.TypenameGetTypid("zdbquery"))

	_, err = c.CreateType(NamespacePublic, "zdbquery")
	require.ErrorIs(t, err, ErrDuplicateObject)

	op, err := c.CreateOperator(NamespaceCatalog, "==>", nodes.AnyElementOID, queryType, nodes.BoolOID)
	require.NoError(t, err)
	require.NotEqual(t, queryType, op)

	require.Equal(t, op, c.OperatorOid([]string{NamespaceCatalog, "==>"}, nodes.AnyElementOID, queryType))
	require.Equal(t, op, c.OperatorOid([]string{"==>"}, nodes.AnyElementOID, queryType))

	// Exact operand types only.
	require.Equal(t, nodes.InvalidOid, c.OperatorOid([]string{"==>"}, nodes.TextOID, queryType))

	_, err = c.CreateOperator(NamespaceCatalog, "==>", nodes.AnyElementOID, queryType, nodes.BoolOID)
	require.ErrorIs(t, err, ErrDuplicateObject)

	_, err = c.CreateOperator(NamespaceCatalog, "==>", nodes.AnyElementOID, 99999, nodes.BoolOID)
	require.ErrorIs(t, err, ErrUndefinedObject)

	candidates := c.OperatorCandidates([]string{"="})
	require.Len(t, candidates, 4)
}

func TestRelations(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(t)
	oid, err := c.CreateRelation(Relation{
		Name:    "docs",
		Columns: []Column{{Name: "id", TypeOID: nodes.Int4OID}, {Name: "body", TypeOID: nodes.TextOID}},
		Tuples:  1000,
		Pages:   10,
	})
	require.NoError(t, err)

	rel, ok := c.RelationByName("", "docs")
	require.True(t, ok)
	require.Equal(t, oid, rel.OID)
	require.Equal(t, NamespacePublic, rel.Namespace)

	idx, ok := rel.ColumnIndex("body")
	require.True(t, ok)
	require.Equal(t, 1, idx)

	_, ok = rel.ColumnIndex("missing")
	require.False(t, ok)

	byOid, ok := c.RelationByOid(oid)
	require.True(t, ok)
	require.Equal(t, rel, byOid)

	// Returned rows are copies.
	rel.Columns[0].Name = "mutated"
	again, _ := c.RelationByName(NamespacePublic, "docs")
	require.Equal(t, "id", again.Columns[0].Name)

	_, err = c.CreateRelation(Relation{Name: "docs"})
	require.ErrorIs(t, err, ErrDuplicateObject)

	_, err = c.CreateRelation(Relation{Name: "broken", Columns: []Column{{Name: "x", TypeOID: 99999}}})
	require.ErrorIs(t, err, ErrUndefinedObject)

	_, ok = c.RelationByName("", "nope")
	require.False(t, ok)
}

func TestSearchPath(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(t)
	_, err := c.CreateType("zdb", "zdbquery")
	require.NoError(t, err)
	require.Equal(t, nodes.InvalidOid, c.TypenameGetTypid("zdbquery"))

	c.SetSearchPath(NamespaceCatalog, "zdb")
	require.NotEqual(t, nodes.InvalidOid, c.TypenameGetTypid("zdbquery"))
}
