package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zombodb/zdbscan/pkg/catalog"
	"github.com/zombodb/zdbscan/pkg/nodes"
)

func testQuery(t *testing.T) (*catalog.MemCatalog, *nodes.Query) {
	t.Helper()

	cat, err := catalog.New()
	require.NoError(t, err)

	oid, err := cat.CreateRelation(catalog.Relation{
		Name:    "docs",
		Columns: []catalog.Column{{Name: "id", TypeOID: nodes.Int4OID}, {Name: "body", TypeOID: nodes.TextOID}},
		Tuples:  10000,
		Pages:   100,
	})
	require.NoError(t, err)

	idVar := &nodes.Var{VarNo: 1, VarAttNo: 1, VarType: nodes.Int4OID, Name: "id"}
	return cat, &nodes.Query{
		SourceText: "SELECT id FROM docs WHERE id = 5",
		RangeTable: []*nodes.RangeTblEntry{{RelID: oid, RelName: "docs"}},
		TargetList: []*nodes.TargetEntry{{Expr: idVar, ResNo: 1, ResName: "id"}},
		Quals: []nodes.Expr{&nodes.OpExpr{
			OpNo:         96,
			OpResultType: nodes.BoolOID,
			OpName:       "=",
			Args:         []nodes.Expr{idVar, &nodes.Const{ConstType: nodes.Int4OID, Value: int64(5)}},
		}},
	}
}

func testCustomMethods(captured *[]*nodes.RestrictInfo) *nodes.CustomPathMethods {
	return &nodes.CustomPathMethods{
		CustomName: "Test Path",
		PlanCustomPath: func(_ *nodes.PlannerInfo, rel *nodes.RelOptInfo, best *nodes.CustomPath, tlist []*nodes.TargetEntry, clauses []*nodes.RestrictInfo, _ []nodes.PlanNode) (nodes.PlanNode, error) {
			*captured = clauses
			return &nodes.CustomScan{
				Scan: nodes.Scan{
					Plan:      nodes.Plan{Type: nodes.TagCustomScan, TargetList: tlist},
					ScanRelID: rel.RelID,
				},
				Flags: best.Flags,
				Methods: &nodes.CustomScanMethods{
					CustomName:            "Test Scan",
					CreateCustomScanState: func(*nodes.CustomScan) nodes.CustomScanNode { return &nodes.CustomScanState{} },
				},
			}, nil
		},
	}
}

func TestPlanSeqScan(t *testing.T) {
	t.Parallel()

	cat, query := testQuery(t)
	stmt, err := New(cat, nil).Plan(query)
	require.NoError(t, err)

	scan, ok := stmt.PlanTree.(*nodes.SeqScan)
	require.True(t, ok)
	require.Equal(t, nodes.TagSeqScan, scan.Tag())
	require.Equal(t, nodes.Index(1), scan.ScanRelID)
	require.Len(t, scan.Qual, 1)
	require.Len(t, scan.TargetList, 1)
	require.InDelta(t, 100+10000*(cpuTupleCost+cpuOperatorCost), float64(scan.TotalCost), 0.0001)
	require.Equal(t, float64(50), scan.PlanRows)
	require.Equal(t, 4, scan.PlanWidth)
}

func TestPlanUnanalyzedRelation(t *testing.T) {
	t.Parallel()

	cat, err := catalog.New()
	require.NoError(t, err)
	oid, err := cat.CreateRelation(catalog.Relation{
		Name:    "posts",
		Columns: []catalog.Column{{Name: "id", TypeOID: nodes.Int4OID}},
	})
	require.NoError(t, err)

	idVar := &nodes.Var{VarNo: 1, VarAttNo: 1, VarType: nodes.Int4OID, Name: "id"}
	query := &nodes.Query{
		RangeTable: []*nodes.RangeTblEntry{{RelID: oid, RelName: "posts"}},
		TargetList: []*nodes.TargetEntry{{Expr: idVar, ResNo: 1, ResName: "id"}},
	}

	var seqCost nodes.Cost
	hooks := &Hooks{SetRelPathlist: func(_ *nodes.PlannerInfo, rel *nodes.RelOptInfo, _ nodes.Index, _ *nodes.RangeTblEntry) error {
		require.Equal(t, float64(10), rel.Pages)
		require.Equal(t, float64(2550), rel.Tuples)
		seqCost = rel.Pathlist[0].BasePath().TotalCost
		return nil
	}}

	stmt, err := New(cat, hooks).Plan(query)
	require.NoError(t, err)
	require.InDelta(t, 10+2550*cpuTupleCost, float64(seqCost), 0.0001)
	require.Greater(t, float64(stmt.PlanTree.BasePlan().TotalCost), 0.0)
}

func TestPlanCustomScan(t *testing.T) {
	t.Parallel()

	cat, query := testQuery(t)

	var clauses []*nodes.RestrictInfo
	methods := testCustomMethods(&clauses)
	var hookCalls int
	hooks := &Hooks{SetRelPathlist: func(root *nodes.PlannerInfo, rel *nodes.RelOptInfo, rti nodes.Index, rte *nodes.RangeTblEntry) error {
		hookCalls++
		require.Equal(t, nodes.Index(1), rti)
		require.Same(t, root.SimpleRelArray[rti], rel)
		require.Same(t, root.SimpleRteArray[rti], rte)
		require.Len(t, rel.Pathlist, 1)

		return AddPath(rel, &nodes.CustomPath{
			Path: nodes.Path{
				Type:       nodes.TagCustomPath,
				PathType:   nodes.TagCustomScan,
				Parent:     rel,
				PathTarget: rel.RelTarget,
			},
			Flags:   nodes.CustomPathSupportMarkRestore,
			Methods: methods,
		})
	}}

	stmt, err := New(cat, hooks).Plan(query)
	require.NoError(t, err)
	require.Equal(t, 1, hookCalls)

	cscan, ok := stmt.PlanTree.(*nodes.CustomScan)
	require.True(t, ok)
	require.Equal(t, nodes.CustomPathSupportMarkRestore, cscan.Flags)
	require.Equal(t, nodes.Index(1), cscan.ScanRelID)
	require.Equal(t, nodes.Cost(0), cscan.TotalCost)
	require.Equal(t, 4, cscan.PlanWidth)
	require.Len(t, clauses, 1)
	require.Equal(t, "Test Scan", cscan.Methods.CustomName)
}

func TestPlanHookError(t *testing.T) {
	t.Parallel()

	cat, query := testQuery(t)
	hookErr := errors.New("upstream failure")
	hooks := &Hooks{SetRelPathlist: func(*nodes.PlannerInfo, *nodes.RelOptInfo, nodes.Index, *nodes.RangeTblEntry) error {
		return hookErr
	}}

	_, err := New(cat, hooks).Plan(query)
	require.Same(t, hookErr, err)
}

func TestPlanUnsupported(t *testing.T) {
	t.Parallel()

	cat, query := testQuery(t)
	planner := New(cat, nil)

	_, err := planner.Plan(nil)
	require.ErrorIs(t, err, ErrUnsupportedQuery)

	query.RangeTable = append(query.RangeTable, query.RangeTable[0])
	_, err = planner.Plan(query)
	require.ErrorIs(t, err, ErrUnsupportedQuery)

	query.RangeTable = []*nodes.RangeTblEntry{{RelID: 424242, RelName: "missing"}}
	_, err = planner.Plan(query)
	require.ErrorIs(t, err, catalog.ErrUndefinedObject)
}

func TestAddPathRejectsProtocolViolations(t *testing.T) {
	t.Parallel()

	rel := &nodes.RelOptInfo{RelID: 1, Relids: nodes.Relids{1}}
	other := &nodes.RelOptInfo{RelID: 2, Relids: nodes.Relids{2}}
	var captured []*nodes.RestrictInfo
	methods := testCustomMethods(&captured)

	for _, tc := range []struct {
		name string
		rel  *nodes.RelOptInfo
		path nodes.PathNode
	}{
		{"nil relation", nil, &nodes.Path{Type: nodes.TagPath, Parent: rel}},
		{"nil path", rel, nil},
		{"missing tag", rel, &nodes.Path{Parent: rel}},
		{"nil parent", rel, &nodes.CustomPath{Path: nodes.Path{Type: nodes.TagCustomPath}, Methods: methods}},
		{"nil methods", rel, &nodes.CustomPath{Path: nodes.Path{Type: nodes.TagCustomPath, Parent: rel}}},
		{"empty methods", rel, &nodes.CustomPath{Path: nodes.Path{Type: nodes.TagCustomPath, Parent: rel}, Methods: &nodes.CustomPathMethods{}}},
		{"wrong parent", rel, &nodes.Path{Type: nodes.TagPath, Parent: other}},
		{"custom tag on plain path", rel, &nodes.Path{Type: nodes.TagCustomPath, Parent: rel}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Panics(t, func() {
				_ = AddPath(tc.rel, tc.path)
			})
		})
	}

	require.Empty(t, rel.Pathlist)
	require.NoError(t, AddPath(rel, &nodes.CustomPath{Path: nodes.Path{Type: nodes.TagCustomPath, Parent: rel}, Methods: methods}))
	require.Len(t, rel.Pathlist, 1)
}

func TestGetBaserelParamPathInfo(t *testing.T) {
	t.Parallel()

	joinClause := &nodes.RestrictInfo{ClauseRelids: nodes.Relids{1, 2}}
	localClause := &nodes.RestrictInfo{ClauseRelids: nodes.Relids{1}}
	rel := &nodes.RelOptInfo{
		RelID:            1,
		Rows:             42,
		BaseRestrictInfo: []*nodes.RestrictInfo{localClause, joinClause},
	}

	require.Nil(t, GetBaserelParamPathInfo(nil, rel, nil))
	require.Nil(t, GetBaserelParamPathInfo(nil, rel, nodes.Relids{}))

	info := GetBaserelParamPathInfo(nil, rel, nodes.Relids{2})
	require.NotNil(t, info)
	require.Equal(t, nodes.Relids{2}, info.ReqOuter)
	require.Equal(t, float64(42), info.Rows)
	require.Equal(t, []*nodes.RestrictInfo{joinClause}, info.Clauses)
}

func TestExtractActualClauses(t *testing.T) {
	t.Parallel()

	regular := &nodes.Var{VarNo: 1, VarAttNo: 1, VarType: nodes.BoolOID}
	constant := &nodes.Const{ConstType: nodes.BoolOID, Value: true}
	rinfos := []*nodes.RestrictInfo{
		{Clause: regular},
		{Clause: constant, Pseudoconstant: true},
	}

	require.Equal(t, []nodes.Expr{regular}, ExtractActualClauses(rinfos, false))
	require.Equal(t, []nodes.Expr{constant}, ExtractActualClauses(rinfos, true))
	require.Nil(t, ExtractActualClauses(nil, false))
}

func TestSetCheapest(t *testing.T) {
	t.Parallel()

	rel := &nodes.RelOptInfo{}
	require.Panics(t, func() { _ = SetCheapest(rel) })

	first := &nodes.Path{Type: nodes.TagPath, Parent: rel, StartupCost: 1, TotalCost: 10}
	tie := &nodes.Path{Type: nodes.TagPath, Parent: rel, StartupCost: 1, TotalCost: 10}
	cheaper := &nodes.Path{Type: nodes.TagPath, Parent: rel, StartupCost: 5, TotalCost: 5}
	rel.Pathlist = []nodes.PathNode{first, tie, cheaper}

	require.NoError(t, SetCheapest(rel))
	require.Same(t, first, rel.CheapestStartupPath)
	require.Same(t, cheaper, rel.CheapestTotalPath)
}
