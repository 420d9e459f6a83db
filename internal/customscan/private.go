package customscan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zombodb/zdbscan/pkg/nodes"
)

const scanPrivateName = "ZDBScanPrivate"

// scanPrivate is the provider data carried from the path, through the plan,
// to every scan state built from it.
type scanPrivate struct {
	nodes.ExtensibleNode

	OperatorName   string
	OperatorOid    nodes.Oid
	QueryTypeOid   nodes.Oid
	Clauses        []*nodes.RestrictInfo
	Queries        []string
	ResidualFilter ResidualFilter
}

var _ nodes.ExtensibleOuter = (*scanPrivate)(nil)

func newScanPrivate(operatorName string, operator, queryType nodes.Oid, clauses []*nodes.RestrictInfo, residual ResidualFilter) *scanPrivate {
	private := &scanPrivate{
		ExtensibleNode: nodes.ExtensibleNode{ExtNodeName: scanPrivateName},
		OperatorName:   operatorName,
		OperatorOid:    operator,
		QueryTypeOid:   queryType,
		Clauses:        clauses,
		ResidualFilter: residual,
	}
	for _, rinfo := range clauses {
		private.Queries = append(private.Queries, queryString(rinfo.Clause))
	}
	return private
}

// queryString returns the query operand of a recognized clause.
func queryString(clause nodes.Expr) string {
	op, ok := clause.(*nodes.OpExpr)
	if !ok || len(op.Args) != 2 {
		return nodes.NodeToString(clause)
	}
	switch arg := op.Args[1].(type) {
	case *nodes.Const:
		if s, ok := arg.Value.(string); ok && !arg.IsNull {
			return s
		}
	case *nodes.Param:
		return fmt.Sprintf("$%d", arg.ParamID)
	}
	return nodes.NodeToString(op.Args[1])
}

func (p *scanPrivate) OutFields(sb *strings.Builder) {
	fmt.Fprintf(sb, " :operator %d :querytype %d :residual %s :queries (", p.OperatorOid, p.QueryTypeOid, p.ResidualFilter)
	for i, q := range p.Queries {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(strconv.Quote(q))
	}
	sb.WriteString(")")
}

// consumed reports whether clause was pushed down.
func (p *scanPrivate) consumed(clause nodes.Expr) bool {
	for _, rinfo := range p.Clauses {
		if rinfo.Clause == clause {
			return true
		}
	}
	return false
}

// privateFrom returns the scanPrivate stored in a CustomPrivate list.
func privateFrom(list []nodes.Node) *scanPrivate {
	for _, n := range list {
		if p, ok := n.(*scanPrivate); ok {
			return p
		}
	}
	return nil
}
