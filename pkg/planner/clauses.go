package planner

import (
	"slices"

	"github.com/zombodb/zdbscan/pkg/nodes"
)

// ExtractActualClauses returns the bare clauses of restrictinfos, keeping
// only pseudoconstant ones if pseudoconstant is set and only the others if
// it is not.
func ExtractActualClauses(restrictinfos []*nodes.RestrictInfo, pseudoconstant bool) []nodes.Expr {
	var clauses []nodes.Expr
	for _, rinfo := range restrictinfos {
		if rinfo.Pseudoconstant == pseudoconstant {
			clauses = append(clauses, rinfo.Clause)
		}
	}
	return clauses
}

// pullVarnos returns the sorted set of range table indexes referenced by
// the Vars in expr.
func pullVarnos(expr nodes.Expr) nodes.Relids {
	var relids nodes.Relids
	walkExpr(expr, func(e nodes.Expr) {
		if v, ok := e.(*nodes.Var); ok && !relids.Contains(v.VarNo) {
			relids = append(relids, v.VarNo)
		}
	})
	slices.Sort(relids)
	return relids
}

func walkExpr(expr nodes.Expr, visit func(nodes.Expr)) {
	if expr == nil {
		return
	}
	visit(expr)
	switch e := expr.(type) {
	case *nodes.OpExpr:
		for _, arg := range e.Args {
			walkExpr(arg, visit)
		}
	case *nodes.BoolExpr:
		for _, arg := range e.Args {
			walkExpr(arg, visit)
		}
	}
}

func clauseSelectivity(expr nodes.Expr) float64 {
	switch e := expr.(type) {
	case *nodes.OpExpr:
		if e.OpName == "=" {
			return defaultEqSel
		}
		return defaultIneqSel
	case *nodes.BoolExpr:
		switch e.BoolOp {
		case nodes.AndExpr:
			sel := 1.0
			for _, arg := range e.Args {
				sel *= clauseSelectivity(arg)
			}
			return sel
		case nodes.NotExpr:
			if len(e.Args) == 1 {
				return 1 - clauseSelectivity(e.Args[0])
			}
		}
		return defaultBoolSel
	default:
		return defaultBoolSel
	}
}
