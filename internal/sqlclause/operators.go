package sqlclause

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zombodb/zdbscan/pkg/catalog"
	"github.com/zombodb/zdbscan/pkg/nodes"
)

// makeOpExpr resolves a binary operator for the operand types and coerces
// the operands to the operator's declared types.
//
// A candidate matches when each operand either has the declared type, is
// declared anyelement, or is a literal or parameter that can be coerced to
// the declared type. Candidates with more exact matches win.
func (t *translator) makeOpExpr(qualifiedName []string, left, right nodes.Expr) (nodes.Expr, error) {
	var (
		best      *catalog.Operator
		bestScore = -1
		ambiguous bool
	)
	for _, candidate := range t.cat.OperatorCandidates(qualifiedName) {
		leftScore, ok := matchOperand(left, candidate.Left)
		if !ok {
			continue
		}
		rightScore, ok := matchOperand(right, candidate.Right)
		if !ok {
			continue
		}

		score := leftScore + rightScore
		switch {
		case score > bestScore:
			op := candidate
			best, bestScore, ambiguous = &op, score, false
		case score == bestScore:
			ambiguous = true
		}
	}

	opName := strings.Join(qualifiedName, ".")
	if best == nil {
		return nil, newUndefinedError("operator does not exist: %s %s %s",
			t.cat.TypeName(left.ResultType()), opName, t.cat.TypeName(right.ResultType()))
	}
	if ambiguous {
		return nil, fmt.Errorf("operator is not unique: %s %s %s",
			t.cat.TypeName(left.ResultType()), opName, t.cat.TypeName(right.ResultType()))
	}

	if best.Left != nodes.AnyElementOID {
		left, _ = coerceTo(left, best.Left)
	}
	if best.Right != nodes.AnyElementOID {
		right, _ = coerceTo(right, best.Right)
	}

	return &nodes.OpExpr{
		OpNo:         best.OID,
		OpResultType: best.Result,
		Args:         []nodes.Expr{left, right},
		OpName:       best.Name,
	}, nil
}

// matchOperand scores how well expr fits an operand declared as declared:
// 2 for an exact match, 1 for a coercion or anyelement, and no match
// otherwise.
func matchOperand(expr nodes.Expr, declared nodes.Oid) (int, bool) {
	actual := expr.ResultType()
	switch {
	case actual == declared:
		return 2, true
	case declared == nodes.AnyElementOID && actual != nodes.UnknownOID:
		return 1, true
	case canCoerce(expr, declared):
		return 1, true
	default:
		return 0, false
	}
}

func canCoerce(expr nodes.Expr, target nodes.Oid) bool {
	_, ok := coerceTo(expr, target)
	return ok
}

// coerceTo returns expr converted to target. Only literals and parameters
// convert; anything else must already have the target type. On failure expr
// is returned unchanged.
func coerceTo(expr nodes.Expr, target nodes.Oid) (nodes.Expr, bool) {
	if expr.ResultType() == target {
		return expr, true
	}

	switch e := expr.(type) {
	case *nodes.Param:
		if e.ParamType != nodes.UnknownOID {
			return expr, false
		}
		return &nodes.Param{ParamID: e.ParamID, ParamType: target}, true
	case *nodes.Const:
		if e.IsNull {
			return &nodes.Const{ConstType: target, IsNull: true}, true
		}
		value, ok := convertDatum(e.Value, e.ConstType, target)
		if !ok {
			return expr, false
		}
		return &nodes.Const{ConstType: target, Value: value}, true
	default:
		return expr, false
	}
}

func convertDatum(value any, from, to nodes.Oid) (any, bool) {
	switch from {
	case nodes.UnknownOID, nodes.TextOID:
		s, ok := value.(string)
		if !ok {
			return nil, false
		}
		switch to {
		case nodes.Int4OID, nodes.Int8OID:
			n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			return n, err == nil
		case nodes.Float8OID:
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			return f, err == nil
		case nodes.BoolOID:
			b, err := strconv.ParseBool(strings.TrimSpace(s))
			return b, err == nil
		case nodes.AnyElementOID:
			return nil, false
		default:
			// Text and unknown literals feed any type accepting string input,
			// including extension types.
			return s, from == nodes.UnknownOID || to == nodes.TextOID
		}
	case nodes.Int4OID, nodes.Int8OID:
		n, ok := value.(int64)
		if !ok {
			return nil, false
		}
		switch to {
		case nodes.Int4OID, nodes.Int8OID:
			return n, true
		case nodes.Float8OID:
			return float64(n), true
		}
	}
	return nil, false
}
