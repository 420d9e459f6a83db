package executor

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/zombodb/zdbscan/pkg/nodes"
)

var (
	// ErrUnsupportedOperator is returned when a qual uses an operator the
	// executor cannot evaluate.
	ErrUnsupportedOperator = errors.New("operator cannot be evaluated")

	// ErrMissingParam is returned when a qual references an unbound
	// parameter.
	ErrMissingParam = errors.New("no value supplied for parameter")
)

// ExecQual reports whether slot satisfies every clause of qual. A NULL
// result counts as false.
func ExecQual(qual []nodes.Expr, slot *nodes.TupleTableSlot, params []any) (bool, error) {
	for _, clause := range qual {
		result, err := evalExpr(clause, slot, params)
		if err != nil {
			return false, err
		}
		if b, ok := result.(bool); !ok || !b {
			return false, nil
		}
	}
	return true, nil
}

func evalExpr(expr nodes.Expr, slot *nodes.TupleTableSlot, params []any) (any, error) {
	switch e := expr.(type) {
	case *nodes.Const:
		if e.IsNull {
			return nil, nil
		}
		return e.Value, nil
	case *nodes.Var:
		idx := e.VarAttNo - 1
		if idx < 0 || idx >= len(slot.Values) {
			return nil, fmt.Errorf("attribute %d out of range for row of width %d", e.VarAttNo, len(slot.Values))
		}
		return slot.Values[idx], nil
	case *nodes.Param:
		idx := e.ParamID - 1
		if idx < 0 || idx >= len(params) {
			return nil, fmt.Errorf("$%d: %w", e.ParamID, ErrMissingParam)
		}
		return params[idx], nil
	case *nodes.BoolExpr:
		return evalBoolExpr(e, slot, params)
	case *nodes.OpExpr:
		return evalOpExpr(e, slot, params)
	default:
		return nil, fmt.Errorf("cannot evaluate %s", expr.Tag())
	}
}

func evalBoolExpr(e *nodes.BoolExpr, slot *nodes.TupleTableSlot, params []any) (any, error) {
	if e.BoolOp == nodes.NotExpr {
		if len(e.Args) != 1 {
			return nil, fmt.Errorf("not expects one argument, got %d", len(e.Args))
		}
		v, err := evalExpr(e.Args[0], slot, params)
		if err != nil || v == nil {
			return nil, err
		}
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("argument of not must be boolean, got %T", v)
		}
		return !b, nil
	}

	// Three-valued and/or: a deciding value wins over NULL.
	decider := e.BoolOp == nodes.OrExpr
	sawNull := false
	for _, arg := range e.Args {
		v, err := evalExpr(arg, slot, params)
		if err != nil {
			return nil, err
		}
		if v == nil {
			sawNull = true
			continue
		}
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("argument of %s must be boolean, got %T", e.BoolOp, v)
		}
		if b == decider {
			return decider, nil
		}
	}
	if sawNull {
		return nil, nil
	}
	return !decider, nil
}

func evalOpExpr(e *nodes.OpExpr, slot *nodes.TupleTableSlot, params []any) (any, error) {
	if len(e.Args) != 2 {
		return nil, fmt.Errorf("%s %d: %w", e.OpName, e.OpNo, ErrUnsupportedOperator)
	}
	left, err := evalExpr(e.Args[0], slot, params)
	if err != nil {
		return nil, err
	}
	right, err := evalExpr(e.Args[1], slot, params)
	if err != nil {
		return nil, err
	}

	var accept func(int) bool
	switch e.OpName {
	case "=":
		accept = func(c int) bool { return c == 0 }
	case "<>":
		accept = func(c int) bool { return c != 0 }
	case "<":
		accept = func(c int) bool { return c < 0 }
	case "<=":
		accept = func(c int) bool { return c <= 0 }
	case ">":
		accept = func(c int) bool { return c > 0 }
	case ">=":
		accept = func(c int) bool { return c >= 0 }
	default:
		return nil, fmt.Errorf("%s %d: %w", e.OpName, e.OpNo, ErrUnsupportedOperator)
	}

	if left == nil || right == nil {
		return nil, nil
	}
	c, err := compareDatums(left, right)
	if err != nil {
		return nil, err
	}
	return accept(c), nil
}

func compareDatums(left, right any) (int, error) {
	if lf, ok := asFloat(left); ok {
		if rf, ok := asFloat(right); ok {
			return cmp.Compare(lf, rf), nil
		}
	}
	switch l := left.(type) {
	case string:
		if r, ok := right.(string); ok {
			return cmp.Compare(l, r), nil
		}
	case bool:
		if r, ok := right.(bool); ok {
			switch {
			case l == r:
				return 0, nil
			case !l:
				return -1, nil
			default:
				return 1, nil
			}
		}
	}
	return 0, fmt.Errorf("cannot compare %T with %T", left, right)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
