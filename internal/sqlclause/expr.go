package sqlclause

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/zombodb/zdbscan/pkg/nodes"
)

func (t *translator) expr(node *pg_query.Node) (nodes.Expr, error) {
	switch {
	case node.GetColumnRef() != nil:
		return t.columnRef(node.GetColumnRef())
	case node.GetAConst() != nil:
		return constFromAConst(node.GetAConst())
	case node.GetTypeCast() != nil:
		return t.typeCast(node.GetTypeCast())
	case node.GetParamRef() != nil:
		return &nodes.Param{ParamID: int(node.GetParamRef().GetNumber()), ParamType: nodes.UnknownOID}, nil
	case node.GetAExpr() != nil:
		return t.aExpr(node.GetAExpr())
	case node.GetBoolExpr() != nil:
		return t.boolExpr(node.GetBoolExpr())
	default:
		return nil, newUnsupportedError(fmt.Errorf("unsupported expression %T", node.GetNode()))
	}
}

func (t *translator) columnRef(ref *pg_query.ColumnRef) (nodes.Expr, error) {
	fields := ref.GetFields()
	if len(fields) == 0 {
		return nil, newUnsupportedError(errors.New("empty column reference"))
	}
	if err := t.checkQualifier(fields[:len(fields)-1]); err != nil {
		return nil, err
	}

	last := fields[len(fields)-1].GetString_()
	if last == nil {
		return nil, newUnsupportedError(errors.New("a column reference must name a column"))
	}
	idx, ok := t.relation.ColumnIndex(last.GetSval())
	if !ok {
		return nil, newUndefinedError("column %q does not exist", last.GetSval())
	}
	return t.columnVar(idx), nil
}

func constFromAConst(aConst *pg_query.A_Const) (*nodes.Const, error) {
	switch {
	case aConst.GetIsnull():
		return &nodes.Const{ConstType: nodes.UnknownOID, IsNull: true}, nil
	case aConst.GetIval() != nil:
		return &nodes.Const{ConstType: nodes.Int4OID, Value: int64(aConst.GetIval().GetIval())}, nil
	case aConst.GetFval() != nil:
		f, err := strconv.ParseFloat(aConst.GetFval().GetFval(), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid numeric literal %q: %w", aConst.GetFval().GetFval(), err)
		}
		return &nodes.Const{ConstType: nodes.Float8OID, Value: f}, nil
	case aConst.GetBoolval() != nil:
		return &nodes.Const{ConstType: nodes.BoolOID, Value: aConst.GetBoolval().GetBoolval()}, nil
	case aConst.GetSval() != nil:
		return &nodes.Const{ConstType: nodes.UnknownOID, Value: aConst.GetSval().GetSval()}, nil
	default:
		return nil, newUnsupportedError(errors.New("unsupported literal"))
	}
}

func (t *translator) typeCast(cast *pg_query.TypeCast) (nodes.Expr, error) {
	names := cast.GetTypeName().GetNames()
	if len(names) == 0 {
		return nil, newUnsupportedError(errors.New("type cast without a type name"))
	}
	typeName := names[len(names)-1].GetString_().GetSval()
	target := t.cat.TypenameGetTypid(typeName)
	if target == nodes.InvalidOid {
		return nil, newUndefinedError("type %q does not exist", typeName)
	}

	arg, err := t.expr(cast.GetArg())
	if err != nil {
		return nil, err
	}
	coerced, ok := coerceTo(arg, target)
	if !ok {
		return nil, newUnsupportedError(fmt.Errorf("cannot cast type %s to %s", t.cat.TypeName(arg.ResultType()), typeName))
	}
	return coerced, nil
}

func (t *translator) aExpr(aExpr *pg_query.A_Expr) (nodes.Expr, error) {
	switch aExpr.GetKind() {
	case pg_query.A_Expr_Kind_AEXPR_OP, pg_query.A_Expr_Kind_AEXPR_LIKE:
	default:
		return nil, newUnsupportedError(fmt.Errorf("unsupported expression kind %s", aExpr.GetKind()))
	}
	if aExpr.GetLexpr() == nil || aExpr.GetRexpr() == nil {
		return nil, newUnsupportedError(errors.New("only binary operators are supported"))
	}

	qualifiedName := make([]string, 0, len(aExpr.GetName()))
	for _, part := range aExpr.GetName() {
		qualifiedName = append(qualifiedName, part.GetString_().GetSval())
	}

	left, err := t.expr(aExpr.GetLexpr())
	if err != nil {
		return nil, err
	}
	right, err := t.expr(aExpr.GetRexpr())
	if err != nil {
		return nil, err
	}

	return t.makeOpExpr(qualifiedName, left, right)
}

func (t *translator) boolExpr(boolExpr *pg_query.BoolExpr) (nodes.Expr, error) {
	var op nodes.BoolExprType
	switch boolExpr.GetBoolop() {
	case pg_query.BoolExprType_AND_EXPR:
		op = nodes.AndExpr
	case pg_query.BoolExprType_OR_EXPR:
		op = nodes.OrExpr
	case pg_query.BoolExprType_NOT_EXPR:
		op = nodes.NotExpr
	default:
		return nil, newUnsupportedError(fmt.Errorf("unsupported boolean operator %s", boolExpr.GetBoolop()))
	}

	result := &nodes.BoolExpr{BoolOp: op}
	for _, arg := range boolExpr.GetArgs() {
		expr, err := t.expr(arg)
		if err != nil {
			return nil, err
		}
		expr, ok := coerceTo(expr, nodes.BoolOID)
		if !ok {
			return nil, fmt.Errorf("argument of %s must be type boolean, not type %s", strings.ToUpper(op.String()), t.cat.TypeName(expr.ResultType()))
		}
		result.Args = append(result.Args, expr)
	}
	return result, nil
}
