package explain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zombodb/zdbscan/pkg/nodes"
)

// TypeNamer resolves type OIDs for display.
type TypeNamer interface {
	TypeName(oid nodes.Oid) string
}

type deparser struct {
	typeNames  TypeNamer
	rangeTable []*nodes.RangeTblEntry
}

func (d deparser) relationName(rti nodes.Index) string {
	if rti == 0 || int(rti) > len(d.rangeTable) {
		return "?"
	}
	rte := d.rangeTable[rti-1]
	if rte.Alias != "" && rte.Alias != rte.RelName {
		return rte.RelName + " " + rte.Alias
	}
	return rte.RelName
}

func (d deparser) typeName(oid nodes.Oid) string {
	if d.typeNames == nil {
		return strconv.FormatUint(uint64(oid), 10)
	}
	return d.typeNames.TypeName(oid)
}

func (d deparser) qual(quals []nodes.Expr) string {
	if len(quals) == 1 {
		return d.expr(quals[0])
	}
	return d.expr(&nodes.BoolExpr{BoolOp: nodes.AndExpr, Args: quals})
}

func (d deparser) expr(expr nodes.Expr) string {
	switch e := expr.(type) {
	case nil:
		return "NULL"
	case *nodes.Var:
		if e.Name != "" {
			return e.Name
		}
		return fmt.Sprintf("col%d", e.VarAttNo)
	case *nodes.Const:
		if e.IsNull {
			return "NULL"
		}
		switch v := e.Value.(type) {
		case string:
			return "'" + strings.ReplaceAll(v, "'", "''") + "'::" + d.typeName(e.ConstType)
		default:
			return fmt.Sprintf("%v", v)
		}
	case *nodes.Param:
		return fmt.Sprintf("$%d", e.ParamID)
	case *nodes.OpExpr:
		name := e.OpName
		if name == "" {
			name = fmt.Sprintf("OPERATOR(%d)", e.OpNo)
		}
		if len(e.Args) == 2 {
			return "(" + d.expr(e.Args[0]) + " " + name + " " + d.expr(e.Args[1]) + ")"
		}
		args := make([]string, 0, len(e.Args))
		for _, arg := range e.Args {
			args = append(args, d.expr(arg))
		}
		return name + "(" + strings.Join(args, ", ") + ")"
	case *nodes.BoolExpr:
		if e.BoolOp == nodes.NotExpr && len(e.Args) == 1 {
			return "(NOT " + d.expr(e.Args[0]) + ")"
		}
		args := make([]string, 0, len(e.Args))
		for _, arg := range e.Args {
			args = append(args, d.expr(arg))
		}
		return "(" + strings.Join(args, " "+strings.ToUpper(e.BoolOp.String())+" ") + ")"
	default:
		return "?"
	}
}
