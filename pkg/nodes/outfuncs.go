package nodes

import (
	"fmt"
	"strconv"
	"strings"
)

// NodeToString renders a node tree in the host's debug text format.
func NodeToString(n Node) string {
	var sb strings.Builder
	outNode(&sb, n)
	return sb.String()
}

func outNode(sb *strings.Builder, n Node) {
	if n == nil {
		sb.WriteString("<>")
		return
	}

	switch node := n.(type) {
	case *Var:
		fmt.Fprintf(sb, "{VAR :varno %d :varattno %d :vartype %d}", node.VarNo, node.VarAttNo, node.VarType)
	case *Const:
		fmt.Fprintf(sb, "{CONST :consttype %d :constisnull %t :constvalue %s}", node.ConstType, node.IsNull, outDatum(node.Value, node.IsNull))
	case *Param:
		fmt.Fprintf(sb, "{PARAM :paramid %d :paramtype %d}", node.ParamID, node.ParamType)
	case *OpExpr:
		fmt.Fprintf(sb, "{OPEXPR :opno %d :opresulttype %d :args ", node.OpNo, node.OpResultType)
		outExprList(sb, node.Args)
		sb.WriteString("}")
	case *BoolExpr:
		fmt.Fprintf(sb, "{BOOLEXPR :boolop %s :args ", node.BoolOp)
		outExprList(sb, node.Args)
		sb.WriteString("}")
	case *TargetEntry:
		sb.WriteString("{TARGETENTRY :expr ")
		outNode(sb, exprOrNil(node.Expr))
		fmt.Fprintf(sb, " :resno %d :resname %s :resjunk %t}", node.ResNo, outToken(node.ResName), node.ResJunk)
	case *RestrictInfo:
		sb.WriteString("{RESTRICTINFO :clause ")
		outNode(sb, exprOrNil(node.Clause))
		fmt.Fprintf(sb, " :is_pushed_down %t :pseudoconstant %t :clause_relids %s :norm_selec %.4f}",
			node.IsPushedDown, node.Pseudoconstant, outRelids(node.ClauseRelids), node.NormSelec)
	case *CustomPath:
		fmt.Fprintf(sb, "{CUSTOMPATH :pathtype %s :parent_relids %s :rows %.0f :startup_cost %.2f :total_cost %.2f :flags %d :methods %s :custom_private ",
			node.PathType, outParentRelids(node.Parent), node.Rows, node.StartupCost, node.TotalCost, node.Flags, outMethodsName(node.Methods))
		outNodeList(sb, node.CustomPrivate)
		sb.WriteString("}")
	case *Path:
		fmt.Fprintf(sb, "{PATH :pathtype %s :parent_relids %s :rows %.0f :startup_cost %.2f :total_cost %.2f}",
			node.PathType, outParentRelids(node.Parent), node.Rows, node.StartupCost, node.TotalCost)
	case *CustomScan:
		fmt.Fprintf(sb, "{CUSTOMSCAN :scanrelid %d :flags %d :methods %s :qual ", node.ScanRelID, node.Flags, outScanMethodsName(node.Methods))
		outExprList(sb, node.Qual)
		sb.WriteString(" :custom_private ")
		outNodeList(sb, node.CustomPrivate)
		sb.WriteString("}")
	case *SeqScan:
		fmt.Fprintf(sb, "{SEQSCAN :scanrelid %d :qual ", node.ScanRelID)
		outExprList(sb, node.Qual)
		sb.WriteString("}")
	case ExtensibleOuter:
		fmt.Fprintf(sb, "{EXTENSIBLENODE :extnodename %s", node.ExtensibleName())
		node.OutFields(sb)
		sb.WriteString("}")
	default:
		fmt.Fprintf(sb, "{%s}", strings.ToUpper(n.Tag().String()))
	}
}

// exprOrNil keeps a nil Expr a nil Node.
func exprOrNil(e Expr) Node {
	if e == nil {
		return nil
	}
	return e
}

func outExprList(sb *strings.Builder, exprs []Expr) {
	if len(exprs) == 0 {
		sb.WriteString("<>")
		return
	}
	sb.WriteString("(")
	for i, e := range exprs {
		if i > 0 {
			sb.WriteString(" ")
		}
		outNode(sb, exprOrNil(e))
	}
	sb.WriteString(")")
}

func outNodeList(sb *strings.Builder, list []Node) {
	if len(list) == 0 {
		sb.WriteString("<>")
		return
	}
	sb.WriteString("(")
	for i, n := range list {
		if i > 0 {
			sb.WriteString(" ")
		}
		outNode(sb, n)
	}
	sb.WriteString(")")
}

// outRelids renders a relid set in bitmapset notation.
func outRelids(relids Relids) string {
	if len(relids) == 0 {
		return "(b)"
	}
	parts := make([]string, 0, len(relids)+1)
	parts = append(parts, "b")
	for _, r := range relids {
		parts = append(parts, strconv.FormatUint(uint64(r), 10))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func outParentRelids(rel *RelOptInfo) string {
	if rel == nil {
		return "<>"
	}
	return outRelids(rel.Relids)
}

func outMethodsName(m *CustomPathMethods) string {
	if m == nil {
		return "<>"
	}
	return strconv.Quote(m.CustomName)
}

func outScanMethodsName(m *CustomScanMethods) string {
	if m == nil {
		return "<>"
	}
	return strconv.Quote(m.CustomName)
}

func outDatum(value any, isNull bool) string {
	if isNull || value == nil {
		return "<>"
	}
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func outToken(s string) string {
	if s == "" {
		return "<>"
	}
	return s
}
