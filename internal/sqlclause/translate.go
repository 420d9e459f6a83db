// Package sqlclause translates single-relation SELECT statements into the
// planner's query tree, resolving columns, types and operators against the
// catalog.
package sqlclause

import (
	"errors"
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/zombodb/zdbscan/pkg/catalog"
	"github.com/zombodb/zdbscan/pkg/nodes"
)

// Catalog is the catalog surface the translator resolves names against.
type Catalog interface {
	RelationByName(namespace, name string) (catalog.Relation, bool)
	OperatorCandidates(qualifiedName []string) []catalog.Operator
	TypenameGetTypid(name string) nodes.Oid
	TypeName(oid nodes.Oid) string
}

const rti nodes.Index = 1

type translator struct {
	cat      Catalog
	relation catalog.Relation
	refName  string
}

// Translate parses sql, which must be a single SELECT over one relation,
// and returns its query tree. The top-level conjuncts of the WHERE clause
// become the query's quals.
func Translate(cat Catalog, sql string) (*nodes.Query, error) {
	parsed, err := pg_query.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("unable to parse query: %w", err)
	}
	if len(parsed.Stmts) != 1 {
		return nil, newUnsupportedError(fmt.Errorf("expected one statement, found %d", len(parsed.Stmts)))
	}

	query := parsed.Stmts[0].Stmt.GetSelectStmt()
	if query == nil {
		return nil, newUnsupportedError(errors.New("only SELECT is supported"))
	}
	if err := checkUnusedSelectClauses(query); err != nil {
		return nil, newUnsupportedError(err)
	}

	fromClauses := query.GetFromClause()
	if len(fromClauses) != 1 {
		return nil, newUnsupportedError(errors.New("a select statement must have exactly one FROM clause"))
	}
	fromVar := fromClauses[0].GetRangeVar()
	if fromVar == nil {
		return nil, newUnsupportedError(errors.New("a select statement must have a FROM clause pointing to a single table"))
	}

	relation, ok := cat.RelationByName(fromVar.GetSchemaname(), fromVar.GetRelname())
	if !ok {
		return nil, newUndefinedError("relation %q does not exist", fromVar.GetRelname())
	}

	t := &translator{cat: cat, relation: relation, refName: relation.Name}
	rte := &nodes.RangeTblEntry{RelID: relation.OID, RelName: relation.Name}
	if alias := fromVar.GetAlias(); alias != nil && alias.GetAliasname() != "" {
		rte.Alias = alias.GetAliasname()
		t.refName = rte.Alias
	}

	tlist, err := t.targetList(query.GetTargetList())
	if err != nil {
		return nil, err
	}

	var quals []nodes.Expr
	if where := query.GetWhereClause(); where != nil {
		for _, conjunct := range flattenAnd(where) {
			qual, err := t.expr(conjunct)
			if err != nil {
				return nil, err
			}
			if qual.ResultType() != nodes.BoolOID {
				return nil, fmt.Errorf("argument of WHERE must be type boolean, not type %s", cat.TypeName(qual.ResultType()))
			}
			quals = append(quals, qual)
		}
	}

	return &nodes.Query{
		SourceText: sql,
		RangeTable: []*nodes.RangeTblEntry{rte},
		TargetList: tlist,
		Quals:      quals,
	}, nil
}

func (t *translator) targetList(targets []*pg_query.Node) ([]*nodes.TargetEntry, error) {
	if len(targets) == 0 {
		return nil, newUnsupportedError(errors.New("a select statement must have a target list"))
	}

	var tlist []*nodes.TargetEntry
	for _, target := range targets {
		resTarget := target.GetResTarget()
		if resTarget == nil || resTarget.GetVal() == nil {
			return nil, newUnsupportedError(errors.New("a select statement must have a target list with a value"))
		}

		if columnRef := resTarget.GetVal().GetColumnRef(); columnRef != nil {
			fields := columnRef.GetFields()
			if len(fields) > 0 && fields[len(fields)-1].GetAStar() != nil {
				if err := t.checkQualifier(fields[:len(fields)-1]); err != nil {
					return nil, err
				}
				for i, col := range t.relation.Columns {
					tlist = append(tlist, &nodes.TargetEntry{
						Expr:    t.columnVar(i),
						ResNo:   len(tlist) + 1,
						ResName: col.Name,
					})
				}
				continue
			}
		}

		expr, err := t.expr(resTarget.GetVal())
		if err != nil {
			return nil, err
		}
		name := resTarget.GetName()
		if name == "" {
			if v, ok := expr.(*nodes.Var); ok {
				name = v.Name
			}
		}
		tlist = append(tlist, &nodes.TargetEntry{Expr: expr, ResNo: len(tlist) + 1, ResName: name})
	}
	return tlist, nil
}

func (t *translator) columnVar(idx int) *nodes.Var {
	col := t.relation.Columns[idx]
	return &nodes.Var{VarNo: rti, VarAttNo: idx + 1, VarType: col.TypeOID, Name: col.Name}
}

func (t *translator) checkQualifier(qualifier []*pg_query.Node) error {
	switch len(qualifier) {
	case 0:
		return nil
	case 1:
		name := qualifier[0].GetString_().GetSval()
		if name != t.refName {
			return newUndefinedError("missing FROM-clause entry for table %q", name)
		}
		return nil
	default:
		return newUnsupportedError(errors.New("column references must have at most one qualifier"))
	}
}

// flattenAnd returns the conjuncts of a possibly nested AND tree.
func flattenAnd(node *pg_query.Node) []*pg_query.Node {
	boolExpr := node.GetBoolExpr()
	if boolExpr == nil || boolExpr.GetBoolop() != pg_query.BoolExprType_AND_EXPR {
		return []*pg_query.Node{node}
	}
	var conjuncts []*pg_query.Node
	for _, arg := range boolExpr.GetArgs() {
		conjuncts = append(conjuncts, flattenAnd(arg)...)
	}
	return conjuncts
}

func checkUnusedSelectClauses(selectStatement *pg_query.SelectStmt) error {
	if selectStatement.GetDistinctClause() != nil {
		return errors.New("DISTINCT not supported")
	}

	if selectStatement.GetGroupClause() != nil || selectStatement.GetGroupDistinct() {
		return errors.New("GROUP BY not supported")
	}

	if selectStatement.GetHavingClause() != nil {
		return errors.New("HAVING not supported")
	}

	if selectStatement.GetIntoClause() != nil {
		return errors.New("INTO not supported")
	}

	if selectStatement.GetSortClause() != nil {
		return errors.New("ORDER BY not supported")
	}

	if selectStatement.GetLockingClause() != nil {
		return errors.New("FOR UPDATE/SHARE not supported")
	}

	if selectStatement.GetWindowClause() != nil {
		return errors.New("WINDOW not supported")
	}

	if selectStatement.GetLimitCount() != nil || selectStatement.GetLimitOffset() != nil {
		return errors.New("LIMIT/OFFSET not supported")
	}

	if selectStatement.GetWithClause() != nil {
		return errors.New("WITH not supported")
	}

	if selectStatement.GetOp() != pg_query.SetOperation_SETOP_NONE {
		return errors.New("set operations not supported")
	}

	return nil
}
