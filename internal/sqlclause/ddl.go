package sqlclause

import (
	"errors"
	"fmt"
	"strconv"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/zombodb/zdbscan/pkg/catalog"
	"github.com/zombodb/zdbscan/pkg/nodes"
)

// DDLCatalog is the catalog surface ApplyDDL creates relations in.
type DDLCatalog interface {
	TypenameGetTypid(name string) nodes.Oid
	CreateRelation(rel catalog.Relation) (nodes.Oid, error)
}

// ApplyDDL executes the CREATE TABLE statements in sql against cat and
// returns the OIDs of the created relations. Planner statistics can be
// given as storage options, e.g. WITH (tuples = 1000, pages = 10).
func ApplyDDL(cat DDLCatalog, sql string) ([]nodes.Oid, error) {
	parsed, err := pg_query.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("unable to parse schema: %w", err)
	}

	oids := make([]nodes.Oid, 0, len(parsed.Stmts))
	for _, raw := range parsed.Stmts {
		create := raw.Stmt.GetCreateStmt()
		if create == nil {
			return nil, newUnsupportedError(errors.New("only CREATE TABLE is supported in a schema"))
		}

		rel, err := relationFromCreate(cat, create)
		if err != nil {
			return nil, err
		}
		oid, err := cat.CreateRelation(rel)
		if err != nil {
			return nil, fmt.Errorf("unable to create relation %q: %w", rel.Name, err)
		}
		oids = append(oids, oid)
	}
	return oids, nil
}

func relationFromCreate(cat DDLCatalog, create *pg_query.CreateStmt) (catalog.Relation, error) {
	if len(create.GetInhRelations()) > 0 || create.GetPartspec() != nil || create.GetOfTypename() != nil {
		return catalog.Relation{}, newUnsupportedError(errors.New("inherited, partitioned and typed tables are not supported"))
	}

	rel := catalog.Relation{
		Namespace: create.GetRelation().GetSchemaname(),
		Name:      create.GetRelation().GetRelname(),
	}

	for _, elt := range create.GetTableElts() {
		def := elt.GetColumnDef()
		if def == nil {
			// Table constraints do not change what the planner sees.
			continue
		}

		typeName := lastName(def.GetTypeName().GetNames())
		typeOid := cat.TypenameGetTypid(typeName)
		if typeOid == nodes.InvalidOid {
			return catalog.Relation{}, newUndefinedError("type %q does not exist", typeName)
		}
		rel.Columns = append(rel.Columns, catalog.Column{Name: def.GetColname(), TypeOID: typeOid})
	}

	for _, opt := range create.GetOptions() {
		def := opt.GetDefElem()
		if def == nil {
			continue
		}
		value, err := numericOption(def)
		if err != nil {
			return catalog.Relation{}, err
		}
		switch def.GetDefname() {
		case "tuples":
			rel.Tuples = value
		case "pages":
			rel.Pages = value
		default:
			return catalog.Relation{}, newUnsupportedError(fmt.Errorf("unknown table option %q", def.GetDefname()))
		}
	}

	return rel, nil
}

func lastName(names []*pg_query.Node) string {
	if len(names) == 0 {
		return ""
	}
	return names[len(names)-1].GetString_().GetSval()
}

func numericOption(def *pg_query.DefElem) (float64, error) {
	arg := def.GetArg()
	switch {
	case arg.GetInteger() != nil:
		return float64(arg.GetInteger().GetIval()), nil
	case arg.GetFloat() != nil:
		return strconv.ParseFloat(arg.GetFloat().GetFval(), 64)
	case arg.GetString_() != nil:
		value, err := strconv.ParseFloat(arg.GetString_().GetSval(), 64)
		if err != nil {
			return 0, fmt.Errorf("option %q must be numeric: %w", def.GetDefname(), err)
		}
		return value, nil
	default:
		return 0, fmt.Errorf("option %q must be numeric", def.GetDefname())
	}
}
