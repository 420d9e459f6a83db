// Package catalog implements the system catalog the planner and custom scan
// providers resolve type and operator names against.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/hashicorp/go-memdb"

	"github.com/zombodb/zdbscan/pkg/nodes"
)

// Catalog is the lookup surface consumed by custom scan providers. Both
// lookups are side-effect free and report a miss as nodes.InvalidOid.
type Catalog interface {
	// TypenameGetTypid resolves an unqualified type name along the search
	// path.
	TypenameGetTypid(name string) nodes.Oid

	// OperatorOid resolves a possibly schema-qualified operator name for an
	// exact pair of operand types.
	OperatorOid(qualifiedName []string, left, right nodes.Oid) nodes.Oid
}

const (
	NamespaceCatalog = "pg_catalog"
	NamespacePublic  = "public"
)

var (
	// ErrDuplicateObject is returned when creating an object whose name (or
	// operator signature) is already taken.
	ErrDuplicateObject = errors.New("duplicate catalog object")

	// ErrUndefinedObject is returned when a referenced object does not exist.
	ErrUndefinedObject = errors.New("undefined catalog object")
)

// Type is a row of the type catalog.
type Type struct {
	OID       nodes.Oid
	Namespace string
	Name      string
}

// Operator is a row of the operator catalog.
type Operator struct {
	OID       nodes.Oid
	Namespace string
	Name      string
	Left      nodes.Oid
	Right     nodes.Oid
	Result    nodes.Oid
}

// Column is one attribute of a relation.
type Column struct {
	Name    string
	TypeOID nodes.Oid
}

// Relation is a row of the relation catalog, with the statistics the
// planner costs sequential scans with.
type Relation struct {
	OID       nodes.Oid
	Namespace string
	Name      string
	Columns   []Column
	Tuples    float64
	Pages     float64
}

// ColumnIndex returns the 0-based position of the named column.
func (r *Relation) ColumnIndex(name string) (int, bool) {
	for i, col := range r.Columns {
		if col.Name == name {
			return i, true
		}
	}
	return -1, false
}

// MemCatalog is an in-memory Catalog backed by go-memdb.
type MemCatalog struct {
	db         *memdb.MemDB
	searchPath []string

	mu      sync.Mutex
	nextOid nodes.Oid
}

var _ Catalog = (*MemCatalog)(nil)

// New returns a catalog holding the bootstrap types and operators.
func New() (*MemCatalog, error) {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("unable to create catalog: %w", err)
	}

	c := &MemCatalog{
		db:         db,
		searchPath: []string{NamespaceCatalog, NamespacePublic},
		nextOid:    nodes.FirstNormalOid,
	}

	txn := db.Txn(true)
	defer txn.Abort()
	for _, typ := range bootstrapTypes {
		if err := txn.Insert(tableType, &typ); err != nil {
			return nil, fmt.Errorf("unable to bootstrap type %s: %w", typ.Name, err)
		}
	}
	for _, op := range bootstrapOperators {
		if err := txn.Insert(tableOperator, &op); err != nil {
			return nil, fmt.Errorf("unable to bootstrap operator %s: %w", op.Name, err)
		}
	}
	txn.Commit()

	return c, nil
}

// SetSearchPath replaces the namespaces unqualified names resolve against.
func (c *MemCatalog) SetSearchPath(namespaces ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchPath = slices.Clone(namespaces)
}

func (c *MemCatalog) currentSearchPath() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchPath
}

func (c *MemCatalog) allocateOid() nodes.Oid {
	c.mu.Lock()
	defer c.mu.Unlock()
	oid := c.nextOid
	c.nextOid++
	return oid
}

// CreateType registers a new type and returns its OID.
func (c *MemCatalog) CreateType(namespace, name string) (nodes.Oid, error) {
	txn := c.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(tableType, indexName, namespace, name)
	if err != nil {
		return nodes.InvalidOid, err
	}
	if existing != nil {
		return nodes.InvalidOid, fmt.Errorf("type %s.%s: %w", namespace, name, ErrDuplicateObject)
	}

	typ := &Type{OID: c.allocateOid(), Namespace: namespace, Name: name}
	if err := txn.Insert(tableType, typ); err != nil {
		return nodes.InvalidOid, err
	}
	txn.Commit()
	return typ.OID, nil
}

// CreateOperator registers a new binary operator and returns its OID.
func (c *MemCatalog) CreateOperator(namespace, name string, left, right, result nodes.Oid) (nodes.Oid, error) {
	txn := c.db.Txn(true)
	defer txn.Abort()

	for _, typeOid := range []nodes.Oid{left, right, result} {
		found, err := txn.First(tableType, indexID, typeOid)
		if err != nil {
			return nodes.InvalidOid, err
		}
		if found == nil {
			return nodes.InvalidOid, fmt.Errorf("type with oid %d: %w", typeOid, ErrUndefinedObject)
		}
	}

	existing, err := txn.First(tableOperator, indexSignature, namespace, name, left, right)
	if err != nil {
		return nodes.InvalidOid, err
	}
	if existing != nil {
		return nodes.InvalidOid, fmt.Errorf("operator %s.%s(%d, %d): %w", namespace, name, left, right, ErrDuplicateObject)
	}

	op := &Operator{OID: c.allocateOid(), Namespace: namespace, Name: name, Left: left, Right: right, Result: result}
	if err := txn.Insert(tableOperator, op); err != nil {
		return nodes.InvalidOid, err
	}
	txn.Commit()
	return op.OID, nil
}

// CreateRelation registers a relation; the OID field of rel is ignored and
// the assigned OID is returned.
func (c *MemCatalog) CreateRelation(rel Relation) (nodes.Oid, error) {
	if rel.Namespace == "" {
		rel.Namespace = NamespacePublic
	}

	txn := c.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(tableRelation, indexName, rel.Namespace, rel.Name)
	if err != nil {
		return nodes.InvalidOid, err
	}
	if existing != nil {
		return nodes.InvalidOid, fmt.Errorf("relation %s.%s: %w", rel.Namespace, rel.Name, ErrDuplicateObject)
	}

	for _, col := range rel.Columns {
		found, err := txn.First(tableType, indexID, col.TypeOID)
		if err != nil {
			return nodes.InvalidOid, err
		}
		if found == nil {
			return nodes.InvalidOid, fmt.Errorf("type of column %s: %w", col.Name, ErrUndefinedObject)
		}
	}

	stored := rel
	stored.OID = c.allocateOid()
	stored.Columns = slices.Clone(rel.Columns)
	if err := txn.Insert(tableRelation, &stored); err != nil {
		return nodes.InvalidOid, err
	}
	txn.Commit()
	return stored.OID, nil
}

// TypenameGetTypid implements Catalog.
func (c *MemCatalog) TypenameGetTypid(name string) nodes.Oid {
	txn := c.db.Txn(false)
	for _, ns := range c.currentSearchPath() {
		found, err := txn.First(tableType, indexName, ns, name)
		if err != nil || found == nil {
			continue
		}
		return found.(*Type).OID
	}
	return nodes.InvalidOid
}

// OperatorOid implements Catalog.
func (c *MemCatalog) OperatorOid(qualifiedName []string, left, right nodes.Oid) nodes.Oid {
	namespaces, name, ok := c.splitQualifiedName(qualifiedName)
	if !ok {
		return nodes.InvalidOid
	}

	txn := c.db.Txn(false)
	for _, ns := range namespaces {
		found, err := txn.First(tableOperator, indexSignature, ns, name, left, right)
		if err != nil || found == nil {
			continue
		}
		return found.(*Operator).OID
	}
	return nodes.InvalidOid
}

// OperatorCandidates returns every visible operator with the given possibly
// qualified name, in search path order.
func (c *MemCatalog) OperatorCandidates(qualifiedName []string) []Operator {
	namespaces, name, ok := c.splitQualifiedName(qualifiedName)
	if !ok {
		return nil
	}

	txn := c.db.Txn(false)
	var candidates []Operator
	for _, ns := range namespaces {
		it, err := txn.Get(tableOperator, indexName, ns, name)
		if err != nil {
			continue
		}
		for obj := it.Next(); obj != nil; obj = it.Next() {
			candidates = append(candidates, *obj.(*Operator))
		}
	}
	return candidates
}

// TypeByOid returns the type row for oid.
func (c *MemCatalog) TypeByOid(oid nodes.Oid) (Type, bool) {
	found, err := c.db.Txn(false).First(tableType, indexID, oid)
	if err != nil || found == nil {
		return Type{}, false
	}
	return *found.(*Type), true
}

// TypeName returns the name of the type, or its number if unknown.
func (c *MemCatalog) TypeName(oid nodes.Oid) string {
	if typ, ok := c.TypeByOid(oid); ok {
		return typ.Name
	}
	return fmt.Sprintf("%d", oid)
}

// RelationByName resolves a possibly qualified relation name.
func (c *MemCatalog) RelationByName(namespace, name string) (Relation, bool) {
	namespaces := c.currentSearchPath()
	if namespace != "" {
		namespaces = []string{namespace}
	}

	txn := c.db.Txn(false)
	for _, ns := range namespaces {
		found, err := txn.First(tableRelation, indexName, ns, name)
		if err != nil || found == nil {
			continue
		}
		rel := *found.(*Relation)
		rel.Columns = slices.Clone(rel.Columns)
		return rel, true
	}
	return Relation{}, false
}

// RelationByOid returns the relation row for oid.
func (c *MemCatalog) RelationByOid(oid nodes.Oid) (Relation, bool) {
	found, err := c.db.Txn(false).First(tableRelation, indexID, oid)
	if err != nil || found == nil {
		return Relation{}, false
	}
	rel := *found.(*Relation)
	rel.Columns = slices.Clone(rel.Columns)
	return rel, true
}

func (c *MemCatalog) splitQualifiedName(qualifiedName []string) ([]string, string, bool) {
	switch len(qualifiedName) {
	case 1:
		return c.currentSearchPath(), qualifiedName[0], true
	case 2:
		return []string{qualifiedName[0]}, qualifiedName[1], true
	default:
		return nil, "", false
	}
}
