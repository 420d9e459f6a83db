package catalog

import (
	"github.com/hashicorp/go-memdb"

	"github.com/zombodb/zdbscan/pkg/nodes"
)

const (
	tableType     = "type"
	tableOperator = "operator"
	tableRelation = "relation"

	indexID        = "id"
	indexName      = "name"
	indexSignature = "signature"
)

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tableType: {
			Name: tableType,
			Indexes: map[string]*memdb.IndexSchema{
				indexID: {
					Name:    indexID,
					Unique:  true,
					Indexer: &memdb.UintFieldIndex{Field: "OID"},
				},
				indexName: {
					Name:   indexName,
					Unique: true,
					Indexer: &memdb.CompoundIndex{
						Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "Namespace"},
							&memdb.StringFieldIndex{Field: "Name"},
						},
					},
				},
			},
		},
		tableOperator: {
			Name: tableOperator,
			Indexes: map[string]*memdb.IndexSchema{
				indexID: {
					Name:    indexID,
					Unique:  true,
					Indexer: &memdb.UintFieldIndex{Field: "OID"},
				},
				indexName: {
					Name:   indexName,
					Unique: false,
					Indexer: &memdb.CompoundIndex{
						Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "Namespace"},
							&memdb.StringFieldIndex{Field: "Name"},
						},
					},
				},
				indexSignature: {
					Name:   indexSignature,
					Unique: true,
					Indexer: &memdb.CompoundIndex{
						Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "Namespace"},
							&memdb.StringFieldIndex{Field: "Name"},
							&memdb.UintFieldIndex{Field: "Left"},
							&memdb.UintFieldIndex{Field: "Right"},
						},
					},
				},
			},
		},
		tableRelation: {
			Name: tableRelation,
			Indexes: map[string]*memdb.IndexSchema{
				indexID: {
					Name:    indexID,
					Unique:  true,
					Indexer: &memdb.UintFieldIndex{Field: "OID"},
				},
				indexName: {
					Name:   indexName,
					Unique: true,
					Indexer: &memdb.CompoundIndex{
						Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "Namespace"},
							&memdb.StringFieldIndex{Field: "Name"},
						},
					},
				},
			},
		},
	},
}

var bootstrapTypes = []Type{
	{OID: nodes.BoolOID, Namespace: NamespaceCatalog, Name: "bool"},
	{OID: nodes.Int8OID, Namespace: NamespaceCatalog, Name: "int8"},
	{OID: nodes.Int4OID, Namespace: NamespaceCatalog, Name: "int4"},
	{OID: nodes.TextOID, Namespace: NamespaceCatalog, Name: "text"},
	{OID: nodes.Float8OID, Namespace: NamespaceCatalog, Name: "float8"},
	{OID: nodes.UnknownOID, Namespace: NamespaceCatalog, Name: "unknown"},
	{OID: nodes.AnyElementOID, Namespace: NamespaceCatalog, Name: "anyelement"},
}

var bootstrapOperators = []Operator{
	{OID: 96, Namespace: NamespaceCatalog, Name: "=", Left: nodes.Int4OID, Right: nodes.Int4OID, Result: nodes.BoolOID},
	{OID: 97, Namespace: NamespaceCatalog, Name: "<", Left: nodes.Int4OID, Right: nodes.Int4OID, Result: nodes.BoolOID},
	{OID: 518, Namespace: NamespaceCatalog, Name: "<>", Left: nodes.Int4OID, Right: nodes.Int4OID, Result: nodes.BoolOID},
	{OID: 521, Namespace: NamespaceCatalog, Name: ">", Left: nodes.Int4OID, Right: nodes.Int4OID, Result: nodes.BoolOID},
	{OID: 410, Namespace: NamespaceCatalog, Name: "=", Left: nodes.Int8OID, Right: nodes.Int8OID, Result: nodes.BoolOID},
	{OID: 98, Namespace: NamespaceCatalog, Name: "=", Left: nodes.TextOID, Right: nodes.TextOID, Result: nodes.BoolOID},
	{OID: 531, Namespace: NamespaceCatalog, Name: "<>", Left: nodes.TextOID, Right: nodes.TextOID, Result: nodes.BoolOID},
	{OID: 1209, Namespace: NamespaceCatalog, Name: "~~", Left: nodes.TextOID, Right: nodes.TextOID, Result: nodes.BoolOID},
	{OID: 670, Namespace: NamespaceCatalog, Name: "=", Left: nodes.Float8OID, Right: nodes.Float8OID, Result: nodes.BoolOID},
}
