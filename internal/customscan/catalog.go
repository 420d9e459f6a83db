package customscan

import (
	"fmt"

	"github.com/zombodb/zdbscan/pkg/catalog"
	"github.com/zombodb/zdbscan/pkg/nodes"
)

// RegisterCatalogObjects creates the query type and the push-down operator
// named by config in cat.
func RegisterCatalogObjects(cat *catalog.MemCatalog, config Config) (queryType, operator nodes.Oid, err error) {
	queryType, err = cat.CreateType(catalog.NamespacePublic, config.QueryTypeName)
	if err != nil {
		return nodes.InvalidOid, nodes.InvalidOid, fmt.Errorf("unable to create type %s: %w", config.QueryTypeName, err)
	}

	operator, err = cat.CreateOperator(config.OperatorNamespace, config.OperatorName, nodes.AnyElementOID, queryType, nodes.BoolOID)
	if err != nil {
		return nodes.InvalidOid, nodes.InvalidOid, fmt.Errorf("unable to create operator %s: %w", config.OperatorName, err)
	}
	return queryType, operator, nil
}
