package customscan

import (
	"strings"

	"github.com/ccoveille/go-safecast/v2"

	"github.com/zombodb/zdbscan/pkg/nodes"
)

// explainCustomScan adds the push-down details to EXPLAIN output. It only
// reads the scan state.
func explainCustomScan(node nodes.CustomScanNode, _ []nodes.Node, es nodes.ExplainSink) {
	s, err := asScanState(node)
	if err != nil || s.private == nil {
		return
	}

	es.PropertyText("Query", strings.Join(s.private.Queries, " AND "))
	es.PropertyText("Operator", s.private.OperatorName)
	es.PropertyText("Residual Filter", string(s.private.ResidualFilter))

	if !es.Verbose() {
		return
	}
	es.PropertyText("Scan Id", s.id)
	if count, err := safecast.Convert[int64](len(s.private.Clauses)); err == nil {
		es.PropertyInteger("Pushed Down Clauses", "", count)
	}
	es.PropertyBool("Parallel Capable", s.Flags.Has(nodes.CustomPathParallelCapable))
}
