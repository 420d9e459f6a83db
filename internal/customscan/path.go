package customscan

import (
	"strings"

	log "github.com/zombodb/zdbscan/internal/logging"
	"github.com/zombodb/zdbscan/pkg/nodes"
	"github.com/zombodb/zdbscan/pkg/planner"
)

// proposePath adds one custom path to rel if any of its restriction clauses
// applies the push-down operator. The type and operator are looked up again
// on every call.
func (e *Extension) proposePath(root *nodes.PlannerInfo, rel *nodes.RelOptInfo) error {
	relationsInspected.Inc()

	qualifiedName := e.config.operatorQualifiedName()
	queryType := e.catalog.TypenameGetTypid(e.config.QueryTypeName)
	operator := nodes.InvalidOid
	if queryType != nodes.InvalidOid {
		operator = e.catalog.OperatorOid(qualifiedName, nodes.AnyElementOID, queryType)
	}
	log.Debug().Uint32("type_oid", uint32(queryType)).Uint32("op_oid", uint32(operator)).Msg("resolved push-down operator")

	for _, rinfo := range rel.BaseRestrictInfo {
		log.Debug().Str("ri", nodes.NodeToString(rinfo)).Msg("inspecting restriction clause")
	}

	if queryType == nodes.InvalidOid || operator == nodes.InvalidOid {
		return nil
	}

	recognized := recognizedClauses(rel.BaseRestrictInfo, operator)
	if len(recognized) == 0 {
		return nil
	}

	private := newScanPrivate(strings.Join(qualifiedName, "."), operator, queryType, recognized, e.config.ResidualFilter)
	path := newCustomPath(root, rel, private)
	if !e.config.RegisterPath {
		log.Debug().Str("path", nodes.NodeToString(path)).Msg("path registration disabled, not adding custom path")
		return nil
	}

	if err := planner.AddPath(rel, path); err != nil {
		return err
	}
	pathsProposed.Inc()
	log.Debug().Str("path", nodes.NodeToString(path)).Msg("added custom path")
	return nil
}

// recognizedClauses returns the restriction clauses applying operator.
func recognizedClauses(rinfos []*nodes.RestrictInfo, operator nodes.Oid) []*nodes.RestrictInfo {
	var recognized []*nodes.RestrictInfo
	for _, rinfo := range rinfos {
		if op, ok := rinfo.Clause.(*nodes.OpExpr); ok && op.OpNo == operator {
			recognized = append(recognized, rinfo)
		}
	}
	return recognized
}

// newCustomPath builds the provider's path for rel. Costs and row estimates
// are left at the host defaults.
func newCustomPath(root *nodes.PlannerInfo, rel *nodes.RelOptInfo, private *scanPrivate) *nodes.CustomPath {
	return &nodes.CustomPath{
		Path: nodes.Path{
			Type:       nodes.TagCustomPath,
			PathType:   nodes.TagCustomScan,
			Parent:     rel,
			PathTarget: rel.RelTarget,
			ParamInfo:  planner.GetBaserelParamPathInfo(root, rel, rel.LateralRelids),
		},
		Flags:         0,
		CustomPrivate: []nodes.Node{private},
		Methods:       &PathMethods,
	}
}
