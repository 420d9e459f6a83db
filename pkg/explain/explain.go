// Package explain renders plans in the host's EXPLAIN text format.
package explain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zombodb/zdbscan/pkg/executor"
	"github.com/zombodb/zdbscan/pkg/nodes"
)

// Header is the first line of a plan node in EXPLAIN output.
type Header struct {
	Operation                    string
	TableName                    string
	StartupCost                  float64
	TotalCost                    float64
	EstimatedRows                int64
	EstimatedAverageWidthInBytes int
}

// String formats the header in Postgres EXPLAIN output format.
func (h Header) String() string {
	return fmt.Sprintf("%s on %s (cost=%.2f..%.2f rows=%d width=%d)",
		h.Operation,
		h.TableName,
		h.StartupCost,
		h.TotalCost,
		h.EstimatedRows,
		h.EstimatedAverageWidthInBytes,
	)
}

// State accumulates the property lines of one plan node. It is the sink
// custom scan providers write their private properties to.
type State struct {
	verbose bool
	lines   []string
}

var _ nodes.ExplainSink = (*State)(nil)

// NewState returns an empty State.
func NewState(verbose bool) *State {
	return &State{verbose: verbose}
}

func (es *State) PropertyText(label, value string) {
	es.lines = append(es.lines, label+": "+value)
}

func (es *State) PropertyInteger(label, unit string, value int64) {
	line := label + ": " + strconv.FormatInt(value, 10)
	if unit != "" {
		line += " " + unit
	}
	es.lines = append(es.lines, line)
}

func (es *State) PropertyBool(label string, value bool) {
	es.lines = append(es.lines, label+": "+strconv.FormatBool(value))
}

func (es *State) Verbose() bool { return es.verbose }

// Lines returns the properties written so far.
func (es *State) Lines() []string { return es.lines }

// Options control Plan.
type Options struct {
	Verbose   bool
	TypeNames TypeNamer
}

// Plan renders stmt. Custom scans are initialized in explain-only mode so
// their providers can add properties, and ended before Plan returns.
func Plan(stmt *nodes.PlannedStmt, opts Options) (string, error) {
	if stmt == nil || stmt.PlanTree == nil {
		return "", fmt.Errorf("nothing to explain")
	}
	d := deparser{typeNames: opts.TypeNames, rangeTable: stmt.RangeTable}
	es := NewState(opts.Verbose)

	plan := stmt.PlanTree.BasePlan()
	header := Header{
		StartupCost:                  float64(plan.StartupCost),
		TotalCost:                    float64(plan.TotalCost),
		EstimatedRows:                int64(plan.PlanRows),
		EstimatedAverageWidthInBytes: plan.PlanWidth,
	}

	var scanRelID nodes.Index
	switch node := stmt.PlanTree.(type) {
	case *nodes.SeqScan:
		header.Operation = "Seq Scan"
		scanRelID = node.ScanRelID
	case *nodes.CustomScan:
		header.Operation = "Custom Scan"
		if node.Methods != nil {
			header.Operation += " (" + node.Methods.CustomName + ")"
		}
		scanRelID = node.ScanRelID
	default:
		return "", fmt.Errorf("cannot explain %s", stmt.PlanTree.Tag())
	}
	header.TableName = d.relationName(scanRelID)

	if opts.Verbose && len(plan.TargetList) > 0 {
		outputs := make([]string, 0, len(plan.TargetList))
		for _, tle := range plan.TargetList {
			outputs = append(outputs, d.expr(tle.Expr))
		}
		es.PropertyText("Output", strings.Join(outputs, ", "))
	}
	if len(plan.Qual) > 0 {
		es.PropertyText("Filter", d.qual(plan.Qual))
	}

	if cscan, ok := stmt.PlanTree.(*nodes.CustomScan); ok {
		if err := explainCustomScan(cscan, stmt.RangeTable, es); err != nil {
			return "", err
		}
	}

	var sb strings.Builder
	sb.WriteString(header.String())
	sb.WriteString("\n")
	for _, line := range es.Lines() {
		sb.WriteString("  ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func explainCustomScan(cscan *nodes.CustomScan, rangeTable []*nodes.RangeTblEntry, es *State) error {
	estate := &nodes.EState{Direction: nodes.NoMovementScanDirection, RangeTable: rangeTable}
	node, err := executor.ExecInitCustomScan(cscan, estate, nodes.ExecFlagExplainOnly)
	if err != nil {
		return err
	}
	defer executor.ExecEndCustomScan(node)

	if explainFn := node.Base().Methods.ExplainCustomScan; explainFn != nil {
		explainFn(node, nil, es)
	}
	return nil
}
