package nodes

import "strings"

// ExtensibleNode is embedded by provider-private nodes stored in the
// CustomPrivate lists of paths and plans.
type ExtensibleNode struct {
	ExtNodeName string
}

func (*ExtensibleNode) Tag() NodeTag { return TagExtensibleNode }

// ExtensibleName returns the registered name of the node kind.
func (e *ExtensibleNode) ExtensibleName() string { return e.ExtNodeName }

// ExtensibleOuter is implemented by extensible nodes that want their private
// fields included in NodeToString output.
type ExtensibleOuter interface {
	Node
	ExtensibleName() string
	OutFields(sb *strings.Builder)
}
