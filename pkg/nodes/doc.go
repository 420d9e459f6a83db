// Package nodes defines the node protocol exchanged between the planner,
// the executor and custom scan providers.
//
// Every structure handed across the provider boundary implements Node and
// carries an explicit NodeTag. The host dispatches solely on that tag, so a
// provider must set it before returning a node. Custom scan providers plug in
// through three method tables (CustomPathMethods, CustomScanMethods and
// CustomExecMethods), which are expected to be statically allocated and never
// mutated once the process has started.
//
// Provider scan states follow the "base record plus private fields" layout:
// a provider type embeds CustomScanState and exposes it through the
// CustomScanNode interface's Base accessor.
package nodes
