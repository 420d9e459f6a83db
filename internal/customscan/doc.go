// Package customscan is a custom scan provider that offers the planner a
// push-down access path whenever a relation is restricted by the ==>
// operator over a zdbquery value.
//
// The provider plugs into the host through three static method tables:
// PathMethods for the proposed path, ScanMethods for the compiled plan and
// ExecMethods for the scan state. Extension.Install chains the provider's
// path generation hook in front of the planner.
package customscan
