// Package planner is a single-relation query planner exposing the path
// generation hook custom scan providers attach to.
//
// Planning a query builds the base relation, adds the default sequential
// scan path, hands the relation to the SetRelPathlist hook so providers may
// add their own paths, picks the cheapest path and turns it into a plan.
package planner
