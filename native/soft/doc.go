// Package soft is a pure-Go native offline audio engine.
//
// A Context renders its whole graph in one pass: nodes are processed in
// topological order over the full render length, inputs are summed and up-
// or down-mixed to each node's computed channel count, and nodes on a cycle
// produce silence. Passing [WithoutIIRFilter] yields a context without the
// IIR capability, the way some browser engines ship.
package soft
