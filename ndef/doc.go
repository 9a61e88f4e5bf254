// Package ndef defines the neutral value model every formatter reads and writes,
// together with the formatter and type binder contracts.
//
// # Values
//
// A Value is a tagged node with exactly one of four kinds:
//
//   - Undefined: the slot is absent from the wire representation
//   - Null
//   - Scalar: a textual payload, a HasNoLineFeeds hint and, for polymorphic slots,
//     the actual serializable type name of the value
//   - Object: either a live instance handed to the writer or a pending node of a Graph
//     to materialise on read
//
// # Graphs
//
// Nodes being deserialized live in a Graph arena and are referenced by index, so cyclic
// and shared graphs never need owning back-pointers. Each node moves through
// Unresolved -> InstanceCreated -> Populated. The factory of a node is invoked at most
// once and every reference to the node observes the same instance.
//
// A Graph is resolved by a single goroutine. Independent graphs can be resolved in
// parallel.
package ndef
