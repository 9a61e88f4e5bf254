package ndef

import (
	"fmt"
	"reflect"
)

// Graph is the arena of object nodes produced by one read. It is owned by that single
// deserialization pass and is not safe for concurrent use.
type Graph struct {
	nodes   []*Object
	pending worklist
}

func NewGraph() *Graph {
	return &Graph{}
}

// Add appends a node with the given header and returns its reference.
// Elements may be attached later with NodeRef.SetElements, which allows readers to
// create nodes before the nodes they point to.
func (g *Graph) Add(header ObjectHeader) NodeRef {
	g.nodes = append(g.nodes, &Object{Header: header})
	return NodeRef{graph: g, id: len(g.nodes) - 1}
}

func (g *Graph) Len() int { return len(g.nodes) }

// Node returns the node at id, nil when out of range.
func (g *Graph) Node(id int) *Object {
	if id < 0 || id >= len(g.nodes) {
		return nil
	}

	return g.nodes[id]
}

// Ref returns the reference of the node at id.
func (g *Graph) Ref(id int) NodeRef {
	return NodeRef{graph: g, id: id}
}

// Pending is the number of nodes whose instance exists but whose elements are not
// populated yet.
func (g *Graph) Pending() int { return g.pending.Len() }

// Populate fills the elements of every node instantiated so far, including nodes
// instantiated while populating. A failure leaves the graph partially populated;
// the caller discards it.
func (g *Graph) Populate() error {
	for {
		id, ok := g.pending.NextNeeds()
		if !ok {
			return nil
		}

		node := g.nodes[id]
		if node.state != InstanceCreated {
			g.pending.Done(id)
			continue
		}

		ti := node.Header.typeInfo
		if err := ti.Formatter.FromNdefElements(node.instance, node.Elements); err != nil {
			return fmt.Errorf("failed to populate node #%d (%s): %w", id, ti, err)
		}

		node.state = Populated
		g.pending.Done(id)
	}
}

// NodeRef is a plain index into a Graph. Back-references between nodes are NodeRefs,
// never owning pointers.
type NodeRef struct {
	graph *Graph
	id    int
}

func (r NodeRef) Valid() bool { return r.graph != nil && r.id >= 0 && r.id < len(r.graph.nodes) }
func (r NodeRef) ID() int { return r.id }
func (r NodeRef) Graph() *Graph { return r.graph }
func (r NodeRef) Object() *Object { return r.graph.nodes[r.id] }

// SetElements attaches the elements of the node and records their count in the header.
func (r NodeRef) SetElements(elements []Element) {
	node := r.Object()
	node.Elements = elements
	node.Header.Length = len(elements)
}

// Instance returns the instance shared by every reference to the node, invoking the
// factory of the resolved type on first use. ti is used when the header has no type
// information of its own yet. The node is queued for population right after its
// instance is created, so back-references met while populating see a stable instance.
func (r NodeRef) Instance(formal reflect.Type, ti *TypeInfo) (any, error) {
	node := r.Object()
	if node.state != Unresolved {
		return node.instance, nil
	}

	if node.Header.typeInfo == nil {
		node.Header.typeInfo = ti
	}

	if node.Header.typeInfo == nil {
		return nil, fmt.Errorf("%w: node #%d has no resolvable type", ErrInvalidValue, r.id)
	}

	instance, err := node.Header.typeInfo.Formatter.CreateObjectInstance(formal, &node.Header)
	if err != nil {
		return nil, err
	}

	if instance == nil {
		return nil, fmt.Errorf("%w: node #%d (%s) was created as nil", ErrInvalidValue, r.id, node.Header.typeInfo)
	}

	node.instance = instance
	node.state = InstanceCreated
	r.graph.pending.Needs(r.id)

	return instance, nil
}

// Clone returns an unresolved copy of the graph: same headers and elements, no
// instances, node references rebound to the copy.
func (g *Graph) Clone() *Graph {
	c := &Graph{nodes: make([]*Object, len(g.nodes))}
	for i, node := range g.nodes {
		elements := make([]Element, len(node.Elements))
		for j, el := range node.Elements {
			elements[j] = Element{Number: el.Number, Value: c.Rebind(el.Value)}
		}

		header := node.Header
		header.typeInfo = nil
		c.nodes[i] = &Object{Header: header, Elements: elements}
	}

	return c
}

// Rebind returns v with its node reference, if any, pointing into g.
func (g *Graph) Rebind(v Value) Value {
	if v.kind == ValueObject && v.node.graph != nil {
		v.node.graph = g
	}

	return v
}
