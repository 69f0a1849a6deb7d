package soft

// compiledGraph is the processing plan of one render: the acyclic nodes in
// topological order and the set of nodes that sit on a cycle.
type compiledGraph struct {
	Order  []*node
	Cyclic map[*node]bool
}

// compile must be called with c.mu held. Nodes on a cycle are excluded from
// the order and render silence; the remaining graph is sorted with Kahn's
// algorithm.
func (c *Context) compile() compiledGraph {
	cyclic := findCycles(c.nodes)

	indegree := make(map[*node]int, len(c.nodes))
	outgoing := make(map[*node][]*node, len(c.nodes))

	for _, n := range c.nodes {
		if cyclic[n] {
			continue
		}

		for _, e := range n.incoming {
			if cyclic[e.from] {
				continue
			}

			outgoing[e.from] = append(outgoing[e.from], n)
			indegree[n]++
		}
	}

	queue := make([]*node, 0, len(c.nodes))

	for _, n := range c.nodes {
		if !cyclic[n] && indegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]*node, 0, len(queue))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		order = append(order, n)
		for _, to := range outgoing[n] {
			indegree[to]--
			if indegree[to] == 0 {
				queue = append(queue, to)
			}
		}
	}

	return compiledGraph{Order: order, Cyclic: cyclic}
}

// findCycles returns the nodes belonging to a strongly connected component
// with more than one node or with a self-loop (Tarjan's algorithm).
func findCycles(nodes []*node) map[*node]bool {
	var (
		index   = 0
		indices = make(map[*node]int, len(nodes))
		lowlink = make(map[*node]int, len(nodes))
		onStack = make(map[*node]bool, len(nodes))
		stack   []*node
		cyclic  = make(map[*node]bool)
	)

	var strongConnect func(v *node)
	strongConnect = func(v *node) {
		indices[v] = index
		lowlink[v] = index
		index++

		stack = append(stack, v)
		onStack[v] = true

		// Edges point from e.from to v; walk them backwards, which yields
		// the same components.
		for _, e := range v.incoming {
			w := e.from
			if _, seen := indices[w]; !seen {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] != indices[v] {
			return
		}

		var component []*node

		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false

			component = append(component, w)
			if w == v {
				break
			}
		}

		if len(component) > 1 || hasSelfLoop(v) {
			for _, w := range component {
				cyclic[w] = true
			}
		}
	}

	for _, n := range nodes {
		if _, seen := indices[n]; !seen {
			strongConnect(n)
		}
	}

	return cyclic
}

func hasSelfLoop(n *node) bool {
	for _, e := range n.incoming {
		if e.from == n {
			return true
		}
	}

	return false
}

// render processes every node once over the full length and returns the
// destination's mixed input. Must be called with c.mu held.
func (c *Context) render() [][]float64 {
	g := c.compile()

	outputs := make(map[*node][][]float64, len(g.Order))

	for _, n := range g.Order {
		var in [][]float64
		if n.inputs > 0 {
			in = c.mixInputs(n, outputs)
		}

		outputs[n] = n.proc.process(c, in)
	}

	if out, ok := outputs[c.destination.base()]; ok {
		return out
	}

	return silence(c.numberOfChannels, c.length)
}
