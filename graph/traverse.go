package graph

// Ancestors returns every node reachable by following edges backwards
// from id, nearest first. id itself is excluded.
func (g *Graph) Ancestors(id string) []string {
	return g.walk(id, g.pred)
}

// Descendants returns every node reachable from id, nearest first.
func (g *Graph) Descendants(id string) []string {
	return g.walk(id, g.succ)
}

func (g *Graph) walk(id string, adj map[string][]string) []string {
	if !g.HasNode(id) {
		return nil
	}
	visited := map[string]bool{id: true}
	queue := []string{id}
	var out []string
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if visited[next] {
				continue
			}
			visited[next] = true
			out = append(out, next)
			queue = append(queue, next)
		}
	}
	return out
}

// AllSimplePaths returns every path from source to target that visits no
// node twice. Each path starts with source and ends with target. A node
// has no path to itself.
func (g *Graph) AllSimplePaths(source, target string) [][]string {
	if source == target || !g.HasNode(source) || !g.HasNode(target) {
		return nil
	}
	var paths [][]string
	onPath := map[string]bool{source: true}
	path := []string{source}

	var dfs func(cur string)
	dfs = func(cur string) {
		for _, next := range g.succ[cur] {
			if onPath[next] {
				continue
			}
			if next == target {
				found := make([]string, len(path)+1)
				copy(found, path)
				found[len(path)] = target
				paths = append(paths, found)
				continue
			}
			onPath[next] = true
			path = append(path, next)
			dfs(next)
			path = path[:len(path)-1]
			delete(onPath, next)
		}
	}
	dfs(source)
	return paths
}

// Sources returns the nodes without parents in insertion order.
func (g *Graph) Sources() []string {
	var out []string
	for _, id := range g.order {
		if len(g.pred[id]) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// TopologicalSort orders nodes so that every parent precedes its children.
func (g *Graph) TopologicalSort() ([]string, error) {
	indegree := make(map[string]int, len(g.order))
	for _, id := range g.order {
		indegree[id] = len(g.pred[id])
	}
	queue := g.Sources()
	out := make([]string, 0, len(g.order))
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, cur)
		for _, next := range g.succ[cur] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if len(out) != len(g.order) {
		return out, ErrCycle
	}
	return out, nil
}

// Root returns preferred when it is in the graph, otherwise the first node
// of a topological order. It returns "" for an empty graph.
func (g *Graph) Root(preferred string) string {
	if g.HasNode(preferred) {
		return preferred
	}
	order, _ := g.TopologicalSort()
	if len(order) > 0 {
		return order[0]
	}
	if len(g.order) > 0 {
		return g.order[0]
	}
	return ""
}
