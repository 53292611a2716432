package mindmap

// AssignRanks sets Rank on every node and returns the largest rank.
//
// Ranks come from breadth-first discovery: nodes without incoming edges
// start at rank 0 and each undiscovered target of an edge gets its
// discoverer's rank plus one. A node keeps the rank it was first discovered
// at, which makes the result depend on node and edge order and lets it
// terminate on cycles. When the queue drains while nodes remain (cycles
// with no entry point, or components reachable only through a cycle), the
// first undiscovered node in node order is seeded at rank 0.
//
// Time complexity is O(V + E).
func AssignRanks(g *Graph) int {
	n := len(g.Nodes)
	if n == 0 {
		return 0
	}

	idx := g.index()
	inDegree := make([]int, n)
	adj := make([][]int, n)
	for _, e := range g.Edges {
		from, ok := idx[e.From]
		if !ok {
			continue
		}
		to, ok := idx[e.To]
		if !ok {
			continue
		}
		adj[from] = append(adj[from], to)
		inDegree[to]++
	}

	type item struct{ node, rank int }
	visited := make([]bool, n)
	queue := make([]item, 0, n)
	for i, d := range inDegree {
		if d == 0 {
			visited[i] = true
			queue = append(queue, item{i, 0})
		}
	}

	maxRank, next := 0, 0
	for {
		if len(queue) == 0 {
			for next < n && visited[next] {
				next++
			}
			if next == n {
				break
			}
			visited[next] = true
			queue = append(queue, item{next, 0})
		}

		curr := queue[0]
		queue = queue[1:]
		g.Nodes[curr.node].Rank = curr.rank
		maxRank = max(maxRank, curr.rank)

		for _, child := range adj[curr.node] {
			if !visited[child] {
				visited[child] = true
				queue = append(queue, item{child, curr.rank + 1})
			}
		}
	}
	return maxRank
}
