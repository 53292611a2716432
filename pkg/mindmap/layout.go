package mindmap

import "math"

// Arrange positions every node from its rank and returns the canvas size.
//
// Rank r is the column at x = r*RankGap. Within a column nodes keep graph
// order and are spaced by the tallest card in the graph plus RowSpacing,
// centered around y = 0. The content is then translated so its bounding box
// sits in the middle of the canvas. The canvas is the viewport, grown on
// either axis where the content plus ContentMargin on each side does not
// fit. An empty graph returns viewport unchanged.
func Arrange(g *Graph, viewport Size) Size {
	if len(g.Nodes) == 0 {
		return viewport
	}

	tallest := MinNodeHeight
	maxRank := 0
	for _, n := range g.Nodes {
		tallest = max(tallest, n.Height)
		maxRank = max(maxRank, n.Rank)
	}
	gap := tallest + RowSpacing

	columns := make([][]int, maxRank+1)
	for i, n := range g.Nodes {
		columns[n.Rank] = append(columns[n.Rank], i)
	}
	for rank, members := range columns {
		startY := -float64(len(members))*gap/2 + gap/2
		for j, i := range members {
			g.Nodes[i].X = float64(rank) * RankGap
			g.Nodes[i].Y = startY + float64(j)*gap
		}
	}

	box := contentBounds(g.Nodes)
	canvas := Size{
		Width:  math.Max(viewport.Width, box.Width+2*ContentMargin),
		Height: math.Max(viewport.Height, box.Height+2*ContentMargin),
	}

	dx := (canvas.Width-box.Width)/2 - box.X
	dy := (canvas.Height-box.Height)/2 - box.Y
	for i := range g.Nodes {
		g.Nodes[i].X += dx
		g.Nodes[i].Y += dy
	}
	return canvas
}

// contentBounds returns the smallest rectangle holding every card.
func contentBounds(nodes []Node) Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		b := n.Bounds()
		minX = math.Min(minX, b.X)
		minY = math.Min(minY, b.Y)
		maxX = math.Max(maxX, b.Right())
		maxY = math.Max(maxY, b.Bottom())
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
