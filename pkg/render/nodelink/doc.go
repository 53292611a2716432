// Package nodelink exports a laid-out mindmap graph as a Graphviz diagram.
//
// # Usage
//
//	dot := nodelink.ToDOT(&scene.Graph, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT source flows left to right (rankdir=LR) and pins nodes of equal
// rank into the same column, so Graphviz output resembles the native
// mindmap while still routing edges its own way. Saved DOT can be
// processed with external Graphviz tools.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
