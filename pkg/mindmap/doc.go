// Package mindmap lays out and draws entities as a left-to-right graph of
// cards connected by their link attributes, and resolves clicks on the
// result.
//
// # Pipeline
//
// A render runs four stages over a [Graph]:
//
//  1. [Build] creates one node per entity allowed by the [FilterState] and
//     one edge per link attribute whose target is also a node.
//  2. [AssignRanks] gives every node a column by breadth-first discovery
//     from the nodes nothing links to.
//  3. [Arrange] turns ranks into pixel positions, centers the content and
//     returns the canvas size needed to hold it.
//  4. [Draw] paints edges and then cards onto a [Canvas].
//
// [Render] runs all four and returns a [Scene] whose [Controller] maps
// pointer positions back to cards and their edit and delete buttons.
//
// # Coordinates
//
// Node X and Y are the card center. Canvas coordinates grow right and down,
// with the origin at the top-left corner. Text positions are baselines.
//
// # Canvases
//
// The package draws through the small [Canvas] interface. Raster and SVG
// implementations live in render/raster and render/vector.
package mindmap
