// Package pkg provides the libraries behind entitymap, a knowledge base of
// user-defined entity types drawn as a left-to-right mindmap.
//
// # Overview
//
// Users declare types (a name plus typed attributes) and create entities of
// those types. Link attributes point from one entity to another; the mindmap
// draws every entity as a card and every link as an arrow, ranked so that
// arrows flow left to right.
//
// # Architecture
//
//	Store (file, sqlite, mongo)
//	         ↓
//	    [model] document (types + entities)
//	         ↓
//	    [mindmap] build → rank → layout → draw, plus click handling
//	         ↓
//	    [render] PNG / SVG / PDF / DOT output, cached by [cache]
//
// # Quick Start
//
//	data, _ := st.Load(ctx)
//	res, _ := render.Artifact(ctx, render.FormatSVG, mindmap.Input{
//	    Data:     data,
//	    Filter:   mindmap.NewFilter("t1"),
//	    Viewport: mindmap.Size{Width: 1200, Height: 800},
//	}, render.Options{})
//	os.WriteFile("mindmap.svg", res.Data, 0o644)
//
// # Main Packages
//
// ## Domain
//
// [model] - Types, attributes, entities and the document that holds them.
// Attribute kinds, value validation and display formatting live here.
//
// [mindmap] - The graph engine: [mindmap.Build] turns a filtered document
// into nodes and edges, ranks assign columns, the layout engine fits the
// columns into the viewport, draw paints cards onto a canvas, and the
// controller resolves clicks on the result.
//
// [render] - Encodes scenes as files. [render/raster] paints PNGs with gg,
// [render/vector] writes SVG, and [render/nodelink] emits DOT that Graphviz
// can lay out.
//
// ## Infrastructure
//
// [store] - Persistence behind one interface with file, SQLite and MongoDB
// backends.
//
// [cache] - Rendered-artifact cache with file, Redis and null backends.
//
// [httputil] - Retry with exponential backoff for transient HTTP failures.
//
// [server] - The HTTP API. [client] talks to it.
//
// [viewstate] - Per-store saved filter.
//
// [config] - TOML configuration with environment overrides.
//
// [observability] - Hooks for layout, render, store, cache and HTTP events,
// with a Prometheus implementation.
//
// [errors] - Coded errors mapped to HTTP statuses.
//
// # Testing
//
//	go test ./pkg/...                               # All tests
//	ENTITYMAP_TEST_MONGO_URI=mongodb://localhost go test ./pkg/store/...
package pkg
