// Package render encodes mindmap scenes into files.
//
// [Artifact] renders one format at a time:
//
//   - png: raster canvas ([raster]), no external tools needed
//   - svg: vector canvas ([vector])
//   - pdf: the svg output converted with rsvg-convert ([ToPDF])
//   - dot: Graphviz source of the ranked graph ([nodelink])
//   - graphviz: that source laid out by Graphviz as SVG
//
// Each call builds its own canvas and scene, so formats can be rendered
// concurrently from the same input.
//
//	res, err := render.Artifact(ctx, render.FormatPNG, mindmap.Input{
//	    Data:     data,
//	    Filter:   filter,
//	    Viewport: mindmap.Size{Width: 1200, Height: 800},
//	}, render.Options{Scale: 2})
//
// PDF conversion requires librsvg: brew install librsvg (macOS),
// apt install librsvg2-bin (Linux).
package render
