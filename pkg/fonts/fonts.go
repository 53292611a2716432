// Package fonts provides the embedded Go font family for raster rendering.
//
// The faces come from golang.org/x/image/font/gofont, so rendering needs no
// system fonts. Parsed fonts are shared. A face keeps glyph buffers, so each
// call to [Face] returns a new one that belongs to the caller.
package fonts

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// Style selects a font in the family.
type Style int

// Font styles.
const (
	Regular Style = iota
	Bold
	Italic
)

// FontFamily is the CSS font-family used by SVG output, listing the
// embedded family first so browsers that have it match raster output.
const FontFamily = `'Go', 'Segoe UI', Helvetica, Arial, sans-serif`

var (
	parseOnce sync.Once
	parsed    map[Style]*truetype.Font
	parseErr  error
)

func load() error {
	parseOnce.Do(func() {
		parsed = make(map[Style]*truetype.Font, 3)
		for style, data := range map[Style][]byte{
			Regular: goregular.TTF,
			Bold:    gobold.TTF,
			Italic:  goitalic.TTF,
		} {
			f, err := truetype.Parse(data)
			if err != nil {
				parseErr = fmt.Errorf("parse font %d: %w", style, err)
				return
			}
			parsed[style] = f
		}
	})
	return parseErr
}

// Font returns the parsed font for style.
func Font(style Style) (*truetype.Font, error) {
	if err := load(); err != nil {
		return nil, err
	}
	f, ok := parsed[style]
	if !ok {
		f = parsed[Regular]
	}
	return f, nil
}

// Face returns a new face for style at size points (72 DPI, so points equal
// pixels). Faces are not safe for concurrent use.
func Face(style Style, size float64) (font.Face, error) {
	ttf, err := Font(style)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(ttf, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
}

// HasGlyph reports whether the font for style can draw r.
func HasGlyph(style Style, r rune) bool {
	f, err := Font(style)
	if err != nil {
		return false
	}
	return f.Index(r) != 0
}
