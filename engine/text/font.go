package text

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

const (
	// FirstGlyph is the first character with a glyph in the table.
	FirstGlyph = 32
	// LastGlyph is the last character with a glyph in the table.
	LastGlyph = 126
)

// Glyph holds the integer pixel metrics of one character.
type Glyph struct {
	// Advance is the horizontal pen advance.
	Advance int32
	// BearingX is the offset from the pen to the left edge of the glyph image.
	BearingX int32
	// Descent is the offset from the top of the line to the top of the glyph image.
	Descent int32
	// Layer is the glyph's layer in the font texture array.
	Layer uint32
	// Kerning holds the extra advance applied when the indexed character follows this one.
	Kerning [128]int32
}

// Font provides glyph metrics for the printable ASCII range.
type Font interface {
	// Glyph returns the metrics for c. Characters without a glyph return a zero Glyph.
	//
	// Parameters:
	//   - c: the character
	//
	// Returns:
	//   - Glyph: the glyph metrics
	Glyph(c byte) Glyph

	// Height returns the line height in pixels.
	Height() int32

	// BaselineDistance returns the distance between consecutive baselines in pixels.
	BaselineDistance() int32

	// TexWidth returns the width of one glyph cell in the font texture.
	TexWidth() int32

	// TexHeight returns the height of one glyph cell in the font texture.
	TexHeight() int32
}

type faceFont struct {
	glyphs   [LastGlyph - FirstGlyph + 1]Glyph
	height   int32
	baseline int32
	texW     int32
	texH     int32
}

var _ Font = &faceFont{}

// NewFaceFont builds a glyph table from an x/image font face.
//
// Parameters:
//   - face: the source face
//
// Returns:
//   - Font: the glyph table
func NewFaceFont(face font.Face) Font {
	m := face.Metrics()
	ascent := int32(m.Ascent.Ceil())
	f := &faceFont{
		height:   ascent + int32(m.Descent.Ceil()),
		baseline: int32(m.Height.Ceil()),
	}
	for c := FirstGlyph; c <= LastGlyph; c++ {
		r := rune(c)
		g := &f.glyphs[c-FirstGlyph]
		g.Layer = uint32(c - FirstGlyph)
		if adv, ok := face.GlyphAdvance(r); ok {
			g.Advance = int32(adv.Round())
		}
		if b, _, ok := face.GlyphBounds(r); ok {
			g.BearingX = int32(b.Min.X.Floor())
			g.Descent = ascent + int32(b.Min.Y.Floor())
			f.texW = max(f.texW, int32(b.Max.X.Ceil()-b.Min.X.Floor()))
			f.texH = max(f.texH, int32(b.Max.Y.Ceil()-b.Min.Y.Floor()))
		}
		for next := FirstGlyph; next <= LastGlyph; next++ {
			g.Kerning[next] = int32(face.Kern(r, rune(next)).Round())
		}
	}
	return f
}

// NewBasicFont returns the built-in 7x13 bitmap font.
//
// Returns:
//   - Font: the glyph table
func NewBasicFont() Font {
	return NewFaceFont(basicfont.Face7x13)
}

// LoadFont parses a TrueType or OpenType file and builds a glyph table at the given pixel size.
//
// Parameters:
//   - path: font file path
//   - size: font size in pixels
//
// Returns:
//   - Font: the glyph table
//   - error: if the file cannot be read or parsed
func LoadFont(path string, size float64) (Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: failed to read font %s: %w", path, err)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font %s: %w", path, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("text: failed to create face for %s: %w", path, err)
	}
	defer face.Close()
	return NewFaceFont(face), nil
}

func (f *faceFont) Glyph(c byte) Glyph {
	if c < FirstGlyph || c > LastGlyph {
		return Glyph{}
	}
	return f.glyphs[c-FirstGlyph]
}

func (f *faceFont) Height() int32 { return f.height }

func (f *faceFont) BaselineDistance() int32 { return f.baseline }

func (f *faceFont) TexWidth() int32 { return f.texW }

func (f *faceFont) TexHeight() int32 { return f.texH }
