package text

import (
	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// HAlign anchors text horizontally around its reference point.
type HAlign uint8

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

// VAlign anchors text vertically around its reference point.
type VAlign uint8

const (
	AlignTop VAlign = iota
	AlignMiddle
	AlignBottom
)

// GlyphQuad is one positioned glyph image.
type GlyphQuad struct {
	TopLeft mgl32.Vec2
	Size    mgl32.Vec2
	Layer   uint32
}

// Layout is the result of positioning a string around a reference point.
type Layout struct {
	// Quads holds one quad per visible glyph. Spaces and newlines produce none.
	Quads []GlyphQuad
	// Bounds is the rectangle covered by all lines.
	Bounds common.Quad
	// LineBaseX holds the x coordinate where each line starts.
	LineBaseX []float32
	// Top is the y coordinate of the first line.
	Top float32
	// Lines holds the measured size of each line.
	Lines []mgl32.Vec2
}

// advance returns the pen advance of text[i], including kerning with the following character on the same line.
func advance(f Font, text string, i int) float32 {
	g := f.Glyph(text[i])
	a := g.Advance
	if i+1 < len(text) {
		if next := text[i+1]; next != '\n' && next < 128 {
			a += g.Kerning[next]
		}
	}
	return float32(a)
}

// Measure returns the size of each line of text. Width is the sum of advances and kerning;
// height is the font height.
//
// Parameters:
//   - f: the font
//   - text: the text, lines separated by '\n'
//
// Returns:
//   - []mgl32.Vec2: one entry per line
func Measure(f Font, text string) []mgl32.Vec2 {
	h := float32(f.Height())
	lines := []mgl32.Vec2{{0, h}}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, mgl32.Vec2{0, h})
			continue
		}
		lines[len(lines)-1][0] += advance(f, text, i)
	}
	return lines
}

// TextHeight returns the height of n lines: font height plus (n-1) baseline distances.
func TextHeight(f Font, n int) float32 {
	return float32(f.Height()) + float32(n-1)*float32(f.BaselineDistance())
}

// LayoutText positions text around a reference point. The reference point is fixed by the
// alignment, so growing text extends away from the anchored edge only.
// Panics on an alignment value outside the defined constants.
//
// Parameters:
//   - f: the font
//   - text: the text, lines separated by '\n'
//   - ref: the reference point
//   - h: horizontal alignment
//   - v: vertical alignment
//
// Returns:
//   - Layout: the glyph quads and line geometry
func LayoutText(f Font, text string, ref mgl32.Vec2, h HAlign, v VAlign) Layout {
	lines := Measure(f, text)
	height := TextHeight(f, len(lines))

	var top float32
	switch v {
	case AlignTop:
		top = ref.Y()
	case AlignMiddle:
		top = ref.Y() - height/2
	case AlignBottom:
		top = ref.Y() - height
	default:
		panic("text: invalid vertical alignment")
	}

	out := Layout{
		Quads:     make([]GlyphQuad, 0, len(text)),
		LineBaseX: make([]float32, len(lines)),
		Top:       top,
		Lines:     lines,
	}
	minX, maxW := float32(math32.MaxFloat32), float32(0)
	for i, l := range lines {
		switch h {
		case AlignLeft:
			out.LineBaseX[i] = ref.X()
		case AlignCenter:
			out.LineBaseX[i] = ref.X() - l.X()/2
		case AlignRight:
			out.LineBaseX[i] = ref.X() - l.X()
		default:
			panic("text: invalid horizontal alignment")
		}
		minX = min(minX, out.LineBaseX[i])
		maxW = max(maxW, l.X())
	}
	out.Bounds = common.Quad{X: minX, Y: top, W: maxW, H: height}

	size := mgl32.Vec2{float32(f.TexWidth()), float32(f.TexHeight())}
	line := 0
	x, y := out.LineBaseX[0], top
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\n' {
			line++
			x = out.LineBaseX[line]
			y += float32(f.BaselineDistance())
			continue
		}
		if c != ' ' {
			g := f.Glyph(c)
			out.Quads = append(out.Quads, GlyphQuad{
				TopLeft: mgl32.Vec2{math32.Trunc(x + float32(g.BearingX)), math32.Trunc(y + float32(g.Descent))},
				Size:    size,
				Layer:   g.Layer,
			})
		}
		x += advance(f, text, i)
	}
	return out
}

// LineOf returns the index of the line containing byte offset pos and the offset where that line starts.
func LineOf(text string, pos int) (line, start int) {
	for i := 0; i < pos && i < len(text); i++ {
		if text[i] == '\n' {
			line++
			start = i + 1
		}
	}
	return line, start
}

// CursorX returns the x coordinate of the cursor at pos, given the start x of its line.
//
// Parameters:
//   - f: the font
//   - text: the full text
//   - lineBaseX: the x coordinate where the cursor's line starts
//   - pos: cursor position in [0, len(text)]
//
// Returns:
//   - float32: the cursor x coordinate
func CursorX(f Font, text string, lineBaseX float32, pos int) float32 {
	_, start := LineOf(text, pos)
	x := lineBaseX
	for i := start; i < pos; i++ {
		x += advance(f, text, i)
	}
	return x
}

// CursorWidth returns the width of the glyph under the cursor, or the width of 'W' at the end of a line.
func CursorWidth(f Font, text string, pos int) float32 {
	if pos >= len(text) || text[pos] == '\n' {
		return float32(f.Glyph('W').Advance)
	}
	return advance(f, text, pos)
}

// HitTest maps an x coordinate on a single line to a cursor position. It walks the glyph
// advances from baseX and returns the first glyph whose right edge lies past x; a point
// past the last glyph maps to len(line).
//
// Parameters:
//   - f: the font
//   - line: the text of one line
//   - baseX: the x coordinate where the line starts
//   - x: the x coordinate to resolve
//
// Returns:
//   - int: the cursor position
//   - bool: false when x lies left of the line start, in which case the cursor should not move
func HitTest(f Font, line string, baseX, x float32) (int, bool) {
	if x < math32.Trunc(baseX) {
		return 0, false
	}
	n := len(line)
	if n == 0 {
		return 0, true
	}
	bx := baseX
	for i := 1; i < n; i++ {
		bx += advance(f, line, i-1)
		if x < math32.Trunc(bx) {
			return i - 1, true
		}
	}
	if x < math32.Trunc(bx+float32(f.Glyph(line[n-1]).Advance)) {
		return n - 1, true
	}
	return n, true
}
