package text

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monoFont is a fixed-pitch font with 10px advances and one kerning pair ("AV" = -2).
type monoFont struct{}

func (monoFont) Glyph(c byte) Glyph {
	if c < FirstGlyph || c > LastGlyph {
		return Glyph{}
	}
	g := Glyph{Advance: 10, BearingX: 1, Descent: 2, Layer: uint32(c - FirstGlyph)}
	if c == 'A' {
		g.Kerning['V'] = -2
	}
	return g
}
func (monoFont) Height() int32           { return 16 }
func (monoFont) BaselineDistance() int32 { return 20 }
func (monoFont) TexWidth() int32         { return 12 }
func (monoFont) TexHeight() int32        { return 16 }

func TestMeasure(t *testing.T) {
	f := monoFont{}
	lines := Measure(f, "AVA\nab")
	require.Len(t, lines, 2)
	assert.Equal(t, mgl32.Vec2{28, 16}, lines[0])
	assert.Equal(t, mgl32.Vec2{20, 16}, lines[1])

	assert.Equal(t, []mgl32.Vec2{{0, 16}}, Measure(f, ""))
	assert.Equal(t, float32(56), TextHeight(f, 3))
}

func TestLayoutAlignment(t *testing.T) {
	f := monoFont{}
	ref := mgl32.Vec2{100, 50}
	tests := []struct {
		name  string
		h     HAlign
		v     VAlign
		baseX float32
		top   float32
	}{
		{"top left", AlignLeft, AlignTop, 100, 50},
		{"center middle", AlignCenter, AlignMiddle, 85, 42},
		{"bottom right", AlignRight, AlignBottom, 70, 34},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := LayoutText(f, "abc", ref, tt.h, tt.v)
			assert.Equal(t, tt.baseX, l.LineBaseX[0])
			assert.Equal(t, tt.top, l.Top)
			assert.Equal(t, float32(30), l.Bounds.W)
			assert.Equal(t, float32(16), l.Bounds.H)
			require.Len(t, l.Quads, 3)
			assert.Equal(t, mgl32.Vec2{tt.baseX + 1, tt.top + 2}, l.Quads[0].TopLeft)
			assert.Equal(t, mgl32.Vec2{12, 16}, l.Quads[0].Size)
		})
	}
}

func TestLayoutRightAlignedKeepsReferenceEdge(t *testing.T) {
	f := monoFont{}
	ref := mgl32.Vec2{200, 0}
	short := LayoutText(f, "ab", ref, AlignRight, AlignTop)
	long := LayoutText(f, "abcdef", ref, AlignRight, AlignTop)
	assert.Equal(t, short.Bounds.Right(), long.Bounds.Right())
}

func TestLayoutSkipsSpacesAndBreaksLines(t *testing.T) {
	f := monoFont{}
	l := LayoutText(f, "a b\nc", mgl32.Vec2{0, 0}, AlignLeft, AlignTop)
	require.Len(t, l.Quads, 3)
	assert.Equal(t, float32(21), l.Quads[1].TopLeft.X())
	assert.Equal(t, mgl32.Vec2{1, 22}, l.Quads[2].TopLeft)
	assert.Equal(t, float32(36), l.Bounds.H)
	assert.Equal(t, uint32('c'-FirstGlyph), l.Quads[2].Layer)
}

func TestLayoutPanicsOnInvalidAlignment(t *testing.T) {
	f := monoFont{}
	assert.Panics(t, func() { LayoutText(f, "x", mgl32.Vec2{}, HAlign(9), AlignTop) })
	assert.Panics(t, func() { LayoutText(f, "x", mgl32.Vec2{}, AlignLeft, VAlign(9)) })
}

func TestCursorX(t *testing.T) {
	f := monoFont{}
	assert.Equal(t, float32(0), CursorX(f, "AVA", 0, 0))
	assert.Equal(t, float32(8), CursorX(f, "AVA", 0, 1))
	assert.Equal(t, float32(28), CursorX(f, "AVA", 0, 3))
	assert.Equal(t, float32(15), CursorX(f, "ab\ncd", 5, 4))

	line, start := LineOf("ab\ncd", 4)
	assert.Equal(t, 1, line)
	assert.Equal(t, 3, start)

	assert.Equal(t, float32(10), CursorWidth(f, "ab", 2))
	assert.Equal(t, float32(8), CursorWidth(f, "AV", 0))
}

func TestHitTest(t *testing.T) {
	f := monoFont{}
	tests := []struct {
		x   float32
		pos int
		ok  bool
	}{
		{-1, 0, false},
		{0, 0, true},
		{9, 0, true},
		{10, 1, true},
		{25, 2, true},
		{29, 2, true},
		{30, 3, true},
		{500, 3, true},
	}
	for _, tt := range tests {
		pos, ok := HitTest(f, "abc", 0, tt.x)
		assert.Equal(t, tt.ok, ok, "x=%v", tt.x)
		if ok {
			assert.Equal(t, tt.pos, pos, "x=%v", tt.x)
		}
	}

	pos, ok := HitTest(f, "", 0, 40)
	assert.True(t, ok)
	assert.Equal(t, 0, pos)
}

func TestBasicFont(t *testing.T) {
	f := NewBasicFont()
	assert.Equal(t, int32(7), f.Glyph('A').Advance)
	assert.Equal(t, int32(13), f.Height())
	assert.Equal(t, int32(13), f.BaselineDistance())
	assert.Equal(t, Glyph{}, f.Glyph(200))
	assert.Equal(t, uint32(33), f.Glyph('A').Layer-f.Glyph(' ').Layer)
	assert.Positive(t, f.TexWidth())
}
