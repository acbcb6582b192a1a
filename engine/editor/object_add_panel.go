// Package editor holds the in-game editing tools shown with F2.
package editor

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-frontier/common"
	"github.com/Carmen-Shannon/oxy-frontier/engine/gui"
	"github.com/Carmen-Shannon/oxy-frontier/engine/input"
	"github.com/Carmen-Shannon/oxy-frontier/engine/loader"
	"github.com/Carmen-Shannon/oxy-frontier/engine/text"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultMeshDir   = "assets/meshes"
	DefaultPanelSize = 400
	Title            = "Pick mesh file"

	rowHeight      = 24
	padding        = 8
	selectBtnWidth = 80
)

var titleBarColor = common.Color{0.1, 0.1, 0.15, 1}

type item struct {
	path string
	id   gui.ChildID
}

type objectAddPanelImpl struct {
	gui.Panel

	font   text.Font
	loader loader.Loader
	add    func(mesh string) error

	meshDir  string
	maxItems int

	rect    common.Quad
	listTop float32
	input   gui.Label
	inputID gui.ChildID

	meshes   []string
	items    []item
	selected int
}

// ObjectAddPanel is the mesh picker: a filter input over the mesh directory listing, a Select
// button and one button per matching mesh. Picking a mesh hands its path to the add callback.
type ObjectAddPanel interface {
	gui.Panel

	// Refresh re-reads the mesh directory and rebuilds the list.
	Refresh()

	// Input returns the filter input.
	Input() gui.Label

	// Items returns the mesh paths currently listed, in display order.
	Items() []string

	// Selected returns the index of the selected item, or -1.
	Selected() int

	// Select marks the item at i as selected and gives it keyboard focus. Out-of-range indices
	// clear the selection.
	//
	// Parameters:
	//   - i: the item index
	Select(i int)

	// Submit hands the selected item, or the first item when none is selected, to the add
	// callback. With an empty list the typed name under the mesh directory is tried instead.
	// The input is cleared; a failing callback is logged and the panel stays open.
	//
	// Returns:
	//   - bool: true if a mesh was added
	Submit() bool
}

var _ ObjectAddPanel = &objectAddPanelImpl{}

// NewObjectAddPanel creates a mesh picker whose top-left corner is at pos.
//
// Parameters:
//   - f: the font
//   - l: the loader listing the mesh directory
//   - pos: the top-left corner in window pixels
//   - add: called with the chosen mesh path
//   - options: functional options to configure the panel
//
// Returns:
//   - ObjectAddPanel: the newly created panel
func NewObjectAddPanel(f text.Font, l loader.Loader, pos mgl32.Vec2, add func(mesh string) error, options ...ObjectAddPanelBuilderOption) ObjectAddPanel {
	if l == nil {
		panic("editor: NewObjectAddPanel requires a non-nil Loader")
	}
	if add == nil {
		panic("editor: NewObjectAddPanel requires a non-nil add callback")
	}
	p := &objectAddPanelImpl{
		font:     f,
		loader:   l,
		add:      add,
		meshDir:  DefaultMeshDir,
		selected: -1,
		rect:     common.Quad{X: pos.X(), Y: pos.Y(), W: DefaultPanelSize, H: DefaultPanelSize},
	}
	for _, option := range options {
		option(p)
	}
	p.Panel = gui.NewPanel(p.rect, gui.DefaultPanelColor)

	q := p.rect
	bh := float32(f.BaselineDistance()) + padding
	titleBar := common.Quad{X: q.X, Y: q.Y, W: q.W, H: bh}
	p.Children().AddChild(gui.NewLabel(f, Title, mgl32.Vec2{},
		gui.WithRect(titleBar),
		gui.WithAlignment(text.AlignCenter, text.AlignMiddle),
		gui.WithBackgroundColor(titleBarColor),
	))

	row := common.Quad{X: q.X + padding, Y: titleBar.Bottom() + padding, W: q.W - 3*padding - selectBtnWidth, H: bh}
	p.input = gui.NewLabel(f, "", mgl32.Vec2{},
		gui.WithRect(row),
		gui.WithAlignment(text.AlignLeft, text.AlignMiddle),
		gui.WithEditable(),
		gui.WithConfirmCallback(func(gui.Label) { p.Submit() }),
		gui.WithTextChangedCallback(func(gui.Label) { p.rebuild() }),
	)
	p.inputID = p.Children().AddChild(p.input)

	selectRect := common.Quad{X: row.Right() + padding, Y: row.Y, W: selectBtnWidth, H: bh}
	p.Children().AddChild(gui.NewButton(f, "Select", selectRect, func(gui.Button) { p.Submit() }))

	p.listTop = row.Bottom() + padding
	if p.maxItems <= 0 {
		p.maxItems = max(1, int((q.Bottom()-padding-p.listTop)/rowHeight))
	}

	p.SetIntercept(p.onKey)
	p.SetFocusCallback(func() { p.Children().SetKeyboardFocus(p.inputID) })
	p.Refresh()
	return p
}

func (p *objectAddPanelImpl) Input() gui.Label { return p.input }

func (p *objectAddPanelImpl) Selected() int { return p.selected }

func (p *objectAddPanelImpl) Items() []string {
	out := make([]string, len(p.items))
	for i, it := range p.items {
		out[i] = it.path
	}
	return out
}

func (p *objectAddPanelImpl) Refresh() {
	meshes, err := p.loader.ListMeshes(p.meshDir)
	if err != nil {
		slog.Error("failed to list meshes", "component", "editor", "dir", p.meshDir, "err", err)
		meshes = nil
	}
	p.meshes = meshes
	p.rebuild()
}

// rebuild replaces the item buttons with the meshes whose file name starts with the filter.
// It runs from inside the input's text-changed callback.
func (p *objectAddPanelImpl) rebuild() {
	c := p.Children()
	for _, it := range p.items {
		c.RemoveChild(it.id)
	}
	p.items = p.items[:0]
	p.selected = -1

	filter := p.input.Text()
	for _, m := range p.meshes {
		if len(p.items) == p.maxItems {
			break
		}
		if !strings.HasPrefix(filepath.Base(m), filter) {
			continue
		}
		i := len(p.items)
		q := common.Quad{X: p.rect.X + padding, Y: p.listTop + float32(i)*rowHeight, W: p.rect.W - 2*padding, H: rowHeight}
		btn := gui.NewButton(p.font, filepath.Base(m), q, func(gui.Button) { p.Select(i) })
		p.items = append(p.items, item{path: m, id: c.AddChild(btn)})
	}
}

func (p *objectAddPanelImpl) Select(i int) {
	if i < 0 || i >= len(p.items) {
		p.selected = -1
		return
	}
	p.selected = i
	p.Children().SetKeyboardFocus(p.items[i].id)
}

func (p *objectAddPanelImpl) Submit() bool {
	var mesh string
	switch {
	case p.selected >= 0 && p.selected < len(p.items):
		mesh = p.items[p.selected].path
	case len(p.items) > 0:
		mesh = p.items[0].path
	case p.input.Text() != "":
		mesh = filepath.Join(p.meshDir, p.input.Text())
	default:
		return false
	}
	p.input.SetText("")

	if err := p.add(mesh); err != nil {
		slog.Error("failed to add object", "component", "editor", "mesh", mesh, "err", err)
		return false
	}
	return true
}

func (p *objectAddPanelImpl) onKey(ev input.Event, _ *input.InputState) bool {
	n := len(p.items)
	switch ev.Key {
	case input.KeyDown:
		if n == 0 {
			return true
		}
		p.Select((p.selected + 1) % n)
		return true
	case input.KeyUp:
		if n == 0 {
			return true
		}
		if p.selected <= 0 {
			p.Select(n - 1)
		} else {
			p.Select(p.selected - 1)
		}
		return true
	case input.KeyEscape:
		p.selected = -1
		p.Children().SetKeyboardFocus(p.inputID)
		return true
	case input.KeyEnter:
		if p.Children().KeyboardFocus() == p.inputID {
			return false
		}
		p.Submit()
		return true
	}
	return false
}
