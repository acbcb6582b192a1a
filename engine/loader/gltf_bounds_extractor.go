package loader

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-frontier/engine/collision"
	"github.com/go-gl/mathgl/mgl32"
)

var errNoGeometry = errors.New("document has no mesh geometry")

// maxNodeDepth bounds the node walk so cyclic hierarchies fail instead of recursing forever.
const maxNodeDepth = 64

type gltfBoundsExtractorImpl struct {
	parser gltfParser
}

// gltfBoundsExtractor computes world-space bounds of every mesh instance in a parsed document.
type gltfBoundsExtractor interface {
	// Extract walks the default scene and returns one box per mesh node, in document order.
	//
	// Returns:
	//   - *MeshInfo: the bounds and counts, Name unset
	//   - error: if an accessor is malformed or there is no geometry
	Extract() (*MeshInfo, error)
}

var _ gltfBoundsExtractor = &gltfBoundsExtractorImpl{}

func newGLTFBoundsExtractor(parser gltfParser) gltfBoundsExtractor {
	return &gltfBoundsExtractorImpl{parser: parser}
}

func (e *gltfBoundsExtractorImpl) Extract() (*MeshInfo, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errors.New("no document after parsing")
	}

	info := &MeshInfo{}
	meshBoxes := make(map[int]collision.AABB, len(doc.Meshes))
	meshBox := func(i int) (collision.AABB, error) {
		if b, ok := meshBoxes[i]; ok {
			return b, nil
		}
		b, err := e.meshBounds(i, info)
		if err != nil {
			return collision.AABB{}, err
		}
		meshBoxes[i] = b
		return b, nil
	}

	var visit func(n int, parent mgl32.Mat4, depth int) error
	visit = func(n int, parent mgl32.Mat4, depth int) error {
		if n < 0 || n >= len(doc.Nodes) {
			return fmt.Errorf("node index %d out of range", n)
		}
		if depth > maxNodeDepth {
			return fmt.Errorf("node %d: hierarchy deeper than %d", n, maxNodeDepth)
		}
		node := &doc.Nodes[n]
		world := parent.Mul4(nodeMatrix(node))
		if node.Mesh != nil {
			b, err := meshBox(*node.Mesh)
			if err != nil {
				return err
			}
			info.Colliders.Boxes = append(info.Colliders.Boxes, transformAABB(b, world))
		}
		for _, c := range node.Children {
			if err := visit(c, world, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range sceneRoots(doc) {
		if err := visit(root, mgl32.Ident4(), 0); err != nil {
			return nil, err
		}
	}

	// Documents without a node hierarchy still carry meshes.
	if len(info.Colliders.Boxes) == 0 {
		for i := range doc.Meshes {
			b, err := meshBox(i)
			if err != nil {
				return nil, err
			}
			info.Colliders.Boxes = append(info.Colliders.Boxes, b)
		}
	}
	if len(info.Colliders.Boxes) == 0 {
		return nil, errNoGeometry
	}

	bounds, _ := info.Colliders.Bounds()
	info.Bounds = bounds
	info.Sphere = bounds.BoundingSphere()
	return info, nil
}

// meshBounds unions the POSITION bounds of every primitive of mesh i and adds its counts to info.
func (e *gltfBoundsExtractorImpl) meshBounds(i int, info *MeshInfo) (collision.AABB, error) {
	doc := e.parser.Document()
	if i < 0 || i >= len(doc.Meshes) {
		return collision.AABB{}, fmt.Errorf("mesh index %d out of range", i)
	}
	mesh := &doc.Meshes[i]

	var out collision.AABB
	found := false
	for pi := range mesh.Primitives {
		prim := &mesh.Primitives[pi]
		posIdx, ok := prim.Attributes["POSITION"]
		if !ok {
			continue
		}
		b, count, err := e.positionBounds(posIdx)
		if err != nil {
			return collision.AABB{}, fmt.Errorf("mesh %q primitive %d: %w", mesh.Name, pi, err)
		}
		if count == 0 {
			continue
		}
		info.Vertices += count
		if prim.Mode == nil || *prim.Mode == gltfPrimitiveModeTriangles {
			if prim.Indices != nil && *prim.Indices >= 0 && *prim.Indices < len(doc.Accessors) {
				info.Triangles += doc.Accessors[*prim.Indices].Count / 3
			} else {
				info.Triangles += count / 3
			}
		}
		if !found {
			out, found = b, true
		} else {
			out = out.Union(b)
		}
	}
	if !found {
		return collision.AABB{}, fmt.Errorf("mesh %q: %w", mesh.Name, errNoGeometry)
	}
	return out, nil
}

// positionBounds prefers the accessor's declared min/max, which glTF requires for POSITION,
// and falls back to scanning the data.
func (e *gltfBoundsExtractorImpl) positionBounds(accessorIndex int) (collision.AABB, int, error) {
	doc := e.parser.Document()
	if accessorIndex < 0 || accessorIndex >= len(doc.Accessors) {
		return collision.AABB{}, 0, fmt.Errorf("accessor index %d out of range", accessorIndex)
	}
	acc := &doc.Accessors[accessorIndex]
	if len(acc.Min) == 3 && len(acc.Max) == 3 {
		return collision.NewAABB(
			mgl32.Vec3{acc.Min[0], acc.Min[1], acc.Min[2]},
			mgl32.Vec3{acc.Max[0], acc.Max[1], acc.Max[2]},
		), acc.Count, nil
	}

	positions, err := e.parser.ReadVec3Accessor(accessorIndex)
	if err != nil {
		return collision.AABB{}, 0, err
	}
	if len(positions) == 0 {
		return collision.AABB{}, 0, nil
	}
	lo, hi := mgl32.Vec3(positions[0]), mgl32.Vec3(positions[0])
	for _, p := range positions[1:] {
		for c := 0; c < 3; c++ {
			lo[c] = min(lo[c], p[c])
			hi[c] = max(hi[c], p[c])
		}
	}
	return collision.AABB{Min: lo, Max: hi}, len(positions), nil
}

// sceneRoots returns the root nodes of the default scene, or every parentless node when the
// document declares no scenes.
func sceneRoots(doc *gltfDocument) []int {
	if len(doc.Scenes) > 0 {
		s := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			s = *doc.Scene
		}
		return doc.Scenes[s].Nodes
	}
	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i, child := range isChild {
		if !child {
			roots = append(roots, i)
		}
	}
	return roots
}

// nodeMatrix returns the node's local transform, T * R * S or its explicit matrix.
func nodeMatrix(n *gltfNode) mgl32.Mat4 {
	if n.Matrix != nil {
		return mgl32.Mat4(*n.Matrix)
	}
	m := mgl32.Ident4()
	if n.Translation != nil {
		t := n.Translation
		m = m.Mul4(mgl32.Translate3D(t[0], t[1], t[2]))
	}
	if n.Rotation != nil {
		r := n.Rotation
		q := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
		m = m.Mul4(q.Normalize().Mat4())
	}
	if n.Scale != nil {
		s := n.Scale
		m = m.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	}
	return m
}

// transformAABB returns the axis-aligned box enclosing b's corners under m.
func transformAABB(b collision.AABB, m mgl32.Mat4) collision.AABB {
	corners := b.Corners()
	p := mgl32.TransformCoordinate(corners[0], m)
	out := collision.AABB{Min: p, Max: p}
	for _, c := range corners[1:] {
		p = mgl32.TransformCoordinate(c, m)
		out = out.Union(collision.AABB{Min: p, Max: p})
	}
	return out
}
