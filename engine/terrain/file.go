package terrain

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrCorrupt is returned when a terrain file's counts do not match its header.
var ErrCorrupt = errors.New("terrain: corrupt file")

// maxFileResolution bounds the header values accepted by Load so a corrupt header cannot
// request an enormous allocation.
const maxFileResolution = 4096

type fileHeader struct {
	Size       float32
	PatchCount uint32
	Res        uint32
}

func (t *terrainImpl) Save(w io.Writer) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	hdr := fileHeader{Size: t.size, PatchCount: uint32(t.patchCount), Res: uint32(t.res)}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("terrain: failed to write header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(t.boundingYs))); err != nil {
		return fmt.Errorf("terrain: failed to write bounds count: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, t.boundingYs); err != nil {
		return fmt.Errorf("terrain: failed to write bounds: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(t.heights))); err != nil {
		return fmt.Errorf("terrain: failed to write height count: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, t.heights); err != nil {
		return fmt.Errorf("terrain: failed to write heights: %w", err)
	}
	return nil
}

// Load reads a terrain written by Save. Counts are validated against the header.
//
// Parameters:
//   - r: the source
//
// Returns:
//   - Terrain: the loaded terrain
//   - error: wrapping ErrCorrupt on inconsistent counts, or the read error
func Load(r io.Reader) (Terrain, error) {
	var hdr fileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("terrain: failed to read header: %w", err)
	}
	if hdr.Size <= 0 || hdr.PatchCount == 0 || hdr.Res == 0 || hdr.PatchCount > maxFileResolution || hdr.Res > maxFileResolution {
		return nil, fmt.Errorf("%w: header size=%v patches=%d res=%d", ErrCorrupt, hdr.Size, hdr.PatchCount, hdr.Res)
	}
	t := newTerrain(hdr.Size, int(hdr.PatchCount), int(hdr.Res))

	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("terrain: failed to read bounds count: %w", err)
	}
	if n != uint64(len(t.boundingYs)) {
		return nil, fmt.Errorf("%w: %d bounds for %d patches", ErrCorrupt, n, len(t.boundingYs))
	}
	bounds := make([]mgl32.Vec2, n)
	if err := binary.Read(r, binary.LittleEndian, bounds); err != nil {
		return nil, fmt.Errorf("terrain: failed to read bounds: %w", err)
	}

	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("terrain: failed to read height count: %w", err)
	}
	if n != uint64(len(t.heights)) {
		return nil, fmt.Errorf("%w: %d heights, want %d", ErrCorrupt, n, len(t.heights))
	}
	if err := binary.Read(r, binary.LittleEndian, t.heights); err != nil {
		return nil, fmt.Errorf("terrain: failed to read heights: %w", err)
	}
	t.boundingYs = bounds
	return t, nil
}

// SaveFile writes t to path.
func SaveFile(t Terrain, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("terrain: failed to create %s: %w", path, err)
	}
	if err := t.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads a terrain from path.
func LoadFile(path string) (Terrain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("terrain: failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}
