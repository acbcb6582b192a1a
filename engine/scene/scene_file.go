package scene

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-frontier/engine/game_object"
	"github.com/Carmen-Shannon/oxy-frontier/engine/light"
)

// maxFileRecords bounds the counts accepted from a scene file header.
const maxFileRecords = 1 << 20

var errTooManyRecords = errors.New("record count exceeds limit")

// Encode writes the scene file format: a u64 object count, the serializable objects, a u64
// light count and the fixed-size light records. All integers are little-endian.
//
// Parameters:
//   - w: the destination
//
// Returns:
//   - error: if writing fails
func (s *scene) Encode(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var objects []game_object.GameObject
	for _, obj := range s.objects {
		if obj.Serializable() {
			objects = append(objects, obj)
		}
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(objects))); err != nil {
		return fmt.Errorf("scene: failed to write object count: %w", err)
	}
	for _, obj := range objects {
		if err := obj.Serialize(w); err != nil {
			return fmt.Errorf("scene: failed to write object %d: %w", obj.ID(), err)
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(s.lights))); err != nil {
		return fmt.Errorf("scene: failed to write light count: %w", err)
	}
	for _, e := range s.lights {
		if _, err := e.light.WriteTo(w); err != nil {
			return fmt.Errorf("scene: %w", err)
		}
	}
	return nil
}

// Decode reads a scene written by Encode. On success the serializable objects and the point
// lights are replaced. Meshes are resolved through the loader when one is configured; an object
// whose mesh fails to load is kept without colliders.
//
// Parameters:
//   - r: the source
//
// Returns:
//   - error: if the stream is truncated or malformed, in which case the scene is unchanged
func (s *scene) Decode(r io.Reader) error {
	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("scene: failed to read object count: %w", err)
	}
	if count > maxFileRecords {
		return fmt.Errorf("scene: %d objects: %w", count, errTooManyRecords)
	}
	objects := make([]game_object.GameObject, 0, count)
	for i := uint64(0); i < count; i++ {
		obj, err := game_object.Deserialize(r)
		if err != nil {
			return fmt.Errorf("scene: failed to read object %d: %w", i, err)
		}
		objects = append(objects, obj)
	}

	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("scene: failed to read light count: %w", err)
	}
	if count > maxFileRecords {
		return fmt.Errorf("scene: %d lights: %w", count, errTooManyRecords)
	}
	lights := make([]light.PointLight, 0, count)
	for i := uint64(0); i < count; i++ {
		l, err := light.ReadPointLight(r)
		if err != nil {
			return fmt.Errorf("scene: failed to read light %d: %w", i, err)
		}
		lights = append(lights, l)
	}

	for _, obj := range objects {
		s.resolveColliders(obj)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.objects[:0]
	for _, obj := range s.objects {
		if !obj.Serializable() {
			kept = append(kept, obj)
		}
	}
	s.objects = kept
	for _, obj := range objects {
		s.addGameObject(obj)
	}

	for _, e := range s.lights {
		if s.r != nil && e.rid >= 0 {
			s.r.RemovePointLight(e.rid)
		}
	}
	s.lights = nil
	for _, l := range lights {
		s.addPointLight(l)
	}
	return nil
}

func (s *scene) resolveColliders(obj game_object.GameObject) {
	if s.loader == nil {
		return
	}
	info, err := s.loader.Load(obj.Mesh())
	if err != nil {
		slog.Warn("scene object mesh unavailable", "component", "scene", "mesh", obj.Mesh(), "err", err)
		return
	}
	obj.SetColliders(info.Colliders)
}

func (s *scene) Save(path string) error {
	if _, err := os.Stat(path); err == nil {
		if err := copyFile(path, path+".bak"); err != nil {
			return fmt.Errorf("scene: failed to back up %s: %w", path, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("scene: failed to create %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if err := s.Encode(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("scene: failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("scene: failed to close %s: %w", path, err)
	}
	slog.Info("scene saved", "component", "scene", "path", path)
	return nil
}

func (s *scene) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("scene: failed to open %s: %w", path, err)
	}
	defer f.Close()
	if err := s.Decode(bufio.NewReader(f)); err != nil {
		return fmt.Errorf("%w (%s)", err, path)
	}
	slog.Info("scene loaded", "component", "scene", "path", path)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
