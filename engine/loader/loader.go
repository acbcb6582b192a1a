package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-frontier/engine/collision"
)

// LoaderBackendType identifies the mesh file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// MeshInfo is what the simulation needs from a mesh asset: its object-space extent
// and one collision box per mesh instance.
type MeshInfo struct {
	Name      string
	Bounds    collision.AABB
	Sphere    collision.Sphere
	Colliders collision.Colliders
	Vertices  int
	Triangles int
}

type loader struct {
	mu sync.RWMutex

	root      string
	meshCache map[string]*MeshInfo
	backend   loaderBackend
}

// Loader defines the public-facing interface for loading and caching mesh assets.
// It abstracts the file format behind a backend and caches results by path.
type Loader interface {
	// Load reads a mesh file and caches the result. Cached paths return the cached info.
	// The backend is selected by extension (.gltf/.glb → glTF backend).
	//
	// Parameters:
	//   - path: the mesh path, relative to the asset root unless absolute
	//
	// Returns:
	//   - MeshInfo: the mesh bounds
	//   - error: error if the format is unsupported or the file is missing or corrupt
	Load(path string) (MeshInfo, error)

	// LoadReader reads a mesh from a stream and caches it under name.
	//
	// Parameters:
	//   - name: the cache key
	//   - r: the stream
	//   - isGLB: true if the stream is a GLB container
	//
	// Returns:
	//   - MeshInfo: the mesh bounds
	//   - error: error if the stream is corrupt
	LoadReader(name string, r io.Reader, isGLB bool) (MeshInfo, error)

	// Get retrieves a cached mesh.
	//
	// Parameters:
	//   - name: the cache key
	//
	// Returns:
	//   - MeshInfo: the cached info
	//   - bool: false if nothing is cached under name
	Get(name string) (MeshInfo, bool)

	// Meshes returns a copy of the cache.
	Meshes() map[string]MeshInfo

	// ListMeshes returns the supported mesh files directly inside dir, sorted by name.
	// Each entry is joined onto dir so it can be passed to Load.
	//
	// Parameters:
	//   - dir: directory relative to the asset root unless absolute
	//
	// Returns:
	//   - []string: mesh paths
	//   - error: if the directory cannot be read
	ListMeshes(dir string) ([]string, error)
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		meshCache: make(map[string]*MeshInfo),
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	default:
		panic(fmt.Sprintf("loader: unknown backend type %d", backendType))
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (MeshInfo, error) {
	if info, ok := l.Get(path); ok {
		return info, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return MeshInfo{}, err
	}

	info, err := backend.Load(l.resolve(path))
	if err != nil {
		return MeshInfo{}, fmt.Errorf("loader: failed to load %s: %w", path, err)
	}
	info.Name = path
	return l.store(path, info), nil
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) (MeshInfo, error) {
	if info, ok := l.Get(name); ok {
		return info, nil
	}

	info, err := l.backend.LoadReader(r, isGLB, l.root)
	if err != nil {
		return MeshInfo{}, fmt.Errorf("loader: failed to load from reader %q: %w", name, err)
	}
	info.Name = name
	return l.store(name, info), nil
}

func (l *loader) Get(name string) (MeshInfo, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	info, ok := l.meshCache[name]
	if !ok {
		return MeshInfo{}, false
	}
	return *info, true
}

func (l *loader) Meshes() map[string]MeshInfo {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]MeshInfo, len(l.meshCache))
	for k, v := range l.meshCache {
		result[k] = *v
	}
	return result
}

func (l *loader) ListMeshes(dir string) ([]string, error) {
	entries, err := os.ReadDir(l.resolve(dir))
	if err != nil {
		return nil, fmt.Errorf("loader: failed to list %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := l.resolveBackend(e.Name()); err == nil {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(out)
	return out, nil
}

// store caches info under key. A concurrent load of the same key keeps the first result.
func (l *loader) store(key string, info *MeshInfo) MeshInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.meshCache[key]; ok {
		return *existing
	}
	l.meshCache[key] = info
	return *info
}

func (l *loader) resolve(path string) string {
	if l.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.root, path)
}

// resolveBackend selects a loader backend based on the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("loader: unsupported mesh format %q", ext)
	}
}
