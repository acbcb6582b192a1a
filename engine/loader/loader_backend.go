package loader

import (
	"io"
)

// loaderBackend reads one mesh file format.
type loaderBackend interface {
	// Load reads a mesh file.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *MeshInfo: the mesh bounds, Name unset
	//   - error: error if loading fails
	Load(path string) (*MeshInfo, error)

	// LoadReader reads a mesh from a stream.
	//
	// Parameters:
	//   - r: the stream
	//   - isGLB: true for binary containers
	//   - baseDir: directory for relative resource URIs
	//
	// Returns:
	//   - *MeshInfo: the mesh bounds, Name unset
	//   - error: error if loading fails
	LoadReader(r io.Reader, isGLB bool, baseDir string) (*MeshInfo, error)
}
