package loader

import (
	"fmt"
	"io"
)

type gltfLoaderBackendImpl struct{}

// gltfLoaderBackend is a loaderBackend for glTF and GLB files.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

func newGLTFLoaderBackend() gltfLoaderBackend {
	return &gltfLoaderBackendImpl{}
}

func (b *gltfLoaderBackendImpl) Load(path string) (*MeshInfo, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return newGLTFBoundsExtractor(parser).Extract()
}

func (b *gltfLoaderBackendImpl) LoadReader(r io.Reader, isGLB bool, baseDir string) (*MeshInfo, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, isGLB, baseDir); err != nil {
		return nil, fmt.Errorf("failed to parse from reader: %w", err)
	}
	return newGLTFBoundsExtractor(parser).Extract()
}
