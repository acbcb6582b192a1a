package terrain

type builder struct {
	size       float32
	patchCount int
	res        int
	height     func(x, z float32) float32
}

type TerrainBuilderOption func(*builder)

// WithSize sets the edge length in world units.
func WithSize(size float32) TerrainBuilderOption {
	return func(b *builder) {
		if size > 0 {
			b.size = size
		}
	}
}

// WithPatchCount sets the number of patches along one edge.
func WithPatchCount(n int) TerrainBuilderOption {
	return func(b *builder) {
		if n > 0 {
			b.patchCount = n
		}
	}
}

// WithResolution sets the number of cells along one patch edge.
func WithResolution(res int) TerrainBuilderOption {
	return func(b *builder) {
		if res > 0 {
			b.res = res
		}
	}
}

// WithHeightFunc initializes every sample from fn.
func WithHeightFunc(fn func(x, z float32) float32) TerrainBuilderOption {
	return func(b *builder) {
		b.height = fn
	}
}
