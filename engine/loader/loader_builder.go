package loader

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithAssetRoot sets the directory relative paths are resolved against. Cache keys stay
// the paths as given, so scene files remain portable.
//
// Parameters:
//   - dir: the asset root
//
// Returns:
//   - LoaderBuilderOption: a function that applies the root option to a loader
func WithAssetRoot(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.root = dir
	}
}

// WithMesh pre-populates the cache, typically for procedural meshes that have no file.
//
// Parameters:
//   - key: the cache key for the mesh
//   - info: the mesh bounds
//
// Returns:
//   - LoaderBuilderOption: a function that applies the mesh option to a loader
func WithMesh(key string, info MeshInfo) LoaderBuilderOption {
	return func(l *loader) {
		info.Name = key
		l.meshCache[key] = &info
	}
}
