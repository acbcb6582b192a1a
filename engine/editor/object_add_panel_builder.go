package editor

// ObjectAddPanelBuilderOption is a functional option for configuring an ObjectAddPanel.
type ObjectAddPanelBuilderOption func(p *objectAddPanelImpl)

// WithMeshDir sets the directory listed by the picker. Defaults to DefaultMeshDir.
//
// Parameters:
//   - dir: directory relative to the loader's asset root unless absolute
//
// Returns:
//   - ObjectAddPanelBuilderOption: option function to apply
func WithMeshDir(dir string) ObjectAddPanelBuilderOption {
	return func(p *objectAddPanelImpl) {
		p.meshDir = dir
	}
}

// WithMaxItems caps the number of listed meshes. By default as many rows as fit are shown.
func WithMaxItems(n int) ObjectAddPanelBuilderOption {
	return func(p *objectAddPanelImpl) {
		p.maxItems = n
	}
}
