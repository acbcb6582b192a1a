package light

type SunBuilderOption func(*sunImpl)

// WithSunParams replaces the default sun constants.
//
// Parameters:
//   - p: the sun constants
//
// Returns:
//   - SunBuilderOption: a function that sets the sun constants
func WithSunParams(p SunParams) SunBuilderOption {
	return func(s *sunImpl) {
		s.params = p
	}
}
