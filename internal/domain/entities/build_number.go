package entities

// BuildNumberOptions holds the flags that steer NextBuildNumber.
type BuildNumberOptions struct {
	Reset    bool
	Set      *int
	Generate bool
}

// NextBuildNumber decides the next build number. The first matching rule wins:
// reset yields 1, an explicit value is returned verbatim, generation derives
// the number from version, and otherwise current is incremented (or 1 when
// current is unknown).
func NextBuildNumber(current *int, opts BuildNumberOptions, version string) (int, error) {
	switch {
	case opts.Reset:
		return 1, nil
	case opts.Set != nil:
		return *opts.Set, nil
	case opts.Generate:
		return ToBuildCode(version)
	case current != nil:
		return *current + 1, nil
	default:
		return 1, nil
	}
}
