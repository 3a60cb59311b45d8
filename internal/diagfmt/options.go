// Package diagfmt renders project errors for terminals and tools.
package diagfmt

// PrettyOpts configures human-readable output.
type PrettyOpts struct {
	Color   bool
	Context int // lines shown above the primary line
	// ShowNotes prints import sites and lambda frames.
	ShowNotes bool
	// ShowCause prints the wrapped Go error, e.g. a linker failure.
	ShowCause bool
}

// JSONOpts configures machine-readable output.
type JSONOpts struct {
	IncludePositions bool // add line/col
	IncludeNotes     bool
	Max              int // 0 means no limit
}
