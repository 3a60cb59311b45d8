package source

// FileFlags encodes metadata about how a source text was normalised.
type FileFlags uint8

const (
	// FileVirtual marks text that did not come from disk (editor buffer, test, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures a source text together with its line index.
type File struct {
	ID      string
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source text.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
