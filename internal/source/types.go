package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
)

// NoFileID marks a span that does not belong to any file (engine-synthesized
// tokens, textsubst builtins).
const NoFileID FileID = 0

// File captures metadata and content for a single virtual source file.
// The expansion engine never reads raw text from disk; files are registered
// from memory by whatever front end produced the token stream, purely so
// diagnostics can be rendered with line/column positions.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // byte offset of every line start, LineIdx[0] == 0
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}
