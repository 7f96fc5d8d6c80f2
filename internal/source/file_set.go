package source

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// FileSet owns the virtual files known to one expansion run. IDs are dense
// and start at 1; NoFileID is never handed out.
type FileSet struct {
	files []*File // files[0] == nil, index == FileID
}

func NewFileSet() *FileSet {
	return &FileSet{files: []*File{nil}}
}

// AddVirtual registers an in-memory file and returns its ID.
// Path is used only for diagnostic rendering and need not be unique.
func (fs *FileSet) AddVirtual(path string, content []byte) (FileID, error) {
	id, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		return NoFileID, fmt.Errorf("file set overflow: %w", err)
	}
	f := &File{
		ID:      FileID(id),
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
	}
	fs.files = append(fs.files, f)
	return f.ID, nil
}

// Get returns the file for id, or nil for NoFileID and unknown IDs.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) <= 0 || int(id) >= len(fs.files) {
		return nil
	}
	return fs.files[id]
}

func (fs *FileSet) Len() int {
	return len(fs.files) - 1
}

// Position resolves the start of sp to a path and line/column pair.
// Unknown files yield an empty path and a zero position.
func (fs *FileSet) Position(sp Span) (string, LineCol) {
	f := fs.Get(sp.File)
	if f == nil {
		return "", LineCol{}
	}
	return f.Path, f.LineColAt(sp.Start)
}

// LineColAt converts a byte offset inside the file to a 1-based line/column.
// Offsets past the end of content clamp to the last position.
func (f *File) LineColAt(offset uint32) LineCol {
	if n := uint32(len(f.Content)); offset > n {
		offset = n
	}
	// first index whose line start is beyond offset, minus one
	line := sort.Search(len(f.LineIdx), func(i int) bool {
		return f.LineIdx[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	return LineCol{
		Line: uint32(line) + 1,
		Col:  offset - f.LineIdx[line] + 1,
	}
}

// Line returns the content of the 1-based line n without its terminator.
func (f *File) Line(n uint32) []byte {
	if n == 0 || int(n) > len(f.LineIdx) {
		return nil
	}
	start := f.LineIdx[n-1]
	end := uint32(len(f.Content))
	if int(n) < len(f.LineIdx) {
		end = f.LineIdx[n]
	}
	line := f.Content[start:end]
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}

func buildLineIndex(content []byte) []uint32 {
	idx := []uint32{0}
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(i)+1)
		}
	}
	return idx
}
