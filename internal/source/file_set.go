package source

import (
	"os"

	"fortio.org/safecast"
)

// FileSet owns every file of a run. Adding a path twice keeps both
// versions; lookups by path see the newest.
type FileSet struct {
	files   []File
	latest  map[string]FileID
	baseDir string
}

func NewFileSet() *FileSet {
	return &FileSet{latest: make(map[string]FileID)}
}

// NewFileSetWithBase is NewFileSet with relative paths resolved against dir.
func NewFileSetWithBase(dir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = dir
	return fs
}

func (fs *FileSet) SetBaseDir(dir string) { fs.baseDir = dir }

// BaseDir falls back to the working directory when none was set.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	wd, _ := os.Getwd()
	return wd
}

func (fs *FileSet) Len() int { return len(fs.files) }

// Add stores content under a fresh id. The bytes are kept as given.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	id := FileID(mustU32(len(fs.files)))
	path = normalizePath(path)
	fs.files = append(fs.files, File{
		ID:         id,
		Path:       path,
		Content:    content,
		Flags:      flags,
		lineStarts: lineStarts(content),
	})
	fs.latest[path] = id
	return id
}

// AddVirtual adds in-memory content flagged FileVirtual.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Load reads path, strips a UTF-8 BOM and folds CRLF line ends.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- пути приходят от обхода дерева
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var flags FileFlags
	raw, bom := removeBOM(raw)
	if bom {
		flags |= FileHadBOM
	}
	raw, crlf := normalizeCRLF(raw)
	if crlf {
		flags |= FileNormalizedCRLF
	}
	return fs.Add(path, raw, flags), nil
}

// Get returns nil for an unknown id.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) < len(fs.files) {
		return &fs.files[id]
	}
	return nil
}

func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fs.latest[normalizePath(path)]
	return id, ok
}

// SourceLen is the byte length of a file's content.
func (fs *FileSet) SourceLen(id FileID) (uint32, bool) {
	f := fs.Get(id)
	if f == nil {
		return 0, false
	}
	n, err := safecast.Conv[uint32](len(f.Content))
	return n, err == nil
}

// ReadSpan returns the bytes under span, or nil when it does not fit.
func (fs *FileSet) ReadSpan(span Span) []byte {
	f := fs.Get(span.File)
	if f == nil || !span.Valid() || int(span.End) > len(f.Content) {
		return nil
	}
	return f.Content[span.Start:span.End]
}

// Resolve maps both ends of span to line and column.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return f.position(span.Start), f.position(span.End)
}
