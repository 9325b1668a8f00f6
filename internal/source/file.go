package source

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"fortio.org/safecast"
)

// FileID indexes a file inside its FileSet.
type FileID uint32

// FileFlags records what loading did to a file's bytes.
type FileFlags uint8

const (
	FileVirtual        FileFlags = 1 << iota // не с диска: тест, stdin
	FileHadBOM                               // BOM срезан при загрузке
	FileNormalizedCRLF                       // \r\n заменены на \n
)

// File is one loaded input. Content is the normalized text that every span
// points into.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Flags   FileFlags

	lineStarts []uint32
}

// LineCol is a 1-based line and byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}

func lineStarts(content []byte) []uint32 {
	starts := make([]uint32, 1, 16)
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, mustU32(i+1))
		}
	}
	return starts
}

func (f *File) position(off uint32) LineCol {
	i, found := slices.BinarySearch(f.lineStarts, off)
	if !found {
		i--
	}
	if i < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	return LineCol{Line: mustU32(i + 1), Col: off - f.lineStarts[i] + 1}
}

// LineBounds returns the byte range of a 1-based line, newline excluded.
func (f *File) LineBounds(line uint32) (start, end uint32, ok bool) {
	if line == 0 || int(line) > len(f.lineStarts) {
		return 0, 0, false
	}
	start = f.lineStarts[line-1]
	if int(line) < len(f.lineStarts) {
		end = f.lineStarts[line] - 1
	} else {
		end = mustU32(len(f.Content))
	}
	return start, end, true
}

// GetLine returns the text of a 1-based line, or "" when there is none.
func (f *File) GetLine(line uint32) string {
	start, end, ok := f.LineBounds(line)
	if !ok {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath renders f.Path for output. mode is absolute, relative,
// basename or auto; anything else prints the stored path.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case "basename":
		return BaseName(f.Path)
	case "auto":
		// длинные абсолютные пути сокращаем до имени
		if filepath.IsAbs(f.Path) && len(f.Path) >= 40 {
			return BaseName(f.Path)
		}
	}
	return f.Path
}

func mustU32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("source offset overflow: %w", err))
	}
	return v
}
