package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB
	maxSeedFiles = 64
	maxFuzzInput = 1 << 16 // 64 KiB
)

var inlineSeeds = []string{
	"",
	"// teh the the\n",
	"/* a  b */ x := \"an cat\"",
	"/// Doc with `code` and the the.\n/** block\n * doc */",
	"s := `raw teh`; f := f\"hi {name} teh\"",
	"\"unterminated\n/* open",
	"# Title\n\nA apple.\n\n```go\nteh\n```\n",
	"caf\u00e9 cafe\u0301 \u2019quote\u2019\r\n\ufeff",
	"\"esc \\n \\u00e9 \\x41\"",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addRepoSeeds(f)
}

// addRepoSeeds добавляет исходники самого репозитория (*.go, *.md).
func addRepoSeeds(f *testing.F) {
	root := filepath.Join("..", "..")
	if _, err := os.Stat(root); err != nil {
		return
	}
	added := 0
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || added >= maxSeedFiles {
			return filepath.SkipDir
		}
		if d.IsDir() {
			if name := d.Name(); path != root && (name[0] == '_' || name[0] == '.') {
				return filepath.SkipDir
			}
			return nil
		}
		switch filepath.Ext(path) {
		case ".go", ".md":
		default:
			return nil
		}
		// #nosec G304 -- path comes from a repository walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		added++
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
