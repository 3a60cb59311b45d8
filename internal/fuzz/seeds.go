package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10

var languageSeeds = []string{
	"",
	"1 + 2 * 3",
	"x = 1\ny = x + 1\ny",
	"f(a, b) = a * b\nf(2, 3)",
	"g = {|x| x ^ 2}\nList.map([1, 2, 3], g)",
	"r = {a: 1, \"b c\": [1, {d: 2}]}\nr.a + r[\"b c\"][1].d",
	"{ t = 2; t * 3 }",
	"if 1 < 2 then \"yes\" else \"no\"",
	"true && !false ? 1 : 0",
	"[1, 2] -> List.length",
	"s = \"a\" ++ \"b\"\nString.length(s)",
	"import \"lib\" as lib\nlib.x",
	"import \"./lib\" as *\nx",
	"// comment\n/* block */ 1",
	"f(x) = x == 0 ? 0 : f(x - 1)\nf(3)",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every *.squiggle file under testdata/ when the
// directory exists.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("testdata", "seeds")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".squiggle" {
			return nil
		}
		// #nosec G304 -- path comes from a testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}

// truncateForLog shortens input for failure messages.
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(append([]byte(nil), input[:maxLen]...), "..."...)
}
