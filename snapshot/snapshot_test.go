// Package snapshot_test provides golden snapshot tests for the front
// end.
//
// For each input shader in testdata/in/, the test compiles to IR and
// compares a textual dump against the golden file in testdata/golden/.
//
// To regenerate golden files after intentional changes:
//
//	UPDATE_GOLDEN=1 go test ./snapshot/...
package snapshot_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/gogpu/sksl"
	"github.com/gogpu/sksl/ir"
)

// shaderFile represents an input shader loaded from disk.
type shaderFile struct {
	name   string // base name with extension (e.g., "gradient.frag")
	kind   ir.ProgramKind
	source string
}

// TestSnapshots loads all inputs, compiles each to IR, and compares the
// dump with the golden file.
func TestSnapshots(t *testing.T) {
	shaders := loadInputShaders(t, filepath.Join("testdata", "in"))
	if len(shaders) == 0 {
		t.Fatal("no input shaders found in testdata/in/")
	}

	compiler, err := sksl.NewCompiler()
	if err != nil {
		t.Fatalf("create compiler: %v", err)
	}

	for i := range shaders {
		shader := &shaders[i]
		t.Run(shader.name, func(t *testing.T) {
			program, err := compiler.Compile(shader.kind, shader.source, sksl.DefaultSettings())
			if err != nil {
				if list, ok := err.(sksl.SourceErrors); ok {
					t.Fatalf("[%s] compile failed:\n%s", shader.name, list.FormatAll())
				}
				t.Fatalf("[%s] compile failed: %v", shader.name, err)
			}
			dump := dumpProgram(program)
			compareGolden(t, filepath.Join("testdata", "golden", shader.name+".ir"), dump)
		})
	}
}

// loadInputShaders reads all shader files from the given directory. The
// extension picks the program kind.
func loadInputShaders(t *testing.T, dir string) []shaderFile {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read input directory %q: %v", dir, err)
	}

	var shaders []shaderFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		var kind ir.ProgramKind
		switch filepath.Ext(entry.Name()) {
		case ".frag":
			kind = ir.KindFragment
		case ".vert":
			kind = ir.KindVertex
		case ".geom":
			kind = ir.KindGeometry
		default:
			continue
		}
		data, readErr := os.ReadFile(filepath.Join(dir, entry.Name()))
		if readErr != nil {
			t.Fatalf("read shader %q: %v", entry.Name(), readErr)
		}
		shaders = append(shaders, shaderFile{name: entry.Name(), kind: kind, source: string(data)})
	}

	// Sort for deterministic test order
	sort.Slice(shaders, func(i, j int) bool {
		return shaders[i].name < shaders[j].name
	})

	return shaders
}

func dumpProgram(program *ir.Program) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "// %s program, %d elements\n", program.Kind, len(program.Elements))
	fmt.Fprintf(&sb, "// inputs: rtWidth=%v rtHeight=%v flipY=%v\n",
		program.Inputs.RTWidth, program.Inputs.RTHeight, program.Inputs.FlipY)
	for _, element := range program.Elements {
		sb.WriteString(element.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

func compareGolden(t *testing.T, path, actual string) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDEN") != "" {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			t.Fatalf("create golden dir: %v", mkErr)
		}
		if wErr := os.WriteFile(path, []byte(actual), 0o644); wErr != nil {
			t.Fatalf("write golden file: %v", wErr)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Skipf("golden file missing: %s\nRun with UPDATE_GOLDEN=1 to create.", path)
	}
	if err != nil {
		t.Fatalf("read golden file %s: %v", path, err)
	}

	// Normalize line endings for cross-platform comparison.
	expectedStr := strings.ReplaceAll(string(expected), "\r\n", "\n")
	actualStr := strings.ReplaceAll(actual, "\r\n", "\n")

	if expectedStr != actualStr {
		t.Errorf("output differs from golden %s:\nexpected:\n%s\nactual:\n%s",
			path, expectedStr, actualStr)
	}
}
