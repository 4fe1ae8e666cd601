// Command skslc is the sksl front end CLI.
//
// Usage:
//
//	skslc [options] <input>
//
// Examples:
//
//	skslc shader.frag                  # Check and dump IR
//	skslc -o shader.ir shader.frag     # Dump IR to a file
//	skslc -watch shader.frag           # Recompile on every save
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/gogpu/sksl"
	"github.com/gogpu/sksl/ir"
)

var (
	output    = flag.String("o", "", "output file (default: stdout)")
	kind      = flag.String("kind", "", "program kind: frag, vert, geom, fp, pipeline (default: from extension)")
	flipY     = flag.Bool("flip-y", false, "treat the render target as Y flipped")
	threshold = flag.Int("inline-threshold", 50, "max IR nodes a call site may inline; 0 disables")
	watch     = flag.Bool("watch", false, "recompile whenever the input file changes")
	version   = flag.Bool("version", false, "print version")
)

const skslVersion = "0.1.0-dev"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("skslc version %s\n", skslVersion)
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		usage()
		os.Exit(1)
	}

	inputPath := args[0]
	programKind, err := resolveKind(*kind, inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	compiler, err := sksl.NewCompiler()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	settings := &sksl.Settings{
		FlipY:           *flipY,
		InlineThreshold: *threshold,
	}

	if *watch {
		if err := watchLoop(compiler, programKind, inputPath, settings); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := compileFile(compiler, programKind, inputPath, settings); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func compileFile(compiler *sksl.Compiler, kind ir.ProgramKind, inputPath string, settings *sksl.Settings) error {
	source, err := os.ReadFile(inputPath)
	if err != nil {
		return errors.Wrap(err, "reading input")
	}

	program, err := compiler.Compile(kind, string(source), settings)
	if err != nil {
		if list, ok := err.(sksl.SourceErrors); ok {
			return errors.New(list.FormatAll())
		}
		return err
	}

	dump := dumpProgram(program)
	if *output != "" {
		if err := os.WriteFile(*output, []byte(dump), 0644); err != nil {
			return errors.Wrap(err, "writing output")
		}
		fmt.Printf("Compiled %s to %s (%d elements)\n", inputPath, *output, len(program.Elements))
		return nil
	}
	fmt.Print(dump)
	return nil
}

// watchLoop recompiles the input whenever its directory reports a change
// to it. Watching the directory instead of the file survives editors that
// replace the file on save.
func watchLoop(compiler *sksl.Compiler, kind ir.ProgramKind, inputPath string, settings *sksl.Settings) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer watcher.Close()

	dir := filepath.Dir(inputPath)
	if err := watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "watching %s", dir)
	}

	target := filepath.Clean(inputPath)
	recompile := func() {
		if err := compileFile(compiler, kind, inputPath, settings); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
	}
	fmt.Fprintf(os.Stderr, "watching %s\n", inputPath)
	recompile()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			fmt.Fprintf(os.Stderr, "%s changed, recompiling\n", inputPath)
			recompile()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}

func resolveKind(name, inputPath string) (ir.ProgramKind, error) {
	if name == "" {
		name = strings.TrimPrefix(filepath.Ext(inputPath), ".")
	}
	switch name {
	case "frag", "fragment", "sksl":
		return ir.KindFragment, nil
	case "vert", "vertex":
		return ir.KindVertex, nil
	case "geom", "geometry":
		return ir.KindGeometry, nil
	case "fp":
		return ir.KindFragmentProcessor, nil
	case "pipeline":
		return ir.KindPipelineStage, nil
	default:
		return 0, fmt.Errorf("unknown program kind %q", name)
	}
}

func dumpProgram(program *ir.Program) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "// %s program, %d elements\n", program.Kind, len(program.Elements))
	if program.Inputs.RTWidth || program.Inputs.RTHeight || program.Inputs.FlipY {
		fmt.Fprintf(&sb, "// inputs: rtWidth=%v rtHeight=%v flipY=%v\n",
			program.Inputs.RTWidth, program.Inputs.RTHeight, program.Inputs.FlipY)
	}
	for _, element := range program.Elements {
		sb.WriteString(element.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: skslc [options] <input.frag>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  skslc shader.frag               Check and dump IR\n")
	fmt.Fprintf(os.Stderr, "  skslc -kind vert shader.sksl    Compile as a vertex program\n")
	fmt.Fprintf(os.Stderr, "  skslc -watch shader.frag        Recompile on save\n")
}
