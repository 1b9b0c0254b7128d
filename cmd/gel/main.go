// Command gel is the CLI driver spec.md §6 names: a single cobra.Command
// wiring Runtime.Eval/Exec to flags, grounded on the pack's cobra usage
// in saferwall-pe's cmd/pedumper.go (a root command, bool flags bound
// with BoolVar, Execute()/os.Exit(1) on error).
package main

import (
	"fmt"
	"os"

	"github.com/s0cks/gel/internal/config"
	"github.com/s0cks/gel/internal/local"
	"github.com/s0cks/gel/internal/module"
	"github.com/s0cks/gel/internal/native/fsnative"
	"github.com/s0cks/gel/internal/native/rxnative"
	"github.com/s0cks/gel/internal/object"
	"github.com/s0cks/gel/internal/runtime"
	"github.com/s0cks/gel/internal/script"
	"github.com/s0cks/gel/internal/vm"
	"github.com/spf13/cobra"
)

var (
	exprFlag          string
	evalFlag          bool
	noEvalFlag        bool
	dumpAST           bool
	dumpFlowGraph     bool
	pedanticFlag      bool
	newZoneSize       int
	oldZoneSize       int
	largeObjThreshold int
	showHeapStats     bool
)

// errScriptFailed signals a non-zero exit for an in-band Error result,
// distinct from a Go-level failure (spec.md §6's "exit code 0 on
// success, non-zero on Error").
var errScriptFailed = fmt.Errorf("gel: script result was an Error")

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if newZoneSize > 0 {
		cfg.NewZoneSemisize = newZoneSize
	}
	if oldZoneSize > 0 {
		cfg.OldZoneSize = oldZoneSize
	}
	if largeObjThreshold > 0 {
		cfg.LargeObjectThreshold = largeObjThreshold
	}
	cfg.Pedantic = pedanticFlag

	rt, err := runtime.New(cfg)
	if err != nil {
		return fmt.Errorf("gel: %w", err)
	}
	defer rt.Close()

	if err := fsnative.Register(rt.Bridge()); err != nil {
		return fmt.Errorf("gel: registering fs natives: %w", err)
	}
	if err := rxnative.Register(rt.Bridge()); err != nil {
		return fmt.Errorf("gel: registering reactive natives: %w", err)
	}
	if err := rt.Modules().Register(&module.Module{Name: "main", Scope: local.NewScope(nil)}); err != nil {
		return fmt.Errorf("gel: %w", err)
	}

	var source []byte
	switch {
	case exprFlag != "":
		source = []byte(exprFlag)
	case len(args) == 1:
		src, err := script.Open(args[0])
		if err != nil {
			return fmt.Errorf("gel: %w", err)
		}
		defer src.Close()
		source = src.Bytes()
	default:
		return fmt.Errorf("gel: provide --expr or a script path")
	}

	if dumpAST || dumpFlowGraph {
		// The Lisp front end and its flow-graph builder are out of scope
		// (SPEC_FULL.md §1); dumping disassembly of the assembled form is
		// the closest stand-in available from this side of the pipeline.
		prog, err := script.ParseAssemblyProgram(source)
		if err != nil {
			return fmt.Errorf("gel: %w", err)
		}
		lines, err := vm.Disassemble(prog.Code, prog.Constants)
		if err != nil {
			return fmt.Errorf("gel: %w", err)
		}
		for _, l := range lines {
			fmt.Println(l.String())
		}
		if dumpFlowGraph {
			// internal/vm.Fingerprint content-hashes the assembled code and
			// constants; printing it here lets two --dump-flow-graph runs be diffed
			// for "did this compile to the same bytecode" without a
			// byte-for-byte comparison of the disassembly text.
			fmt.Printf("fingerprint: %s\n", vm.Fingerprint(prog.Code, prog.Constants))
		}
		return nil
	}

	if noEvalFlag || !evalFlag {
		if _, err := script.ParseAssemblyProgram(source); err != nil {
			return fmt.Errorf("gel: %w", err)
		}
		return nil
	}

	result, err := rt.Eval(source)
	if err != nil {
		return fmt.Errorf("gel: %w", err)
	}

	if showHeapStats {
		// Profile after Eval so the snapshot reflects what the script
		// actually allocated, not an empty heap.
		if err := rt.Heap().WriteProfile(os.Stdout); err != nil {
			return fmt.Errorf("gel: writing heap profile: %w", err)
		}
		return nil
	}

	obj, ok := rt.Heap().Deref(result)
	if !ok {
		fmt.Println("<unallocated>")
		return nil
	}
	fmt.Println(obj.String())
	if _, isError := obj.(*object.Error); isError {
		return errScriptFailed
	}
	return nil
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "gel [script]",
		Short:         "gel bytecode interpreter",
		Long:          "gel runs assembled bytecode programs through the semispace-collected heap and tracing interpreter.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	root.Flags().StringVar(&exprFlag, "expr", "", "evaluate an inline program instead of reading a script path")
	root.Flags().BoolVar(&evalFlag, "eval", true, "evaluate the program")
	root.Flags().BoolVar(&noEvalFlag, "no-eval", false, "assemble/validate only, skip evaluation")
	root.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the assembled program's disassembly and exit")
	root.Flags().BoolVar(&dumpFlowGraph, "dump-flow-graph", false, "print the assembled program's disassembly and exit")
	root.Flags().BoolVar(&pedanticFlag, "pedantic", false, "accepted and recorded; has no effect on execution")
	root.Flags().IntVar(&newZoneSize, "new-zone-size", 0, "bytes per young-zone semispace (0 = default)")
	root.Flags().IntVar(&oldZoneSize, "old-zone-size", 0, "bytes reserved for the old zone (0 = default)")
	root.Flags().IntVar(&largeObjThreshold, "large-object-threshold", 0, "bytes at/above which allocation goes straight to the old zone (0 = default)")
	root.Flags().BoolVar(&showHeapStats, "show-heap-stats", false, "after evaluation, write a pprof heap profile (go tool pprof) to stdout instead of the result")
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
