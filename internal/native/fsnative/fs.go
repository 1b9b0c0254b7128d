// Package fsnative provides the minimal synchronous filesystem natives
// SPEC_FULL.md §4 carves out of the out-of-scope event loop
// (original_source/Sources/gel/event_loop.h): enough for a script to call
// fs:read-file/fs:write-file/fs:exists without an actual libuv-equivalent
// async loop backing it. Every native here blocks the interpreter's single
// mutator goroutine for the duration of the syscall, which is acceptable
// because the Non-goals already exclude multithreaded mutator execution.
package fsnative

import (
	"fmt"
	"os"

	"github.com/s0cks/gel/internal/heap"
	"github.com/s0cks/gel/internal/native"
	"github.com/s0cks/gel/internal/object"
)

// Register wires fs:read-file, fs:write-file and fs:exists into bridge.
func Register(bridge *native.Bridge) error {
	if _, err := bridge.Define("fs:read-file",
		[]object.ArgumentDescriptor{{Index: 0, Name: "path"}},
		readFile); err != nil {
		return err
	}
	if _, err := bridge.Define("fs:write-file",
		[]object.ArgumentDescriptor{{Index: 0, Name: "path"}, {Index: 1, Name: "contents"}},
		writeFile); err != nil {
		return err
	}
	if _, err := bridge.Define("fs:exists",
		[]object.ArgumentDescriptor{{Index: 0, Name: "path"}},
		exists); err != nil {
		return err
	}
	return nil
}

func asString(ctx object.NativeContext, addr heap.Address, argName string) (string, error) {
	obj, ok := ctx.Deref(addr)
	if !ok {
		return "", fmt.Errorf("fsnative: dangling argument %q", argName)
	}
	s, ok := obj.(*object.String)
	if !ok {
		return "", fmt.Errorf("fsnative: argument %q must be a String, got %s", argName, obj.ClassName())
	}
	return s.Value, nil
}

func readFile(ctx object.NativeContext, args []heap.Address) (heap.Address, error) {
	path, err := asString(ctx, args[0], "path")
	if err != nil {
		return heap.Unallocated, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		result := &object.Error{Message: fmt.Sprintf("fs:read-file: %v", err)}
		return ctx.TryAllocate(result.PayloadSize(), result)
	}
	result := &object.String{Value: string(data)}
	return ctx.TryAllocate(result.PayloadSize(), result)
}

func writeFile(ctx object.NativeContext, args []heap.Address) (heap.Address, error) {
	path, err := asString(ctx, args[0], "path")
	if err != nil {
		return heap.Unallocated, err
	}
	contents, err := asString(ctx, args[1], "contents")
	if err != nil {
		return heap.Unallocated, err
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		result := &object.Error{Message: fmt.Sprintf("fs:write-file: %v", err)}
		return ctx.TryAllocate(result.PayloadSize(), result)
	}
	result := &object.Bool{Value: true}
	return ctx.TryAllocate(result.PayloadSize(), result)
}

func exists(ctx object.NativeContext, args []heap.Address) (heap.Address, error) {
	path, err := asString(ctx, args[0], "path")
	if err != nil {
		return heap.Unallocated, err
	}
	_, statErr := os.Stat(path)
	result := &object.Bool{Value: statErr == nil}
	return ctx.TryAllocate(result.PayloadSize(), result)
}
