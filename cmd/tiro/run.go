// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	kratoslog "github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cobra"

	"github.com/tirolang/tiro"
)

func newRunCmd() *cobra.Command {
	var (
		call         string
		dumpAST      bool
		dumpIR       bool
		dumpBytecode bool
		dump         bool
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "run <module.tirc>",
		Short: "Load a bytecode module and run or dump it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dumpAST || dumpIR {
				return fmt.Errorf("%s: the frontend compiler that produces AST/IR is not part of this runtime", cmd.Name())
			}

			logger := kratoslog.NewStdLogger(cmd.OutOrStderr())
			if !verbose {
				logger = kratoslog.NewFilter(logger, kratoslog.FilterLevel(kratoslog.LevelError))
			}

			vm := tiro.New(tiro.Options{
				Logger: tiro.NewLogger(logger),
				Stdout: func(s string) { fmt.Fprint(cmd.OutOrStdout(), s) },
			})
			defer vm.Close()

			if err := vm.LoadStd(); err != nil {
				return err
			}

			if mime, err := mimetype.DetectFile(args[0]); err == nil && strings.HasPrefix(mime.String(), "text/") {
				return fmt.Errorf("%s: %s looks like source text, not a compiled bytecode module (the frontend compiler that produces one is not part of this runtime)", cmd.Name(), args[0])
			}

			mod, err := vm.LoadBytecode(args[0])
			if err != nil {
				return err
			}

			if dump || dumpBytecode {
				dumpModule(cmd, mod)
			}
			if call == "" {
				return nil
			}

			return runExport(cmd, vm, mod, call)
		},
	}

	cmd.Flags().StringVar(&call, "call", "", "name of an exported function to run to completion")
	cmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST (unsupported: no frontend compiler)")
	cmd.Flags().BoolVar(&dumpIR, "dump-ir", false, "dump the IR (unsupported: no frontend compiler)")
	cmd.Flags().BoolVar(&dumpBytecode, "dump-bytecode", false, "dump the module's export table")
	cmd.Flags().BoolVar(&dump, "dump", false, "alias for --dump-bytecode")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable info-level logging")
	return cmd
}

// runExport calls the export and drives the scheduler to completion,
// printing the terminal Result: runs the named exported function to
// completion and prints its result.
func runExport(cmd *cobra.Command, vm *tiro.VM, mod tiro.Value, name string) error {
	fn, err := mod.ModuleGetExport(name)
	if err != nil {
		return err
	}

	co := vm.NewCoroutine(vm.NewString(cmd.Name()+":"+name), fn, nil)
	vm.Schedule(co)
	vm.RunReady()

	result, err := co.CoroutineResult()
	if err != nil {
		return err
	}

	if result.IsError() {
		v, _ := result.ResultError()
		return fmt.Errorf("uncaught panic: %s", vm.ToDisplayString(v))
	}
	v, _ := result.ResultValue()
	fmt.Fprintln(cmd.OutOrStdout(), vm.ToDisplayString(v))
	return nil
}
