// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tirolang/tiro"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <module.tirc>",
		Short: "Print a module's export table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := tiro.New(tiro.Options{})
			defer vm.Close()

			mod, err := vm.LoadBytecode(args[0])
			if err != nil {
				return err
			}
			dumpModule(cmd, mod)
			return nil
		},
	}
	return cmd
}

// dumpModule prints the module's name and export table. Disassembling
// a function's instruction stream is a non-goal; only the
// member-level shape is shown.
func dumpModule(cmd *cobra.Command, mod tiro.Value) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "module %q\n", mod.ModuleName())

	names := mod.ModuleExportNames()
	sort.Strings(names)

	w := tabwriter.NewWriter(out, 1, 1, 2, ' ', 0)
	fmt.Fprintln(w, "export\tkind\t")
	for _, name := range names {
		v, err := mod.ModuleGetExport(name)
		if err != nil {
			fmt.Fprintf(w, "%s\t<error: %v>\t\n", name, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t\n", name, v.Kind())
	}
	w.Flush()
}
