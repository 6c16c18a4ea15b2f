// Copyright 2026 The Tiro Authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

// Command tiro runs compiled bytecode modules. It is a thin driver
// over the embedding API in the tiro package; the frontend compiler
// that produces .tirc modules from source is out of scope.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "tiro",
		Short:         "Run compiled tiro bytecode modules",
		Long:          "tiro loads a compiled bytecode module (.tirc) and either dumps its export table or runs one of its exported functions to completion.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newDumpCmd())
	root.AddCommand(versionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tiro:", err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("tiro 0.1.0")
	},
}
