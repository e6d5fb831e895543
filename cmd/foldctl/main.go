/*
Copyright (C) 2023-2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Command foldctl operates an eventfold directory from the shell:
// appending raw events, dumping history, forcing a rotation, checking
// integrity, tailing for new events, and exporting a directory as a
// portable archive.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootDir string

func main() {
	fmt.Fprintln(os.Stderr, `foldctl Copyright (C) 2023-2026 Carl-Philip Hänsch
    This program comes with ABSOLUTELY NO WARRANTY;
    This is free software, and you are welcome to redistribute it
    under certain conditions;`)

	root := &cobra.Command{
		Use:   "foldctl",
		Short: "operate an eventfold log directory",
	}
	root.PersistentFlags().StringVar(&rootDir, "dir", ".", "eventfold log directory")

	root.AddCommand(
		newAppendCmd(),
		newDumpCmd(),
		newRotateCmd(),
		newVerifyCmd(),
		newTailCmd(),
		newShellCmd(),
		newExportCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "foldctl:", err)
		os.Exit(1)
	}
}
