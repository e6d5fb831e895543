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
package main

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/chzyer/readline"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/launix-de/eventfold"
)

const shellPrompt = "\033[32mfold>\033[0m "

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "interactive REPL: append/dump/rotate/size without re-opening the log each time",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := eventfold.NewBuilder(rootDir).Open()
			if err != nil {
				return err
			}
			defer l.Close()

			rl, err := readline.NewEx(&readline.Config{
				Prompt:            shellPrompt,
				HistoryFile:       ".foldctl-history.tmp",
				InterruptPrompt:   "^C",
				EOFPrompt:         "exit",
				HistorySearchFold: true,
			})
			if err != nil {
				return err
			}
			defer rl.Close()
			rl.CaptureExitSignal()

			for {
				line, err := rl.Readline()
				if err == readline.ErrInterrupt {
					continue
				} else if err == io.EOF {
					return nil
				} else if err != nil {
					return err
				}
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				runShellLine(l, line)
			}
		},
	}
}

// runShellLine evaluates one REPL command, recovering from any panic so
// a single bad line never kills the session.
func runShellLine(l *eventfold.Log, line string) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Println("panic:", r, string(debug.Stack()))
		}
	}()

	fields := strings.SplitN(line, " ", 3)
	switch fields[0] {
	case "append":
		if len(fields) < 3 {
			fmt.Println("usage: append <type> <json-data>")
			return
		}
		if !json.Valid([]byte(fields[2])) {
			fmt.Println("data is not valid JSON")
			return
		}
		result, err := l.Append(eventfold.NewEvent(fields[1], json.RawMessage(fields[2])))
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("appended at offset %d..%d, hash %s\n", result.StartOffset, result.EndOffset, result.LineHash)

	case "dump":
		events, err := l.Reader().ReadFull()
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		for _, ewh := range events {
			b, _ := json.Marshal(ewh.Event)
			fmt.Printf("%s\t%s\n", ewh.LineHash, b)
		}

	case "rotate":
		if err := l.Rotate(); err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println("rotated")

	case "size":
		size, err := l.Reader().ActiveLogSize()
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println(size, "bytes in active log")

	case "help":
		fmt.Println("commands: append <type> <json>, dump, rotate, size, help")

	default:
		fmt.Println("unknown command:", fields[0], "(try 'help')")
	}
}
