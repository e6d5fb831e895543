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

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/launix-de/eventfold"
)

func newDumpCmd() *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "print every event as one JSON line per event",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := eventfold.NewBuilder(rootDir).Open()
			if err != nil {
				return err
			}
			defer l.Close()

			if activeOnly {
				events, err := l.Reader().ReadFrom(0)
				if err != nil {
					return err
				}
				for _, ea := range events {
					printEvent(ea.Event, ea.LineHash)
				}
				return nil
			}

			events, err := l.Reader().ReadFull()
			if err != nil {
				return err
			}
			for _, ewh := range events {
				printEvent(ewh.Event, ewh.LineHash)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active-only", false, "only dump the active log, skip the archive")
	return cmd
}

func printEvent(e eventfold.Event, hash string) {
	b, err := json.Marshal(e)
	if err != nil {
		fmt.Println("<undecodable event>", hash)
		return
	}
	fmt.Printf("%s\t%s\n", hash, b)
}
