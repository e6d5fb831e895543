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

	"github.com/spf13/cobra"

	"github.com/launix-de/eventfold"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "scan the active log and archive, reporting the first decode failure",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := eventfold.NewBuilder(rootDir).Open()
			if err != nil {
				return err
			}
			defer l.Close()

			events, err := l.Reader().ReadFrom(0)
			if err != nil {
				fmt.Printf("active log: %d valid lines read, then: %v\n", len(events), err)
				return err
			}
			fmt.Printf("active log: %d valid lines, clean\n", len(events))

			full, err := l.Reader().ReadFull()
			if err != nil {
				fmt.Printf("archive: %d valid lines read, then: %v\n", len(full), err)
				return err
			}
			fmt.Printf("archive + active: %d valid lines total, clean\n", len(full))
			return nil
		},
	}
}
