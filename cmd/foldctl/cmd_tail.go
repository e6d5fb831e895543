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
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/launix-de/eventfold"
)

func newTailCmd() *cobra.Command {
	var pollTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "print new events as they are appended, blocking between batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := eventfold.NewBuilder(rootDir).Open()
			if err != nil {
				return err
			}
			defer l.Close()

			offset, err := l.Reader().ActiveLogSize()
			if err != nil {
				return err
			}

			for {
				result, err := l.WaitForEvents(offset, pollTimeout)
				if err != nil {
					return err
				}
				if !result.NewData {
					continue
				}

				events, err := l.Reader().ReadFrom(offset)
				if err != nil {
					return err
				}
				for _, ea := range events {
					b, _ := json.Marshal(ea.Event)
					fmt.Printf("%s\t%s\n", ea.LineHash, b)
					offset = ea.NextOffset
				}
			}
		},
	}

	cmd.Flags().DurationVar(&pollTimeout, "poll-timeout", 5*time.Second, "how long to block waiting for new events before re-checking")
	return cmd
}
