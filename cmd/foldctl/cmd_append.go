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
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/launix-de/eventfold"
)

func newAppendCmd() *cobra.Command {
	var eventType, data, actor string
	var genID bool

	cmd := &cobra.Command{
		Use:   "append <type> <json-data>",
		Short: "append one event to the active log",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				eventType = args[0]
			}
			if len(args) > 1 {
				data = args[1]
			}
			if eventType == "" {
				return fmt.Errorf("event type is required")
			}
			if !json.Valid([]byte(data)) {
				return fmt.Errorf("data is not valid JSON: %q", data)
			}

			b, err := eventfold.NewBuilder(rootDir).Open()
			if err != nil {
				return err
			}
			defer b.Close()

			event := eventfold.NewEvent(eventType, json.RawMessage(data))
			if genID {
				event = event.WithID(uuid.NewString())
			}
			if actor != "" {
				event = event.WithActor(actor)
			}

			result, err := b.Append(event)
			if err != nil {
				return err
			}
			fmt.Printf("appended at offset %d..%d, hash %s\n", result.StartOffset, result.EndOffset, result.LineHash)
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "actor identity to attach")
	cmd.Flags().BoolVar(&genID, "gen-id", false, "attach a generated unique id")
	return cmd
}
