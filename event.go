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
package eventfold

import (
	"time"

	json "github.com/goccy/go-json"
)

// Event is one immutable record appended to the active log. The three
// required fields (Type, Data, Ts) plus optional metadata round-trip
// across versions: an optional field that is nil is omitted entirely on
// encode, and its absence on decode leaves it nil. Never rewritten once
// appended.
type Event struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Ts    uint64          `json:"ts"`
	ID    *string         `json:"id,omitempty"`
	Actor *string         `json:"actor,omitempty"`
	Meta  json.RawMessage `json:"meta,omitempty"`
}

// NewEvent creates an event with the given type and data, stamped with
// the current Unix time. Optional fields default to absent; use WithID,
// WithActor and WithMeta to set them.
func NewEvent(eventType string, data json.RawMessage) Event {
	return Event{
		Type: eventType,
		Data: data,
		Ts:   uint64(time.Now().Unix()),
	}
}

// WithID sets the event's caller-provided unique identifier.
func (e Event) WithID(id string) Event {
	e.ID = &id
	return e
}

// WithActor sets the identity of the actor that caused the event.
func (e Event) WithActor(actor string) Event {
	e.Actor = &actor
	return e
}

// WithMeta attaches cross-cutting metadata to the event.
func (e Event) WithMeta(meta json.RawMessage) Event {
	e.Meta = meta
	return e
}

// AppendResult is returned by Writer.Append and the successful branch of
// Writer.AppendIf.
type AppendResult struct {
	StartOffset uint64
	EndOffset   uint64
	LineHash    string
}
