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
	"testing"

	json "github.com/goccy/go-json"
)

func TestNewEvent_StampsTimestamp(t *testing.T) {
	e := NewEvent("ping", json.RawMessage(`null`))
	if e.Ts == 0 {
		t.Fatal("expected a nonzero Unix timestamp")
	}
	if e.ID != nil || e.Actor != nil || e.Meta != nil {
		t.Fatalf("optional fields should default to absent: %+v", e)
	}
}

func TestEvent_WithBuildersAreImmutable(t *testing.T) {
	base := NewEvent("ping", json.RawMessage(`null`))
	withID := base.WithID("x")
	if base.ID != nil {
		t.Fatal("WithID must not mutate the receiver's copy in the caller's variable")
	}
	if withID.ID == nil || *withID.ID != "x" {
		t.Fatalf("expected id x, got %+v", withID.ID)
	}

	withActor := withID.WithActor("alice")
	if withID.Actor != nil {
		t.Fatal("WithActor must not retroactively affect the prior value")
	}
	if withActor.Actor == nil || *withActor.Actor != "alice" {
		t.Fatalf("expected actor alice, got %+v", withActor.Actor)
	}

	withMeta := withActor.WithMeta(json.RawMessage(`{"k":"v"}`))
	if string(withMeta.Meta) != `{"k":"v"}` {
		t.Fatalf("unexpected meta: %s", withMeta.Meta)
	}
}
