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
	"errors"
	"testing"
)

func TestConflict_ErrorMessageVariesByCause(t *testing.T) {
	offsetOnly := &Conflict{ExpectedOffset: 5, ActualOffset: 9, ExpectedHash: "abc"}
	if offsetOnly.Error() == "" {
		t.Fatal("expected a non-empty message")
	}

	hashMismatch := &Conflict{ExpectedOffset: 5, ActualOffset: 5, ExpectedHash: "abc", ActualHash: "def"}
	if hashMismatch.Error() == offsetOnly.Error() {
		t.Fatal("an offset conflict and a hash conflict should produce distinguishable messages")
	}
}

func TestWrappedErrors_MatchSentinels(t *testing.T) {
	if !errors.Is(lockedErr("/tmp/x"), ErrLockHeld) {
		t.Fatal("lockedErr must wrap ErrLockHeld")
	}
	if !errors.Is(invalidDataErr(errors.New("boom")), ErrInvalidData) {
		t.Fatal("invalidDataErr must wrap ErrInvalidData")
	}
	if !errors.Is(notFoundErr("total"), ErrNotFound) {
		t.Fatal("notFoundErr must wrap ErrNotFound")
	}
	if !errors.Is(typeMismatchErr("total"), ErrTypeMismatch) {
		t.Fatal("typeMismatchErr must wrap ErrTypeMismatch")
	}
}
