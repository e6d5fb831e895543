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
	"time"

	json "github.com/goccy/go-json"
)

func TestWaitForEvents_WakesOnConcurrentAppend(t *testing.T) {
	dir := t.TempDir()
	w, err := OpenWriter(dir, LockNone, nil, nil, 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer w.Close()

	reader := Reader{logPath: w.logPath, archive: w.archive, codec: w.codec}

	done := make(chan WaitResult, 1)
	errCh := make(chan error, 1)
	go func() {
		result, err := reader.WaitForEvents(0, 5*time.Second)
		if err != nil {
			errCh <- err
			return
		}
		done <- result
	}()

	time.Sleep(100 * time.Millisecond)
	if _, _, err := w.Append(NewEvent("a", json.RawMessage(`1`))); err != nil {
		t.Fatalf("append: %v", err)
	}

	select {
	case err := <-errCh:
		t.Fatalf("wait returned an error: %v", err)
	case result := <-done:
		if !result.NewData {
			t.Fatal("expected NewData after the concurrent append")
		}
	case <-time.After(4 * time.Second):
		t.Fatal("WaitForEvents did not wake up after a concurrent append")
	}
}
