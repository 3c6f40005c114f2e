/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package leapseconds maintains a table of UTC leap seconds.
// The table maps UTC instants to the cumulative TAI-UTC offset in effect,
// and can be loaded from the system timezone database, from a local copy
// of the IETF leap-seconds.list bulletin, or over the network.
package leapseconds

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrDataUnavailable means no leap second data could be obtained from any source
	ErrDataUnavailable = errors.New("no leap second data available")
	// ErrBeforeTableStart means the queried instant precedes recorded leap second history
	ErrBeforeTableStart = errors.New("instant precedes leap second table start")
	// ErrNoLeapSeconds means the source was readable but contained no leap second records
	ErrNoLeapSeconds = errors.New("no leap seconds information found")
)

// Entry is a single leap second record: starting at Time,
// the cumulative TAI-UTC offset is Offset seconds.
type Entry struct {
	Time   time.Time
	Offset int
}

// Table is an immutable ordered list of leap second records plus
// metadata about where the data came from and until when it is valid.
// A Table is safe for concurrent readers once built.
type Table struct {
	entries []Entry

	// Source identifies which backend produced the table
	Source string
	// RefreshedAt is when the table was loaded
	RefreshedAt time.Time
	// Expires is the expiration instant published with the data
	Expires time.Time
}

// NewTable builds a table from entries, which must be strictly ordered
// by time with non-decreasing offsets.
func NewTable(entries []Entry, source string, expires time.Time) (*Table, error) {
	t := &Table{
		entries:     entries,
		Source:      source,
		RefreshedAt: time.Now(),
		Expires:     expires,
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) validate() error {
	if len(t.entries) == 0 {
		return ErrNoLeapSeconds
	}
	for i := 1; i < len(t.entries); i++ {
		prev, cur := t.entries[i-1], t.entries[i]
		if !cur.Time.After(prev.Time) {
			return fmt.Errorf("leap second entries out of order at %s", cur.Time)
		}
		if cur.Offset < prev.Offset {
			return fmt.Errorf("leap second offset decreases at %s", cur.Time)
		}
	}
	return nil
}

// OffsetAt returns the cumulative TAI-UTC offset in effect at the given
// UTC instant: the offset of the entry with the greatest effective time
// not after t. Returns ErrBeforeTableStart for instants preceding the
// first record.
func (t *Table) OffsetAt(instant time.Time) (int, error) {
	if instant.Before(t.entries[0].Time) {
		return 0, fmt.Errorf("%w: %s is before %s", ErrBeforeTableStart, instant.UTC(), t.entries[0].Time.UTC())
	}
	// first entry after instant
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Time.After(instant)
	})
	return t.entries[i-1].Offset, nil
}

// Latest returns the most recent leap second record.
func (t *Table) Latest() Entry {
	return t.entries[len(t.entries)-1]
}

// Entries returns a copy of the leap second records.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of leap second records.
func (t *Table) Len() int {
	return len(t.entries)
}

// IsStale reports whether the published expiration instant has passed.
// A stale table is still usable: leap seconds are only ever announced in
// advance, so stale data can miss a recent leap second but is never wrong
// about the past.
func (t *Table) IsStale() bool {
	return !t.Expires.After(time.Now())
}
