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

package leapseconds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func utc(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testEntries() []Entry {
	return []Entry{
		{Time: utc(1972, time.January, 1), Offset: 10},
		{Time: utc(1972, time.July, 1), Offset: 11},
		{Time: utc(1973, time.January, 1), Offset: 12},
		{Time: utc(1993, time.July, 1), Offset: 28},
		{Time: utc(2017, time.January, 1), Offset: 37},
	}
}

func TestNewTableValidates(t *testing.T) {
	_, err := NewTable(nil, "test", time.Now())
	require.ErrorIs(t, err, ErrNoLeapSeconds)

	outOfOrder := []Entry{
		{Time: utc(1973, time.January, 1), Offset: 12},
		{Time: utc(1972, time.July, 1), Offset: 11},
	}
	_, err = NewTable(outOfOrder, "test", time.Now())
	require.Error(t, err)

	decreasing := []Entry{
		{Time: utc(1972, time.July, 1), Offset: 11},
		{Time: utc(1973, time.January, 1), Offset: 10},
	}
	_, err = NewTable(decreasing, "test", time.Now())
	require.Error(t, err)
}

func TestOffsetAt(t *testing.T) {
	tbl, err := NewTable(testEntries(), "test", time.Now().Add(time.Hour))
	require.NoError(t, err)

	testCases := []struct {
		name string
		in   time.Time
		want int
	}{
		{"first entry boundary", utc(1972, time.January, 1), 10},
		{"between entries", utc(1972, time.March, 15), 10},
		{"second boundary", utc(1972, time.July, 1), 11},
		{"instant before boundary", time.Date(1993, time.June, 30, 23, 59, 59, 0, time.UTC), 12},
		{"after last entry", utc(2020, time.January, 1), 37},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tbl.OffsetAt(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestOffsetAtBeforeTableStart(t *testing.T) {
	tbl, err := NewTable(testEntries(), "test", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = tbl.OffsetAt(utc(1971, time.December, 31))
	require.ErrorIs(t, err, ErrBeforeTableStart)
}

func TestOffsetAtMonotonic(t *testing.T) {
	tbl, err := NewTable(testEntries(), "test", time.Now().Add(time.Hour))
	require.NoError(t, err)
	prev := 0
	for cur := utc(1972, time.January, 1); cur.Year() < 2020; cur = cur.AddDate(0, 1, 0) {
		off, err := tbl.OffsetAt(cur)
		require.NoError(t, err)
		require.GreaterOrEqual(t, off, prev, "offset decreased at %s", cur)
		prev = off
	}
}

func TestIsStale(t *testing.T) {
	fresh, err := NewTable(testEntries(), "test", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.False(t, fresh.IsStale())

	stale, err := NewTable(testEntries(), "test", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.True(t, stale.IsStale())

	// no published expiration means perpetually stale
	unknown, err := NewTable(testEntries(), "test", time.Time{})
	require.NoError(t, err)
	require.True(t, unknown.IsStale())
}

func TestLatest(t *testing.T) {
	tbl, err := NewTable(testEntries(), "test", time.Now())
	require.NoError(t, err)
	require.Equal(t, Entry{Time: utc(2017, time.January, 1), Offset: 37}, tbl.Latest())
	require.Equal(t, 5, tbl.Len())
}

func TestEntriesCopy(t *testing.T) {
	tbl, err := NewTable(testEntries(), "test", time.Now())
	require.NoError(t, err)
	got := tbl.Entries()
	got[0].Offset = 99
	require.Equal(t, 10, tbl.Entries()[0].Offset)
}
