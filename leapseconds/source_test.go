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
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fixture expiration is 2026-12-28, tests relying on freshness must
// construct tables directly instead of depending on the wall clock
func fixturePath(t *testing.T) string {
	t.Helper()
	return filepath.Join("testdata", "leap-seconds.list")
}

func TestIETFFileSource(t *testing.T) {
	src := &IETFFileSource{Path: fixturePath(t)}
	tbl, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 28, tbl.Len())
	require.Equal(t, "file:"+fixturePath(t), tbl.Source)
	require.Equal(t, utc(2026, time.December, 28), tbl.Expires)
}

func TestIETFFileSourceMissing(t *testing.T) {
	src := &IETFFileSource{Path: filepath.Join(t.TempDir(), "nope")}
	_, err := src.Load(context.Background())
	require.Error(t, err)
}

func TestHTTPSource(t *testing.T) {
	data, err := os.ReadFile(fixturePath(t))
	require.NoError(t, err)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(data)
	}))
	defer server.Close()

	cache := filepath.Join(t.TempDir(), "cache", "leap-seconds.list")
	src := &HTTPSource{URL: server.URL, CachePath: cache}
	tbl, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 28, tbl.Len())

	// verified copy was persisted
	cached, err := os.ReadFile(cache)
	require.NoError(t, err)
	require.Equal(t, data, cached)
}

func TestHTTPSourceBadResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("this is not a leap second list"))
	}))
	defer server.Close()

	cache := filepath.Join(t.TempDir(), "leap-seconds.list")
	require.NoError(t, os.WriteFile(cache, []byte("precious"), 0o644))

	src := &HTTPSource{URL: server.URL, CachePath: cache}
	_, err := src.Load(context.Background())
	require.Error(t, err)

	// the existing cache survives a bad fetch
	data, err := os.ReadFile(cache)
	require.NoError(t, err)
	require.Equal(t, []byte("precious"), data)
}

func TestHTTPSourceServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	src := &HTTPSource{URL: server.URL}
	_, err := src.Load(context.Background())
	require.Error(t, err)
}

// fakeSource returns a canned table or error
type fakeSource struct {
	name string
	tbl  *Table
	err  error
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Load(_ context.Context) (*Table, error) { return s.tbl, s.err }

func mustTable(t *testing.T, expires time.Time) *Table {
	t.Helper()
	tbl, err := NewTable(testEntries(), "fake", expires)
	require.NoError(t, err)
	return tbl
}

func TestLoadFirstFreshWins(t *testing.T) {
	fresh := mustTable(t, time.Now().Add(24*time.Hour))
	never := &fakeSource{name: "never", err: os.ErrNotExist}
	tbl, err := Load(context.Background(),
		never,
		&fakeSource{name: "fresh", tbl: fresh},
		&fakeSource{name: "fresher", tbl: mustTable(t, time.Now().Add(48*time.Hour))},
	)
	require.NoError(t, err)
	require.Same(t, fresh, tbl)
}

func TestLoadPrefersLeastStale(t *testing.T) {
	older := mustTable(t, time.Now().Add(-48*time.Hour))
	newer := mustTable(t, time.Now().Add(-time.Hour))
	tbl, err := Load(context.Background(),
		&fakeSource{name: "older", tbl: older},
		&fakeSource{name: "newer", tbl: newer},
	)
	require.NoError(t, err)
	require.Same(t, newer, tbl)
}

func TestLoadNothingAvailable(t *testing.T) {
	_, err := Load(context.Background(),
		&fakeSource{name: "a", err: os.ErrNotExist},
		&fakeSource{name: "b", err: os.ErrNotExist},
	)
	require.ErrorIs(t, err, ErrDataUnavailable)
}

func TestUpdateSkipsFreshCache(t *testing.T) {
	// expiry far in the future keeps the fixture fresh for this test's lifetime
	cache := filepath.Join(t.TempDir(), "leap-seconds.list")
	entries, _, err := ParseIETF(readFixture(t))
	require.NoError(t, err)
	doc := FormatIETF(entries, time.Now(), time.Now().Add(365*24*time.Hour))
	require.NoError(t, os.WriteFile(cache, doc, 0o644))

	// URL pointing nowhere proves no fetch happens
	tbl, err := Update(context.Background(), "http://127.0.0.1:0/nope", cache, false)
	require.NoError(t, err)
	require.Equal(t, 28, tbl.Len())
}

func TestUpdateForce(t *testing.T) {
	data := readFixture(t)
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write(data)
	}))
	defer server.Close()

	cache := filepath.Join(t.TempDir(), "leap-seconds.list")
	tbl, err := Update(context.Background(), server.URL, cache, true)
	require.NoError(t, err)
	require.Equal(t, 28, tbl.Len())
	require.Equal(t, 1, hits)
	_, err = os.Stat(cache)
	require.NoError(t, err)
}
