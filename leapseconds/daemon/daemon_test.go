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

package daemon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/facebook/gpstime/leapseconds"
)

func serveBulletin(t *testing.T) *httptest.Server {
	t.Helper()
	entries := []leapseconds.Entry{
		{Time: time.Date(1972, time.January, 1, 0, 0, 0, 0, time.UTC), Offset: 10},
		{Time: time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC), Offset: 37},
	}
	doc := leapseconds.FormatIETF(entries, time.Now(), time.Now().Add(365*24*time.Hour))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(doc)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = ""
	_, err := New(cfg)
	require.Error(t, err)
}

func TestDaemonRefreshes(t *testing.T) {
	server := serveBulletin(t)
	cache := filepath.Join(t.TempDir(), "leap-seconds.list")
	cfg := &Config{
		URL:          server.URL,
		CachePath:    cache,
		Interval:     time.Hour,
		ForceNetwork: true,
	}
	d, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return d.Refresher().State() == leapseconds.StateLoaded
	}, 5*time.Second, 10*time.Millisecond)

	tbl, err := d.Refresher().Table(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())
	require.Equal(t, 37, tbl.Latest().Offset)

	// the fetched bulletin was cached for offline starts
	_, err = os.Stat(cache)
	require.NoError(t, err)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
