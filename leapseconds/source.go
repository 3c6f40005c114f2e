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
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultIETFURL is the authoritative leap second bulletin
const DefaultIETFURL = "https://www.ietf.org/timezones/data/leap-seconds.list"

// DefaultIETFFile is where tzdata installs the leap second bulletin
const DefaultIETFFile = "/usr/share/zoneinfo/leap-seconds.list"

const fetchTimeout = 30 * time.Second

// DefaultCachePath returns the per-user cache location for the
// network-fetched bulletin.
func DefaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = "/var/cache"
	}
	return filepath.Join(dir, "gpstime", "leap-seconds.list")
}

// Source produces a leap second table, or reports that it can't.
type Source interface {
	// Name identifies the source in logs and table metadata
	Name() string
	// Load reads the source and builds a table
	Load(ctx context.Context) (*Table, error)
}

// TZFileSource loads leap seconds from the system timezone database.
// TZif files carry no expiration, so tables from this source always
// report stale and are only used when no expiring source is fresher.
type TZFileSource struct {
	// Path to a TZif file with leap records, DefaultTZFile if empty
	Path string
}

// Name implements Source
func (s *TZFileSource) Name() string {
	p := s.Path
	if p == "" {
		p = DefaultTZFile
	}
	return "tzfile:" + p
}

// Load implements Source
func (s *TZFileSource) Load(_ context.Context) (*Table, error) {
	entries, err := ParseTZFile(s.Path)
	if err != nil {
		return nil, err
	}
	return NewTable(entries, s.Name(), time.Time{})
}

// IETFFileSource loads a local copy of the IETF leap-seconds.list file.
type IETFFileSource struct {
	Path string
}

// Name implements Source
func (s *IETFFileSource) Name() string {
	return "file:" + s.Path
}

// Load implements Source
func (s *IETFFileSource) Load(_ context.Context) (*Table, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	entries, expires, err := ParseIETF(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.Path, err)
	}
	return NewTable(entries, s.Name(), expires)
}

// HTTPSource fetches the IETF bulletin over the network and persists a
// verified copy to CachePath. A response that fails to parse or
// hash-verify is never installed over an existing cache file.
type HTTPSource struct {
	// URL of the bulletin, DefaultIETFURL if empty
	URL string
	// CachePath to persist the fetched file to, no persistence if empty
	CachePath string
	Client    *http.Client
}

// Name implements Source
func (s *HTTPSource) Name() string {
	return "url:" + s.url()
}

func (s *HTTPSource) url() string {
	if s.URL == "" {
		return DefaultIETFURL
	}
	return s.URL
}

// Load implements Source
func (s *HTTPSource) Load(ctx context.Context) (*Table, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.url(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %s", s.url(), http.StatusText(resp.StatusCode))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	entries, expires, err := ParseIETF(data)
	if err != nil {
		return nil, fmt.Errorf("parsing response from %s: %w", s.url(), err)
	}
	tbl, err := NewTable(entries, s.Name(), expires)
	if err != nil {
		return nil, err
	}
	if s.CachePath != "" {
		if err := writeFileAtomic(s.CachePath, data); err != nil {
			// cache write failure doesn't invalidate the fetched data
			log.Warningf("failed to cache leap second data to %s: %v", s.CachePath, err)
		}
	}
	return tbl, nil
}

// writeFileAtomic writes via a temp file and rename so readers never see
// a partially written bulletin.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// DefaultSources is the standard lookup chain: NIST-style system file,
// system timezone database, system bulletin, user cache, then the
// network.
func DefaultSources() []Source {
	cache := DefaultCachePath()
	return []Source{
		&NISTFileSource{},
		&TZFileSource{},
		&IETFFileSource{Path: DefaultIETFFile},
		&IETFFileSource{Path: cache},
		&HTTPSource{CachePath: cache},
	}
}

// Load tries sources in order and returns the first fresh table. If
// every available source is stale the one with the latest expiration is
// returned with a logged warning: slightly stale leap second data beats
// none, since leap seconds are announced months in advance. Returns
// ErrDataUnavailable only when no source yields any table.
func Load(ctx context.Context, sources ...Source) (*Table, error) {
	if len(sources) == 0 {
		sources = DefaultSources()
	}
	var best *Table
	for _, s := range sources {
		tbl, err := s.Load(ctx)
		if err != nil {
			log.Debugf("leap second source %s: %v", s.Name(), err)
			continue
		}
		if !tbl.IsStale() {
			return tbl, nil
		}
		if best == nil || tbl.Expires.After(best.Expires) {
			best = tbl
		}
	}
	if best != nil {
		log.Warningf("leap second data from %s is stale (expired %s)", best.Source, best.Expires.UTC())
		return best, nil
	}
	return nil, ErrDataUnavailable
}

// Update force-refreshes the user cache from the network unless the
// cache is already fresh and force is false.
func Update(ctx context.Context, url, cachePath string, force bool) (*Table, error) {
	if url == "" {
		url = DefaultIETFURL
	}
	if cachePath == "" {
		cachePath = DefaultCachePath()
	}
	if !force {
		cached := &IETFFileSource{Path: cachePath}
		if tbl, err := cached.Load(ctx); err == nil && !tbl.IsStale() {
			return tbl, nil
		}
	}
	log.Infof("updating leap second data from %s", url)
	src := &HTTPSource{URL: url, CachePath: cachePath}
	return src.Load(ctx)
}
