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
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

// State of a Refresher's table
type State int32

// Refresher states
const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
	StateStale
	StateRefreshing
	StateExpired
)

// expiredGrace is how long past the published expiration a table is
// still reported merely Stale rather than Expired.
const expiredGrace = 180 * 24 * time.Hour

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "UNLOADED"
	case StateLoading:
		return "LOADING"
	case StateLoaded:
		return "LOADED"
	case StateStale:
		return "STALE"
	case StateRefreshing:
		return "REFRESHING"
	case StateExpired:
		return "EXPIRED"
	}
	return "UNKNOWN"
}

// Refresher owns the process-wide leap second table. Readers get
// immutable snapshots, updates replace the snapshot atomically, and a
// failed refresh keeps the last good table rather than discarding it.
type Refresher struct {
	sources []Source

	table   atomic.Pointer[Table]
	loading atomic.Bool
	mu      sync.Mutex
}

// NewRefresher makes a Refresher over the given sources, or
// DefaultSources if none given.
func NewRefresher(sources ...Source) *Refresher {
	if len(sources) == 0 {
		sources = DefaultSources()
	}
	return &Refresher{sources: sources}
}

// Table returns the current snapshot, loading it on first use.
// Conversions running concurrently with a refresh keep the snapshot
// they were given.
func (r *Refresher) Table(ctx context.Context) (*Table, error) {
	if tbl := r.table.Load(); tbl != nil {
		return tbl, nil
	}
	if err := r.Refresh(ctx); err != nil {
		return nil, err
	}
	return r.table.Load(), nil
}

// State reports where the table is in its lifecycle. Staleness is
// evaluated against the snapshot's expiration at call time.
func (r *Refresher) State() State {
	loading := r.loading.Load()
	tbl := r.table.Load()
	if tbl == nil {
		if loading {
			return StateLoading
		}
		return StateUnloaded
	}
	if loading {
		return StateRefreshing
	}
	if !tbl.IsStale() {
		return StateLoaded
	}
	if !tbl.Expires.IsZero() && time.Since(tbl.Expires) > expiredGrace {
		return StateExpired
	}
	return StateStale
}

// Refresh reloads the table from the sources and swaps the snapshot on
// success. On failure the previous snapshot, if any, stays in place:
// slightly stale leap second data is still correct about the past.
func (r *Refresher) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.loading.Store(true)
	defer r.loading.Store(false)

	tbl, err := Load(ctx, r.sources...)
	if err != nil {
		if prev := r.table.Load(); prev != nil {
			log.Warningf("leap second refresh failed, keeping table from %s: %v", prev.Source, err)
			return nil
		}
		return err
	}
	r.table.Store(tbl)
	log.Debugf("leap second table loaded from %s, %d entries, expires %s", tbl.Source, tbl.Len(), tbl.Expires.UTC())
	return nil
}

// Run refreshes on a ticker until the context is cancelled. Meant to be
// started in its own goroutine so fetch latency never sits on the
// conversion path.
func (r *Refresher) Run(ctx context.Context, interval time.Duration) error {
	if err := r.Refresh(ctx); err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				log.Errorf("periodic leap second refresh: %v", err)
			}
		}
	}
}
