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

// Package daemon keeps the local leap second cache fresh and exports
// table health over prometheus. It is the scheduled refresh trigger:
// conversion-path callers never pay fetch latency, they just read the
// latest snapshot.
package daemon

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/facebook/gpstime/leapseconds"
)

// Daemon periodically refreshes the leap second table and serves
// monitoring data.
type Daemon struct {
	cfg       *Config
	refresher *leapseconds.Refresher
	registry  *prometheus.Registry

	leapCount       prometheus.Gauge
	currentOffset   prometheus.Gauge
	tableStale      prometheus.Gauge
	tableExpires    prometheus.Gauge
	lastRefresh     prometheus.Gauge
	refreshFailures prometheus.Counter
}

// New creates a Daemon from config
func New(cfg *Config) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var sources []leapseconds.Source
	if cfg.ForceNetwork {
		sources = []leapseconds.Source{
			&leapseconds.HTTPSource{URL: cfg.URL, CachePath: cfg.CachePath},
		}
	} else {
		sources = []leapseconds.Source{
			&leapseconds.NISTFileSource{},
			&leapseconds.TZFileSource{},
			&leapseconds.IETFFileSource{Path: leapseconds.DefaultIETFFile},
			&leapseconds.IETFFileSource{Path: cfg.CachePath},
			&leapseconds.HTTPSource{URL: cfg.URL, CachePath: cfg.CachePath},
		}
	}
	d := &Daemon{
		cfg:       cfg,
		refresher: leapseconds.NewRefresher(sources...),
		registry:  prometheus.NewRegistry(),
		leapCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "leapsecd_leap_seconds",
			Help: "Number of leap second records in the current table",
		}),
		currentOffset: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "leapsecd_tai_utc_offset_seconds",
			Help: "Cumulative TAI-UTC offset currently in effect",
		}),
		tableStale: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "leapsecd_table_stale",
			Help: "1 if the leap second table is past its published expiration",
		}),
		tableExpires: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "leapsecd_table_expires_seconds",
			Help: "Unix timestamp of the table's published expiration",
		}),
		lastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "leapsecd_last_refresh_seconds",
			Help: "Unix timestamp of the last successful table load",
		}),
		refreshFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leapsecd_refresh_failures_total",
			Help: "Number of refresh attempts that failed",
		}),
	}
	for _, c := range []prometheus.Collector{
		d.leapCount, d.currentOffset, d.tableStale, d.tableExpires, d.lastRefresh, d.refreshFailures,
	} {
		if err := d.registry.Register(c); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Refresher exposes the snapshot holder for in-process consumers.
func (d *Daemon) Refresher() *leapseconds.Refresher {
	return d.refresher
}

// Run refreshes the table on the configured interval and serves metrics
// until the context is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.refreshLoop(ctx)
	})
	if d.cfg.MonitoringPort != 0 {
		g.Go(func() error {
			return d.serveMetrics(ctx)
		})
	}
	return g.Wait()
}

func (d *Daemon) refreshLoop(ctx context.Context) error {
	d.refreshOnce(ctx)
	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.refreshOnce(ctx)
		}
	}
}

func (d *Daemon) refreshOnce(ctx context.Context) {
	if err := d.refresher.Refresh(ctx); err != nil {
		d.refreshFailures.Inc()
		log.Errorf("leap second refresh: %v", err)
	}
	d.collect(ctx)
}

func (d *Daemon) collect(ctx context.Context) {
	tbl, err := d.refresher.Table(ctx)
	if err != nil {
		log.Errorf("no leap second table: %v", err)
		return
	}
	d.leapCount.Set(float64(tbl.Len()))
	d.currentOffset.Set(float64(tbl.Latest().Offset))
	if tbl.IsStale() {
		d.tableStale.Set(1)
	} else {
		d.tableStale.Set(0)
	}
	d.tableExpires.Set(float64(tbl.Expires.Unix()))
	d.lastRefresh.Set(float64(tbl.RefreshedAt.Unix()))
	log.Debugf("table state %s, %d leap seconds, TAI-UTC %ds", d.refresher.State(), tbl.Len(), tbl.Latest().Offset)
}

func (d *Daemon) serveMetrics(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", d.cfg.MonitoringPort),
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		server.Close()
	}()
	log.Infof("serving metrics on port %d", d.cfg.MonitoringPort)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
