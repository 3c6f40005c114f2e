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

package main

import (
	"context"
	"flag"

	log "github.com/sirupsen/logrus"

	"github.com/facebook/gpstime/leapseconds/daemon"
)

func main() {
	var (
		cfgPath string
		verbose bool
	)
	cfg := daemon.DefaultConfig()

	flag.StringVar(&cfg.URL, "url", cfg.URL, "where to fetch leap second data from")
	flag.StringVar(&cfg.CachePath, "cache", cfg.CachePath, "cache file to keep updated")
	flag.DurationVar(&cfg.Interval, "interval", cfg.Interval, "how often to refresh leap second data")
	flag.IntVar(&cfg.MonitoringPort, "monitoringport", 9163, "port to serve prometheus metrics on, 0 to disable")
	flag.BoolVar(&cfg.ForceNetwork, "forcenetwork", false, "skip local sources, always fetch from url")
	flag.StringVar(&cfgPath, "cfg", "", "path to yaml config, flag values are ignored when set")
	flag.BoolVar(&verbose, "verbose", false, "verbose logging")
	flag.Parse()

	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	if cfgPath != "" {
		log.Warningf("using config from %s, flag values are ignored", cfgPath)
		var err error
		cfg, err = daemon.ReadConfig(cfgPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	d, err := daemon.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := d.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
