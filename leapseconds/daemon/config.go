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
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"

	"github.com/facebook/gpstime/leapseconds"
)

// Config controls the leap second refresh daemon
type Config struct {
	// URL of the IETF leap second bulletin
	URL string `yaml:"url"`
	// CachePath is where the fetched bulletin is persisted
	CachePath string `yaml:"cache_path"`
	// Interval between refresh attempts
	Interval time.Duration `yaml:"interval"`
	// MonitoringPort serves prometheus metrics, 0 disables the server
	MonitoringPort int `yaml:"monitoring_port"`
	// ForceNetwork skips local sources and always fetches from URL
	ForceNetwork bool `yaml:"force_network"`
}

// DefaultConfig returns a config with the standard bulletin URL, user
// cache and a daily refresh.
func DefaultConfig() *Config {
	return &Config{
		URL:       leapseconds.DefaultIETFURL,
		CachePath: leapseconds.DefaultCachePath(),
		Interval:  24 * time.Hour,
	}
}

// ReadConfig reads config from a yaml file
func ReadConfig(path string) (*Config, error) {
	c := DefaultConfig()
	cData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(cData, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the config for nonsense values
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url must be set")
	}
	if c.Interval < time.Minute {
		return fmt.Errorf("refresh interval %s is too aggressive, minimum is 1m", c.Interval)
	}
	if c.MonitoringPort < 0 || c.MonitoringPort > 65535 {
		return fmt.Errorf("bad monitoring port %d", c.MonitoringPort)
	}
	return nil
}
