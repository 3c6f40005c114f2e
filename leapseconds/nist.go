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
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultNISTFile is the NIST-style leap second list tzdata installs.
const DefaultNISTFile = "/usr/share/zoneinfo/leapseconds"

// ParseNIST parses the NIST-style zoneinfo leapseconds file: one
//
//	Leap	YEAR	MON	DAY	23:59:60	+/-	R/S
//
// line per leap second, with the expiration on an "#expires" comment as
// Unix seconds. Offsets are cumulative from the 10 seconds TAI-UTC
// started with; the new offset takes effect at the midnight following
// the inserted second.
func ParseNIST(data []byte) ([]Entry, time.Time, error) {
	entries := []Entry{{Time: time.Date(1972, 1, 1, 0, 0, 0, 0, time.UTC), Offset: 10}}
	offset := 10
	var expires time.Time
	for n, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, "#expires"):
			unix, err := strconv.ParseInt(strings.Fields(line)[1], 10, 64)
			if err != nil {
				return nil, time.Time{}, fmt.Errorf("line %d: bad expiration: %w", n+1, err)
			}
			expires = time.Unix(unix, 0).UTC()
		case strings.HasPrefix(line, "#"):
		default:
			fields := strings.Fields(line)
			if len(fields) < 6 || fields[0] != "Leap" {
				return nil, time.Time{}, fmt.Errorf("line %d: malformed leap second record", n+1)
			}
			day, err := time.Parse("2006 Jan 2", fields[1]+" "+fields[2]+" "+fields[3])
			if err != nil {
				return nil, time.Time{}, fmt.Errorf("line %d: bad date: %w", n+1, err)
			}
			switch fields[5] {
			case "+":
				offset++
			case "-":
				offset--
			default:
				return nil, time.Time{}, fmt.Errorf("line %d: bad correction %q", n+1, fields[5])
			}
			entries = append(entries, Entry{Time: day.AddDate(0, 0, 1), Offset: offset})
		}
	}
	if len(entries) == 1 {
		return nil, time.Time{}, ErrNoLeapSeconds
	}
	return entries, expires, nil
}

// NISTFileSource loads the NIST-style zoneinfo leapseconds file.
type NISTFileSource struct {
	// Path to the file, DefaultNISTFile if empty
	Path string
}

// Name implements Source
func (s *NISTFileSource) Name() string {
	return "nist:" + s.path()
}

func (s *NISTFileSource) path() string {
	if s.Path == "" {
		return DefaultNISTFile
	}
	return s.Path
}

// Load implements Source
func (s *NISTFileSource) Load(_ context.Context) (*Table, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		return nil, err
	}
	entries, expires, err := ParseNIST(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path(), err)
	}
	return NewTable(entries, s.Name(), expires)
}
