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
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/facebook/gpstime/leaphash"
)

// ntpUnixDelta is the number of seconds between the NTP epoch
// (1900-01-01T00:00:00Z) and the Unix epoch (1970-01-01T00:00:00Z).
// Timestamps in leap-seconds.list are in NTP seconds.
const ntpUnixDelta = 2208988800

var errBadHash = errors.New("leap second file hash mismatch")

func ntpToTime(ntp int64) time.Time {
	return time.Unix(ntp-ntpUnixDelta, 0).UTC()
}

func timeToNTP(t time.Time) int64 {
	return t.Unix() + ntpUnixDelta
}

// ParseIETF parses a leap-seconds.list document in the IETF/NIST
// distribution format. If the document carries a "#h" hash line the
// content is verified against it. The expiration instant comes from the
// "#@" line; a document without one is treated as already expired.
func ParseIETF(data []byte) ([]Entry, time.Time, error) {
	doc := string(data)
	if err := verifyHash(doc); err != nil {
		return nil, time.Time{}, err
	}
	var entries []Entry
	var expires time.Time
	for n, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, "#@"):
			ntp, err := strconv.ParseInt(strings.TrimSpace(line[2:]), 10, 64)
			if err != nil {
				return nil, time.Time{}, fmt.Errorf("line %d: bad expiration: %w", n+1, err)
			}
			expires = ntpToTime(ntp)
		case strings.HasPrefix(line, "#"):
		default:
			fields := strings.Fields(line)
			if len(fields) < 2 {
				return nil, time.Time{}, fmt.Errorf("line %d: malformed leap second record", n+1)
			}
			ntp, err := strconv.ParseInt(fields[0], 10, 64)
			if err != nil {
				return nil, time.Time{}, fmt.Errorf("line %d: bad timestamp: %w", n+1, err)
			}
			offset, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, time.Time{}, fmt.Errorf("line %d: bad offset: %w", n+1, err)
			}
			entries = append(entries, Entry{Time: ntpToTime(ntp), Offset: offset})
		}
	}
	if len(entries) == 0 {
		return nil, time.Time{}, ErrNoLeapSeconds
	}
	return entries, expires, nil
}

// verifyHash checks the document against its "#h" line, if present.
// Published hash groups may omit leading zeros, so groups are compared
// as integers rather than as strings.
func verifyHash(doc string) error {
	var published string
	for _, line := range strings.Split(doc, "\n") {
		if strings.HasPrefix(line, "#h") {
			published = strings.TrimSpace(line[2:])
			break
		}
	}
	if published == "" {
		return nil
	}
	computed := leaphash.Compute(doc)
	want := strings.Fields(published)
	got := strings.Fields(computed)
	if len(want) != len(got) {
		return fmt.Errorf("%w: %q != %q", errBadHash, published, computed)
	}
	for i := range want {
		if strings.TrimLeft(want[i], "0") != strings.TrimLeft(got[i], "0") {
			return fmt.Errorf("%w: %q != %q", errBadHash, published, computed)
		}
	}
	return nil
}

// FormatIETF renders leap second records back into the IETF distribution
// format, including the update, expiration and hash lines, so the output
// verifies and parses cleanly.
func FormatIETF(entries []Entry, updated, expires time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# Leap second data, IETF/NIST leap-seconds.list format\n")
	fmt.Fprintf(&b, "#$\t%d\n", timeToNTP(updated))
	fmt.Fprintf(&b, "#@\t%d\n", timeToNTP(expires))
	for _, e := range entries {
		fmt.Fprintf(&b, "%d\t%d\t# %s\n", timeToNTP(e.Time), e.Offset, e.Time.UTC().Format("2 Jan 2006"))
	}
	fmt.Fprintf(&b, "#h\t%s\n", leaphash.Compute(b.String()))
	return []byte(b.String())
}
