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

package gpstime

import (
	"fmt"
	"strings"
	"time"

	"github.com/facebook/gpstime/leapseconds"
)

// ISOFormat is the default civil rendering layout.
const ISOFormat = "2006-01-02T15:04:05.000000Z07:00"

// Civil is a civil UTC instant. time.Time cannot represent the inserted
// leap second (23:59:60), so during one Time holds the preceding second
// (23:59:59) and Leap is set; formatting bumps the seconds field to 60.
type Civil struct {
	Time time.Time
	Leap bool
}

// Format renders the instant with the given time layout, with the
// seconds field bumped to :60 for the inserted leap second.
func (c Civil) Format(layout string) string {
	out := c.Time.Format(layout)
	if c.Leap {
		out = bumpLeapSecond(out)
	}
	return out
}

// ISO renders the instant in ISO-8601 form with microseconds.
func (c Civil) ISO() string {
	return c.Format(ISOFormat)
}

func (c Civil) String() string {
	return c.ISO()
}

// GPS converts the civil instant to GPS time. The inserted leap second
// maps one second past its 23:59:59 companion.
func (c Civil) GPS(tbl *leapseconds.Table) (Time, error) {
	t, err := FromUTC(c.Time, tbl)
	if err != nil {
		return Time{}, err
	}
	if c.Leap {
		t = t.Add(time.Second)
	}
	return t, nil
}

// bumpLeapSecond rewrites the seconds field of a formatted leap second
// instant from :59 to :60. Leap seconds only ever occur at 23:59:60, so
// the seconds field is the last ":59" not followed by another digit.
func bumpLeapSecond(s string) string {
	for i := len(s) - 3; i >= 0; i-- {
		if s[i] != ':' || s[i+1] != '5' || s[i+2] != '9' {
			continue
		}
		if i+3 < len(s) && s[i+3] >= '0' && s[i+3] <= '9' {
			continue
		}
		return s[:i] + ":60" + s[i+3:]
	}
	return s
}

// civilLayouts are accepted by ParseCivil, tried in order. Layouts
// without a zone are interpreted as UTC.
var civilLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999 MST",
	"2006-01-02 15:04:05.999999999 -0700",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
	"Jan 2 2006 15:04:05 MST",
	"Jan 2 2006 15:04:05",
}

// ParseCivil parses a civil timestamp. A seconds field of :60 (the
// inserted leap second) is accepted and reported via Leap.
func ParseCivil(s string) (Civil, error) {
	s = strings.TrimSpace(s)
	in, leap := unbumpLeapSecond(s)
	for _, layout := range civilLayouts {
		t, err := time.ParseInLocation(layout, in, time.UTC)
		if err != nil {
			continue
		}
		if leap && (t.Hour() != 23 || t.Minute() != 59 || t.Second() != 59) {
			break
		}
		return Civil{Time: t.UTC(), Leap: leap}, nil
	}
	return Civil{}, fmt.Errorf("unrecognized civil timestamp %q", s)
}

// unbumpLeapSecond rewrites a :60 seconds field to :59 so the standard
// parser accepts it, reporting whether it did.
func unbumpLeapSecond(s string) (string, bool) {
	for i := 0; i+2 < len(s); i++ {
		if s[i] != ':' || s[i+1] != '6' || s[i+2] != '0' {
			continue
		}
		if i+3 < len(s) && s[i+3] >= '0' && s[i+3] <= '9' {
			continue
		}
		// :60 is only valid directly after minute 59
		if i >= 3 && s[i-2] == '5' && s[i-1] == '9' {
			return s[:i] + ":59" + s[i+3:], true
		}
	}
	return s, false
}
