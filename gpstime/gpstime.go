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

// Package gpstime converts between civil (UTC) time and GPS time.
//
// GPS time counts seconds since the GPS epoch (1980-01-06T00:00:00Z) and
// is never adjusted for leap seconds, so the UTC-GPS offset grows every
// time UTC inserts one. Conversions therefore need a leap second table,
// which is taken as an explicit argument rather than hidden global state
// so callers control where the data comes from.
package gpstime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/facebook/gpstime/leapseconds"
	log "github.com/sirupsen/logrus"
)

// Epoch is the GPS epoch: the instant GPS time zero corresponds to.
var Epoch = time.Date(1980, 1, 6, 0, 0, 0, 0, time.UTC)

// gps0Unix is the Unix timestamp of the GPS epoch
const gps0Unix = 315964800

// TAIOffsetAtEpoch is the cumulative TAI-UTC offset that was in effect
// at the GPS epoch. GPS-UTC for a table offset off is off minus this.
const TAIOffsetAtEpoch = 19

const nsPerSec = 1_000_000_000

// Time is an instant on the GPS timescale, counted in seconds since the
// GPS epoch. The zero value is the GPS epoch itself. Values are
// immutable; nanoseconds are normalized to [0, 1s) with the second
// count acting as the floor.
type Time struct {
	sec  int64
	nsec int32
}

// New returns a Time for the given whole seconds and nanoseconds since
// the GPS epoch. Nanoseconds outside [0, 1e9) are normalized.
func New(sec int64, nsec int64) Time {
	sec += nsec / nsPerSec
	nsec %= nsPerSec
	if nsec < 0 {
		sec--
		nsec += nsPerSec
	}
	return Time{sec: sec, nsec: int32(nsec)}
}

// FromSeconds returns a Time for a possibly fractional GPS second count.
func FromSeconds(s float64) Time {
	sec := int64(s)
	frac := s - float64(sec)
	return New(sec, int64(math.Round(frac*nsPerSec)))
}

// Sec returns the whole seconds since the GPS epoch.
func (t Time) Sec() int64 {
	return t.sec
}

// Nanosecond returns the sub-second part, in [0, 1e9).
func (t Time) Nanosecond() int {
	return int(t.nsec)
}

// Seconds returns the GPS second count as a float. Loses precision for
// large values, use Sec/Nanosecond where exactness matters.
func (t Time) Seconds() float64 {
	return float64(t.sec) + float64(t.nsec)/nsPerSec
}

// Before reports whether t is earlier than u.
func (t Time) Before(u Time) bool {
	return t.sec < u.sec || (t.sec == u.sec && t.nsec < u.nsec)
}

// Add returns t shifted by d GPS seconds. GPS time is linear, no leap
// second accounting applies.
func (t Time) Add(d time.Duration) Time {
	return New(t.sec+int64(d/time.Second), int64(t.nsec)+int64(d%time.Second))
}

// String renders the numeric GPS form, e.g. "1133585676" or
// "1133585676.25".
func (t Time) String() string {
	if t.nsec == 0 {
		return strconv.FormatInt(t.sec, 10)
	}
	sec, nsec := t.sec, int64(t.nsec)
	sign := ""
	if sec < 0 {
		// normalized form floors the seconds, undo for display
		sign = "-"
		sec = -(sec + 1)
		nsec = nsPerSec - nsec
	}
	frac := strings.TrimRight(fmt.Sprintf("%09d", nsec), "0")
	return fmt.Sprintf("%s%d.%s", sign, sec, frac)
}

// Parse reads the numeric GPS form produced by String.
func Parse(s string) (Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Time{}, fmt.Errorf("empty GPS timestamp")
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	sec, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Time{}, fmt.Errorf("bad GPS timestamp %q: %w", s, err)
	}
	var nsec int64
	if fracPart != "" {
		if len(fracPart) > 9 {
			fracPart = fracPart[:9]
		}
		nsec, err = strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return Time{}, fmt.Errorf("bad GPS timestamp %q: %w", s, err)
		}
		for i := len(fracPart); i < 9; i++ {
			nsec *= 10
		}
	}
	if neg {
		sec, nsec = -sec, -nsec
	}
	return New(sec, nsec), nil
}

// FromUTC converts a civil UTC instant to GPS time:
//
//	gps = (unix - gps0) + offset(utc) - offset(gps epoch)
//
// Conversions with a stale table succeed with a logged warning, since
// stale leap second data is still correct about the past. Instants
// before the table's first record fail.
func FromUTC(civil time.Time, tbl *leapseconds.Table) (Time, error) {
	warnIfStale(tbl)
	off, err := tbl.OffsetAt(civil)
	if err != nil {
		return Time{}, err
	}
	epochOff, err := tbl.OffsetAt(Epoch)
	if err != nil {
		return Time{}, err
	}
	return New(civil.Unix()-gps0Unix+int64(off-epochOff), int64(civil.Nanosecond())), nil
}

// Now returns the current GPS time.
func Now(tbl *leapseconds.Table) (Time, error) {
	return FromUTC(time.Now(), tbl)
}

// Civil converts GPS time back to civil UTC. The leap second offset is a
// step function of UTC, not of GPS, so the inverse takes a candidate
// offset at the uncorrected instant and at most one correction pass;
// leap boundaries are months apart so one pass always settles it, except
// during an inserted leap second itself, where two GPS seconds map to
// the same Unix second. That case is detected by the offset refusing to
// settle and is reported with Leap set, rendering as second :60.
func (t Time) Civil(tbl *leapseconds.Table) (Civil, error) {
	warnIfStale(tbl)
	epochOff, err := tbl.OffsetAt(Epoch)
	if err != nil {
		return Civil{}, err
	}
	raw := t.sec + gps0Unix
	off, err := tbl.OffsetAt(time.Unix(raw, 0))
	if err != nil {
		return Civil{}, err
	}
	unix := raw - int64(off-epochOff)
	for i := 0; i < 2; i++ {
		again, err := tbl.OffsetAt(time.Unix(unix, 0))
		if err != nil {
			return Civil{}, err
		}
		if again == off {
			return Civil{Time: time.Unix(unix, int64(t.nsec)).UTC()}, nil
		}
		off = again
		unix = raw - int64(off-epochOff)
	}
	// the offset oscillates across the boundary: t falls on the
	// inserted leap second, which shares a Unix second with 23:59:59.
	// unix was last computed with the post-boundary offset, giving
	// that shared second.
	return Civil{Time: time.Unix(unix, int64(t.nsec)).UTC(), Leap: true}, nil
}

func warnIfStale(tbl *leapseconds.Table) {
	if tbl.IsStale() {
		log.Warningf("leap second data expired %s, recent leap seconds may be missing", tbl.Expires.UTC())
	}
}
