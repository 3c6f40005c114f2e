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
	"encoding/binary"
	"errors"
	"io"
	"os"
	"time"
)

// DefaultTZFile is the system timezone database file that carries leap
// second records ("right" timescale).
const DefaultTZFile = "/usr/share/zoneinfo/right/UTC"

var errBadTZData = errors.New("malformed time zone information")
var errUnsupportedTZVersion = errors.New("unsupported time zone file version")

// tzHeader is the fixed-size TZif header that follows the magic and
// version bytes. Field order matches the file layout.
type tzHeader struct {
	// number of UTC/local indicators in the body
	IsUtcCnt uint32
	// number of standard/wall indicators in the body
	IsStdCnt uint32
	// number of leap second records in the body
	LeapCnt uint32
	// number of transition times in the body
	TimeCnt uint32
	// number of local time type records in the body, must not be zero
	TypeCnt uint32
	// total octets used by the time zone designations in the body
	CharCnt uint32
}

// tzLeap is a raw leap second record from a version 2+ TZif body:
// occurrence time on the leap-counted timescale, and the running count
// of leap seconds after it.
type tzLeap struct {
	Occur uint64
	Count int32
}

// utcTime returns the UTC instant at which the record's offset takes
// effect. Occurrence times in "right" files include previously inserted
// leap seconds, so the count is backed out.
func (l tzLeap) utcTime() time.Time {
	return time.Unix(int64(l.Occur)-int64(l.Count)+1, 0).UTC()
}

// ParseTZFile reads leap second records from a TZif (binary zoneinfo)
// file. Pass "" to read the default system file. The records are
// converted to cumulative TAI-UTC entries, anchored at the 10 second
// offset UTC started with on 1972-01-01. TZif files publish no
// expiration, so the returned expiry is the zero time.
func ParseTZFile(srcfile string) ([]Entry, error) {
	if srcfile == "" {
		srcfile = DefaultTZFile
	}
	f, err := os.Open(srcfile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	leaps, err := parseTZ(f)
	if err != nil {
		return nil, err
	}
	// TAI-UTC was 10s when UTC leap accounting began
	entries := make([]Entry, 0, len(leaps)+1)
	entries = append(entries, Entry{Time: time.Date(1972, 1, 1, 0, 0, 0, 0, time.UTC), Offset: 10})
	for _, l := range leaps {
		entries = append(entries, Entry{Time: l.utcTime(), Offset: int(l.Count) + 10})
	}
	return entries, nil
}

func parseTZ(r io.Reader) ([]tzLeap, error) {
	var ret []tzLeap
	var v byte
	for v = 0; v < 2; v++ {
		// 4-byte magic "TZif"
		magic := make([]byte, 4)
		if _, _ = r.Read(magic); string(magic) != "TZif" {
			return nil, errBadTZData
		}

		// 1-byte version, then 15 bytes of padding
		var version byte
		p := make([]byte, 16)
		if n, _ := r.Read(p); n != 16 {
			return nil, errBadTZData
		}

		version = p[0]
		if version != 0 && version != '2' && version != '3' {
			return nil, errUnsupportedTZVersion
		}

		if v > version {
			return nil, errBadTZData
		}

		var hdr tzHeader
		err := binary.Read(r, binary.BigEndian, &hdr)
		if err != nil {
			return nil, err
		}

		// skip uninteresting data:
		//  timecnt coded transition times (4 bytes each, 8 for ver 2+)
		//  timecnt local time type indexes
		//  typecnt records of (UT offset, isdst, abbreviation index)
		//  charcnt zone abbreviation characters
		var skip int
		if v == 0 {
			skip = int(hdr.TimeCnt)*5 + int(hdr.TypeCnt)*6 + int(hdr.CharCnt)
		} else {
			skip = int(hdr.TimeCnt)*9 + int(hdr.TypeCnt)*6 + int(hdr.CharCnt)
		}

		// the 32-bit part of a version 2+ file is skipped completely
		if v == 0 && version > 0 {
			skip += int(hdr.LeapCnt)*8 + int(hdr.IsUtcCnt) + int(hdr.IsStdCnt)
		}

		if n, _ := io.CopyN(io.Discard, r, int64(skip)); n != int64(skip) {
			return nil, errBadTZData
		}

		if v == 0 && version > 0 {
			continue
		}

		for i := 0; i < int(hdr.LeapCnt); i++ {
			var l tzLeap
			if version == 0 {
				lsv0 := []uint32{0, 0}
				if err := binary.Read(r, binary.BigEndian, &lsv0); err != nil {
					return nil, err
				}
				l.Occur = uint64(lsv0[0])
				l.Count = int32(lsv0[1])
			} else {
				if err := binary.Read(r, binary.BigEndian, &l); err != nil {
					return nil, err
				}
			}
			ret = append(ret, l)
		}
		// trailing UTC/local and standard/wall indicators
		_, _ = io.CopyN(io.Discard, r, int64(hdr.IsUtcCnt)+int64(hdr.IsStdCnt))
		break
	}
	if len(ret) == 0 {
		return nil, ErrNoLeapSeconds
	}

	return ret, nil
}

// writeTZ dumps leap second records as a minimal version 1 TZif file.
// Used to synthesize fixtures, not to maintain the system database.
func writeTZ(w io.Writer, leaps []tzLeap) error {
	hdr := tzHeader{
		IsUtcCnt: 1,
		IsStdCnt: 1,
		LeapCnt:  uint32(len(leaps)),
		TimeCnt:  0,
		TypeCnt:  1,
		CharCnt:  4,
	}
	if _, err := w.Write([]byte("TZif")); err != nil {
		return err
	}
	if _, err := w.Write(make([]byte, 16)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, hdr); err != nil {
		return err
	}
	// one mandatory local time type record, then the zone name
	if _, err := w.Write([]byte{0, 0, 0, 0, 0, 0}); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "UTC\x00"); err != nil {
		return err
	}
	for _, l := range leaps {
		rec := []uint32{uint32(l.Occur), uint32(l.Count)}
		if err := binary.Write(w, binary.BigEndian, &rec); err != nil {
			return err
		}
	}
	// UTC/local and standard/wall indicators
	_, err := w.Write([]byte{0, 0})
	return err
}
