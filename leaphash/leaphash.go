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

// Package leaphash computes the special SHA-1 checksum of the NIST/IETF
// leap-seconds.list document, as published on the "#h" line of the file.
package leaphash

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// Compute returns the hash of the leap second file content.
// The hash covers the "#$" last update field, the "#@" expiration field
// and the timestamp and offset of every leap second record, with all
// whitespace removed.
func Compute(data string) string {
	var lastUpdate, expirationDate string
	var records strings.Builder
	for _, line := range strings.Split(data, "\n") {
		switch {
		case strings.HasPrefix(line, "#$"):
			lastUpdate = strings.TrimSpace(line[2:])
		case strings.HasPrefix(line, "#@"):
			expirationDate = strings.TrimSpace(line[2:])
		case strings.HasPrefix(line, "#"):
			// comment
		default:
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				records.WriteString(fields[0])
				records.WriteString(fields[1])
			}
		}
	}
	digest := sha1.Sum([]byte(lastUpdate + expirationDate + records.String()))
	groups := make([]string, 0, 5)
	for i := 0; i < len(digest); i += 4 {
		groups = append(groups, fmt.Sprintf("%02x%02x%02x%02x", digest[i], digest[i+1], digest[i+2], digest[i+3]))
	}
	return strings.Join(groups, " ")
}
