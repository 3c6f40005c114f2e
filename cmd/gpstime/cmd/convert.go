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

package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebook/gpstime/gpstime"
	"github.com/facebook/gpstime/leapseconds"
)

var (
	convertLocalFlag  bool
	convertUTCFlag    bool
	convertGPSFlag    bool
	convertISOFlag    bool
	convertFormatFlag string
)

const convertDefaultFormat = "2006-01-02 15:04:05.000000 MST"

func init() {
	RootCmd.AddCommand(convertCmd)
	convertCmd.Flags().BoolVarP(&convertLocalFlag, "local", "l", false, "print only local time")
	convertCmd.Flags().BoolVarP(&convertUTCFlag, "utc", "u", false, "print only UTC time")
	convertCmd.Flags().BoolVarP(&convertGPSFlag, "gps", "g", false, "print only GPS time")
	convertCmd.Flags().BoolVarP(&convertISOFlag, "iso", "i", false, "use ISO time format")
	convertCmd.Flags().StringVarP(&convertFormatFlag, "format", "f", convertDefaultFormat, "time format, Go reference layout")
}

var convertCmd = &cobra.Command{
	Use:   "convert [TIME]",
	Short: "Convert between civil and GPS time",
	Long: `Print local, UTC and GPS renditions of the given time.
TIME can be a civil timestamp, a numeric GPS timestamp, or a Unix
timestamp prefixed with '@'. Without TIME the current time is used.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(_ *cobra.Command, args []string) error {
		ConfigureVerbosity()
		return convertRun(strings.Join(args, " "))
	},
}

// parseInput resolves the input string to a GPS instant plus its civil
// rendition, carrying the leap second flag when the input names one.
func parseInput(input string, tbl *leapseconds.Table) (gpstime.Time, gpstime.Civil, error) {
	if input == "" || input == "now" {
		gt, err := gpstime.Now(tbl)
		if err != nil {
			return gpstime.Time{}, gpstime.Civil{}, err
		}
		civil, err := gt.Civil(tbl)
		return gt, civil, err
	}
	if unix, ok := strings.CutPrefix(input, "@"); ok {
		f, err := strconv.ParseFloat(unix, 64)
		if err != nil {
			return gpstime.Time{}, gpstime.Civil{}, fmt.Errorf("bad Unix timestamp %q: %w", input, err)
		}
		sec := int64(f)
		t := time.Unix(sec, int64((f-float64(sec))*1e9)).UTC()
		gt, err := gpstime.FromUTC(t, tbl)
		if err != nil {
			return gpstime.Time{}, gpstime.Civil{}, err
		}
		civil, err := gt.Civil(tbl)
		return gt, civil, err
	}
	// numbers are GPS timestamps
	if gt, err := gpstime.Parse(input); err == nil {
		civil, err := gt.Civil(tbl)
		return gt, civil, err
	}
	civil, err := gpstime.ParseCivil(input)
	if err != nil {
		return gpstime.Time{}, gpstime.Civil{}, err
	}
	gt, err := civil.GPS(tbl)
	return gt, civil, err
}

func convertRun(input string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	tbl, err := loadTable(ctx)
	if err != nil {
		return err
	}
	gt, civil, err := parseInput(input, tbl)
	if err != nil {
		return err
	}

	format := convertFormatFlag
	if convertISOFlag {
		format = gpstime.ISOFormat
	}
	local := gpstime.Civil{Time: civil.Time.Local(), Leap: civil.Leap}

	switch {
	case convertLocalFlag:
		fmt.Println(local.Format(format))
	case convertUTCFlag:
		fmt.Println(civil.Format(format))
	case convertGPSFlag:
		fmt.Println(gt)
	default:
		fmt.Printf("%s: %s\n", time.Now().Format("MST"), local.Format(format))
		fmt.Printf("%s: %s\n", "UTC", civil.Format(format))
		fmt.Printf("%s: %s\n", "GPS", gt)
	}
	if tbl.IsStale() {
		log.Warningf("leap second data expired %s, run 'gpstime refresh'", tbl.Expires.UTC())
	}
	return nil
}
