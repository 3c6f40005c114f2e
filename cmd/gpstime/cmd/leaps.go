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
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/facebook/gpstime/gpstime"
	"github.com/facebook/gpstime/leapseconds"
)

func init() {
	RootCmd.AddCommand(leapsCmd)
}

var leapsCmd = &cobra.Command{
	Use:   "leaps",
	Short: "Show the leap second table and its freshness",
	RunE: func(_ *cobra.Command, _ []string) error {
		ConfigureVerbosity()
		return leapsRun()
	},
}

func leapsRun() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	tbl, err := loadTable(ctx)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"effective (UTC)", "TAI-UTC", "GPS-UTC"})
	for _, e := range tbl.Entries() {
		gpsOffset := ""
		if !e.Time.Before(gpstime.Epoch) {
			gpsOffset = strconv.Itoa(e.Offset - gpstime.TAIOffsetAtEpoch)
		}
		table.Append([]string{
			e.Time.UTC().Format("2006-01-02"),
			strconv.Itoa(e.Offset),
			gpsOffset,
		})
	}
	table.Render()

	fmt.Printf("source:  %s\n", tbl.Source)
	if tbl.Expires.IsZero() {
		fmt.Println("expires: unknown (source publishes no expiration)")
	} else {
		fmt.Printf("expires: %s\n", tbl.Expires.UTC().Format(time.RFC3339))
	}
	printStatus(tbl)
	return nil
}

func printStatus(tbl *leapseconds.Table) {
	if tbl.IsStale() {
		color.Red("status:  STALE")
	} else {
		color.Green("status:  OK")
	}
}
