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
	"time"

	"github.com/spf13/cobra"

	"github.com/facebook/gpstime/leapseconds"
)

var (
	refreshURLFlag   string
	refreshCacheFlag string
	refreshForceFlag bool
)

func init() {
	RootCmd.AddCommand(refreshCmd)
	refreshCmd.Flags().StringVar(&refreshURLFlag, "url", leapseconds.DefaultIETFURL, "where to fetch leap second data from")
	refreshCmd.Flags().StringVar(&refreshCacheFlag, "cache", leapseconds.DefaultCachePath(), "cache file to update")
	refreshCmd.Flags().BoolVar(&refreshForceFlag, "force", false, "fetch even if the cache is still fresh")
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Update the local leap second cache from the IETF bulletin",
	RunE: func(_ *cobra.Command, _ []string) error {
		ConfigureVerbosity()
		return refreshRun()
	},
}

func refreshRun() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	tbl, err := leapseconds.Update(ctx, refreshURLFlag, refreshCacheFlag, refreshForceFlag)
	if err != nil {
		return err
	}
	fmt.Printf("%d leap seconds from %s, TAI-UTC %ds, expires %s\n",
		tbl.Len(), tbl.Source, tbl.Latest().Offset, tbl.Expires.UTC().Format(time.RFC3339))
	printStatus(tbl)
	return nil
}
