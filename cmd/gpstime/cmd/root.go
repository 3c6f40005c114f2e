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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebook/gpstime/leapseconds"
)

// RootCmd is the main entry point, exported so gpstime can be extended
// without touching core functionality.
var RootCmd = &cobra.Command{
	Use:   "gpstime",
	Short: "GPS time conversion",
}

// flags
var rootVerboseFlag bool
var rootLeapFileFlag string

func init() {
	RootCmd.PersistentFlags().BoolVarP(&rootVerboseFlag, "verbose", "v", false, "verbose output")
	RootCmd.PersistentFlags().StringVar(&rootLeapFileFlag, "leapfile", "", "read leap second data from this leap-seconds.list file instead of the default sources")
}

// ConfigureVerbosity configures log verbosity based on parsed flags. Needs to be called by any subcommand.
func ConfigureVerbosity() {
	log.SetLevel(log.InfoLevel)
	if rootVerboseFlag {
		log.SetLevel(log.DebugLevel)
	}
}

// loadTable satisfies the --leapfile flag or falls back to the default
// source chain.
func loadTable(ctx context.Context) (*leapseconds.Table, error) {
	if rootLeapFileFlag != "" {
		src := &leapseconds.IETFFileSource{Path: rootLeapFileFlag}
		return src.Load(ctx)
	}
	return leapseconds.Load(ctx)
}

// Execute is the main entry point for CLI interface
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
