/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cytolab/fcsio/pkg/fcs"
	"github.com/cytolab/fcsio/pkg/frame"
)

// channelsCmd represents the channels command
var channelsCmd = &cobra.Command{
	Use:   "channels <path>",
	Short: "List a file's channel names",
	Long: `List the channel names of an FCS file, one per line.

Example:
  fcs channels sample.fcs
  fcs channels --scope long s3://cytometry/runs/day1.fcs`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, ok := blobStore(cmd)
		if !ok {
			fmt.Println("Error: storage client not found in context")
			return
		}

		scopeName, _ := cmd.Flags().GetString("scope")
		scope, err := fcs.ParseScope(scopeName)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		names, err := frame.ReadChannels(store, args[0], scope)
		if err != nil {
			fmt.Printf("Error reading channels: %v\n", err)
			return
		}
		for _, name := range names {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(channelsCmd)
	channelsCmd.Flags().String("scope", "short", "Channel name scope: short ($PnN) or long ($PnS)")
}
