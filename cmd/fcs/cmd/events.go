/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cytolab/fcsio/pkg/frame"
)

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events <path>",
	Short: "Print a file's event count",
	Long: `Print the number of events ($TOT) recorded in an FCS file. Only the
header and text segments are read, so this is fast even for huge files.

Example:
  fcs events sample.fcs`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, ok := blobStore(cmd)
		if !ok {
			fmt.Println("Error: storage client not found in context")
			return
		}

		n, err := frame.EventCount(store, args[0])
		if err != nil {
			fmt.Printf("Error reading event count: %v\n", err)
			return
		}
		fmt.Println(n)
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
