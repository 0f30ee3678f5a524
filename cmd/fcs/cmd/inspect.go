/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cytolab/fcsio/pkg/fcs"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <path>",
	Short: "Show a file's header, channels and keywords",
	Long: `Decode an FCS file's header and text segments and print the segment
offsets, channel table and every keyword. The data segment is not read.

Example:
  fcs inspect sample.fcs`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, ok := blobStore(cmd)
		if !ok {
			fmt.Println("Error: storage client not found in context")
			return
		}

		src, err := store.Open(args[0])
		if err != nil {
			fmt.Printf("Error opening file: %v\n", err)
			return
		}
		defer src.Close()

		f, err := fcs.Open(src)
		if err != nil {
			fmt.Printf("Error decoding file: %v\n", err)
			return
		}

		fmt.Printf("Version:  %s\n", fcs.Version)
		fmt.Printf("Events:   %d\n", f.Events)
		fmt.Printf("Datatype: %s\n", f.Layout.Type)
		fmt.Printf("Text:     %d..%d\n", f.Header.TextBegin, f.Header.TextEnd)
		fmt.Printf("Data:     %d..%d\n", f.Header.DataBegin, f.Header.DataEnd)
		if f.Header.AnalysisEnd > 0 {
			fmt.Printf("Analysis: %d..%d\n", f.Header.AnalysisBegin, f.Header.AnalysisEnd)
		}

		fmt.Println("\nChannels:")
		for i, p := range f.Layout.Params {
			fmt.Printf("  %3d  %-16s %-24s %2d bits  range %d\n",
				i+1, p.Short, p.Long, p.Bits, p.Range)
		}

		fmt.Println("\nKeywords:")
		for _, k := range f.Text.Keys() {
			fmt.Printf("  %s: %s\n", k, f.Text.Get(k))
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
