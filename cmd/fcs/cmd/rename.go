/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cytolab/fcsio/pkg/fcs"
	"github.com/cytolab/fcsio/pkg/frame"
)

// renameCmd represents the rename command
var renameCmd = &cobra.Command{
	Use:   "rename <path> <old=new> [old=new ...]",
	Short: "Rename channels in place",
	Long: `Rename channels in an FCS file. All renames apply simultaneously, so
swapping two names in one call is fine. Event data is carried over
byte-for-byte; the file is only replaced when the whole rewrite succeeds.

Example:
  fcs rename sample.fcs FL1-A=CD3-FITC
  fcs rename --scope long sample.fcs "Forward Scatter=FSC Area"`,
	Args: cobra.MinimumNArgs(2),
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

		renames, err := parseRenamePairs(args[1:])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		if err := frame.RenameChannels(store, args[0], renames, scope); err != nil {
			fmt.Printf("Error renaming channels: %v\n", err)
			return
		}
		fmt.Printf("Renamed %d channel(s)\n", len(renames))
	},
}

// parseRenamePairs turns old=new arguments into a rename mapping.
func parseRenamePairs(pairs []string) (map[string]string, error) {
	renames := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		oldName, newName, ok := strings.Cut(pair, "=")
		if !ok || oldName == "" || newName == "" {
			return nil, fmt.Errorf("malformed rename %q (want old=new)", pair)
		}
		if prev, dup := renames[oldName]; dup && prev != newName {
			return nil, fmt.Errorf("conflicting renames for %q", oldName)
		}
		renames[oldName] = newName
	}
	return renames, nil
}

func init() {
	rootCmd.AddCommand(renameCmd)
	renameCmd.Flags().String("scope", "short", "Channel name scope: short ($PnN) or long ($PnS)")
}
