/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cytolab/fcsio/pkg/blob"
	"github.com/cytolab/fcsio/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fcs",
	Short: "fcsio - FCS 3.1 cytometry file toolkit",
	Long: `fcsio reads, writes and rewrites FCS 3.1 flow cytometry files.

Paths can be local files or s3://bucket/key URLs; S3 credentials come from
the configuration file.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		var s3 *blob.S3Config
		if configPath != "" {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			s3 = cfg.S3
		}
		store, err := blob.NewStore(s3)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
		// Store in command context
		cmd.SetContext(context.WithValue(cmd.Context(), "blobstore", store))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Configuration file (for S3 credentials)")
}

// blobStore pulls the storage client set up by the root command.
func blobStore(cmd *cobra.Command) (*blob.Store, bool) {
	store, ok := cmd.Context().Value("blobstore").(*blob.Store)
	return store, ok
}
