/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cytolab/fcsio/pkg/api"
	"github.com/cytolab/fcsio/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the fcsio REST API server over a directory of FCS files.

On first run with --bootstrap, a configuration file with a generated API key
is written; afterwards the key is read from the configuration.

Examples:
  fcs serve --config fcsio.yaml --bootstrap --data-dir ./data
  fcs serve --config fcsio.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		store, ok := blobStore(cmd)
		if !ok {
			cmd.Println("Error: storage client not found in context")
			return
		}

		configPath, _ := cmd.Flags().GetString("config")
		bootstrap, _ := cmd.Flags().GetBool("bootstrap")
		dataDir, _ := cmd.Flags().GetString("data-dir")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		var cfg *config.Config
		var err error
		if bootstrap && !config.ConfigExists(configPath) {
			cfg, err = config.BootstrapConfig(configPath, dataDir)
			if err != nil {
				cmd.Printf("Error bootstrapping config: %v\n", err)
				return
			}
			cmd.Printf("Wrote %s with a generated API key\n", configPath)
		} else {
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				cmd.Printf("Error loading config (run with --bootstrap first?): %v\n", err)
				return
			}
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}

		serverConfig := api.ServerConfig{
			Port:    cfg.Port,
			Bind:    cfg.Bind,
			APIKey:  cfg.Security.APIKey,
			DataDir: cfg.DataDir,
		}
		if err := api.StartServer(store, serverConfig); err != nil {
			cmd.Printf("Error starting server: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("bootstrap", false, "Write a fresh config with a generated API key if none exists")
	serveCmd.Flags().String("data-dir", "", "Directory of FCS files to serve")
}
