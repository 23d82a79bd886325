package main

import (
	"github.com/spf13/cobra"

	"github.com/bihua-university/countries/internal/task"
)

const defaultServer = "http://localhost:8080"

var (
	configPath string
	serverURL  string
)

var rootCmd = &cobra.Command{
	Use:   "countryctl",
	Short: "Look up and compare countries",
	Long: `countryctl seeds the local country database from the REST Countries API
and queries a running countries server.`,
	Version:      task.ClientVersion,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json", "path to the JSON config file")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "countries server URL")
}
