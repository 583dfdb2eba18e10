// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the hep-ingest CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the hep-ingest CLI.
var rootCmd = &cobra.Command{
	Use:   "hep-ingest",
	Short: "Convert harvested bibliographic records to HEP format",
	Long: `hep-ingest converts bibliographic records harvested from heterogeneous
sources into the canonical, validated HEP format consumed by the downstream
index.

Records arrive in one of two shapes: HEP-format records that only need their
file attachments patched, and harvest-format records that need full
normalization, collection classification, and validation. The ingest command
runs the whole pipeline over a source folder; convert and validate operate on
individual files.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./hep-ingest.yaml or ~/.config/hep-ingest/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("hep-ingest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "hep-ingest"))
		}
	}

	viper.SetEnvPrefix("HEP_INGEST")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
