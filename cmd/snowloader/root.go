package main

import (
	"github.com/spf13/cobra"

	"go.dtakahashi.dev/snowloader/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "snowloader",
	Short: "Load household energy CSV files from S3 into Snowflake",
	Long: `snowloader drives a small warehouse pipeline: upload raw household energy
CSV files to a landing bucket, bulk-load them through an external stage into a
Snowflake table, and apply the income-level adjustment rules on the way in.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}
