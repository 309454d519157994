package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.dtakahashi.dev/snowloader"
	"go.dtakahashi.dev/snowloader/contrib/handlers"
	"go.dtakahashi.dev/snowloader/internal/config"
)

var (
	loadLogLevel    string
	loadConcurrency int
)

var loadCmd = &cobra.Command{
	Use:   "load [key]",
	Short: "Adjust and bulk-load an object from the landing bucket",
	Long: `Reads the given object from the landing bucket, applies the income-level
adjustment rules to each row, stages the adjusted rows next to the external
stage and runs COPY INTO against the configured table. Rows that cannot be
processed are skipped and reported, never fatal.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadLogLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	loadCmd.Flags().IntVar(&loadConcurrency, "concurrency", 0, "rows projected in parallel (default is the number of CPUs)")
	rootCmd.AddCommand(loadCmd)
}

func newHouseholdEnergyHandler(cfg *config.Config) *snowloader.Handler {
	table := handlers.Table{
		Database: cfg.Snowflake.Database,
		Schema:   cfg.Snowflake.Schema,
		Table:    cfg.Snowflake.Table,
	}
	stage := handlers.Stage{
		Name:   cfg.Snowflake.Stage,
		Bucket: cfg.AWS.StageBucket,
		Prefix: cfg.AWS.StagePrefix,
		Region: cfg.AWS.Region,
	}

	build := handlers.HouseholdEnergy
	if cfg.Handler.Strict {
		build = handlers.HouseholdEnergyStrict
	}

	h := build(cfg.Handler.Name, cfg.Handler.Pattern, table, stage, nil)
	h.DSN = cfg.Snowflake.DSN

	return h
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	opts := []snowloader.Option{
		snowloader.WithPrettyLogging(),
		snowloader.WithLogLevel(loadLogLevel),
	}
	if loadConcurrency > 0 {
		opts = append(opts, snowloader.WithConcurrency(loadConcurrency))
	}

	loader, err := snowloader.New(opts...)
	if err != nil {
		return fmt.Errorf("building loader: %w", err)
	}

	if err := loader.AddHandler(cmd.Context(), newHouseholdEnergyHandler(cfg)); err != nil {
		return fmt.Errorf("adding handler: %w", err)
	}

	e := snowloader.Event{Bucket: cfg.AWS.LandingBucket, Key: args[0]}

	if err := loader.Handle(cmd.Context(), e); err != nil {
		return fmt.Errorf("loading %s: %w", e.FullPath(), err)
	}

	return nil
}
