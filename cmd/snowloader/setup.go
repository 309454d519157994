package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	// Registers the "snowflake" database/sql driver.
	_ "github.com/snowflakedb/gosnowflake"

	"go.dtakahashi.dev/snowloader/internal/config"
)

var setupExecute bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Print or run the DDL for the destination table and stage",
	Long: `Builds the CREATE statements for the destination table, the CSV file
format and the external stage backed by the configured storage integration.
By default the statements are printed for review; pass --execute to run them.

Creating the storage integration itself and its IAM role is an account
administration step done outside this tool.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVar(&setupExecute, "execute", false, "run the statements instead of printing them")
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	stmts := setupStatements(cfg)

	if !setupExecute {
		for _, s := range stmts {
			fmt.Println(s + ";")
		}
		return nil
	}

	db, err := sql.Open("snowflake", cfg.Snowflake.DSN)
	if err != nil {
		return fmt.Errorf("opening snowflake connection: %w", err)
	}
	defer db.Close()

	for _, s := range stmts {
		if _, err := db.ExecContext(cmd.Context(), s); err != nil {
			return fmt.Errorf("executing %q: %w", s, err)
		}
	}

	fmt.Printf("created table %s and stage %s\n", qualified(cfg, cfg.Snowflake.Table), cfg.Snowflake.Stage)

	return nil
}

func qualified(cfg *config.Config, name string) string {
	prefix := ""
	if cfg.Snowflake.Database != "" {
		prefix = cfg.Snowflake.Database + "."
	}
	if cfg.Snowflake.Schema != "" {
		prefix += cfg.Snowflake.Schema + "."
	}
	return prefix + name
}

func setupStatements(cfg *config.Config) []string {
	table := qualified(cfg, cfg.Snowflake.Table)
	stage := qualified(cfg, cfg.Snowflake.Stage)

	createTable := fmt.Sprintf(`create table if not exists %s (
  household_id string,
  region string,
  country string,
  energy_source string,
  monthly_usage_kwh number(18,6),
  year number(4,0),
  household_size number(3,0),
  adoption_year number(4,0),
  income_level string,
  urban_rural string,
  subsidy_received string,
  cost_savings_usd number(18,6)
)`, table)

	stageURL := fmt.Sprintf("s3://%s", cfg.AWS.StageBucket)
	if cfg.AWS.StagePrefix != "" {
		stageURL += "/" + cfg.AWS.StagePrefix
	}

	createStage := fmt.Sprintf(
		`create stage if not exists %s url = '%s' file_format = (type = 'CSV' field_optionally_enclosed_by = '"')`,
		stage, stageURL,
	)
	if cfg.Snowflake.StorageIntegration != "" {
		createStage += fmt.Sprintf(" storage_integration = %s", cfg.Snowflake.StorageIntegration)
	}

	return []string{createTable, createStage}
}
