/*

Package snowloader is a simple ETL framework to load CSV files landed on
Amazon S3 into Snowflake tables through an external stage.

For transforming and loading household energy CSV files, import the package
`go.dtakahashi.dev/snowloader` with the pre-configured handler and point it
at your landing bucket.

	package main

	import (
		"context"
		"os"

		"go.dtakahashi.dev/snowloader"
		"go.dtakahashi.dev/snowloader/contrib/handlers"
	)

	func main() {
		loader, err := snowloader.New(snowloader.WithConcurrency(4))
		if err != nil {
			panic(err)
		}

		h := handlers.HouseholdEnergy(
			"household-energy",
			"^raw/",
			handlers.Table{
				Database: os.Getenv("SNOWFLAKE_DATABASE"),
				Schema:   os.Getenv("SNOWFLAKE_SCHEMA"),
				Table:    os.Getenv("SNOWFLAKE_TABLE"),
			},
			handlers.Stage{
				Name:   os.Getenv("SNOWFLAKE_STAGE"),
				Bucket: os.Getenv("STAGE_BUCKET"),
				Prefix: "adjusted",
				Region: os.Getenv("AWS_REGION"),
			},
			nil,
		)
		h.DSN = os.Getenv("SNOWFLAKE_DSN")

		loader.MustAddHandler(context.Background(), h)

		e := snowloader.Event{Bucket: os.Getenv("LANDING_BUCKET"), Key: "raw/households.csv"}
		if err := loader.Handle(context.Background(), e); err != nil {
			panic(err)
		}
	}

Each row passes through a Projector before loading. The household energy
handler applies the income-level adjustment rules from package energy; custom
handlers can supply any Projector, for example:

	projector := func(_ context.Context, r []string) ([]string, error) {
		out, err := energy.Adjuster{}.AdjustRow(r)
		if out == nil {
			return nil, err
		}
		return out, nil
	}

*/
package snowloader
