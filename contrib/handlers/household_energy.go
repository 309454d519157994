package handlers

import (
	"context"
	"regexp"

	"github.com/rs/zerolog/log"

	"go.dtakahashi.dev/snowloader"
	"go.dtakahashi.dev/snowloader/energy"
)

// HouseholdEnergy builds a handler for household energy CSV exports. Each row
// gets the income-level adjustment applied before loading. Rows with
// malformed numeric fields are kept with the field passed through unadjusted,
// matching the continue-on-error ingestion policy of the rest of the
// pipeline; rows shorter than the schema are skipped and audited.
func HouseholdEnergy(name, pattern string, table Table, stage Stage, notifier snowloader.Notifier) *snowloader.Handler {
	return householdEnergy(name, pattern, table, stage, notifier, energy.Adjuster{})
}

// HouseholdEnergyStrict is HouseholdEnergy with malformed numeric fields
// rejected instead of passed through. Rejected rows are skipped and audited,
// never fatal.
func HouseholdEnergyStrict(name, pattern string, table Table, stage Stage, notifier snowloader.Notifier) *snowloader.Handler {
	return householdEnergy(name, pattern, table, stage, notifier, energy.Adjuster{Strict: true})
}

func householdEnergy(name, pattern string, table Table, stage Stage, notifier snowloader.Notifier, adj energy.Adjuster) *snowloader.Handler {
	projector := func(ctx context.Context, row []string) ([]string, error) {
		out, err := adj.AdjustRow(row)
		if out == nil {
			return nil, err
		}

		if err != nil {
			log.Ctx(ctx).Warn().Msgf("[%s] %v: field passed through unadjusted", name, err)
		}

		return out, nil
	}

	return &snowloader.Handler{
		Name:            name,
		Pattern:         regexp.MustCompile(pattern),
		Parser:          snowloader.CSVParser(),
		Projector:       projector,
		SkipLeadingRows: 1,
		Notifier:        notifier,

		Database: table.Database,
		Schema:   table.Schema,
		Table:    table.Table,

		Stage:       stage.Name,
		StageBucket: stage.Bucket,
		StagePrefix: stage.Prefix,
		Region:      stage.Region,
	}
}
