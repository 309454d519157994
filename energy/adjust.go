package energy

import (
	"strconv"

	"golang.org/x/xerrors"
)

// multipliers keys the usage and savings factors by income level. Any other
// income level, including the empty string, leaves both fields untouched.
var multipliers = map[string]struct{ usage, savings float64 }{
	"Low":    {1.1, 0.9},
	"Middle": {1.2, 0.8},
	"High":   {1.3, 0.7},
}

// Adjust applies the income-level multipliers to the usage and savings fields
// of one record and returns the adjusted copy. All other fields pass through
// unchanged. Adjust is pure and deliberately not idempotent: applying it
// twice compounds the multipliers.
func Adjust(r Record) Record {
	m, ok := multipliers[r.IncomeLevel]
	if !ok {
		return r
	}

	r.MonthlyUsageKWH *= m.usage
	r.CostSavingsUSD *= m.savings

	return r
}

// AdjustAll maps Adjust over a dataset, preserving count and order. The input
// slice is not modified.
func AdjustAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = Adjust(r)
	}
	return out
}

// Adjuster applies the income-level multipliers to raw positional CSV rows.
//
// The zero value is the permissive adjuster: a numeric field that does not
// parse is carried over verbatim without adjustment, and the returned
// *RowError describes the field so callers can log it. With Strict set, such
// rows are rejected instead.
type Adjuster struct {
	// Strict rejects rows with malformed numeric fields instead of passing
	// the field through unchanged.
	Strict bool
}

// AdjustRow adjusts one row. It returns the adjusted copy of the row and, if
// anything was wrong with it, a *RowError.
//
// A nil row means the row must be skipped: it was shorter than the schema,
// or a numeric field was malformed and the adjuster is strict. A non-nil row
// alongside a non-nil error is the permissive pass-through: the row is still
// loadable, the error is advisory.
func (a Adjuster) AdjustRow(row []string) ([]string, error) {
	if len(row) < NumColumns {
		return nil, &RowError{
			Kind:        KindMissingField,
			HouseholdID: rowID(row),
			err:         xerrors.Errorf("got %d of %d fields", len(row), NumColumns),
		}
	}

	out := make([]string, len(row))
	copy(out, row)

	m, ok := multipliers[row[colIncomeLevel]]
	if !ok {
		return out, nil
	}

	usageErr := adjustField(out, colMonthlyUsageKWH, "monthly_usage_kwh", m.usage)
	savingsErr := adjustField(out, colCostSavingsUSD, "cost_savings_usd", m.savings)

	switch {
	case usageErr != nil:
		if a.Strict {
			return nil, usageErr
		}
		return out, usageErr
	case savingsErr != nil:
		if a.Strict {
			return nil, savingsErr
		}
		return out, savingsErr
	}

	return out, nil
}

// AdjustRows maps AdjustRow over a raw dataset, preserving the order of rows
// it keeps, and collects every *RowError so callers can audit skipped or
// passed-through rows. Rows AdjustRow rejects are dropped; the rest of the
// dataset is always processed.
func (a Adjuster) AdjustRows(rows [][]string) ([][]string, []*RowError) {
	out := make([][]string, 0, len(rows))
	var audit []*RowError

	for _, row := range rows {
		adjusted, err := a.AdjustRow(row)
		if err != nil {
			var re *RowError
			if xerrors.As(err, &re) {
				audit = append(audit, re)
			}
		}
		if adjusted != nil {
			out = append(out, adjusted)
		}
	}

	return out, audit
}

func adjustField(row []string, col int, field string, multiplier float64) *RowError {
	v, err := strconv.ParseFloat(row[col], 64)
	if err != nil {
		return &RowError{
			Kind:        KindMalformedNumericField,
			HouseholdID: rowID(row),
			Field:       field,
			err:         err,
		}
	}

	row[col] = formatFloat(v * multiplier)

	return nil
}
