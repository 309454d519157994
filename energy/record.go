// Package energy models household energy observations and the income-level
// adjustment rules applied to them before loading.
package energy

import (
	"fmt"
	"strconv"

	"golang.org/x/xerrors"
)

// Column positions in the raw CSV schema, after the header row.
const (
	colHouseholdID = iota
	colRegion
	colCountry
	colEnergySource
	colMonthlyUsageKWH
	colYear
	colHouseholdSize
	colAdoptionYear
	colIncomeLevel
	colUrbanRural
	colSubsidyReceived
	colCostSavingsUSD

	// NumColumns is the number of fields in one observation row.
	NumColumns = iota
)

// Record is one household energy observation.
type Record struct {
	HouseholdID     string
	Region          string
	Country         string
	EnergySource    string
	MonthlyUsageKWH float64
	Year            int
	HouseholdSize   int
	AdoptionYear    int
	IncomeLevel     string
	UrbanRural      string
	SubsidyReceived string
	CostSavingsUSD  float64
}

// ErrorKind classifies record-scoped input problems.
type ErrorKind string

const (
	// KindMissingField marks a row with fewer fields than the schema.
	KindMissingField ErrorKind = "MissingField"

	// KindMalformedNumericField marks a numeric field that cannot be
	// parsed as a real number.
	KindMalformedNumericField ErrorKind = "MalformedNumericField"
)

// RowError reports a problem with a single input row. It never invalidates
// the rest of the dataset.
type RowError struct {
	Kind        ErrorKind
	HouseholdID string
	Field       string
	err         error
}

func (e *RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field %s of record %q: %v", e.Kind, e.Field, e.HouseholdID, e.err)
	}
	return fmt.Sprintf("%s: record %q: %v", e.Kind, e.HouseholdID, e.err)
}

func (e *RowError) Unwrap() error { return e.err }

// RecordScoped marks the error as invalidating one row only, so pipelines
// skip the row instead of aborting the load.
func (e *RowError) RecordScoped() bool { return true }

// ParseRow decodes one positional CSV row into a Record. Every numeric field
// must parse; use Adjuster for the permissive path.
func ParseRow(row []string) (Record, error) {
	if len(row) < NumColumns {
		return Record{}, &RowError{
			Kind:        KindMissingField,
			HouseholdID: rowID(row),
			err:         xerrors.Errorf("got %d of %d fields", len(row), NumColumns),
		}
	}

	r := Record{
		HouseholdID:     row[colHouseholdID],
		Region:          row[colRegion],
		Country:         row[colCountry],
		EnergySource:    row[colEnergySource],
		IncomeLevel:     row[colIncomeLevel],
		UrbanRural:      row[colUrbanRural],
		SubsidyReceived: row[colSubsidyReceived],
	}

	var err error

	if r.MonthlyUsageKWH, err = parseFloat(row, colMonthlyUsageKWH, "monthly_usage_kwh"); err != nil {
		return Record{}, err
	}
	if r.CostSavingsUSD, err = parseFloat(row, colCostSavingsUSD, "cost_savings_usd"); err != nil {
		return Record{}, err
	}
	if r.Year, err = parseInt(row, colYear, "year"); err != nil {
		return Record{}, err
	}
	if r.HouseholdSize, err = parseInt(row, colHouseholdSize, "household_size"); err != nil {
		return Record{}, err
	}
	if r.AdoptionYear, err = parseInt(row, colAdoptionYear, "adoption_year"); err != nil {
		return Record{}, err
	}

	return r, nil
}

// Row encodes the record back into the positional CSV schema.
func (r Record) Row() []string {
	row := make([]string, NumColumns)
	row[colHouseholdID] = r.HouseholdID
	row[colRegion] = r.Region
	row[colCountry] = r.Country
	row[colEnergySource] = r.EnergySource
	row[colMonthlyUsageKWH] = formatFloat(r.MonthlyUsageKWH)
	row[colYear] = strconv.Itoa(r.Year)
	row[colHouseholdSize] = strconv.Itoa(r.HouseholdSize)
	row[colAdoptionYear] = strconv.Itoa(r.AdoptionYear)
	row[colIncomeLevel] = r.IncomeLevel
	row[colUrbanRural] = r.UrbanRural
	row[colSubsidyReceived] = r.SubsidyReceived
	row[colCostSavingsUSD] = formatFloat(r.CostSavingsUSD)
	return row
}

func parseFloat(row []string, col int, field string) (float64, error) {
	v, err := strconv.ParseFloat(row[col], 64)
	if err != nil {
		return 0, &RowError{
			Kind:        KindMalformedNumericField,
			HouseholdID: rowID(row),
			Field:       field,
			err:         err,
		}
	}
	return v, nil
}

func parseInt(row []string, col int, field string) (int, error) {
	v, err := strconv.Atoi(row[col])
	if err != nil {
		return 0, &RowError{
			Kind:        KindMalformedNumericField,
			HouseholdID: rowID(row),
			Field:       field,
			err:         err,
		}
	}
	return v, nil
}

// formatFloat renders 12 significant digits, enough for usage and savings
// values while absorbing binary float noise from the multipliers
// (100 * 1.1 is 110.00000000000001 in float64).
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 12, 64)
}

func rowID(row []string) string {
	if len(row) == 0 {
		return ""
	}
	return row[colHouseholdID]
}
