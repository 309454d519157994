package handlers

import (
	"context"
	"errors"
	"io"

	"github.com/extrame/xls"
	"gitlab.com/osaki-lab/iowrapper"
	"golang.org/x/xerrors"

	"go.dtakahashi.dev/snowloader"
)

var errXLSNoSheet = errors.New("no sheet found")

// HouseholdEnergyXLS builds a handler for household energy observations
// exported as XLS workbooks, as some utility portals still produce. The first
// sheet is read row by row and then handled like the CSV variant.
func HouseholdEnergyXLS(name, pattern string, table Table, stage Stage, notifier snowloader.Notifier) *snowloader.Handler {
	// sheet.Row panics on gaps in some workbooks.
	getRow := func(sheet *xls.WorkSheet, row int) (r *xls.Row, ok bool) {
		defer func() { recover() }()

		r = nil
		ok = false

		return sheet.Row(row), true
	}

	parser := func(_ context.Context, r io.Reader) ([][]string, error) {
		wb, err := xls.OpenReader(iowrapper.NewSeeker(r), "utf-8")
		if err != nil {
			return nil, xerrors.Errorf("failed to open xls file: %w", err)
		}

		sheet := wb.GetSheet(0)
		if sheet == nil {
			return nil, errXLSNoSheet
		}

		records := [][]string{}

		for i := 0; i <= int(sheet.MaxRow); i++ {
			row, ok := getRow(sheet, i)
			if !ok {
				continue
			}

			record := []string{}
			for colNum := row.FirstCol(); colNum < row.LastCol(); colNum++ {
				record = append(record, row.Col(colNum))
			}

			records = append(records, record)
		}

		return records, nil
	}

	h := HouseholdEnergy(name, pattern, table, stage, notifier)
	h.Parser = parser

	return h
}
