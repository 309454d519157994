package snowloader

import (
	"context"
	"encoding/csv"
	"io"

	"golang.org/x/xerrors"
)

// Parser parses files from the landing bucket into records.
type Parser func(context.Context, io.Reader) ([][]string, error)

// CSVParser provides a parser to parse CSV files.
func CSVParser() Parser {
	return func(_ context.Context, r io.Reader) ([][]string, error) {
		reader := csv.NewReader(r)
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil {
			return nil, xerrors.Errorf("failed to read content as a CSV: %w", err)
		}

		return records, nil
	}
}
