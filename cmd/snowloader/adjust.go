package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"go.dtakahashi.dev/snowloader/energy"
)

var (
	adjustOutput string
	adjustStrict bool
)

var adjustCmd = &cobra.Command{
	Use:   "adjust [file]",
	Short: "Apply the income-level adjustment rules to a local CSV file",
	Long: `Reads a household energy CSV file, applies the income-level adjustment
rules to each row and writes the adjusted dataset. The header row is kept.
Rows that cannot be processed are dropped and reported on stderr; the rest of
the file is always processed.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdjust,
}

func init() {
	adjustCmd.Flags().StringVarP(&adjustOutput, "output", "o", "", "output file (default is stdout)")
	adjustCmd.Flags().BoolVar(&adjustStrict, "strict", false, "drop rows with malformed numeric fields instead of passing the field through")
	rootCmd.AddCommand(adjustCmd)
}

func runAdjust(cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer in.Close()

	reader := csv.NewReader(in)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	var header []string
	if len(rows) > 0 {
		header = rows[0]
		rows = rows[1:]
	}

	adjusted, audit := energy.Adjuster{Strict: adjustStrict}.AdjustRows(rows)

	var out io.Writer = os.Stdout
	if adjustOutput != "" {
		f, err := os.Create(adjustOutput)
		if err != nil {
			return fmt.Errorf("creating %s: %w", adjustOutput, err)
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	if header != nil {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := w.WriteAll(adjusted); err != nil {
		return fmt.Errorf("writing adjusted rows: %w", err)
	}

	for _, re := range audit {
		fmt.Fprintf(os.Stderr, "warning: %v\n", re)
	}

	if dropped := len(rows) - len(adjusted); dropped > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d rows dropped\n", dropped, len(rows))
	}

	return nil
}
