package snowloader

import (
	"bytes"
	"context"
	"regexp"
	"testing"

	"golang.org/x/xerrors"
)

func Test_Handler_WithSkipping(t *testing.T) {
	projector := func(_ context.Context, r []string) ([]string, error) {
		if r[0] == "" {
			return nil, nil
		}

		return r, nil
	}

	rawCSV := `123,456,789
,foo bar,123
234,567,890`
	src := bytes.NewBufferString(rawCSV)

	tl := newTestLoader()

	handler := &Handler{
		Name:      "test-handler",
		Parser:    CSVParser(),
		Projector: projector,
		Extractor: newTestExtractor(),
		Loader:    tl,
	}
	handler.SetConcurrency(1)

	e := Event{Bucket: "bucket", Key: "test/name", source: src}

	if err := handler.Handle(context.Background(), e); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	res := tl.(*testLoader)

	if len(res.result) != 2 {
		t.Fatalf("Size of result records should be 2, but %d", len(res.result))
	}

	if res.result[0][0] != "123" {
		t.Errorf(`results[0][0] should be "123", but "%s"`, res.result[0][0])
	}

	if res.result[1][0] != "234" {
		t.Errorf(`results[1][0] should be "234", but "%s"`, res.result[1][0])
	}
}

func Test_Handler_WithPreprocessor(t *testing.T) {
	type contextKey string
	const prefixKey contextKey = "prefix"

	preprocessor := func(ctx context.Context, e Event) (context.Context, error) {
		return context.WithValue(ctx, prefixKey, "pre"), nil
	}

	projector := func(ctx context.Context, r []string) ([]string, error) {
		prefix, ok := ctx.Value(prefixKey).(string)
		if !ok {
			return nil, xerrors.New("prefix not found")
		}

		row := make([]string, 0, len(r)+1)
		row = append(row, prefix)
		row = append(row, r...)

		return row, nil
	}

	src := bytes.NewBufferString(`123,456,789`)

	tl := newTestLoader()

	handler := &Handler{
		Name:         "test-handler",
		Parser:       CSVParser(),
		Projector:    projector,
		Preprocessor: preprocessor,
		Extractor:    newTestExtractor(),
		Loader:       tl,
	}
	handler.SetConcurrency(1)

	e := Event{Bucket: "bucket", Key: "test/name", source: src}

	if err := handler.Handle(context.Background(), e); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	res := tl.(*testLoader)

	if len(res.result) != 1 {
		t.Fatalf("Size of result records should be 1, but %d", len(res.result))
	}

	if len(res.result[0]) != 4 {
		t.Fatalf("Size of each record should be 4, but %d", len(res.result[0]))
	}

	if res.result[0][0] != "pre" {
		t.Errorf(`results[0][0] should be "pre", but "%s"`, res.result[0][0])
	}
}

func Test_Handler_SkipLeadingRows(t *testing.T) {
	projector := func(_ context.Context, r []string) ([]string, error) {
		return r, nil
	}

	rawCSV := `id,value
1,foo
2,bar`
	src := bytes.NewBufferString(rawCSV)

	tl := newTestLoader()

	handler := &Handler{
		Name:            "test-handler",
		Parser:          CSVParser(),
		Projector:       projector,
		SkipLeadingRows: 1,
		Extractor:       newTestExtractor(),
		Loader:          tl,
	}
	handler.SetConcurrency(1)

	e := Event{Bucket: "bucket", Key: "test/name", source: src}

	if err := handler.Handle(context.Background(), e); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	res := tl.(*testLoader)

	if len(res.result) != 2 {
		t.Fatalf("Size of result records should be 2, but %d", len(res.result))
	}

	if res.result[0][0] != "1" {
		t.Errorf(`results[0][0] should be "1", but "%s"`, res.result[0][0])
	}
}

func Test_Handler_SmallBatches(t *testing.T) {
	projector := func(_ context.Context, r []string) ([]string, error) {
		return r, nil
	}

	rawCSV := `1,a
2,b
3,c
4,d
5,e`
	src := bytes.NewBufferString(rawCSV)

	tl := newTestLoader()

	handler := &Handler{
		Name:      "test-handler",
		Parser:    CSVParser(),
		Projector: projector,
		BatchSize: 2,
		Extractor: newTestExtractor(),
		Loader:    tl,
	}
	handler.SetConcurrency(3)

	e := Event{Bucket: "bucket", Key: "test/name", source: src}

	if err := handler.Handle(context.Background(), e); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	res := tl.(*testLoader)

	if len(res.result) != 5 {
		t.Fatalf("Size of result records should be 5, but %d", len(res.result))
	}

	for i, want := range []string{"1", "2", "3", "4", "5"} {
		if res.result[i][0] != want {
			t.Errorf(`results[%d][0] should be %q, but %q`, i, want, res.result[i][0])
		}
	}
}

func Test_Handler_match(t *testing.T) {
	h := &Handler{Pattern: regexp.MustCompile("^raw/")}

	if !h.match("raw/file.csv") {
		t.Error(`"raw/file.csv" should match`)
	}
	if h.match("adjusted/file.csv") {
		t.Error(`"adjusted/file.csv" should not match`)
	}

	none := &Handler{}
	if none.match("raw/file.csv") {
		t.Error("handler without pattern should not match")
	}
}
