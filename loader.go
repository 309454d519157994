package snowloader

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"

	// Registers the "snowflake" database/sql driver.
	_ "github.com/snowflakedb/gosnowflake"
)

// Loader loads projected records into a destination such as a Snowflake table.
type Loader interface {
	Load(context.Context, [][]string) error
}

// defaultLoader writes records as a CSV object into the stage area on S3 and
// runs a COPY INTO statement against the destination table.
type defaultLoader struct {
	db       *sql.DB
	uploader s3manageriface.UploaderAPI

	bucket string
	prefix string
	stage  string
	table  string
}

func newDefaultLoader(_ context.Context, h *Handler) (Loader, error) {
	db, err := sql.Open("snowflake", h.DSN)
	if err != nil {
		return nil, xerrors.Errorf("failed to open snowflake connection: %w", err)
	}

	awsConfig := aws.NewConfig()
	if h.Region != "" {
		awsConfig.Region = aws.String(h.Region)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, xerrors.Errorf("failed to build AWS session: %w", err)
	}

	return &defaultLoader{
		db:       db,
		uploader: s3manager.NewUploader(sess),
		bucket:   h.StageBucket,
		prefix:   h.StagePrefix,
		stage:    h.Stage,
		table:    schemaTable(h.Database, h.Schema, h.Table),
	}, nil
}

func (l *defaultLoader) Load(ctx context.Context, records [][]string) error {
	lg := log.Ctx(ctx)

	if len(records) == 0 {
		lg.Info().Msg("no records to load")
		return nil
	}

	buf := &bytes.Buffer{}
	if err := csv.NewWriter(buf).WriteAll(records); err != nil {
		return xerrors.Errorf("failed to write csv: %w", err)
	}

	name := xid.New().String() + ".csv"
	key := path.Join(l.prefix, name)

	if _, err := l.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(buf.Bytes()),
	}); err != nil {
		return xerrors.Errorf("failed to upload s3://%s/%s: %w", l.bucket, key, err)
	}

	lg.Debug().Msgf("staged %d records at s3://%s/%s", len(records), l.bucket, key)

	stmt := copyInto(l.table, l.stage, name)
	if _, err := l.db.ExecContext(ctx, stmt); err != nil {
		return xerrors.Errorf("failed to copy into %s from @%s/%s: %w", l.table, l.stage, name, err)
	}

	lg.Info().Msgf("loaded %d records into %s", len(records), l.table)

	return nil
}

// copyInto builds the bulk-load statement. Malformed staged rows are skipped
// rather than failing the load.
func copyInto(table, stage, name string) string {
	return fmt.Sprintf(
		`copy into %s from '@%s/%s' file_format = (type = 'CSV' field_optionally_enclosed_by = '"') on_error = 'CONTINUE'`,
		table, stage, name,
	)
}

func schemaTable(database, schema, table string) string {
	switch {
	case database != "" && schema != "":
		return database + "." + schema + "." + table
	case schema != "":
		return schema + "." + table
	default:
		return table
	}
}
