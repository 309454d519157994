package snowloader

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"
)

// Extractor extracts data from a source such as the landing S3 bucket.
type Extractor interface {
	Extract(context.Context, Event) (io.Reader, func(), error)
}

type defaultExtractor struct {
	api s3iface.S3API
}

func newDefaultExtractor(_ context.Context, region string) (Extractor, error) {
	awsConfig := aws.NewConfig()
	if region != "" {
		awsConfig.Region = aws.String(region)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, xerrors.Errorf("failed to build AWS session: %w", err)
	}

	return &defaultExtractor{api: s3.New(sess)}, nil
}

func (e *defaultExtractor) Extract(ctx context.Context, ev Event) (io.Reader, func(), error) {
	l := log.Ctx(ctx)

	res, err := e.api.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ev.Bucket),
		Key:    aws.String(ev.Key),
	})
	if err != nil {
		l.Error().Msgf("failed to get object %s: %v", ev.FullPath(), err)
		return nil, nil, xerrors.Errorf("failed to get reader of %s: %w", ev.FullPath(), err)
	}

	return res.Body, func() { res.Body.Close() }, nil
}
