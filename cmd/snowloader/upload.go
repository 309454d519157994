package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/spf13/cobra"
)

var uploadKey string

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a raw CSV file to the landing bucket",
	Long: `Uploads a local CSV file to the configured landing bucket under the raw
prefix, where the load command (or a bucket notification) picks it up.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadKey, "key", "", "object key (default is <raw_prefix>/<file name>)")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	file := args[0]

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("opening %s: %w", file, err)
	}
	defer f.Close()

	key := uploadKey
	if key == "" {
		key = path.Join(cfg.AWS.RawPrefix, filepath.Base(file))
	}

	sess, err := session.NewSession(aws.NewConfig().WithRegion(cfg.AWS.Region))
	if err != nil {
		return fmt.Errorf("building AWS session: %w", err)
	}

	uploader := s3manager.NewUploader(sess)

	if _, err := uploader.UploadWithContext(cmd.Context(), &s3manager.UploadInput{
		Bucket: aws.String(cfg.AWS.LandingBucket),
		Key:    aws.String(key),
		Body:   f,
	}); err != nil {
		return fmt.Errorf("uploading to s3://%s/%s: %w", cfg.AWS.LandingBucket, key, err)
	}

	fmt.Printf("uploaded %s to s3://%s/%s\n", file, cfg.AWS.LandingBucket, key)

	return nil
}
