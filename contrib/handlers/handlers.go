// Package handlers provides pre-configured snowloader handlers for the
// household energy datasets this pipeline ingests.
package handlers

// Table identifies a Snowflake destination table.
type Table struct {
	Database string
	Schema   string
	Table    string
}

// Stage identifies the external stage the loader copies from and the S3 area
// the stage points at.
type Stage struct {
	Name   string
	Bucket string
	Prefix string
	Region string
}
