package snowloader

import (
	"fmt"
	"io"
)

// Event is an object-created event from the landing S3 bucket.
type Event struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`

	// for test
	source io.Reader
}

// FullPath returns full path of the source object beginning with s3://.
func (e *Event) FullPath() string {
	return fmt.Sprintf("s3://%s/%s", e.Bucket, e.Key)
}
