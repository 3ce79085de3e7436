package storage

import (
	"errors"
	"fmt"
	"strings"
)

const s3Scheme = "s3://"

var ErrInvalidLocation = errors.New("invalid location")

// Location is either a local path (Bucket empty) or an S3 object.
type Location struct {
	S3     bool
	Bucket string
	Key    string
}

func ParseLocation(s string) (Location, error) {
	if strings.TrimSpace(s) == "" {
		return Location{}, fmt.Errorf("%w: empty path", ErrInvalidLocation)
	}

	if !strings.HasPrefix(strings.ToLower(s), s3Scheme) {
		return Location{Key: s}, nil
	}

	bucket, key, _ := strings.Cut(s[len(s3Scheme):], "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return Location{}, fmt.Errorf("%w: %q must look like s3://bucket/key", ErrInvalidLocation, s)
	}
	return Location{S3: true, Bucket: bucket, Key: key}, nil
}

func (l Location) String() string {
	if l.S3 {
		return s3Scheme + l.Bucket + "/" + l.Key
	}
	return l.Key
}
