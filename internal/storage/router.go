package storage

import (
	"context"
	"fmt"
	"io"
)

type bucketEnsurer interface {
	EnsureBucket(ctx context.Context, bucket string) error
}

// Router sends local locations to a LocalProvider and S3 locations to an
// S3Provider that is only created the first time one is needed.
type Router struct {
	local Provider
	s3cfg S3ClientConfig
	s3    Provider

	// buckets already checked when s3cfg.CreateBuckets is set
	ensured map[string]bool
}

func NewRouter(s3cfg S3ClientConfig) (*Router, error) {
	local, err := NewLocalProvider("")
	if err != nil {
		return nil, err
	}
	return &Router{local: local, s3cfg: s3cfg, ensured: make(map[string]bool)}, nil
}

// NewRouterWithProviders is used by tests to stub either backend.
func NewRouterWithProviders(local, s3 Provider, s3cfg S3ClientConfig) *Router {
	return &Router{local: local, s3: s3, s3cfg: s3cfg, ensured: make(map[string]bool)}
}

func (r *Router) provider(ctx context.Context, loc Location) (Provider, error) {
	if !loc.S3 {
		return r.local, nil
	}
	if r.s3 == nil {
		p, err := NewS3Provider(ctx, r.s3cfg)
		if err != nil {
			return nil, err
		}
		r.s3 = p
	}
	return r.s3, nil
}

func (r *Router) Read(ctx context.Context, loc Location) ([]byte, error) {
	p, err := r.provider(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", loc, err)
	}
	return p.GetObject(ctx, loc.Bucket, loc.Key)
}

func (r *Router) Write(ctx context.Context, loc Location, data io.Reader) error {
	p, err := r.provider(ctx, loc)
	if err != nil {
		return fmt.Errorf("error writing %s: %w", loc, err)
	}

	if loc.S3 && r.s3cfg.CreateBuckets && !r.ensured[loc.Bucket] {
		if e, ok := p.(bucketEnsurer); ok {
			if err := e.EnsureBucket(ctx, loc.Bucket); err != nil {
				return err
			}
		}
		r.ensured[loc.Bucket] = true
	}

	return p.PutObject(ctx, loc.Bucket, loc.Key, data)
}
