package integrationtests

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"tico-dataset/internal/core/split"
	"tico-dataset/internal/jsonl"
	"tico-dataset/internal/manifest"
	"tico-dataset/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Provider_PutGetObject(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	provider, _ := setupS3Provider(t, ctx)

	content := []byte(`{"term":"mae","explanation":"amigo."}` + "\n")
	require.NoError(t, provider.PutObject(ctx, bucketName, "tico/source.jsonl", bytes.NewReader(content)))

	data, err := provider.GetObject(ctx, bucketName, "tico/source.jsonl")
	require.NoError(t, err)
	assert.Equal(t, content, data)

	// ensuring an existing bucket is a no-op
	require.NoError(t, provider.EnsureBucket(ctx, bucketName))
}

func TestS3Provider_EmptyObject(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	provider, _ := setupS3Provider(t, ctx)

	require.NoError(t, provider.PutObject(ctx, bucketName, "empty.jsonl", bytes.NewReader(nil)))

	data, err := provider.GetObject(ctx, bucketName, "empty.jsonl")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestS3Provider_MissingObject(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	provider, _ := setupS3Provider(t, ctx)

	_, err := provider.GetObject(ctx, bucketName, "does/not/exist.jsonl")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRouter_SplitThroughS3(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	_, cfg := setupS3Provider(t, ctx)

	router, err := storage.NewRouter(cfg)
	require.NoError(t, err)

	var sb strings.Builder
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&sb, "{\"id\":%d}\n", i)
	}
	input, err := storage.ParseLocation("s3://" + bucketName + "/tico/source.jsonl")
	require.NoError(t, err)
	require.NoError(t, router.Write(ctx, input, strings.NewReader(sb.String())))

	data, err := router.Read(ctx, input)
	require.NoError(t, err)
	records, stats, err := jsonl.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Records)

	parts, err := split.Split(records, split.DefaultOptions())
	require.NoError(t, err)

	m := manifest.New(input.String(), len(records), 42, "mt19937", 0.8, 0.1)
	train, err := jsonl.Marshal(parts.Train)
	require.NoError(t, err)
	trainLoc, err := storage.ParseLocation("s3://" + bucketName + "/tico/splits/train.jsonl")
	require.NoError(t, err)
	require.NoError(t, router.Write(ctx, trainLoc, bytes.NewReader(train)))
	m.AddOutput("train", trainLoc.String(), len(parts.Train), train)

	got, err := router.Read(ctx, trainLoc)
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":7}\n{\"id\":3}\n{\"id\":2}\n{\"id\":8}\n{\"id\":5}\n{\"id\":6}\n{\"id\":9}\n{\"id\":4}\n", string(got))

	out, ok := m.Output("train")
	require.True(t, ok)
	assert.Equal(t, manifest.Checksum(got), out.SHA256)

	_, err = router.Read(ctx, storage.Location{S3: true, Bucket: bucketName, Key: "tico/splits/missing.jsonl"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRouter_CreatesMissingBucket(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	_, cfg := setupS3Provider(t, ctx)
	cfg.CreateBuckets = true

	router, err := storage.NewRouter(cfg)
	require.NoError(t, err)

	loc, err := storage.ParseLocation("s3://fresh-bucket/splits/train.jsonl")
	require.NoError(t, err)
	require.NoError(t, router.Write(ctx, loc, strings.NewReader("{\"id\":1}\n")))

	data, err := router.Read(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":1}\n", string(data))
}
