package integrationtests

import (
	"context"
	"testing"

	"tico-dataset/internal/storage"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/minio"
)

const (
	minioUsername = "admin"
	minioPassword = "password"

	bucketName = "test-bucket"
)

func setupMinioContainer(t *testing.T, ctx context.Context) string {
	minioContainer, err := minio.Run(
		ctx,
		"minio/minio:RELEASE.2024-01-16T16-07-38Z",
		minio.WithUsername(minioUsername),
		minio.WithPassword(minioPassword),
	)
	require.NoError(t, err, "Failed to start MinIO container")

	t.Cleanup(func() {
		err := minioContainer.Terminate(context.Background())
		require.NoError(t, err, "Failed to terminate MinIO container")
	})

	connStr, err := minioContainer.ConnectionString(ctx)
	require.NoError(t, err, "Failed to get MinIO connection string")

	return "http://" + connStr
}

func minioClientConfig(endpoint string) storage.S3ClientConfig {
	return storage.S3ClientConfig{
		Endpoint:        endpoint,
		Region:          "us-east-1",
		AccessKeyID:     minioUsername,
		SecretAccessKey: minioPassword,
		PathStyle:       true,
	}
}

func setupS3Provider(t *testing.T, ctx context.Context) (*storage.S3Provider, storage.S3ClientConfig) {
	t.Helper()

	cfg := minioClientConfig(setupMinioContainer(t, ctx))

	provider, err := storage.NewS3Provider(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, provider.EnsureBucket(ctx, bucketName))

	return provider, cfg
}
