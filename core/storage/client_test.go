package storage_test

import (
	"context"
	"errors"
	"testing"

	"agents-manager/core/storage"
	"agents-manager/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNewClient(t *testing.T) {
	endpoints := []string{"localhost:9000", "http://localhost:9000", "https://s3.amazonaws.com"}

	for _, endpoint := range endpoints {
		t.Run(endpoint, func(t *testing.T) {
			client, err := storage.NewClient(storage.Config{
				Endpoint:  endpoint,
				AccessKey: "testkey",
				SecretKey: "testsecret",
				Region:    "us-east-1",
			})
			assert.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "agents").Return(true, nil)

		assert.NoError(t, storage.EnsureBucket(ctx, client, "agents", ""))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "agents").Return(false, nil)
		client.On("MakeBucket", ctx, "agents", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

		assert.NoError(t, storage.EnsureBucket(ctx, client, "agents", "eu-west-1"))
		client.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", ctx, "agents").Return(false, errors.New("dial tcp: refused"))

		err := storage.EnsureBucket(ctx, client, "agents", "")
		assert.ErrorContains(t, err, "failed to check bucket agents")
	})
}
