package storage

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName, credentialsPath string) (*CloudStorageClient, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// UploadProfilePicture stores the picture at images/{fileName} and returns a
// public fetchable URL. The object name is deterministic per user, so a
// re-upload replaces the previous picture.
func (c *CloudStorageClient) UploadProfilePicture(ctx context.Context, file io.Reader, fileName string) (string, error) {
	objectName := "images/" + fileName

	obj := c.client.Bucket(c.bucketName).Object(objectName)
	wc := obj.NewWriter(ctx)
	wc.ContentType = "image/png"
	wc.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(wc, file); err != nil {
		return "", fmt.Errorf("failed to copy file to GCS: %v", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %v", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", fmt.Errorf("failed to set ACL: %v", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, objectName), nil
}

// DownloadURL resolves the fetchable URL for a stored object path, failing
// when the object does not exist.
func (c *CloudStorageClient) DownloadURL(ctx context.Context, path string) (string, error) {
	if _, err := c.client.Bucket(c.bucketName).Object(path).Attrs(ctx); err != nil {
		return "", fmt.Errorf("failed to stat object: %v", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, path), nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
