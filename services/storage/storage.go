package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// StorageService defines the interface for storage operations. Signed URL
// issuance is delegated to the storage provider.
type StorageService interface {
	UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error)
	DeleteFile(ctx context.Context, objectPath string) error
	SignedDownloadURL(ctx context.Context, objectPath string, expires time.Duration) (string, error)
}

// serviceAccount holds the fields needed to sign URLs.
type serviceAccount struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// GCSStorageService implements StorageService using Google Cloud Storage.
type GCSStorageService struct {
	client         *storage.Client
	bucketName     string
	serviceAccount *serviceAccount
}

// NewGCSStorageService creates a new GCSStorageService.
func NewGCSStorageService(serviceAccountJSONPath, bucketName string) (*GCSStorageService, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx, option.WithCredentialsFile(serviceAccountJSONPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	sa, err := loadServiceAccount(serviceAccountJSONPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load service account for signing URLs: %w", err)
	}

	return &GCSStorageService{
		client:         client,
		bucketName:     bucketName,
		serviceAccount: sa,
	}, nil
}

func loadServiceAccount(path string) (*serviceAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account file: %w", err)
	}
	var sa serviceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, fmt.Errorf("failed to parse service account file: %w", err)
	}
	return &sa, nil
}

// UploadFile uploads a local file into the bucket under destFolder and
// returns the object path.
func (s *GCSStorageService) UploadFile(ctx context.Context, localFilePath, destFolder string) (string, error) {
	file, err := os.Open(localFilePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	objectPath := filepath.Join(destFolder, filepath.Base(localFilePath))
	obj := s.client.Bucket(s.bucketName).Object(objectPath)
	w := obj.NewWriter(ctx)

	if ext := filepath.Ext(localFilePath); ext != "" {
		w.ObjectAttrs.ContentType = mime.TypeByExtension(ext)
	}

	if _, err := io.Copy(w, file); err != nil {
		return "", fmt.Errorf("failed to copy file to storage: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	return objectPath, nil
}

// DeleteFile deletes an object from the bucket.
func (s *GCSStorageService) DeleteFile(ctx context.Context, objectPath string) error {
	obj := s.client.Bucket(s.bucketName).Object(objectPath)
	if err := obj.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// SignedDownloadURL returns a signed URL valid for the specified duration.
func (s *GCSStorageService) SignedDownloadURL(ctx context.Context, objectPath string, expires time.Duration) (string, error) {
	url, err := storage.SignedURL(s.bucketName, objectPath, &storage.SignedURLOptions{
		GoogleAccessID: s.serviceAccount.ClientEmail,
		PrivateKey:     []byte(strings.ReplaceAll(s.serviceAccount.PrivateKey, `\n`, "\n")),
		Method:         "GET",
		Expires:        time.Now().Add(expires),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL: %w", err)
	}
	return url, nil
}
