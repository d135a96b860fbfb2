package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/pageza/mealsnap/backend/config"
)

// S3ImageStore uploads meal photos to S3. References are object keys.
type S3ImageStore struct {
	s3Config *config.S3Config
}

// NewS3ImageStore creates a new S3ImageStore instance
func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config}
}

// Put uploads data and returns its object key.
func (s *S3ImageStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("meal-images/%s%s", uuid.New().String(), extensionFor(contentType))

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	log.Printf("[ImageService] Uploaded meal photo to s3://%s/%s", s.s3Config.BucketName, key)
	return key, nil
}

// Delete removes the object for ref.
func (s *S3ImageStore) Delete(ctx context.Context, ref string) error {
	_, err := s.s3Config.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(ref),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	log.Printf("[ImageService] Deleted meal photo s3://%s/%s", s.s3Config.BucketName, ref)
	return nil
}

// PhotoLinkExpiry bounds how long a presigned photo link stays valid
const PhotoLinkExpiry = 15 * time.Minute

// Link returns a presigned download URL for ref.
func (s *S3ImageStore) Link(ctx context.Context, ref string) (string, error) {
	url, err := s.s3Config.GeneratePresignedURL(ctx, ref, PhotoLinkExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign photo link: %w", err)
	}
	return url, nil
}

type storedImage struct {
	data        []byte
	contentType string
}

// MemoryImageStore keeps photos in process memory.
type MemoryImageStore struct {
	mu     sync.RWMutex
	images map[string]storedImage
}

// NewMemoryImageStore creates an empty in-memory photo store.
func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{images: make(map[string]storedImage)}
}

func (m *MemoryImageStore) Put(_ context.Context, data []byte, contentType string) (string, error) {
	key := "memory/" + uuid.New().String() + extensionFor(contentType)
	buf := make([]byte, len(data))
	copy(buf, data)

	m.mu.Lock()
	m.images[key] = storedImage{data: buf, contentType: contentType}
	m.mu.Unlock()
	return key, nil
}

func (m *MemoryImageStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.images, key)
	m.mu.Unlock()
	return nil
}

// Read returns a stored photo and its content type.
func (m *MemoryImageStore) Read(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	img, ok := m.images[key]
	return img.data, img.contentType, ok
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/heic":
		return ".heic"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
