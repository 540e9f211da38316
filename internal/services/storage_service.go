// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/Zamahele/TenantManagement-sub001/internal/config"
)

// StorageService persists signature images and generated lease PDFs, on S3
// when AWS credentials are configured and on the local filesystem otherwise.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if cfg.AWS.AccessKeyID == "" {
		// Local filesystem storage for development
		return &StorageService{config: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   cfg,
	}, nil
}

// SaveSignatureImage stores captured signature image bytes and returns the
// storage key.
func (s *StorageService) SaveSignatureImage(leaseID uuid.UUID, imageData []byte) (string, error) {
	key := fmt.Sprintf("signatures/%s/%d.png", leaseID, time.Now().UTC().Unix())
	if err := s.save(key, imageData, "image/png"); err != nil {
		return "", fmt.Errorf("failed to store signature image: %w", err)
	}
	return key, nil
}

// SaveLeasePDF stores a rendered lease PDF and returns the storage key.
func (s *StorageService) SaveLeasePDF(leaseID uuid.UUID, pdfData []byte) (string, error) {
	key := fmt.Sprintf("leases/%s/agreement.pdf", leaseID)
	if err := s.save(key, pdfData, "application/pdf"); err != nil {
		return "", fmt.Errorf("failed to store lease PDF: %w", err)
	}
	return key, nil
}

// ReadFile returns the stored bytes for a key written by this service.
func (s *StorageService) ReadFile(key string) ([]byte, error) {
	if s.s3Client != nil {
		result, err := s.s3Client.GetObject(&s3.GetObjectInput{
			Bucket: aws.String(s.config.AWS.S3Bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read %s from S3: %w", key, err)
		}
		defer result.Body.Close()

		var buf bytes.Buffer
		if _, err := buf.ReadFrom(result.Body); err != nil {
			return nil, fmt.Errorf("failed to read %s from S3: %w", key, err)
		}
		return buf.Bytes(), nil
	}

	data, err := os.ReadFile(filepath.Join(s.config.AWS.LocalPath, filepath.FromSlash(key)))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from local storage: %w", key, err)
	}
	return data, nil
}

func (s *StorageService) save(key string, data []byte, contentType string) error {
	if s.s3Client != nil {
		_, err := s.s3Client.PutObject(&s3.PutObjectInput{
			Bucket:      aws.String(s.config.AWS.S3Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		return err
	}

	path := filepath.Join(s.config.AWS.LocalPath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
