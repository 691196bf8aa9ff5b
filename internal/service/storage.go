package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"team-server/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageService S3 兼容对象存储服务（头像、Logo、文档）
type StorageService struct {
	client    *minio.Client
	bucket    string
	publicURL string
	endpoint  string
	useSSL    bool
}

var (
	defaultStorage     *StorageService
	defaultStorageErr  error
	defaultStorageOnce sync.Once
)

// GetStorageService 获取对象存储服务单例
func GetStorageService() (*StorageService, error) {
	defaultStorageOnce.Do(func() {
		defaultStorage, defaultStorageErr = NewStorageService(&config.Get().Storage)
	})
	return defaultStorage, defaultStorageErr
}

// NewStorageService 创建对象存储服务
func NewStorageService(cfg *config.StorageConfig) (*StorageService, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("对象存储未配置")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化对象存储失败: %w", err)
	}

	return &StorageService{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		endpoint:  cfg.Endpoint,
		useSSL:    cfg.UseSSL,
	}, nil
}

// Upload 上传对象并返回公开访问 URL
func (s *StorageService) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("上传文件失败: %w", err)
	}

	return s.PublicURL(key), nil
}

// PublicURL 对象的公开访问 URL
func (s *StorageService) PublicURL(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, key)
}
