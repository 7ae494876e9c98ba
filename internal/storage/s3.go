package storage

import (
	"VidTube/pkg/logger"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config 对象存储配置，Endpoint为空时使用AWS官方地址，非空时可指向MinIO等兼容服务
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
}

type s3Storage struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

// NewS3Storage 创建S3存储：1、加载AWS默认配置（凭证来自环境变量/共享配置） 2、按需覆盖Endpoint 3、创建分片上传器
func NewS3Storage(ctx context.Context, cfg S3Config) (MediaStorage, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 storage: bucket is required")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if strings.TrimSpace(cfg.Endpoint) != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &s3Storage{
		client:   client,
		uploader: uploader,
		bucket:   cfg.Bucket,
		baseURL:  baseURL,
	}, nil
}

// Store 上传本地文件：1、生成按日期分目录的唯一key 2、分片上传 3、无论成功与否都删除本地临时文件
func (s *s3Storage) Store(ctx context.Context, localPath string) (MediaAsset, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return MediaAsset{}, fmt.Errorf("open %s: %w", localPath, err)
	}
	defer func() {
		file.Close()
		if rmErr := os.Remove(localPath); rmErr != nil {
			logger.Log.WithError(rmErr).WithField("path", localPath).Warn("删除本地临时文件失败")
		}
	}()

	key := path.Join(time.Now().Format("2006/01/02"), uuid.NewString()+strings.ToLower(filepath.Ext(localPath)))
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	if err != nil {
		return MediaAsset{}, fmt.Errorf("s3 storage upload %s: %w", key, err)
	}
	// S3不解析媒体元数据，时长由调用方通过表单提供
	return MediaAsset{URL: s.baseURL + "/" + key}, nil
}

// Release 删除对象，只处理本存储签发的地址，外部地址直接忽略
func (s *s3Storage) Release(ctx context.Context, url string) error {
	key, ok := s.keyFromURL(url)
	if !ok {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 storage delete %s: %w", key, err)
	}
	return nil
}

func (s *s3Storage) keyFromURL(url string) (string, bool) {
	prefix := s.baseURL + "/"
	if url == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	return key, key != ""
}
