/*
 * @Description: AWS S3 对象存储实现（使用aws-sdk-go-v2），兼容 MinIO 等自定义 endpoint
 * @Date: 2026-10-08 11:36:20
 * @LastEditTime: 2026-10-13 10:20:41
 */
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dustinreed/portfolio/pkg/constant"
)

// s3API 是 AWSS3Store 用到的 S3 客户端方法，*s3.Client 满足该接口
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// AWSS3Store 基于 S3 的对象存储
type AWSS3Store struct {
	client s3API
	bucket string
}

// NewAWSS3Store 创建 S3 对象存储。
// 未配置 AccessKey 时沿用 SDK 默认凭证链（环境变量、共享配置、实例角色）。
func NewAWSS3Store(ctx context.Context, opts Options) (*AWSS3Store, error) {
	region := opts.Region
	if region == "" {
		region = constant.DefaultS3Region
	}

	var loadOpts []func(*config.LoadOptions) error
	loadOpts = append(loadOpts, config.WithRegion(region))
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.Printf("[AWS S3] 加载配置失败: %v", err)
		return nil, fmt.Errorf("加载AWS配置失败: %w", err)
	}

	endpoint := strings.TrimSpace(opts.Endpoint)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	log.Printf("[AWS S3] 客户端创建成功 - 区域: %s, 存储桶: %s", region, opts.Bucket)
	return &AWSS3Store{client: client, bucket: opts.Bucket}, nil
}

// Get 读取对象
func (s *AWSS3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("从AWS S3获取对象失败: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("读取AWS S3对象内容失败: %w", err)
	}
	return data, nil
}

// Put 覆盖写入对象
func (s *AWSS3Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("上传对象到AWS S3失败: %w", err)
	}
	return nil
}

// Describe 存储描述
func (s *AWSS3Store) Describe() string {
	return fmt.Sprintf("S3 (%s)", s.bucket)
}
