/*
 * @Description: 阿里云OSS对象存储实现
 * @Date: 2026-10-08 14:02:33
 * @LastEditTime: 2026-10-12 18:44:10
 */
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// AliOSSStore 基于阿里云OSS的对象存储
type AliOSSStore struct {
	bucket     *oss.Bucket
	bucketName string
}

// NewAliOSSStore 创建阿里云OSS对象存储，Endpoint 格式如 https://oss-cn-shanghai.aliyuncs.com
func NewAliOSSStore(opts Options) (*AliOSSStore, error) {
	if opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, fmt.Errorf("阿里云OSS缺少AccessKey或SecretKey")
	}
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("阿里云OSS缺少Endpoint配置")
	}

	client, err := oss.New(opts.Endpoint, opts.AccessKey, opts.SecretKey)
	if err != nil {
		log.Printf("[阿里云OSS] 创建客户端失败: %v", err)
		return nil, fmt.Errorf("创建阿里云OSS客户端失败: %w", err)
	}

	bucket, err := client.Bucket(opts.Bucket)
	if err != nil {
		log.Printf("[阿里云OSS] 获取存储桶失败: %v", err)
		return nil, fmt.Errorf("获取阿里云OSS存储桶失败: %w", err)
	}

	return &AliOSSStore{bucket: bucket, bucketName: opts.Bucket}, nil
}

// Get 读取对象
func (s *AliOSSStore) Get(ctx context.Context, key string) ([]byte, error) {
	body, err := s.bucket.GetObject(key)
	if err != nil {
		if isOSSNotFound(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("从阿里云OSS获取对象失败: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("读取阿里云OSS对象内容失败: %w", err)
	}
	return data, nil
}

// Put 覆盖写入对象
func (s *AliOSSStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := s.bucket.PutObject(key, bytes.NewReader(data), oss.ContentType(contentType)); err != nil {
		return fmt.Errorf("上传对象到阿里云OSS失败: %w", err)
	}
	return nil
}

// Describe 存储描述
func (s *AliOSSStore) Describe() string {
	return fmt.Sprintf("OSS (%s)", s.bucketName)
}

func isOSSNotFound(err error) bool {
	if serviceErr, ok := err.(oss.ServiceError); ok {
		return serviceErr.Code == "NoSuchKey" || serviceErr.StatusCode == http.StatusNotFound
	}
	return false
}
