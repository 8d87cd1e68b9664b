/*
 * @Description: 腾讯云COS对象存储实现
 * @Date: 2026-10-08 14:30:09
 * @LastEditTime: 2026-10-12 18:46:57
 */
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/tencentyun/cos-go-sdk-v5"
)

// TencentCOSStore 基于腾讯云COS的对象存储
type TencentCOSStore struct {
	client     *cos.Client
	bucketName string
}

// NewTencentCOSStore 创建腾讯云COS对象存储。
// Endpoint 为存储桶访问域名，如 https://examplebucket-1250000000.cos.ap-guangzhou.myqcloud.com
func NewTencentCOSStore(opts Options) (*TencentCOSStore, error) {
	if opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, fmt.Errorf("腾讯云COS缺少SecretID或SecretKey")
	}
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("腾讯云COS缺少存储桶访问域名")
	}

	u, err := url.Parse(opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("解析腾讯云COS访问域名失败: %w", err)
	}

	b := &cos.BaseURL{BucketURL: u}
	client := cos.NewClient(b, &http.Client{
		Timeout: 30 * time.Second,
		Transport: &cos.AuthorizationTransport{
			SecretID:  opts.AccessKey,
			SecretKey: opts.SecretKey,
		},
	})

	log.Printf("[腾讯云COS] 客户端创建成功 - 存储桶: %s", opts.Bucket)
	return &TencentCOSStore{client: client, bucketName: opts.Bucket}, nil
}

// Get 读取对象
func (s *TencentCOSStore) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.client.Object.Get(ctx, key, nil)
	if err != nil {
		if cosErr, ok := err.(*cos.ErrorResponse); ok && cosErr.Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("从腾讯云COS获取对象失败: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取腾讯云COS对象内容失败: %w", err)
	}
	return data, nil
}

// Put 覆盖写入对象
func (s *TencentCOSStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	opt := &cos.ObjectPutOptions{
		ObjectPutHeaderOptions: &cos.ObjectPutHeaderOptions{
			ContentType: contentType,
		},
	}
	if _, err := s.client.Object.Put(ctx, key, bytes.NewReader(data), opt); err != nil {
		return fmt.Errorf("上传对象到腾讯云COS失败: %w", err)
	}
	return nil
}

// Describe 存储描述
func (s *TencentCOSStore) Describe() string {
	return fmt.Sprintf("COS (%s)", s.bucketName)
}
