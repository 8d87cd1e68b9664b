/*
 * @Description: 七牛云Kodo对象存储实现
 * @Date: 2026-10-08 15:12:50
 * @LastEditTime: 2026-10-12 19:03:26
 */
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/qiniu/go-sdk/v7/auth"
	"github.com/qiniu/go-sdk/v7/storage"
)

// qiniuURLExpiry 私有空间下载链接的有效期
const qiniuURLExpiry = 10 * time.Minute

// QiniuKodoStore 基于七牛云Kodo的对象存储。
// 七牛云没有直接读取对象的接口，读取通过下载域名加私有签名链接完成。
type QiniuKodoStore struct {
	mac        *auth.Credentials
	cfg        *storage.Config
	bucketName string
	domain     string
	httpClient *http.Client
}

// NewQiniuKodoStore 创建七牛云对象存储
func NewQiniuKodoStore(opts Options) (*QiniuKodoStore, error) {
	if opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, fmt.Errorf("七牛云缺少AccessKey或SecretKey")
	}
	domain := strings.TrimSuffix(strings.TrimSpace(opts.Domain), "/")
	if domain == "" {
		return nil, fmt.Errorf("七牛云缺少下载域名配置")
	}

	return &QiniuKodoStore{
		mac:        auth.New(opts.AccessKey, opts.SecretKey),
		cfg:        qiniuUploadConfig(opts.Region),
		bucketName: opts.Bucket,
		domain:     domain,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// qiniuUploadConfig 按区域代号选择上传区域
// z0=华东, z1=华北, z2=华南, na0=北美, as0=东南亚
func qiniuUploadConfig(region string) *storage.Config {
	cfg := &storage.Config{
		UseHTTPS:      true,
		UseCdnDomains: false,
	}

	switch strings.ToLower(strings.TrimSpace(region)) {
	case "z1":
		cfg.Region = &storage.ZoneHuabei
	case "z2":
		cfg.Region = &storage.ZoneHuanan
	case "na0":
		cfg.Region = &storage.ZoneBeimei
	case "as0":
		cfg.Region = &storage.ZoneXinjiapo
	default:
		cfg.Region = &storage.ZoneHuadong
	}
	return cfg
}

// Get 读取对象
func (s *QiniuKodoStore) Get(ctx context.Context, key string) ([]byte, error) {
	deadline := time.Now().Add(qiniuURLExpiry).Unix()
	privateURL := storage.MakePrivateURL(s.mac, s.domain, key, deadline)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, privateURL, nil)
	if err != nil {
		return nil, fmt.Errorf("创建七牛云下载请求失败: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("从七牛云获取对象失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrObjectNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("从七牛云获取对象失败，状态码: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取七牛云对象内容失败: %w", err)
	}
	return data, nil
}

// Put 覆盖写入对象
func (s *QiniuKodoStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	// Scope 带上 key 才允许覆盖已有对象
	putPolicy := storage.PutPolicy{
		Scope: fmt.Sprintf("%s:%s", s.bucketName, key),
	}
	upToken := putPolicy.UploadToken(s.mac)

	formUploader := storage.NewFormUploader(s.cfg)
	ret := storage.PutRet{}
	putExtra := storage.PutExtra{MimeType: contentType}

	if err := formUploader.Put(ctx, &ret, upToken, key, bytes.NewReader(data), int64(len(data)), &putExtra); err != nil {
		log.Printf("[七牛云] 上传对象失败: key=%s, err=%v", key, err)
		return fmt.Errorf("上传对象到七牛云失败: %w", err)
	}
	return nil
}

// Describe 存储描述
func (s *QiniuKodoStore) Describe() string {
	return fmt.Sprintf("Kodo (%s)", s.bucketName)
}
