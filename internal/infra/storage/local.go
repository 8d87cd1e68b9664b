// internal/infra/storage/local.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustinreed/portfolio/pkg/constant"
)

// LocalStore 将对象保存为本机磁盘文件，路径为 <root>/<bucket>/<key>
type LocalStore struct {
	root   string
	bucket string
}

// NewLocalStore 创建本地对象存储，root 为空时使用默认目录
func NewLocalStore(root, bucket string) (*LocalStore, error) {
	if root == "" {
		root = constant.DefaultLocalStoragePath
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("无法解析本地存储路径 '%s': %w", root, err)
	}
	return &LocalStore{root: absRoot, bucket: bucket}, nil
}

// objectPath 拼接对象的磁盘路径，拒绝跳出根目录的键
func (s *LocalStore) objectPath(key string) (string, error) {
	base := filepath.Join(s.root, s.bucket)
	full := filepath.Join(base, filepath.FromSlash(key))
	if full != base && !strings.HasPrefix(full, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("非法的对象键: %s", key)
	}
	return full, nil
}

// Get 读取对象
func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.objectPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("读取本地对象失败: %w", err)
	}
	return data, nil
}

// Put 先写临时文件再重命名，读取方不会看到写了一半的内容
func (s *LocalStore) Put(ctx context.Context, key string, data []byte, _ string) error {
	path, err := s.objectPath(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("无法创建目录 '%s': %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("无法创建临时文件: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("写入临时文件失败: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("同步文件到磁盘失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("关闭临时文件失败: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		log.Printf("[本地存储] 重命名 '%s' -> '%s' 失败: %v", tmpName, path, err)
		return fmt.Errorf("替换对象文件失败: %w", err)
	}
	return nil
}

// Describe 存储描述
func (s *LocalStore) Describe() string {
	return fmt.Sprintf("Local (%s)", filepath.Join(s.root, s.bucket))
}
