/*
 * @Description: 基于对象存储的访客统计文档仓储
 * @Date: 2026-10-09 09:15:27
 * @LastEditTime: 2026-10-13 11:32:49
 */
package statistics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/dustinreed/portfolio/internal/infra/storage"
	"github.com/dustinreed/portfolio/pkg/domain/model"
	"github.com/dustinreed/portfolio/pkg/domain/repository"
)

const documentContentType = "application/json"

type objectVisitorStore struct {
	objects storage.ObjectStore
	key     string
}

// NewVisitorStore 创建访客统计文档仓储。objects 为 nil 表示未配置存储后端：
// 读取返回空文档，写入直接丢弃。
func NewVisitorStore(objects storage.ObjectStore, key string) repository.VisitorStore {
	return &objectVisitorStore{objects: objects, key: key}
}

func (s *objectVisitorStore) Load(ctx context.Context) (*model.VisitorDocument, error) {
	if s.objects == nil {
		return model.NewVisitorDocument(), nil
	}

	data, err := s.objects.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return model.NewVisitorDocument(), nil
		}
		return model.NewVisitorDocument(), fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}

	doc, err := DecodeVisitorDocument(data)
	if err != nil {
		return model.NewVisitorDocument(), fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	return doc, nil
}

func (s *objectVisitorStore) Save(ctx context.Context, doc *model.VisitorDocument) error {
	if s.objects == nil {
		return nil
	}

	data, err := EncodeVisitorDocument(doc)
	if err != nil {
		return err
	}
	if err := s.objects.Put(ctx, s.key, data, documentContentType); err != nil {
		return fmt.Errorf("保存访客统计文档失败: %w", err)
	}
	return nil
}

func (s *objectVisitorStore) Backup(ctx context.Context, at time.Time) (string, error) {
	if s.objects == nil {
		return "", fmt.Errorf("%w: 未配置存储后端", repository.ErrStoreUnavailable)
	}

	data, err := s.objects.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			log.Printf("[访客统计] 文档 %s 尚不存在，跳过备份", s.key)
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}

	backupKey := BackupKey(s.key, at)
	if err := s.objects.Put(ctx, backupKey, data, documentContentType); err != nil {
		return "", fmt.Errorf("写入备份 %s 失败: %w", backupKey, err)
	}
	return backupKey, nil
}

func (s *objectVisitorStore) Describe() string {
	if s.objects == nil {
		return "None"
	}
	return s.objects.Describe()
}

// BackupKey 生成备份对象键：visitor_count.json -> backups/visitor_count-2026-10-14.json
func BackupKey(key string, at time.Time) string {
	dir, file := path.Split(key)
	ext := path.Ext(file)
	name := strings.TrimSuffix(file, ext)
	return dir + "backups/" + name + "-" + at.Format("2006-01-02") + ext
}
