/*
 * @Description: 访客统计文档仓储接口
 * @Date: 2026-10-08 10:40:11
 * @LastEditTime: 2026-10-12 16:05:52
 */
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dustinreed/portfolio/pkg/domain/model"
)

// ErrStoreUnavailable 存储后端不可达或文档无法解析。
// 调用方据此区分“确实没有数据”和“暂时读不到数据”。
var ErrStoreUnavailable = errors.New("visitor store unavailable")

// VisitorStore 访客统计文档仓储接口
type VisitorStore interface {
	// Load 读取完整文档。对象不存在时返回空文档和 nil；
	// 后端不可达或内容无法解析时返回空文档和 ErrStoreUnavailable。
	Load(ctx context.Context) (*model.VisitorDocument, error)

	// Save 整体覆盖写入文档
	Save(ctx context.Context, doc *model.VisitorDocument) error

	// Backup 将当前文档原样复制到按日期命名的备份对象，返回备份对象的键
	Backup(ctx context.Context, at time.Time) (string, error)

	// Describe 返回存储位置的描述，例如 "S3 (bucket)"
	Describe() string
}
