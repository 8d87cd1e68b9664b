/*
 * @Description: 访客统计文档备份任务
 * @Date: 2026-10-11 10:40:52
 * @LastEditTime: 2026-10-14 10:24:05
 */
package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustinreed/portfolio/pkg/domain/repository"
)

// backupTimeout 单次备份的超时时间
const backupTimeout = 2 * time.Minute

// VisitorBackupJob 把当前访客文档复制到按日期命名的备份对象
type VisitorBackupJob struct {
	store  repository.VisitorStore
	logger *slog.Logger
	now    func() time.Time
}

// NewVisitorBackupJob 创建备份任务实例
func NewVisitorBackupJob(store repository.VisitorStore, logger *slog.Logger) *VisitorBackupJob {
	j := &VisitorBackupJob{
		store: store,
		now:   time.Now,
	}
	j.logger = jobLoggerFor(logger, j)
	return j
}

// Run 执行备份
func (j *VisitorBackupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
	defer cancel()

	key, err := j.store.Backup(ctx, j.now())
	if err != nil {
		j.logger.Error("访客文档备份失败", slog.Any("error", err))
		return
	}
	if key == "" {
		j.logger.Info("访客文档尚不存在，跳过备份")
		return
	}
	j.logger.Info("访客文档备份完成", slog.String("backup_key", key))
}

// Storage 返回备份所在的存储位置
func (j *VisitorBackupJob) Storage() string {
	return j.store.Describe()
}

// Name 返回任务名称
func (j *VisitorBackupJob) Name() string {
	return "VisitorBackupJob"
}
