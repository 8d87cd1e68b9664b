/*
 * @Description: 定时任务调度器
 * @Date: 2026-10-11 10:05:18
 * @LastEditTime: 2026-10-14 10:22:47
 */
package task

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dustinreed/portfolio/pkg/domain/repository"
)

// scheduleParser 兼容五段与六段（带秒）的 cron 表达式
var scheduleParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler 封装了 cron 实例和任务依赖
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	jobs   int
}

// NewScheduler 创建调度器，loc 为表达式的解释时区
func NewScheduler(loc *time.Location) *Scheduler {
	slogHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(slogHandler).With("system", "cron")
	return newSchedulerWithLogger(loc, logger)
}

func newSchedulerWithLogger(loc *time.Location, logger *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(
		cron.WithParser(scheduleParser),
		cron.WithLocation(loc),
	)
	return &Scheduler{cron: c, logger: logger}
}

// wrap 为任务套上防重入、panic 恢复和执行日志
func (s *Scheduler) wrap(job Job) cron.Job {
	jobLogger := jobLoggerFor(s.logger, job)
	return cron.NewChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
		NewPanicRecoveryWrapper(jobLogger),
		NewLoggingWrapper(jobLogger),
	).Then(job)
}

// Register 按表达式注册任务
func (s *Scheduler) Register(schedule string, job Job) error {
	if _, err := s.cron.AddJob(schedule, s.wrap(job)); err != nil {
		return fmt.Errorf("注册任务 %s 失败 (schedule=%q): %w", job.Name(), schedule, err)
	}
	s.jobs++
	s.logger.Info("任务已注册", "job_name", job.Name(), "schedule", schedule)
	return nil
}

// RegisterVisitorBackup 注册访客文档备份任务，schedule 为空时不启用
func (s *Scheduler) RegisterVisitorBackup(schedule string, store repository.VisitorStore) error {
	if schedule == "" {
		s.logger.Info("未配置备份计划，跳过访客文档备份任务")
		return nil
	}
	return s.Register(schedule, NewVisitorBackupJob(store, s.logger))
}

// JobCount 已注册的任务数量
func (s *Scheduler) JobCount() int {
	return s.jobs
}

// Start 启动调度器
func (s *Scheduler) Start() {
	s.logger.Info("定时任务调度器已启动", "jobs", s.jobs)
	s.cron.Start()
}

// Stop 停止调度器并等待正在执行的任务结束
func (s *Scheduler) Stop() {
	s.logger.Info("正在停止定时任务调度器...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("定时任务调度器已停止")
}
