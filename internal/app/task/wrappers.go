/*
 * @Description: cron 任务装饰器
 * @Date: 2026-10-11 10:05:18
 * @LastEditTime: 2026-10-14 10:21:36
 */
package task

import (
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// jobLoggerFor 任务专属 logger，带任务名；操作访客存储的任务额外带上存储位置
func jobLoggerFor(logger *slog.Logger, job Job) *slog.Logger {
	jobLogger := logger.With(slog.String("job_name", job.Name()))
	if storageJob, ok := job.(StorageJob); ok {
		jobLogger = jobLogger.With(slog.String("storage", storageJob.Storage()))
	}
	return jobLogger
}

// NewLoggingWrapper 记录每次执行的开始、结束和耗时，execution_id 串联同一次执行的日志
func NewLoggingWrapper(jobLogger *slog.Logger) cron.JobWrapper {
	return func(j cron.Job) cron.Job {
		return cron.FuncJob(func() {
			runLogger := jobLogger.With(slog.String("execution_id", uuid.New().String()))
			startTime := time.Now()
			runLogger.Info("任务开始执行")
			j.Run()
			runLogger.Info("任务执行结束", slog.Duration("duration", time.Since(startTime)))
		})
	}
}

// NewPanicRecoveryWrapper 捕获任务 panic 并记录堆栈，调度器继续运行
func NewPanicRecoveryWrapper(jobLogger *slog.Logger) cron.JobWrapper {
	return func(j cron.Job) cron.Job {
		return cron.FuncJob(func() {
			defer func() {
				if r := recover(); r != nil {
					jobLogger.Error("任务发生 panic",
						slog.Any("panic", r),
						slog.String("stack_trace", string(debug.Stack())),
					)
				}
			}()
			j.Run()
		})
	}
}
