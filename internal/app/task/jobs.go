package task

// Job 带名称的定时任务，与 cron.Job 兼容
type Job interface {
	Run()
	Name() string
}

// StorageJob 读写访客存储的任务，Storage 返回存储位置描述
type StorageJob interface {
	Job
	Storage() string
}
