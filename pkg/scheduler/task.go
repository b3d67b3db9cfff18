package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// TaskExecuteMode 任务执行模式
type TaskExecuteMode int

const (
	// TaskExecuteModeDistributed 分布式执行，同一时刻只有持有锁的实例执行
	TaskExecuteModeDistributed TaskExecuteMode = iota
	// TaskExecuteModeLocal 每个实例各自执行
	TaskExecuteModeLocal
)

// TaskStatus 任务状态
type TaskStatus int32

const (
	TaskStatusWaiting TaskStatus = iota
	TaskStatusRunning
)

// TaskFunc 任务执行函数
type TaskFunc func(ctx context.Context) error

// 秒级 cron 表达式，兼容 @every / @daily 等描述符
var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// CronTask 基于Cron表达式的任务
type CronTask struct {
	Name        string
	CronExpr    string
	ExecuteMode TaskExecuteMode
	Timeout     time.Duration
	Func        TaskFunc

	schedule cron.Schedule
	status   atomic.Int32
}

// NewCronTask 创建Cron任务
func NewCronTask(name string, cronExpr string, executeMode TaskExecuteMode, timeout time.Duration, fn TaskFunc) (*CronTask, error) {
	schedule, err := cronParser.Parse(cronExpr)
	if err != nil {
		return nil, err
	}
	return &CronTask{
		Name:        name,
		CronExpr:    cronExpr,
		ExecuteMode: executeMode,
		Timeout:     timeout,
		Func:        fn,
		schedule:    schedule,
	}, nil
}

// GetTimeout 获取任务超时时间
func (t *CronTask) GetTimeout() time.Duration {
	if t.Timeout <= 0 {
		return 30 * time.Second
	}
	return t.Timeout
}

// Next 下次执行时间
func (t *CronTask) Next(now time.Time) time.Time {
	return t.schedule.Next(now)
}

func (t *CronTask) GetStatus() TaskStatus {
	return TaskStatus(t.status.Load())
}

// tryStart 上一次执行未结束时返回 false
func (t *CronTask) tryStart() bool {
	return t.status.CompareAndSwap(int32(TaskStatusWaiting), int32(TaskStatusRunning))
}

func (t *CronTask) finish() {
	t.status.Store(int32(TaskStatusWaiting))
}
