package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	errorc "qrhub/pkg/core/err"
	"qrhub/pkg/core/logger"

	"github.com/bsm/redislock"
	"github.com/robfig/cron/v3"
)

// ErrSkipped 任务因锁被其他实例持有或上次执行未结束而跳过
var ErrSkipped = errors.New("task skipped")

// Scheduler 定时任务调度器，分布式任务通过 redis 锁保证单实例执行
type Scheduler struct {
	cron   *cron.Cron
	locker *redislock.Client
	prefix string
	log    *logger.Log
	err    *errorc.ErrorBuilder

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.RWMutex
	tasks map[string]*CronTask

	stats SchedulerStats
}

// SchedulerStats 调度器统计信息
type SchedulerStats struct {
	CompletedTasks atomic.Int64
	FailedTasks    atomic.Int64
	SkippedTasks   atomic.Int64
}

// NewScheduler locker 为空时分布式任务退化为本地执行
func NewScheduler(locker *redislock.Client, prefix string, log *logger.Log) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	if prefix == "" {
		prefix = "scheduler"
	}
	return &Scheduler{
		cron:   cron.New(cron.WithParser(cronParser), cron.WithLocation(time.UTC)),
		locker: locker,
		prefix: prefix,
		log:    log.WithEntryName("Scheduler"),
		err:    errorc.NewErrorBuilder("Scheduler"),
		ctx:    ctx,
		cancel: cancel,
		tasks:  make(map[string]*CronTask),
	}
}

// AddTask 注册任务，任务名唯一
func (s *Scheduler) AddTask(task *CronTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.Name]; ok {
		return s.err.New(fmt.Sprintf("任务已存在: %s", task.Name), nil)
	}

	_, err := s.cron.AddFunc(task.CronExpr, func() {
		s.wg.Add(1)
		defer s.wg.Done()
		if err := s.RunTask(s.ctx, task); err != nil && !errors.Is(err, ErrSkipped) {
			s.log.WithErr(err).WithField("task", task.Name).Error("任务执行失败")
		}
	})
	if err != nil {
		return s.err.New("注册任务失败", err)
	}
	s.tasks[task.Name] = task
	return nil
}

// GetTask 获取任务
func (s *Scheduler) GetTask(name string) *CronTask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks[name]
}

// Start 启动调度
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.WithField("tasks", len(s.tasks)).Info("调度器已启动")
}

// Stop 停止调度并等待执行中的任务结束
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.cancel()
	s.wg.Wait()
	s.log.Info("调度器已停止")
}

func (s *Scheduler) Stats() *SchedulerStats {
	return &s.stats
}

// RunTask 立即执行一次任务，分布式任务未获取到锁时返回 ErrSkipped
func (s *Scheduler) RunTask(ctx context.Context, task *CronTask) error {
	if !task.tryStart() {
		s.stats.SkippedTasks.Add(1)
		return ErrSkipped
	}
	defer task.finish()

	ctx, cancel := context.WithTimeout(ctx, task.GetTimeout())
	defer cancel()

	if task.ExecuteMode == TaskExecuteModeDistributed && s.locker != nil {
		lock, err := s.locker.Obtain(ctx, s.prefix+":"+task.Name, task.GetTimeout(), nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			s.stats.SkippedTasks.Add(1)
			s.log.WithField("task", task.Name).Debug("锁被其他实例持有，跳过")
			return ErrSkipped
		}
		if err != nil {
			s.stats.FailedTasks.Add(1)
			return s.err.New("获取任务锁失败", err).Third()
		}
		defer func() {
			if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				s.log.WithErr(err).WithField("task", task.Name).Warn("释放任务锁失败")
			}
		}()
	}

	start := time.Now()
	err := task.Func(ctx)
	log := s.log.WithField("task", task.Name).WithField("duration", time.Since(start).Round(time.Millisecond))
	if err != nil {
		s.stats.FailedTasks.Add(1)
		return err
	}
	s.stats.CompletedTasks.Add(1)
	log.Info("任务执行成功")
	return nil
}
