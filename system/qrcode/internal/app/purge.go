package app

import (
	"context"
	"time"

	"qrhub/pkg/scheduler"
)

const (
	purgeTaskName  = "qrcode-trash-purge"
	purgeBatchSize = 100
)

// PurgeTrash 清理超过保留期的回收站记录，保留天数为 0 时不清理
func (a *App) PurgeTrash(ctx context.Context) (int, error) {
	days := a.cfg.TrashRetentionDays
	if days <= 0 {
		return 0, nil
	}
	before := a.now().AddDate(0, 0, -days)
	purged, err := a.QRCodeService.PurgeTrashed(ctx, before, purgeBatchSize)
	if err != nil {
		return purged, err
	}
	if purged > 0 {
		a.log.WithField("purged", purged).WithField("before", before).Info("回收站清理完成")
	}
	return purged, nil
}

// RegisterJobs 注册定时任务
func (a *App) RegisterJobs(s *scheduler.Scheduler) error {
	if a.cfg.TrashRetentionDays <= 0 {
		a.log.Info("未配置回收站保留期，跳过自动清理")
		return nil
	}
	task, err := scheduler.NewCronTask(purgeTaskName, a.cfg.PurgeCron, scheduler.TaskExecuteModeDistributed, 10*time.Minute,
		func(ctx context.Context) error {
			_, err := a.PurgeTrash(ctx)
			return err
		})
	if err != nil {
		return a.err.New("回收站清理表达式无效", err)
	}
	return s.AddTask(task)
}
