package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/Vladislavlhp7/data-lineage/internal/job"
)

// NewOrphanSweepJob はオーファン掃除を定期実行するジョブを作成します
func NewOrphanSweepJob(sweeper *job.OrphanSweepJob, interval time.Duration) Job {
	return Job{
		Name:     "orphan_sweep",
		Interval: interval,
		Fn: func(ctx context.Context) error {
			result, err := sweeper.Run(ctx)
			if err != nil {
				return err
			}
			slog.Debug("orphan sweep finished", "scanned", result.Scanned, "deleted", result.Deleted)
			return nil
		},
	}
}

// NewHealthCheckJob はヘルスチェックジョブを作成します（データベース接続確認など）
func NewHealthCheckJob(name string, checkFn func(ctx context.Context) error) Job {
	return Job{
		Name:     name + "_health_check",
		Interval: 5 * time.Minute,
		Fn: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := checkFn(ctx); err != nil {
				slog.Warn("health check failed", "target", name, "error", err)
				return err
			}
			return nil
		},
	}
}
