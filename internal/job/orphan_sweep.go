package job

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/repository"
	"github.com/Vladislavlhp7/data-lineage/internal/domain/service"
)

const (
	defaultOrphanGracePeriod = 10 * time.Minute
	orphanDeleteConcurrency  = 4
)

// SweepResult はオーファン掃除1回分の結果を表します
type SweepResult struct {
	Scanned int // 走査したネームスペース数
	Orphans int // レコードを持たないネームスペース数
	Deleted int
	Failed  int
}

// OrphanSweepJob はファイルレコードを持たない保存済み本文を削除するジョブです
// 削除途中で失敗したファイルや、コミットされなかった作成の残骸が対象
type OrphanSweepJob struct {
	fileRepo    repository.FileRepository
	store       service.ContentStore
	gracePeriod time.Duration
	now         func() time.Time
}

// NewOrphanSweepJob は新しいOrphanSweepJobを作成します
func NewOrphanSweepJob(
	fileRepo repository.FileRepository,
	store service.ContentStore,
	gracePeriod time.Duration,
) *OrphanSweepJob {
	if gracePeriod <= 0 {
		gracePeriod = defaultOrphanGracePeriod
	}
	return &OrphanSweepJob{
		fileRepo:    fileRepo,
		store:       store,
		gracePeriod: gracePeriod,
		now:         time.Now,
	}
}

// Run は1回分の掃除を実行します
// 猶予期間内に更新されたネームスペースは作成途中の可能性があるため対象外
func (j *OrphanSweepJob) Run(ctx context.Context) (*SweepResult, error) {
	namespaces, err := j.store.ListNamespaces(ctx)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Scanned: len(namespaces)}
	cutoff := j.now().Add(-j.gracePeriod)

	candidates := make([]uuid.UUID, 0, len(namespaces))
	for _, ns := range namespaces {
		if ns.ModifiedAt.After(cutoff) {
			continue
		}
		id, err := uuid.Parse(ns.Name)
		if err != nil {
			continue
		}
		candidates = append(candidates, id)
	}
	if len(candidates) == 0 {
		return result, nil
	}

	existing, err := j.fileRepo.FilterExistingIDs(ctx, candidates)
	if err != nil {
		return nil, err
	}
	known := make(map[uuid.UUID]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}

	var deleted, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(orphanDeleteConcurrency)

	for _, id := range candidates {
		if _, ok := known[id]; ok {
			continue
		}
		result.Orphans++
		namespace := id.String()
		g.Go(func() error {
			if err := j.store.DeleteAll(ctx, namespace); err != nil {
				slog.Error("orphan sweep: delete failed", "namespace", namespace, "error", err)
				failed.Add(1)
				return nil
			}
			deleted.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	result.Deleted = int(deleted.Load())
	result.Failed = int(failed.Load())
	if result.Orphans > 0 {
		slog.Info("orphan sweep completed",
			"scanned", result.Scanned,
			"orphans", result.Orphans,
			"deleted", result.Deleted,
			"failed", result.Failed,
		)
	}
	return result, nil
}
