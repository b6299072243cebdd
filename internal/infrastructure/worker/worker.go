package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job は定期実行ジョブを定義します
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
}

// Manager はバックグラウンドワーカーを管理します
type Manager struct {
	jobs   []Job
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager は新しいWorker Managerを作成します
func NewManager() *Manager {
	return &Manager{}
}

// Register は定期実行ジョブを登録します
// Intervalが0以下のジョブは登録しない
func (m *Manager) Register(job Job) {
	if job.Interval <= 0 {
		slog.Info("worker disabled", "job", job.Name)
		return
	}
	m.jobs = append(m.jobs, job)
}

// Jobs は登録済みジョブ名を返します
func (m *Manager) Jobs() []string {
	names := make([]string, len(m.jobs))
	for i, job := range m.jobs {
		names[i] = job.Name
	}
	return names
}

// Start は全ジョブのワーカーを開始します
// ctxがキャンセルされるかShutdownが呼ばれると停止する
func (m *Manager) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)
	for _, job := range m.jobs {
		m.wg.Add(1)
		go m.runJob(ctx, job)
	}
	slog.Info("worker manager started", "jobs", len(m.jobs))
}

// runJob は単一ジョブのワーカーループを実行します
func (m *Manager) runJob(ctx context.Context, job Job) {
	defer m.wg.Done()

	slog.Info("worker started", "job", job.Name, "interval", job.Interval)

	// 最初の実行を即座に行う
	m.runOnce(ctx, job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopping", "job", job.Name)
			return
		case <-ticker.C:
			m.runOnce(ctx, job)
		}
	}
}

func (m *Manager) runOnce(ctx context.Context, job Job) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("worker job panicked", "job", job.Name, "panic", r)
		}
	}()
	if err := job.Fn(ctx); err != nil && ctx.Err() == nil {
		slog.Error("worker job failed", "job", job.Name, "error", err)
	}
}

// Shutdown はすべてのワーカーを停止し、timeoutまで終了を待ちます
func (m *Manager) Shutdown(timeout time.Duration) {
	slog.Info("shutting down worker manager...")
	if m.cancel != nil {
		m.cancel()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("worker manager stopped")
	case <-time.After(timeout):
		slog.Warn("worker manager shutdown timed out")
	}
}
