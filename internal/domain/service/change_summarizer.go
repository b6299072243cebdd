package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
)

const (
	// SubstantialChangeThreshold を超える変更行数で要約に注記を付ける
	SubstantialChangeThreshold = 10

	NoChangesSummary = "No changes detected."
)

// ChangeSummarizer は差分を短い説明文に変換するドメインサービス
// 失敗しない（外部サービスの失敗はローカル要約で吸収する）
type ChangeSummarizer interface {
	Summarize(ctx context.Context, lines []valueobject.DiffLine, unified string) string
}

// SummaryBackend は外部の要約サービスを表します
type SummaryBackend interface {
	Summarize(ctx context.Context, diffText string) (string, error)
}

// localChangeSummarizer は決定的なローカル要約の実装
type localChangeSummarizer struct{}

// NewLocalChangeSummarizer はローカル要約を作成します
func NewLocalChangeSummarizer() ChangeSummarizer {
	return &localChangeSummarizer{}
}

func (s *localChangeSummarizer) Summarize(_ context.Context, lines []valueobject.DiffLine, _ string) string {
	return SummarizeStats(valueobject.StatsOf(lines))
}

// SummarizeStats は追加・削除行数から要約文を組み立てます
func SummarizeStats(stats valueobject.DiffStats) string {
	if stats.IsEmpty() {
		return NoChangesSummary
	}

	var parts []string
	if stats.Added > 0 {
		parts = append(parts, fmt.Sprintf("Added %d %s", stats.Added, pluralLine(stats.Added)))
	}
	if stats.Removed > 0 {
		verb := "Removed"
		if len(parts) > 0 {
			verb = "removed"
		}
		parts = append(parts, fmt.Sprintf("%s %d %s", verb, stats.Removed, pluralLine(stats.Removed)))
	}

	summary := strings.Join(parts, " and ")
	if stats.Changed() > SubstantialChangeThreshold {
		summary += " (substantial change)"
	}
	return summary
}

func pluralLine(n int) string {
	if n == 1 {
		return "line"
	}
	return "lines"
}

// fallbackChangeSummarizer は外部要約を試し、失敗時にローカル要約を返す実装
type fallbackChangeSummarizer struct {
	backend SummaryBackend
	local   ChangeSummarizer
	timeout time.Duration
}

// NewFallbackChangeSummarizer は外部要約サービス付きのChangeSummarizerを作成します
func NewFallbackChangeSummarizer(backend SummaryBackend, timeout time.Duration) ChangeSummarizer {
	return &fallbackChangeSummarizer{
		backend: backend,
		local:   NewLocalChangeSummarizer(),
		timeout: timeout,
	}
}

func (s *fallbackChangeSummarizer) Summarize(ctx context.Context, lines []valueobject.DiffLine, unified string) string {
	fallback := s.local.Summarize(ctx, lines, unified)
	if valueobject.StatsOf(lines).IsEmpty() {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	summary, err := s.backend.Summarize(ctx, unified)
	if err != nil {
		slog.Warn("external summarizer failed, using local summary", "error", err)
		return fallback
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		slog.Warn("external summarizer returned empty summary, using local summary")
		return fallback
	}
	return summary
}
