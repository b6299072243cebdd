package valueobject

// DiffKind は差分行の種別を表します
type DiffKind string

const (
	DiffAdded   DiffKind = "added"
	DiffRemoved DiffKind = "removed"
	DiffContext DiffKind = "context"
)

// DiffLine は行単位差分の1行を表す値オブジェクト
type DiffLine struct {
	Kind DiffKind `json:"kind"`
	Text string   `json:"text"`
}

// DiffStats は差分の追加行数・削除行数を表します
type DiffStats struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// Changed は変更行の合計を返します
func (s DiffStats) Changed() int {
	return s.Added + s.Removed
}

// IsEmpty は変更がないかどうかを判定します
func (s DiffStats) IsEmpty() bool {
	return s.Changed() == 0
}

// StatsOf は差分行から統計を集計します
func StatsOf(lines []DiffLine) DiffStats {
	var stats DiffStats
	for _, l := range lines {
		switch l.Kind {
		case DiffAdded:
			stats.Added++
		case DiffRemoved:
			stats.Removed++
		}
	}
	return stats
}
