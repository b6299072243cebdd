package service

import (
	"fmt"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
)

func kinds(lines []valueobject.DiffLine) string {
	var b strings.Builder
	for _, l := range lines {
		switch l.Kind {
		case valueobject.DiffAdded:
			b.WriteByte('+')
		case valueobject.DiffRemoved:
			b.WriteByte('-')
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func TestDiffEngine_Diff_IdenticalContent_OnlyContext(t *testing.T) {
	engine := NewDiffEngine()

	for _, content := range []string{"", "a", "line1\nline2", "x\n\ny\n"} {
		lines := engine.Diff(content, content)
		assert.True(t, valueobject.StatsOf(lines).IsEmpty(), "content %q", content)
		assert.Len(t, lines, len(SplitLines(content)))
	}
}

func TestDiffEngine_Diff_AppendedLine(t *testing.T) {
	engine := NewDiffEngine()

	lines := engine.Diff("line1\nline2", "line1\nline2\nline3")

	assert.Equal(t, []valueobject.DiffLine{
		{Kind: valueobject.DiffContext, Text: "line1"},
		{Kind: valueobject.DiffContext, Text: "line2"},
		{Kind: valueobject.DiffAdded, Text: "line3"},
	}, lines)
}

func TestDiffEngine_Diff_TrailingNewlineIgnored(t *testing.T) {
	engine := NewDiffEngine()

	assert.True(t, valueobject.StatsOf(engine.Diff("a\nb", "a\nb\n")).IsEmpty())
	assert.True(t, valueobject.StatsOf(engine.Diff("a\r\nb\r\n", "a\nb")).IsEmpty())
}

func TestDiffEngine_Diff_SmallEditProducesSmallDiff(t *testing.T) {
	engine := NewDiffEngine()
	old := "a\nb\nc\nd\ne\nf"
	updated := "a\nb\nX\nd\ne\nf"

	lines := engine.Diff(old, updated)

	assert.Equal(t, "  -+   ", kinds(lines))
	assert.Equal(t, valueobject.DiffStats{Added: 1, Removed: 1}, valueobject.StatsOf(lines))
}

func TestDiffEngine_Diff_InterleavedChanges(t *testing.T) {
	engine := NewDiffEngine()

	lines := engine.Diff("a\nb\nc\nd", "b\nc\ne\nd\nf")

	assert.Equal(t, valueobject.DiffStats{Added: 2, Removed: 1}, valueobject.StatsOf(lines))
	// 全行が元の順序で現れる
	var oldSide, newSide []string
	for _, l := range lines {
		if l.Kind != valueobject.DiffAdded {
			oldSide = append(oldSide, l.Text)
		}
		if l.Kind != valueobject.DiffRemoved {
			newSide = append(newSide, l.Text)
		}
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, oldSide)
	assert.Equal(t, []string{"b", "c", "e", "d", "f"}, newSide)
}

func sides(lines []valueobject.DiffLine) (oldSide, newSide []string) {
	for _, l := range lines {
		if l.Kind != valueobject.DiffAdded {
			oldSide = append(oldSide, l.Text)
		}
		if l.Kind != valueobject.DiffRemoved {
			newSide = append(newSide, l.Text)
		}
	}
	return oldSide, newSide
}

func numberedLines(prefix string, n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("%s-%d", prefix, i)
	}
	return lines
}

func TestDiffEngine_Diff_MinimalEditScript(t *testing.T) {
	engine := NewDiffEngine()

	// 共通部分列の最長は "c b b a" などの4行
	lines := engine.Diff("a\nb\nc\na\nb\nb\na", "c\nb\na\nb\na\nc")

	stats := valueobject.StatsOf(lines)
	assert.Equal(t, 5, stats.Added+stats.Removed)
	oldSide, newSide := sides(lines)
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "b", "a"}, oldSide)
	assert.Equal(t, []string{"c", "b", "a", "b", "a", "c"}, newSide)
}

func TestDiffEngine_Diff_LargeDisjointInputsStayLinear(t *testing.T) {
	const n = 50000
	oldLines := numberedLines("old", n)
	newLines := numberedLines("new", n)
	old := strings.Join(oldLines, "\n")
	updated := strings.Join(newLines, "\n")
	engine := NewDiffEngine()

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	lines := engine.Diff(old, updated)
	runtime.ReadMemStats(&after)

	assert.Equal(t, valueobject.DiffStats{Added: n, Removed: n}, valueobject.StatsOf(lines))
	// 表を使うと n*n ワード（数十GB）になる
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(64<<20))
	oldSide, newSide := sides(lines)
	assert.Equal(t, oldLines, oldSide)
	assert.Equal(t, newLines, newSide)
}

func TestDiffEngine_Diff_LargeReorderedInputs(t *testing.T) {
	const n = 20000
	oldLines := numberedLines("line", n)
	newLines := slices.Clone(oldLines)
	slices.Reverse(newLines)
	engine := NewDiffEngine()

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	lines := engine.Diff(strings.Join(oldLines, "\n"), strings.Join(newLines, "\n"))
	runtime.ReadMemStats(&after)

	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(64<<20))
	stats := valueobject.StatsOf(lines)
	require.Equal(t, stats.Added, stats.Removed)
	assert.GreaterOrEqual(t, stats.Removed, n-1)
	oldSide, newSide := sides(lines)
	assert.Equal(t, oldLines, oldSide)
	assert.Equal(t, newLines, newSide)
}

func TestDiffEngine_Diff_Deterministic(t *testing.T) {
	engine := NewDiffEngine()
	old := "one\ntwo\nthree\nfour"
	updated := "zero\ntwo\nfour\nfive"

	assert.Equal(t, engine.Diff(old, updated), engine.Diff(old, updated))
}

func TestDiffEngine_Diff_FromEmpty(t *testing.T) {
	engine := NewDiffEngine()

	lines := engine.Diff("", "a\nb")

	assert.Equal(t, valueobject.DiffStats{Added: 2}, valueobject.StatsOf(lines))
}

func TestDiffEngine_Unified_ContainsHunk(t *testing.T) {
	engine := NewDiffEngine()

	text := engine.Unified("line1\nline2", "line1\nline2\nline3", "report.txt@v1", "report.txt@v2")

	assert.Contains(t, text, "--- report.txt@v1")
	assert.Contains(t, text, "+++ report.txt@v2")
	assert.Contains(t, text, "+line3\n")
}

func TestDiffEngine_Unified_NoChangesIsEmpty(t *testing.T) {
	engine := NewDiffEngine()

	assert.Empty(t, engine.Unified("same", "same", "a", "b"))
}

func TestSplitLines(t *testing.T) {
	cases := map[string][]string{
		"":           nil,
		"a":          {"a"},
		"a\n":        {"a"},
		"a\nb":       {"a", "b"},
		"a\r\nb\r\n": {"a", "b"},
		"a\n\nb":     {"a", "", "b"},
	}
	for input, want := range cases {
		assert.Equal(t, want, SplitLines(input), "input %q", input)
	}
}
