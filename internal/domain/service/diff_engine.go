package service

import (
	"math"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/Vladislavlhp7/data-lineage/internal/domain/valueobject"
)

// unifiedContextLines は統一差分に含める前後の行数
const unifiedContextLines = 3

// DiffEngine は2つの本文の行単位差分を計算するドメインサービス
type DiffEngine interface {
	// Diff は最長共通部分列に基づく行差分を返します（純粋関数）
	Diff(oldContent, newContent string) []valueobject.DiffLine

	// Unified は unified diff 形式のテキストを返します
	Unified(oldContent, newContent, fromLabel, toLabel string) string
}

// diffEngineImpl はDiffEngineの実装
type diffEngineImpl struct{}

// NewDiffEngine は新しいDiffEngineを作成します
func NewDiffEngine() DiffEngine {
	return &diffEngineImpl{}
}

// Diff は行差分を計算します
func (e *diffEngineImpl) Diff(oldContent, newContent string) []valueobject.DiffLine {
	a := SplitLines(oldContent)
	b := SplitLines(newContent)

	// 共通の先頭・末尾を除いてから差分を計算する
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	result := make([]valueobject.DiffLine, 0, len(a)+len(b)-prefix-suffix)
	for _, line := range a[:prefix] {
		result = append(result, valueobject.DiffLine{Kind: valueobject.DiffContext, Text: line})
	}
	result = append(result, lcsDiff(a[prefix:len(a)-suffix], b[prefix:len(b)-suffix])...)
	for _, line := range a[len(a)-suffix:] {
		result = append(result, valueobject.DiffLine{Kind: valueobject.DiffContext, Text: line})
	}
	return result
}

// lcsDiff は変更行の印をもとに差分行を組み立てます
// 同じ位置では削除行を追加行より先に出力する
func lcsDiff(a, b []string) []valueobject.DiffLine {
	removed, added := markChanges(a, b)

	lines := make([]valueobject.DiffLine, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && removed[i]:
			lines = append(lines, valueobject.DiffLine{Kind: valueobject.DiffRemoved, Text: a[i]})
			i++
		case j < len(b) && added[j]:
			lines = append(lines, valueobject.DiffLine{Kind: valueobject.DiffAdded, Text: b[j]})
			j++
		default:
			lines = append(lines, valueobject.DiffLine{Kind: valueobject.DiffContext, Text: a[i]})
			i++
			j++
		}
	}
	return lines
}

// markChanges は削除行と追加行に印を付けます
// 片側にしか現れない行は共通部分列に入らないので、先に除外してからMyers法にかける
func markChanges(a, b []string) (removed, added []bool) {
	removed = make([]bool, len(a))
	added = make([]bool, len(b))

	ids := make(map[string]int, len(a))
	aIDs := make([]int, len(a))
	for i, line := range a {
		id, ok := ids[line]
		if !ok {
			id = len(ids)
			ids[line] = id
		}
		aIDs[i] = id
	}

	inB := make([]bool, len(ids))
	var y, yIndex []int
	for j, line := range b {
		id, ok := ids[line]
		if !ok {
			added[j] = true
			continue
		}
		inB[id] = true
		y = append(y, id)
		yIndex = append(yIndex, j)
	}

	var x, xIndex []int
	for i, id := range aIDs {
		if !inB[id] {
			removed[i] = true
			continue
		}
		x = append(x, id)
		xIndex = append(xIndex, i)
	}

	m := newMyersDiff(x, y)
	m.compare(0, len(x), 0, len(y))
	for k, changed := range m.xChanged {
		if changed {
			removed[xIndex[k]] = true
		}
	}
	for k, changed := range m.yChanged {
		if changed {
			added[yIndex[k]] = true
		}
	}
	return removed, added
}

// minMyersCost は中央スネーク探索を打ち切るまでの最小編集コスト
const minMyersCost = 256

// myersDiff はMyersのO(ND)差分を線形空間の分割統治で計算します
// 探索コストがmaxCostを超えた区間は最も遠くまで届いた点で分割する
type myersDiff struct {
	x, y     []int
	xChanged []bool
	yChanged []bool
	fd, bd   []int // 対角線kの到達x座標（k+offsetで添字）
	offset   int
	maxCost  int
}

func newMyersDiff(x, y []int) *myersDiff {
	diagonals := len(x) + len(y) + 3
	return &myersDiff{
		x:        x,
		y:        y,
		xChanged: make([]bool, len(x)),
		yChanged: make([]bool, len(y)),
		fd:       make([]int, diagonals),
		bd:       make([]int, diagonals),
		offset:   len(y) + 1,
		maxCost:  max(minMyersCost, int(math.Sqrt(float64(diagonals)))),
	}
}

// compare は x[xoff:xlim] と y[yoff:ylim] の差分に印を付けます
func (m *myersDiff) compare(xoff, xlim, yoff, ylim int) {
	for xoff < xlim && yoff < ylim && m.x[xoff] == m.y[yoff] {
		xoff++
		yoff++
	}
	for xlim > xoff && ylim > yoff && m.x[xlim-1] == m.y[ylim-1] {
		xlim--
		ylim--
	}

	if xoff == xlim || yoff == ylim {
		m.markRange(xoff, xlim, yoff, ylim)
		return
	}

	xmid, ymid := m.split(xoff, xlim, yoff, ylim)
	if (xmid == xoff && ymid == yoff) || (xmid == xlim && ymid == ylim) {
		m.markRange(xoff, xlim, yoff, ylim)
		return
	}
	m.compare(xoff, xmid, yoff, ymid)
	m.compare(xmid, xlim, ymid, ylim)
}

func (m *myersDiff) markRange(xoff, xlim, yoff, ylim int) {
	for i := xoff; i < xlim; i++ {
		m.xChanged[i] = true
	}
	for j := yoff; j < ylim; j++ {
		m.yChanged[j] = true
	}
}

// split は前方と後方から同時に探索し、最短編集経路上の分割点を返します
func (m *myersDiff) split(xoff, xlim, yoff, ylim int) (int, int) {
	fd, bd, off := m.fd, m.bd, m.offset
	dmin, dmax := xoff-ylim, xlim-yoff
	fmid, bmid := xoff-yoff, xlim-ylim
	fmin, fmax := fmid, fmid
	bmin, bmax := bmid, bmid
	odd := (fmid-bmid)&1 != 0

	fd[fmid+off] = xoff
	bd[bmid+off] = xlim

	for c := 1; ; c++ {
		if fmin > dmin {
			fmin--
			fd[fmin-1+off] = -1
		} else {
			fmin++
		}
		if fmax < dmax {
			fmax++
			fd[fmax+1+off] = -1
		} else {
			fmax--
		}
		for d := fmax; d >= fmin; d -= 2 {
			lo, hi := fd[d-1+off], fd[d+1+off]
			x := hi
			if lo >= hi {
				x = lo + 1
			}
			y := x - d
			for x < xlim && y < ylim && m.x[x] == m.y[y] {
				x++
				y++
			}
			fd[d+off] = x
			if odd && bmin <= d && d <= bmax && bd[d+off] <= x {
				return clampPoint(x, y, xoff, xlim, yoff, ylim)
			}
		}

		if bmin > dmin {
			bmin--
			bd[bmin-1+off] = math.MaxInt
		} else {
			bmin++
		}
		if bmax < dmax {
			bmax++
			bd[bmax+1+off] = math.MaxInt
		} else {
			bmax--
		}
		for d := bmax; d >= bmin; d -= 2 {
			lo, hi := bd[d-1+off], bd[d+1+off]
			x := hi - 1
			if lo < hi {
				x = lo
			}
			y := x - d
			for x > xoff && y > yoff && m.x[x-1] == m.y[y-1] {
				x--
				y--
			}
			bd[d+off] = x
			if !odd && fmin <= d && d <= fmax && x <= fd[d+off] {
				return clampPoint(x, y, xoff, xlim, yoff, ylim)
			}
		}

		if c >= m.maxCost {
			return m.furthestPoint(xoff, xlim, yoff, ylim, fmin, fmax, bmin, bmax)
		}
	}
}

// furthestPoint は打ち切り時に前方・後方のうち遠くまで進んだ側の到達点を返します
func (m *myersDiff) furthestPoint(xoff, xlim, yoff, ylim, fmin, fmax, bmin, bmax int) (int, int) {
	fd, bd, off := m.fd, m.bd, m.offset

	fBest, fx := -1, xoff
	for d := fmax; d >= fmin; d -= 2 {
		x := min(fd[d+off], xlim)
		y := x - d
		if y > ylim {
			x, y = ylim+d, ylim
		}
		if x+y > fBest {
			fBest, fx = x+y, x
		}
	}

	bBest, bx := math.MaxInt, xlim
	for d := bmax; d >= bmin; d -= 2 {
		x := max(bd[d+off], xoff)
		y := x - d
		if y < yoff {
			x, y = yoff+d, yoff
		}
		if x+y < bBest {
			bBest, bx = x+y, x
		}
	}

	if (xlim+ylim)-bBest < fBest-(xoff+yoff) {
		return clampPoint(fx, fBest-fx, xoff, xlim, yoff, ylim)
	}
	return clampPoint(bx, bBest-bx, xoff, xlim, yoff, ylim)
}

func clampPoint(x, y, xoff, xlim, yoff, ylim int) (int, int) {
	return min(max(x, xoff), xlim), min(max(y, yoff), ylim)
}

// Unified は go-difflib で unified diff を生成します
func (e *diffEngineImpl) Unified(oldContent, newContent, fromLabel, toLabel string) string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        withNewlines(SplitLines(oldContent)),
		B:        withNewlines(SplitLines(newContent)),
		FromFile: fromLabel,
		ToFile:   toLabel,
		Context:  unifiedContextLines,
	})
	if err != nil {
		// strings.Builderへの書き込みは失敗しない
		return ""
	}
	return text
}

// SplitLines は本文を論理行に分割します
// CRLFはLFとして扱い、末尾の改行は余分な空行を作らない
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	return strings.Split(content, "\n")
}

func withNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}
