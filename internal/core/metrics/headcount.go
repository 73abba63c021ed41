package metrics

import (
	"sort"

	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
)

// TotalLabel はクロス集計の合計行・合計列のラベルです。
const TotalLabel = "Total"

// GroupCount はグループごとの件数です。
type GroupCount struct {
	Key        string
	Total      int
	Terminated int
}

// CrossTab はケアライン (行) × 職種カテゴリ (列) の件数表です。最終行と最終列が合計です。
type CrossTab struct {
	Rows    []string
	Columns []string
	Cells   [][]int
}

// HeadcountResult は人数と離職の集計結果です。
type HeadcountResult struct {
	Total           int
	Terminated      int
	Active          int
	TerminationRate float64
	EarlyWithin45   int
	EarlyWithin90   int
	ByRole          []GroupCount
	ByCareLine      []GroupCount
	ByPeriod        []GroupCount
	CrossTab        CrossTab
}

// Headcount はフィルタ後の記録の人数・離職数・グループ別件数・クロス集計を返します。
func Headcount(records []roster.Record, filter Filter) HeadcountResult {
	selected := Apply(records, filter)

	var result HeadcountResult
	byRole := newGrouper()
	byLine := newGrouper()
	byPeriod := newGrouper()

	for _, rec := range selected {
		result.Total++
		if rec.Terminated {
			result.Terminated++
			if rec.EarlyTermination.Within45Days {
				result.EarlyWithin45++
			}
			if rec.EarlyTermination.Within90Days {
				result.EarlyWithin90++
			}
		}
		byRole.add(string(rec.RoleCategory), rec.Terminated)
		byLine.add(string(rec.CareLine), rec.Terminated)
		if p := filter.PeriodBasis.PeriodOf(rec); p != "" {
			byPeriod.add(p, rec.Terminated)
		}
	}

	result.Active = result.Total - result.Terminated
	result.TerminationRate = ratio(result.Terminated, result.Total)
	result.ByRole = byRole.sorted()
	result.ByCareLine = byLine.sorted()
	result.ByPeriod = byPeriod.sorted()
	result.CrossTab = crossTab(selected)
	return result
}

func crossTab(records []roster.Record) CrossTab {
	rowSet := make(map[string]struct{})
	colSet := make(map[string]struct{})
	counts := make(map[[2]string]int)
	for _, rec := range records {
		row, col := string(rec.CareLine), string(rec.RoleCategory)
		rowSet[row] = struct{}{}
		colSet[col] = struct{}{}
		counts[[2]string{row, col}]++
	}

	rows := append(sortedKeys(rowSet), TotalLabel)
	cols := append(sortedKeys(colSet), TotalLabel)
	last := len(cols) - 1
	bottom := len(rows) - 1

	cells := make([][]int, len(rows))
	for i := range cells {
		cells[i] = make([]int, len(cols))
	}
	for i, row := range rows[:bottom] {
		for j, col := range cols[:last] {
			n := counts[[2]string{row, col}]
			cells[i][j] = n
			cells[i][last] += n
			cells[bottom][j] += n
			cells[bottom][last] += n
		}
	}

	return CrossTab{Rows: rows, Columns: cols, Cells: cells}
}

type grouper struct {
	index map[string]int
	items []GroupCount
}

func newGrouper() *grouper {
	return &grouper{index: make(map[string]int)}
}

func (g *grouper) add(key string, terminated bool) {
	i, ok := g.index[key]
	if !ok {
		i = len(g.items)
		g.index[key] = i
		g.items = append(g.items, GroupCount{Key: key})
	}
	g.items[i].Total++
	if terminated {
		g.items[i].Terminated++
	}
}

func (g *grouper) sorted() []GroupCount {
	out := make([]GroupCount, len(g.items))
	copy(out, g.items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out
}

// ratio は分母が 0 の場合に 0 を返します。
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
