package metrics

import (
	"sort"

	"github.com/ogurasousui/turnover-analytics/internal/core/classify"
	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
)

const (
	// DefaultTopReasons は全体の上位件数の既定値です。
	DefaultTopReasons = 5
	// CareLineTopReasons は救急・一次医療ごとの上位件数です。
	CareLineTopReasons = 10
)

// ReasonCount は離職理由ごとの件数と構成比です。
type ReasonCount struct {
	Reason string
	Count  int
	Share  float64
}

// CareLineReasons はケアラインごとの離職理由です。
type CareLineReasons struct {
	CareLine string
	Total    int
	Reasons  []ReasonCount
}

// ReasonsResult は離職理由の内訳です。
type ReasonsResult struct {
	Total         int
	Overall       []ReasonCount
	UrgentCare    []ReasonCount
	PrimaryCare   []ReasonCount
	OtherLines    []CareLineReasons
	Top           []ReasonCount
	TopByCareLine []CareLineReasons
}

// TerminationReasons は理由が記入された記録の離職理由を集計します。
// topN が 0 以下の場合は DefaultTopReasons を使います。
func TerminationReasons(records []roster.Record, filter Filter, topN int) ReasonsResult {
	if topN <= 0 {
		topN = DefaultTopReasons
	}

	overall := make(map[string]int)
	urgent := make(map[string]int)
	primary := make(map[string]int)
	perLine := make(map[string]map[string]int)
	total := 0

	for _, rec := range Apply(records, filter) {
		if rec.TerminationReason == "" {
			continue
		}
		total++
		reason := rec.TerminationReason
		overall[reason]++

		line := string(rec.CareLine)
		if perLine[line] == nil {
			perLine[line] = make(map[string]int)
		}
		perLine[line][reason]++

		switch rec.CareLine {
		case classify.CareLineUrgent:
			urgent[reason]++
		case classify.CareLinePrimary:
			primary[reason]++
		}
	}

	result := ReasonsResult{
		Total:       total,
		Overall:     rankReasons(overall, 0),
		UrgentCare:  rankReasons(urgent, CareLineTopReasons),
		PrimaryCare: rankReasons(primary, CareLineTopReasons),
		Top:         rankReasons(overall, topN),
	}

	topSet := make(map[string]struct{}, len(result.Top))
	for _, r := range result.Top {
		topSet[r.Reason] = struct{}{}
	}

	lines := make([]string, 0, len(perLine))
	for line := range perLine {
		lines = append(lines, line)
	}
	sort.Strings(lines)

	for _, line := range lines {
		counts := perLine[line]
		lt := 0
		inTop := make(map[string]int)
		for reason, n := range counts {
			lt += n
			if _, ok := topSet[reason]; ok {
				inTop[reason] = n
			}
		}

		cl := classify.CareLine(line)
		if cl != classify.CareLineUrgent && cl != classify.CareLinePrimary {
			result.OtherLines = append(result.OtherLines, CareLineReasons{CareLine: line, Total: lt, Reasons: rankReasons(counts, 0)})
		}
		if len(inTop) > 0 {
			result.TopByCareLine = append(result.TopByCareLine, CareLineReasons{CareLine: line, Total: lt, Reasons: rankReasons(inTop, 0)})
		}
	}

	return result
}

// rankReasons は件数降順・理由昇順に並べ、limit が正なら先頭 limit 件に絞ります。Share は counts 全体に対する比率です。
func rankReasons(counts map[string]int, limit int) []ReasonCount {
	sum := 0
	out := make([]ReasonCount, 0, len(counts))
	for reason, n := range counts {
		sum += n
		out = append(out, ReasonCount{Reason: reason, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Reason < out[j].Reason
	})
	for i := range out {
		out[i].Share = ratio(out[i].Count, sum)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
