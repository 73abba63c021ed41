package metrics

import (
	"sort"

	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
)

// Average は日数の平均です。Count はグループの記録数、Samples は平均に使った非負の値の数です。
// 負の値は入力不備として平均から除外しますが、記録自体は Count に含めます。
type Average struct {
	Count   int
	Samples int
	Mean    float64
}

type averager struct {
	count   int
	samples int
	sum     int
}

func (a *averager) observe(v *int) {
	a.count++
	if v == nil || *v < 0 {
		return
	}
	a.samples++
	a.sum += *v
}

func (a averager) result() Average {
	return Average{Count: a.count, Samples: a.samples, Mean: meanOf(a.sum, a.samples)}
}

func meanOf(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// TimeStats はグループごとの所要日数です。Total は選考日数と入職日数の和で、両方が非負の記録のみ対象です。
type TimeStats struct {
	Key       string
	Count     int
	Selection Average
	Admission Average
	Total     Average
	Tenure    Average
}

type timeAccumulator struct {
	key       string
	count     int
	selection averager
	admission averager
	total     averager
	tenure    averager
}

func (t *timeAccumulator) add(rec roster.Record) {
	t.count++
	t.selection.observe(rec.SelectionDays)
	t.admission.observe(rec.AdmissionDays)
	t.total.observe(totalDays(rec))
	if rec.Terminated {
		t.tenure.observe(rec.TenureDays)
	}
}

func (t *timeAccumulator) stats() TimeStats {
	return TimeStats{
		Key:       t.key,
		Count:     t.count,
		Selection: t.selection.result(),
		Admission: t.admission.result(),
		Total:     t.total.result(),
		Tenure:    t.tenure.result(),
	}
}

func totalDays(rec roster.Record) *int {
	if rec.SelectionDays == nil || rec.AdmissionDays == nil {
		return nil
	}
	if *rec.SelectionDays < 0 || *rec.AdmissionDays < 0 {
		return nil
	}
	v := *rec.SelectionDays + *rec.AdmissionDays
	return &v
}

// 在籍日数の区分です。
const (
	TenureBucketUpTo45   = "0-45"
	TenureBucketUpTo90   = "46-90"
	TenureBucketUpTo180  = "91-180"
	TenureBucketUpTo365  = "181-365"
	TenureBucketOver365  = "365+"
	TenureBucketNegative = "negative"
)

// TenureBuckets は区分の表示順です。
var TenureBuckets = []string{
	TenureBucketUpTo45,
	TenureBucketUpTo90,
	TenureBucketUpTo180,
	TenureBucketUpTo365,
	TenureBucketOver365,
	TenureBucketNegative,
}

// TenureBucket は在籍日数の区分を返します。
func TenureBucket(days int) string {
	switch {
	case days < 0:
		return TenureBucketNegative
	case days <= 45:
		return TenureBucketUpTo45
	case days <= 90:
		return TenureBucketUpTo90
	case days <= 180:
		return TenureBucketUpTo180
	case days <= 365:
		return TenureBucketUpTo365
	default:
		return TenureBucketOver365
	}
}

// TimeResult は所要日数の集計結果です。
type TimeResult struct {
	Overall       TimeStats
	ByCareLine    []TimeStats
	ByRole        []TimeStats
	ByPeriod      []TimeStats
	TenureBuckets []GroupCount
}

// TimeMetrics は選考・入職・合計・在籍の平均日数を全体とグループ別に返します。
func TimeMetrics(records []roster.Record, filter Filter) TimeResult {
	overall := &timeAccumulator{key: TotalLabel}
	byLine := make(map[string]*timeAccumulator)
	byRole := make(map[string]*timeAccumulator)
	byPeriod := make(map[string]*timeAccumulator)
	buckets := make(map[string]int, len(TenureBuckets))

	for _, rec := range Apply(records, filter) {
		overall.add(rec)
		accumulate(byLine, string(rec.CareLine), rec)
		accumulate(byRole, string(rec.RoleCategory), rec)
		if p := filter.PeriodBasis.PeriodOf(rec); p != "" {
			accumulate(byPeriod, p, rec)
		}
		if rec.Terminated && rec.TenureDays != nil {
			buckets[TenureBucket(*rec.TenureDays)]++
		}
	}

	result := TimeResult{
		Overall:       overall.stats(),
		ByCareLine:    sortedStats(byLine),
		ByRole:        sortedStats(byRole),
		ByPeriod:      sortedStats(byPeriod),
		TenureBuckets: make([]GroupCount, 0, len(TenureBuckets)),
	}
	for _, b := range TenureBuckets {
		result.TenureBuckets = append(result.TenureBuckets, GroupCount{Key: b, Total: buckets[b], Terminated: buckets[b]})
	}
	return result
}

func accumulate(m map[string]*timeAccumulator, key string, rec roster.Record) {
	acc, ok := m[key]
	if !ok {
		acc = &timeAccumulator{key: key}
		m[key] = acc
	}
	acc.add(rec)
}

func sortedStats(m map[string]*timeAccumulator) []TimeStats {
	out := make([]TimeStats, 0, len(m))
	for _, acc := range m {
		out = append(out, acc.stats())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out
}
