package roster

import (
	"math"
	"strings"
	"time"

	"github.com/ogurasousui/turnover-analytics/internal/core/classify"
)

// PeriodLayout は期間バケット (年月) の書式です。
const PeriodLayout = "2006-01"

// dayFirstLayouts は日先頭の書式を優先し、最後に ISO 形式を試します。
var dayFirstLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2-1-2006",
	"2-1-2006 15:04:05",
	"2.1.2006",
	"2/1/06",
	"2-1-06",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseDate は日先頭の規則で日付を解釈し、UTC の日付 (時刻 0 時) に正規化します。
// 数値だけの文字列は日付として扱いません。
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dayFirstLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return DateOnly(t), true
		}
	}

	return time.Time{}, false
}

// Period は日付の年月バケットを返します。nil の場合は空文字列です。
func Period(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(PeriodLayout)
}

// DaysBetween は from から to までの日数を返します。どちらかが nil なら nil です。負の値もそのまま返します。
func DaysBetween(from, to *time.Time) *int {
	if from == nil || to == nil {
		return nil
	}
	days := int(math.Round(to.Sub(*from).Hours() / 24))
	return &days
}

// DateOnly は時刻部分を切り捨てた UTC の日付を返します。
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var terminatedMarkers = map[string]struct{}{
	"S": {}, "SIM": {}, "X": {}, "TRUE": {}, "1": {}, "Y": {}, "YES": {},
	"DESLIGADO": {}, "DEMITIDO": {}, "RESCINDIDO": {}, "INATIVO": {},
}

// parseTerminatedMarker は退職マーカー列の値を判定します。
func parseTerminatedMarker(raw string) bool {
	_, ok := terminatedMarkers[classify.NormalizeText(raw)]
	return ok
}
