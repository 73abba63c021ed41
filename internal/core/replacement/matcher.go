package replacement

import (
	"sort"
	"time"

	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
)

// PersonRef はペアの片側となる人物の参照です。
type PersonRef struct {
	PersonID   string
	PersonName string
	Seq        int
}

// Pair は退職 1 件と、その枠を埋めたと推定される後続の採用 1 件の組です。
type Pair struct {
	Departing     PersonRef
	Arriving      PersonRef
	RoleTitle     string
	CostCenter    string
	ShiftID       string
	TerminatedAt  time.Time
	HiredAt       time.Time
	DaysToReplace int
}

// slotKey は職名・コストセンター・シフトの完全一致キーです。ペアはこのキーを跨ぎません。
type slotKey struct {
	role       string
	costCenter string
	shift      string
}

func keyOf(rec roster.Record) slotKey {
	return slotKey{role: rec.RoleTitle, costCenter: rec.CostCenter, shift: rec.ShiftID}
}

// FindReplacements は期間内の退職それぞれに、最も早く採用された適格な後任を高々 1 名割り当てます。
// 退職は退職日の昇順 (同日は入力順) に処理し、一度割り当てた後任の人物 ID は以降の候補から外します。
// 期間で絞るのは退職側のみで、候補の採用日は期間外でも対象です。
func FindReplacements(records []roster.Record, windowStart, windowEnd time.Time) ([]Pair, error) {
	start := roster.DateOnly(windowStart)
	end := roster.DateOnly(windowEnd)
	if start.After(end) {
		return nil, &RangeError{Start: start, End: end}
	}

	terminations := eligibleTerminations(records, start, end)
	if len(terminations) == 0 {
		return []Pair{}, nil
	}

	buckets := make(map[slotKey][]roster.Record)
	for _, t := range terminations {
		buckets[keyOf(t)] = nil
	}
	for _, rec := range records {
		k := keyOf(rec)
		if _, ok := buckets[k]; ok {
			buckets[k] = append(buckets[k], rec)
		}
	}
	for k, candidates := range buckets {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].HiredAt.Before(candidates[j].HiredAt)
		})
		buckets[k] = candidates
	}

	consumed := make(map[string]struct{})
	pairs := make([]Pair, 0, len(terminations))

	for _, departing := range terminations {
		terminatedAt := *departing.TerminatedAt
		for _, candidate := range buckets[keyOf(departing)] {
			if candidate.HiredAt.Before(terminatedAt) {
				continue
			}
			if candidate.PersonID == departing.PersonID || candidate.PersonName == departing.PersonName {
				continue
			}
			if _, used := consumed[candidate.PersonID]; used {
				continue
			}

			consumed[candidate.PersonID] = struct{}{}
			pairs = append(pairs, Pair{
				Departing:     refOf(departing),
				Arriving:      refOf(candidate),
				RoleTitle:     departing.RoleTitle,
				CostCenter:    departing.CostCenter,
				ShiftID:       departing.ShiftID,
				TerminatedAt:  terminatedAt,
				HiredAt:       candidate.HiredAt,
				DaysToReplace: *roster.DaysBetween(&terminatedAt, &candidate.HiredAt),
			})
			break
		}
	}

	return pairs, nil
}

func eligibleTerminations(records []roster.Record, start, end time.Time) []roster.Record {
	out := make([]roster.Record, 0)
	for _, rec := range records {
		if !rec.Terminated || rec.TerminatedAt == nil {
			continue
		}
		day := roster.DateOnly(*rec.TerminatedAt)
		if day.Before(start) || day.After(end) {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TerminatedAt.Before(*out[j].TerminatedAt)
	})
	return out
}

func refOf(rec roster.Record) PersonRef {
	return PersonRef{PersonID: rec.PersonID, PersonName: rec.PersonName, Seq: rec.Seq}
}

// Summary は後任補充の集計結果です。
type Summary struct {
	Pairs                []Pair
	EligibleTerminations int
	Replaced             int
	Rate                 float64
	AvgDaysToReplace     float64
}

// Summarize は FindReplacements の結果に補充率と平均補充日数を付けて返します。対象退職が 0 件なら率は 0 です。
func Summarize(records []roster.Record, windowStart, windowEnd time.Time) (Summary, error) {
	pairs, err := FindReplacements(records, windowStart, windowEnd)
	if err != nil {
		return Summary{}, err
	}

	eligible := len(eligibleTerminations(records, roster.DateOnly(windowStart), roster.DateOnly(windowEnd)))
	summary := Summary{
		Pairs:                pairs,
		EligibleTerminations: eligible,
		Replaced:             len(pairs),
	}
	if eligible > 0 {
		summary.Rate = float64(len(pairs)) / float64(eligible)
	}
	if len(pairs) > 0 {
		total := 0
		for _, p := range pairs {
			total += p.DaysToReplace
		}
		summary.AvgDaysToReplace = float64(total) / float64(len(pairs))
	}
	return summary, nil
}
