package metrics

import (
	"errors"
	"sort"
	"strings"

	"github.com/ogurasousui/turnover-analytics/internal/core/classify"
	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
)

// ErrInvalidPeriodBasis は期間の基準日が不正な場合に返却されます。
var ErrInvalidPeriodBasis = errors.New("metrics: invalid period basis")

// PeriodBasis は期間フィルタとグループ化に使う日付です。
type PeriodBasis string

const (
	PeriodByHire        PeriodBasis = "hire"
	PeriodByTermination PeriodBasis = "termination"
	PeriodByVacancy     PeriodBasis = "vacancy"
)

// ParsePeriodBasis は文字列を PeriodBasis に変換します。空文字列は採用日基準です。
func ParsePeriodBasis(raw string) (PeriodBasis, error) {
	switch PeriodBasis(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PeriodByHire:
		return PeriodByHire, nil
	case PeriodByTermination:
		return PeriodByTermination, nil
	case PeriodByVacancy:
		return PeriodByVacancy, nil
	default:
		return "", ErrInvalidPeriodBasis
	}
}

// PeriodOf は基準日に応じた記録の年月バケットを返します。
func (b PeriodBasis) PeriodOf(rec roster.Record) string {
	switch b {
	case PeriodByTermination:
		return rec.TerminationPeriod
	case PeriodByVacancy:
		return rec.VacancyPeriod
	default:
		return rec.HirePeriod
	}
}

// Filter は AND 条件の絞り込みです。空の条件は全件を選択します。
type Filter struct {
	Periods        []string
	RoleCategories []string
	CareLines      []string
	Statuses       []string
	PeriodBasis    PeriodBasis
}

type valueSet map[string]struct{}

func newValueSet(values []string) valueSet {
	set := make(valueSet, len(values))
	for _, v := range values {
		if key := classify.NormalizeText(v); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

func (s valueSet) allows(v string) bool {
	if len(s) == 0 {
		return true
	}
	_, ok := s[classify.NormalizeText(v)]
	return ok
}

// Apply はフィルタに一致する記録を入力順のまま返します。
func Apply(records []roster.Record, filter Filter) []roster.Record {
	periods := newValueSet(filter.Periods)
	roles := newValueSet(filter.RoleCategories)
	lines := newValueSet(filter.CareLines)
	statuses := newValueSet(filter.Statuses)

	out := make([]roster.Record, 0, len(records))
	for _, rec := range records {
		if !periods.allows(filter.PeriodBasis.PeriodOf(rec)) {
			continue
		}
		if !roles.allows(string(rec.RoleCategory)) {
			continue
		}
		if !lines.allows(string(rec.CareLine)) {
			continue
		}
		if !statuses.allows(rec.Status()) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Options はフィルタの選択肢です。
type Options struct {
	Periods        []string
	RoleCategories []string
	CareLines      []string
	Statuses       []string
}

// FilterOptions はスナップショットに現れる選択肢を重複無しで昇順に返します。未分類系のカテゴリは含めません。
func FilterOptions(records []roster.Record, basis PeriodBasis) Options {
	periods := make(map[string]struct{})
	roles := make(map[string]struct{})
	lines := make(map[string]struct{})
	statuses := make(map[string]struct{})

	for _, rec := range records {
		if p := basis.PeriodOf(rec); p != "" {
			periods[p] = struct{}{}
		}
		if !rec.RoleCategory.IsFallback() {
			roles[string(rec.RoleCategory)] = struct{}{}
		}
		if !rec.CareLine.IsFallback() {
			lines[string(rec.CareLine)] = struct{}{}
		}
		statuses[rec.Status()] = struct{}{}
	}

	return Options{
		Periods:        sortedKeys(periods),
		RoleCategories: sortedKeys(roles),
		CareLines:      sortedKeys(lines),
		Statuses:       sortedKeys(statuses),
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
