package metrics

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ogurasousui/turnover-analytics/internal/core/classify"
	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
)

var engine = classify.NewEngine(nil)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

type recordOption func(*roster.Record)

func terminatedOn(t *time.Time, reason string) recordOption {
	return func(r *roster.Record) {
		r.TerminatedAt = t
		r.TerminationMarked = true
		r.TerminationReason = reason
	}
}

func vacancy(opened, closed, started *time.Time) recordOption {
	return func(r *roster.Record) {
		r.VacancyOpenedAt = opened
		r.SelectionClosedAt = closed
		r.ReplacementStartedAt = started
	}
}

func newRecord(id, title, facility string, hired *time.Time, opts ...recordOption) roster.Record {
	rec := roster.Record{
		PersonID:   id,
		PersonName: "Pessoa " + id,
		RoleTitle:  title,
		CostCenter: "CC",
		Facility:   facility,
		HiredAt:    *hired,
	}
	for _, opt := range opts {
		opt(&rec)
	}
	return roster.BuildRecord(rec, engine)
}

func sampleRecords() []roster.Record {
	return []roster.Record{
		newRecord("1", "ENFERMEIRO", "UPA Norte", day(2023, time.January, 10), terminatedOn(day(2023, time.February, 1), "Pedido de demissão")),
		newRecord("2", "TECNICO DE ENFERMAGEM", "UPA Norte", day(2023, time.January, 20)),
		newRecord("3", "MEDICO CLINICO", "UBS Centro", day(2023, time.February, 5), terminatedOn(day(2023, time.June, 5), "Término de contrato")),
		newRecord("4", "ENFERMEIRO", "UBS Centro", day(2023, time.February, 15), terminatedOn(day(2023, time.March, 1), "Pedido de demissão")),
		newRecord("5", "AUXILIAR ADMINISTRATIVO", "Sede Administrativa", day(2023, time.March, 1)),
	}
}

func TestApply_ConjunctiveFilters(t *testing.T) {
	t.Parallel()

	records := sampleRecords()

	if got := Apply(records, Filter{}); len(got) != len(records) {
		t.Fatalf("empty filter must select all, got %d", len(got))
	}

	got := Apply(records, Filter{
		Periods:   []string{"2023-02"},
		CareLines: []string{"atencao primaria (aps)"},
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}

	got = Apply(records, Filter{
		Periods:        []string{"2023-02"},
		RoleCategories: []string{string(classify.RolePhysician)},
		Statuses:       []string{roster.StatusTerminated},
	})
	if len(got) != 1 || got[0].PersonID != "3" {
		t.Fatalf("expected only record 3, got %+v", got)
	}

	got = Apply(records, Filter{Periods: []string{"2023-06"}, PeriodBasis: PeriodByTermination})
	if len(got) != 1 || got[0].PersonID != "3" {
		t.Fatalf("expected termination basis to select record 3, got %+v", got)
	}
}

func TestParsePeriodBasis(t *testing.T) {
	t.Parallel()

	if b, err := ParsePeriodBasis(""); err != nil || b != PeriodByHire {
		t.Fatalf("expected hire basis by default, got %q (%v)", b, err)
	}
	if b, err := ParsePeriodBasis(" Vacancy "); err != nil || b != PeriodByVacancy {
		t.Fatalf("expected vacancy basis, got %q (%v)", b, err)
	}
	if _, err := ParsePeriodBasis("week"); !errors.Is(err, ErrInvalidPeriodBasis) {
		t.Fatalf("expected ErrInvalidPeriodBasis, got %v", err)
	}
}

func TestFilterOptions(t *testing.T) {
	t.Parallel()

	records := append(sampleRecords(), newRecord("6", "CARGO DESCONHECIDO", "Lugar Nenhum", day(2022, time.December, 1)))
	opts := FilterOptions(records, PeriodByHire)

	wantPeriods := []string{"2022-12", "2023-01", "2023-02", "2023-03"}
	if !reflect.DeepEqual(opts.Periods, wantPeriods) {
		t.Fatalf("unexpected periods: %v", opts.Periods)
	}
	for _, c := range opts.RoleCategories {
		if c == string(classify.RoleOther) {
			t.Fatalf("fallback role category must not be listed")
		}
	}
	for _, c := range opts.CareLines {
		if c == string(classify.CareLineOther) {
			t.Fatalf("fallback care line must not be listed")
		}
	}
	if !reflect.DeepEqual(opts.Statuses, []string{roster.StatusActive, roster.StatusTerminated}) {
		t.Fatalf("unexpected statuses: %v", opts.Statuses)
	}
}

func TestHeadcount(t *testing.T) {
	t.Parallel()

	result := Headcount(sampleRecords(), Filter{})

	if result.Total != 5 || result.Terminated != 3 || result.Active != 2 {
		t.Fatalf("unexpected totals: %+v", result)
	}
	if result.TerminationRate != 0.6 {
		t.Fatalf("expected rate 0.6, got %v", result.TerminationRate)
	}
	if result.EarlyWithin45 != 2 || result.EarlyWithin90 != 0 {
		t.Fatalf("unexpected early termination counts: %d %d", result.EarlyWithin45, result.EarlyWithin90)
	}

	for _, groups := range [][]GroupCount{result.ByRole, result.ByCareLine, result.ByPeriod} {
		for i := 1; i < len(groups); i++ {
			if groups[i-1].Key > groups[i].Key {
				t.Fatalf("groups must be sorted by key: %+v", groups)
			}
		}
		for _, g := range groups {
			if g.Key == TotalLabel {
				t.Fatalf("simple group-by must not carry a total row")
			}
		}
	}

	ct := result.CrossTab
	if ct.Rows[len(ct.Rows)-1] != TotalLabel || ct.Columns[len(ct.Columns)-1] != TotalLabel {
		t.Fatalf("crosstab must end with total margins: %v %v", ct.Rows, ct.Columns)
	}
	if ct.Cells[len(ct.Rows)-1][len(ct.Columns)-1] != 5 {
		t.Fatalf("expected grand total 5, got %d", ct.Cells[len(ct.Rows)-1][len(ct.Columns)-1])
	}
	for i := range ct.Rows[:len(ct.Rows)-1] {
		sum := 0
		for j := range ct.Columns[:len(ct.Columns)-1] {
			sum += ct.Cells[i][j]
		}
		if sum != ct.Cells[i][len(ct.Columns)-1] {
			t.Fatalf("row %s total mismatch", ct.Rows[i])
		}
	}
}

func TestHeadcount_UnmarkedTerminationDateIsActive(t *testing.T) {
	t.Parallel()

	unmarked := newRecord("9", "ENFERMEIRO", "UPA Norte", day(2023, time.January, 1), func(r *roster.Record) {
		r.TerminatedAt = day(2023, time.January, 11)
	})
	records := []roster.Record{unmarked}

	result := Headcount(records, Filter{})
	if result.Terminated != 0 || result.Active != 1 {
		t.Fatalf("unexpected totals: %+v", result)
	}
	if result.EarlyWithin45 != 0 || result.EarlyWithin90 != 0 {
		t.Fatalf("active record counted as early termination: %d %d", result.EarlyWithin45, result.EarlyWithin90)
	}

	times := TimeMetrics(records, Filter{})
	for _, b := range times.TenureBuckets {
		if b.Total != 0 {
			t.Fatalf("unexpected tenure bucket count: %+v", times.TenureBuckets)
		}
	}
}

func TestHeadcount_EmptySelectionYieldsZeroRate(t *testing.T) {
	t.Parallel()

	result := Headcount(sampleRecords(), Filter{Periods: []string{"1999-01"}})
	if result.Total != 0 || result.TerminationRate != 0 {
		t.Fatalf("expected zero totals, got %+v", result)
	}
	if len(result.CrossTab.Cells) != 1 || result.CrossTab.Cells[0][0] != 0 {
		t.Fatalf("expected a single zero total cell, got %+v", result.CrossTab)
	}
}

func TestTerminationReasons(t *testing.T) {
	t.Parallel()

	result := TerminationReasons(sampleRecords(), Filter{}, 1)

	if result.Total != 3 {
		t.Fatalf("expected 3 records with reasons, got %d", result.Total)
	}
	if result.Overall[0].Reason != "Pedido de demissão" || result.Overall[0].Count != 2 {
		t.Fatalf("unexpected leading reason: %+v", result.Overall[0])
	}
	if len(result.Top) != 1 {
		t.Fatalf("expected top to be limited to 1, got %d", len(result.Top))
	}
	if len(result.UrgentCare) != 1 || result.UrgentCare[0].Count != 1 {
		t.Fatalf("unexpected urgent care reasons: %+v", result.UrgentCare)
	}
	if len(result.PrimaryCare) != 2 {
		t.Fatalf("unexpected primary care reasons: %+v", result.PrimaryCare)
	}
	// 同数は理由の昇順
	if result.PrimaryCare[0].Reason != "Pedido de demissão" || result.PrimaryCare[0].Share != 0.5 {
		t.Fatalf("expected ties sorted by reason, got %+v", result.PrimaryCare)
	}
	if len(result.OtherLines) != 0 {
		t.Fatalf("expected no other care lines, got %+v", result.OtherLines)
	}
	if len(result.TopByCareLine) != 2 {
		t.Fatalf("expected both care lines in the top comparison, got %+v", result.TopByCareLine)
	}
}

func TestTimeMetrics_NegativeValuesExcludedFromAverages(t *testing.T) {
	t.Parallel()

	records := []roster.Record{
		newRecord("1", "ENFERMEIRO", "UPA", day(2023, time.January, 1),
			terminatedOn(day(2023, time.January, 31), "Pedido"),
			vacancy(day(2023, time.February, 1), day(2023, time.February, 11), day(2023, time.February, 16))),
		// 退職日が採用日より前の不備データ
		newRecord("2", "ENFERMEIRO", "UPA", day(2023, time.March, 10),
			terminatedOn(day(2023, time.March, 1), "Pedido"),
			vacancy(day(2023, time.March, 1), day(2023, time.February, 20), day(2023, time.March, 5))),
		newRecord("3", "ENFERMEIRO", "UPA", day(2023, time.April, 1)),
	}

	if records[1].TenureDays == nil || *records[1].TenureDays != -9 {
		t.Fatalf("expected negative tenure to be kept on the record, got %v", records[1].TenureDays)
	}

	result := TimeMetrics(records, Filter{})
	overall := result.Overall

	if overall.Count != 3 {
		t.Fatalf("expected all records counted, got %d", overall.Count)
	}
	if overall.Tenure.Count != 2 || overall.Tenure.Samples != 1 || overall.Tenure.Mean != 30 {
		t.Fatalf("unexpected tenure average: %+v", overall.Tenure)
	}
	if overall.Selection.Samples != 1 || overall.Selection.Mean != 10 {
		t.Fatalf("unexpected selection average: %+v", overall.Selection)
	}
	if overall.Admission.Samples != 2 || overall.Admission.Mean != 9 {
		t.Fatalf("unexpected admission average: %+v", overall.Admission)
	}
	if overall.Total.Samples != 1 || overall.Total.Mean != 15 {
		t.Fatalf("unexpected total average: %+v", overall.Total)
	}

	headcount := Headcount(records, Filter{})
	if headcount.Terminated != 2 {
		t.Fatalf("negative tenure record must still count as terminated, got %d", headcount.Terminated)
	}

	var negative int
	for _, b := range result.TenureBuckets {
		if b.Key == TenureBucketNegative {
			negative = b.Total
		}
	}
	if negative != 1 {
		t.Fatalf("expected one negative tenure bucket entry, got %d", negative)
	}
}

func TestTimeMetrics_EmptyAveragesAreZero(t *testing.T) {
	t.Parallel()

	result := TimeMetrics(nil, Filter{})
	if result.Overall.Count != 0 || result.Overall.Selection.Mean != 0 || result.Overall.Tenure.Mean != 0 {
		t.Fatalf("expected zero averages, got %+v", result.Overall)
	}
	if len(result.TenureBuckets) != len(TenureBuckets) {
		t.Fatalf("expected all tenure buckets to be present")
	}
}

func TestTenureBucket(t *testing.T) {
	t.Parallel()

	cases := map[int]string{
		-1:  TenureBucketNegative,
		0:   TenureBucketUpTo45,
		45:  TenureBucketUpTo45,
		46:  TenureBucketUpTo90,
		90:  TenureBucketUpTo90,
		180: TenureBucketUpTo180,
		365: TenureBucketUpTo365,
		366: TenureBucketOver365,
	}
	for days, want := range cases {
		if got := TenureBucket(days); got != want {
			t.Errorf("TenureBucket(%d) = %s, want %s", days, got, want)
		}
	}
}

func TestTitleCatalog(t *testing.T) {
	t.Parallel()

	records := append(sampleRecords(), newRecord("6", "CARGO DESCONHECIDO", "UPA", day(2023, time.April, 1)))
	catalog := TitleCatalog(records)

	if catalog.Total != 5 {
		t.Fatalf("expected 5 distinct titles, got %d", catalog.Total)
	}
	if catalog.Titles[0].Title != "ENFERMEIRO" || catalog.Titles[0].Headcount != 2 {
		t.Fatalf("expected most frequent title first, got %+v", catalog.Titles[0])
	}
	if catalog.Classified != 4 || catalog.Percent != 80 {
		t.Fatalf("unexpected progress: %d %.1f", catalog.Classified, catalog.Percent)
	}

	empty := TitleCatalog(nil)
	if empty.Percent != 0 || empty.Titles == nil {
		t.Fatalf("expected empty catalog with zero progress, got %+v", empty)
	}
}
