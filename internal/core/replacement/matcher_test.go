package replacement

import (
	"errors"
	"testing"
	"time"

	"github.com/ogurasousui/turnover-analytics/internal/core/roster"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func hire(seq int, id, name, role string, hired time.Time) roster.Record {
	return roster.Record{
		Seq:        seq,
		PersonID:   id,
		PersonName: name,
		RoleTitle:  role,
		CostCenter: "X",
		ShiftID:    "S1",
		HiredAt:    hired,
	}
}

func leaver(seq int, id, name, role string, hired, terminated time.Time) roster.Record {
	rec := hire(seq, id, name, role, hired)
	rec.TerminatedAt = &terminated
	rec.TerminationMarked = true
	rec.Terminated = true
	return rec
}

var year2023 = [2]time.Time{day(2023, time.January, 1), day(2023, time.December, 31)}

func TestFindReplacements_SinglePair(t *testing.T) {
	t.Parallel()

	records := []roster.Record{
		leaver(0, "A", "Ana", "ENFERMEIRO", day(2023, time.January, 1), day(2023, time.June, 1)),
		hire(1, "B", "Bruno", "ENFERMEIRO", day(2023, time.June, 10)),
	}

	pairs, err := FindReplacements(records, year2023[0], year2023[1])
	if err != nil {
		t.Fatalf("FindReplacements returned error: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	p := pairs[0]
	if p.Departing.PersonID != "A" || p.Arriving.PersonID != "B" {
		t.Fatalf("unexpected pair: %+v", p)
	}
	if p.DaysToReplace != 9 {
		t.Fatalf("expected 9 days to replace, got %d", p.DaysToReplace)
	}
	if p.RoleTitle != "ENFERMEIRO" || p.CostCenter != "X" || p.ShiftID != "S1" {
		t.Fatalf("unexpected shared attributes: %+v", p)
	}
}

func TestFindReplacements_RoleMismatch(t *testing.T) {
	t.Parallel()

	records := []roster.Record{
		leaver(0, "A", "Ana", "ENFERMEIRO", day(2023, time.January, 1), day(2023, time.June, 1)),
		hire(1, "B", "Bruno", "TECNICO DE ENFERMAGEM", day(2023, time.June, 10)),
	}

	pairs, err := FindReplacements(records, year2023[0], year2023[1])
	if err != nil {
		t.Fatalf("FindReplacements returned error: %v", err)
	}
	if len(pairs) != 0 {
		t.Fatalf("expected no pairs, got %+v", pairs)
	}
}

func TestFindReplacements_SingleHireConsumedOnce(t *testing.T) {
	t.Parallel()

	records := []roster.Record{
		leaver(0, "C", "Carla", "ENFERMEIRO", day(2023, time.January, 1), day(2023, time.May, 20)),
		leaver(1, "A", "Ana", "ENFERMEIRO", day(2023, time.January, 1), day(2023, time.May, 1)),
		hire(2, "D", "Davi", "ENFERMEIRO", day(2023, time.July, 1)),
	}

	pairs, err := FindReplacements(records, year2023[0], year2023[1])
	if err != nil {
		t.Fatalf("FindReplacements returned error: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected exactly 1 pair, got %d", len(pairs))
	}
	if pairs[0].Departing.PersonID != "A" || pairs[0].Arriving.PersonID != "D" {
		t.Fatalf("expected earliest termination to win the hire, got %+v", pairs[0])
	}
}

func TestFindReplacements_EarliestHireWinsWithStableTies(t *testing.T) {
	t.Parallel()

	records := []roster.Record{
		hire(0, "L", "Late", "ENFERMEIRO", day(2023, time.August, 1)),
		hire(1, "E1", "Early One", "ENFERMEIRO", day(2023, time.July, 1)),
		hire(2, "E2", "Early Two", "ENFERMEIRO", day(2023, time.July, 1)),
		leaver(3, "A", "Ana", "ENFERMEIRO", day(2022, time.January, 1), day(2023, time.June, 1)),
		leaver(4, "B", "Bia", "ENFERMEIRO", day(2022, time.January, 1), day(2023, time.June, 2)),
		leaver(5, "C", "Caio", "ENFERMEIRO", day(2022, time.January, 1), day(2023, time.June, 3)),
	}

	pairs, err := FindReplacements(records, year2023[0], year2023[1])
	if err != nil {
		t.Fatalf("FindReplacements returned error: %v", err)
	}

	want := map[string]string{"A": "E1", "B": "E2", "C": "L"}
	if len(pairs) != len(want) {
		t.Fatalf("expected %d pairs, got %d", len(want), len(pairs))
	}
	seen := make(map[string]struct{})
	for _, p := range pairs {
		if want[p.Departing.PersonID] != p.Arriving.PersonID {
			t.Fatalf("unexpected pair %s -> %s", p.Departing.PersonID, p.Arriving.PersonID)
		}
		if _, dup := seen[p.Arriving.PersonID]; dup {
			t.Fatalf("arriving person %s used twice", p.Arriving.PersonID)
		}
		seen[p.Arriving.PersonID] = struct{}{}
		if p.DaysToReplace < 0 {
			t.Fatalf("days to replace must not be negative: %+v", p)
		}
	}
}

func TestFindReplacements_RehireOfSamePersonIsIgnored(t *testing.T) {
	t.Parallel()

	records := []roster.Record{
		leaver(0, "A", "Ana", "ENFERMEIRO", day(2023, time.January, 1), day(2023, time.June, 1)),
		hire(1, "A", "Ana", "ENFERMEIRO", day(2023, time.June, 5)),
		hire(2, "A2", "Ana", "ENFERMEIRO", day(2023, time.June, 6)),
		hire(3, "B", "Bruno", "ENFERMEIRO", day(2023, time.June, 7)),
	}

	pairs, err := FindReplacements(records, year2023[0], year2023[1])
	if err != nil {
		t.Fatalf("FindReplacements returned error: %v", err)
	}
	if len(pairs) != 1 || pairs[0].Arriving.PersonID != "B" {
		t.Fatalf("expected re-hire with same id or name to be skipped, got %+v", pairs)
	}
}

func TestFindReplacements_ShiftAndCostCenterMustMatch(t *testing.T) {
	t.Parallel()

	otherShift := hire(1, "B", "Bruno", "ENFERMEIRO", day(2023, time.June, 10))
	otherShift.ShiftID = "S2"
	otherCenter := hire(2, "C", "Caio", "ENFERMEIRO", day(2023, time.June, 10))
	otherCenter.CostCenter = "Y"

	records := []roster.Record{
		leaver(0, "A", "Ana", "ENFERMEIRO", day(2023, time.January, 1), day(2023, time.June, 1)),
		otherShift,
		otherCenter,
	}

	pairs, err := FindReplacements(records, year2023[0], year2023[1])
	if err != nil {
		t.Fatalf("FindReplacements returned error: %v", err)
	}
	if len(pairs) != 0 {
		t.Fatalf("expected no pairs across shift or cost center, got %+v", pairs)
	}
}

func TestFindReplacements_WindowBoundaries(t *testing.T) {
	t.Parallel()

	records := []roster.Record{
		leaver(0, "A", "Ana", "ENFERMEIRO", day(2023, time.January, 1), day(2023, time.June, 1)),
		leaver(1, "Z", "Zeca", "ENFERMEIRO", day(2023, time.January, 1), day(2023, time.June, 2)),
		hire(2, "B", "Bruno", "ENFERMEIRO", day(2023, time.June, 10)),
	}

	// 時刻付きでも同日の退職は含まれる
	instant := time.Date(2023, time.June, 1, 15, 30, 0, 0, time.UTC)
	pairs, err := FindReplacements(records, instant, instant)
	if err != nil {
		t.Fatalf("FindReplacements returned error: %v", err)
	}
	if len(pairs) != 1 || pairs[0].Departing.PersonID != "A" {
		t.Fatalf("expected single-day window to include its termination, got %+v", pairs)
	}
}

func TestFindReplacements_HireAfterWindowEndIsEligible(t *testing.T) {
	t.Parallel()

	records := []roster.Record{
		leaver(0, "A", "Ana", "ENFERMEIRO", day(2023, time.January, 1), day(2023, time.June, 1)),
		hire(1, "B", "Bruno", "ENFERMEIRO", day(2023, time.June, 3)),
	}

	pairs, err := FindReplacements(records, day(2023, time.May, 1), day(2023, time.June, 2))
	if err != nil {
		t.Fatalf("FindReplacements returned error: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("expected hire outside window to still be matched, got %d pairs", len(pairs))
	}
}

func TestFindReplacements_NoCandidateYieldsNoPair(t *testing.T) {
	t.Parallel()

	records := []roster.Record{
		leaver(0, "A", "Ana", "ENFERMEIRO", day(2023, time.January, 1), day(2023, time.June, 1)),
		hire(1, "B", "Bruno", "ENFERMEIRO", day(2023, time.May, 1)),
	}

	pairs, err := FindReplacements(records, year2023[0], year2023[1])
	if err != nil {
		t.Fatalf("FindReplacements returned error: %v", err)
	}
	if pairs == nil || len(pairs) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", pairs)
	}
}

func TestFindReplacements_UnmarkedTerminationIsIgnored(t *testing.T) {
	t.Parallel()

	unmarked := leaver(0, "A", "Ana", "ENFERMEIRO", day(2023, time.January, 1), day(2023, time.June, 1))
	unmarked.Terminated = false

	pairs, err := FindReplacements([]roster.Record{
		unmarked,
		hire(1, "B", "Bruno", "ENFERMEIRO", day(2023, time.June, 10)),
	}, year2023[0], year2023[1])
	if err != nil {
		t.Fatalf("FindReplacements returned error: %v", err)
	}
	if len(pairs) != 0 {
		t.Fatalf("expected no pairs for unmarked termination, got %+v", pairs)
	}
}

func TestFindReplacements_InvalidRange(t *testing.T) {
	t.Parallel()

	_, err := FindReplacements(nil, day(2023, time.December, 31), day(2023, time.January, 1))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	var rangeErr *RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected *RangeError, got %T", err)
	}
}

func TestFindReplacements_Idempotent(t *testing.T) {
	t.Parallel()

	records := []roster.Record{
		leaver(0, "A", "Ana", "ENFERMEIRO", day(2023, time.January, 1), day(2023, time.June, 1)),
		leaver(1, "C", "Carla", "ENFERMEIRO", day(2023, time.January, 1), day(2023, time.June, 1)),
		hire(2, "B", "Bruno", "ENFERMEIRO", day(2023, time.June, 10)),
		hire(3, "D", "Davi", "ENFERMEIRO", day(2023, time.June, 10)),
	}

	first, err := FindReplacements(records, year2023[0], year2023[1])
	if err != nil {
		t.Fatalf("FindReplacements returned error: %v", err)
	}
	second, err := FindReplacements(records, year2023[0], year2023[1])
	if err != nil {
		t.Fatalf("FindReplacements returned error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("expected same number of pairs, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("pair %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	records := []roster.Record{
		leaver(0, "A", "Ana", "ENFERMEIRO", day(2023, time.January, 1), day(2023, time.June, 1)),
		leaver(1, "C", "Carla", "ENFERMEIRO", day(2023, time.January, 1), day(2023, time.July, 1)),
		hire(2, "B", "Bruno", "ENFERMEIRO", day(2023, time.June, 11)),
	}

	summary, err := Summarize(records, year2023[0], year2023[1])
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if summary.EligibleTerminations != 2 || summary.Replaced != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if summary.Rate != 0.5 {
		t.Fatalf("expected rate 0.5, got %v", summary.Rate)
	}
	if summary.AvgDaysToReplace != 10 {
		t.Fatalf("expected average 10 days, got %v", summary.AvgDaysToReplace)
	}

	empty, err := Summarize(nil, year2023[0], year2023[1])
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if empty.Rate != 0 || empty.AvgDaysToReplace != 0 {
		t.Fatalf("expected zero rate without terminations, got %+v", empty)
	}
}
