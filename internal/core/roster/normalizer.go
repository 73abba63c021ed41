package roster

import (
	"strings"
	"time"

	"github.com/ogurasousui/turnover-analytics/internal/core/classify"
)

const defaultMaxReportedErrors = 50

// Classifier は職種とケアラインの分類器です。classify.Engine が実装します。
type Classifier interface {
	ClassifyRole(title string) classify.RoleCategory
	ClassifyCareLine(facility, costCenter string) classify.CareLine
}

// Normalizer は表形式の行を型付きの Record に変換します。
type Normalizer struct {
	columns           ColumnMap
	classifier        Classifier
	maxReportedErrors int
}

// NewNormalizer は Normalizer を生成します。classifier が nil の場合は補正無しの既定規則を使います。
func NewNormalizer(columns ColumnMap, classifier Classifier, maxReportedErrors int) *Normalizer {
	if classifier == nil {
		classifier = classify.NewEngine(nil)
	}
	if maxReportedErrors <= 0 {
		maxReportedErrors = defaultMaxReportedErrors
	}
	return &Normalizer{
		columns:           columns.WithDefaults(),
		classifier:        classifier,
		maxReportedErrors: maxReportedErrors,
	}
}

// Normalize は表全体を正規化します。必須列の欠落は *SchemaError で中断し、行単位の不備は除外して Diagnostics に集計します。
// 返却される Batch の ID と作成日時は呼び出し側で設定します。
func (n *Normalizer) Normalize(table Table) (*Batch, error) {
	if len(table.Header) == 0 {
		return nil, ErrEmptyTable
	}

	idx, err := resolveColumns(table.Header, n.columns)
	if err != nil {
		return nil, err
	}

	var (
		diag    Diagnostics
		records = make([]Record, 0, len(table.Rows))
	)

	for i, row := range table.Rows {
		diag.TotalRows++
		if isEmptyRow(row) {
			diag.EmptyRows++
			continue
		}

		rec, rowErr := n.normalizeRow(idx, row, i+1)
		if rowErr != nil {
			diag.Skipped++
			if len(diag.Errors) < n.maxReportedErrors {
				diag.Errors = append(diag.Errors, rowErr)
			}
			continue
		}
		rec.Seq = len(records)
		records = append(records, rec)
	}

	return &Batch{Diagnostics: diag, records: records}, nil
}

func (n *Normalizer) normalizeRow(idx columnIndex, row []string, rowNum int) (Record, *MalformedRecordError) {
	personID := strings.TrimSpace(idx.value(row, fieldPersonID))
	if personID == "" {
		return Record{}, &MalformedRecordError{Row: rowNum, Field: n.columns.PersonID, Reason: "person identifier is required"}
	}

	rawHired := idx.value(row, fieldHiredAt)
	hiredAt, ok := ParseDate(rawHired)
	if !ok {
		return Record{}, &MalformedRecordError{Row: rowNum, Field: n.columns.HiredAt, Value: strings.TrimSpace(rawHired), Reason: "hire date is missing or unparseable"}
	}

	terminatedAt := optionalDate(idx.value(row, fieldTerminatedAt))

	// マーカー列が無い名簿では退職日の有無だけで判定する
	marked := true
	if idx.has(fieldTerminatedFlag) {
		marked = parseTerminatedMarker(idx.value(row, fieldTerminatedFlag))
	}

	return BuildRecord(Record{
		PersonID:             personID,
		PersonName:           strings.TrimSpace(idx.value(row, fieldPersonName)),
		RoleTitle:            strings.TrimSpace(idx.value(row, fieldRoleTitle)),
		CostCenter:           strings.TrimSpace(idx.value(row, fieldCostCenter)),
		Facility:             strings.TrimSpace(idx.value(row, fieldFacility)),
		HiredAt:              hiredAt,
		TerminatedAt:         terminatedAt,
		TerminationReason:    strings.TrimSpace(idx.value(row, fieldTerminationReason)),
		ShiftID:              strings.TrimSpace(idx.value(row, fieldShiftID)),
		TerminationMarked:    marked,
		VacancyStatus:        strings.TrimSpace(idx.value(row, fieldVacancyStatus)),
		VacancyOpenedAt:      optionalDate(idx.value(row, fieldVacancyOpenedAt)),
		SelectionClosedAt:    optionalDate(idx.value(row, fieldSelectionClosedAt)),
		ReplacementStartedAt: optionalDate(idx.value(row, fieldReplacementStartedAt)),
	}, n.classifier), nil
}

// BuildRecord は入力フィールドから派生フィールド (分類・在籍日数・期間バケット等) を計算した Record を返します。
// 永続層から復元する際も同じ計算を通します。
func BuildRecord(in Record, classifier Classifier) Record {
	rec := in
	rec.Terminated = rec.TerminatedAt != nil && rec.TerminationMarked
	rec.RoleCategory = classifier.ClassifyRole(rec.RoleTitle)
	rec.CareLine = classifier.ClassifyCareLine(rec.Facility, rec.CostCenter)

	hired := rec.HiredAt
	rec.HirePeriod = Period(&hired)
	rec.TerminationPeriod = Period(rec.TerminatedAt)
	rec.VacancyPeriod = Period(rec.VacancyOpenedAt)
	rec.TenureDays = DaysBetween(&hired, rec.TerminatedAt)
	rec.EarlyTermination = EarlyTermination{}
	if rec.Terminated && rec.TenureDays != nil && *rec.TenureDays >= 0 {
		days := *rec.TenureDays
		rec.EarlyTermination.Within45Days = days <= EarlyTerminationShortDays
		rec.EarlyTermination.Within90Days = days > EarlyTerminationShortDays && days <= EarlyTerminationLongDays
	}
	rec.SelectionDays = DaysBetween(rec.VacancyOpenedAt, rec.SelectionClosedAt)
	rec.AdmissionDays = DaysBetween(rec.SelectionClosedAt, rec.ReplacementStartedAt)
	return rec
}

func optionalDate(raw string) *time.Time {
	t, ok := ParseDate(raw)
	if !ok {
		return nil
	}
	return &t
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
