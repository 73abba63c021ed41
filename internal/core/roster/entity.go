package roster

import (
	"time"

	"github.com/ogurasousui/turnover-analytics/internal/core/classify"
)

// 早期離職判定の日数しきい値です。
const (
	EarlyTerminationShortDays = 45
	EarlyTerminationLongDays  = 90
)

// 稼働状況のラベルです。欠員ステータス列が無い場合に利用します。
const (
	StatusActive     = "ATIVO"
	StatusTerminated = "DESLIGADO"
)

// Table は外部の表形式ファイルから読み込んだヘッダー行とデータ行です。
type Table struct {
	Header []string
	Rows   [][]string
}

// EarlyTermination は固定しきい値による早期離職フラグです。
type EarlyTermination struct {
	Within45Days bool
	Within90Days bool
}

// Record は名簿の 1 行 (1 雇用) を表します。正規化後は読み取り専用として扱います。
type Record struct {
	Seq               int
	PersonID          string
	PersonName        string
	RoleTitle         string
	CostCenter        string
	Facility          string
	HiredAt           time.Time
	TerminatedAt      *time.Time
	TerminationReason string
	ShiftID           string
	TerminationMarked bool
	Terminated        bool

	VacancyStatus        string
	VacancyOpenedAt      *time.Time
	SelectionClosedAt    *time.Time
	ReplacementStartedAt *time.Time

	RoleCategory      classify.RoleCategory
	CareLine          classify.CareLine
	TenureDays        *int
	HirePeriod        string
	TerminationPeriod string
	VacancyPeriod     string
	EarlyTermination  EarlyTermination
	SelectionDays     *int
	AdmissionDays     *int
}

// Status は欠員ステータスを優先し、無ければ稼働状況を返します。
func (r Record) Status() string {
	if r.VacancyStatus != "" {
		return r.VacancyStatus
	}
	if r.Terminated {
		return StatusTerminated
	}
	return StatusActive
}

// Diagnostics は取り込み時に回復した行単位の不備の集計です。
type Diagnostics struct {
	TotalRows int
	EmptyRows int
	Skipped   int
	Errors    []*MalformedRecordError
}

// Batch は 1 回の取り込みで生成される不変のスナップショットです。
type Batch struct {
	ID          string
	Source      string
	CreatedAt   time.Time
	Diagnostics Diagnostics
	records     []Record
}

// clone はポインタのフィールドも複製した Record を返します。
func (r Record) clone() Record {
	r.TerminatedAt = cloneTime(r.TerminatedAt)
	r.VacancyOpenedAt = cloneTime(r.VacancyOpenedAt)
	r.SelectionClosedAt = cloneTime(r.SelectionClosedAt)
	r.ReplacementStartedAt = cloneTime(r.ReplacementStartedAt)
	r.TenureDays = cloneInt(r.TenureDays)
	r.SelectionDays = cloneInt(r.SelectionDays)
	r.AdmissionDays = cloneInt(r.AdmissionDays)
	return r
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i, rec := range records {
		out[i] = rec.clone()
	}
	return out
}

// NewBatch は records を複製して Batch を生成します。
func NewBatch(id, source string, createdAt time.Time, records []Record, diag Diagnostics) *Batch {
	copied := cloneRecords(records)
	return &Batch{
		ID:          id,
		Source:      source,
		CreatedAt:   createdAt,
		Diagnostics: diag,
		records:     copied,
	}
}

// Records はレコードのコピーを返します。日付・日数のポインタも複製されます。
func (b *Batch) Records() []Record {
	if b == nil {
		return nil
	}
	return cloneRecords(b.records)
}

// Len はレコード件数を返します。
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.records)
}
