package roster

import (
	"github.com/ogurasousui/turnover-analytics/internal/core/classify"
)

// ColumnMap は論理フィールドとファイル上のヘッダー名の対応です。
type ColumnMap struct {
	PersonID             string `yaml:"person_id"`
	PersonName           string `yaml:"person_name"`
	RoleTitle            string `yaml:"role_title"`
	CostCenter           string `yaml:"cost_center"`
	Facility             string `yaml:"facility"`
	HiredAt              string `yaml:"hired_at"`
	TerminatedAt         string `yaml:"terminated_at"`
	TerminationReason    string `yaml:"termination_reason"`
	TerminatedFlag       string `yaml:"terminated_flag"`
	ShiftID              string `yaml:"shift_id"`
	VacancyStatus        string `yaml:"vacancy_status"`
	VacancyOpenedAt      string `yaml:"vacancy_opened_at"`
	SelectionClosedAt    string `yaml:"selection_closed_at"`
	ReplacementStartedAt string `yaml:"replacement_started_at"`
}

// DefaultColumnMap は人事システムのエクスポートで使われる既定のヘッダー名です。
func DefaultColumnMap() ColumnMap {
	return ColumnMap{
		PersonID:             "Cadastro",
		PersonName:           "Nome",
		RoleTitle:            "Cargo",
		CostCenter:           "Centro de Custo",
		Facility:             "Nome Fantasia",
		HiredAt:              "Dt Admissão",
		TerminatedAt:         "Dt Rescisão",
		TerminationReason:    "Motivo do Desligamento",
		TerminatedFlag:       "Situação",
		ShiftID:              "Dt Início Escala",
		VacancyStatus:        "Status Vaga",
		VacancyOpenedAt:      "Data Abertura da Vaga",
		SelectionClosedAt:    "Data de Fechamento Vaga em Seleção",
		ReplacementStartedAt: "Data de Início Substituição",
	}
}

// WithDefaults は空のフィールドを既定値で補完したコピーを返します。
func (m ColumnMap) WithDefaults() ColumnMap {
	d := DefaultColumnMap()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&m.PersonID, d.PersonID)
	fill(&m.PersonName, d.PersonName)
	fill(&m.RoleTitle, d.RoleTitle)
	fill(&m.CostCenter, d.CostCenter)
	fill(&m.Facility, d.Facility)
	fill(&m.HiredAt, d.HiredAt)
	fill(&m.TerminatedAt, d.TerminatedAt)
	fill(&m.TerminationReason, d.TerminationReason)
	fill(&m.TerminatedFlag, d.TerminatedFlag)
	fill(&m.ShiftID, d.ShiftID)
	fill(&m.VacancyStatus, d.VacancyStatus)
	fill(&m.VacancyOpenedAt, d.VacancyOpenedAt)
	fill(&m.SelectionClosedAt, d.SelectionClosedAt)
	fill(&m.ReplacementStartedAt, d.ReplacementStartedAt)
	return m
}

type field int

const (
	fieldPersonID field = iota
	fieldPersonName
	fieldRoleTitle
	fieldCostCenter
	fieldFacility
	fieldHiredAt
	fieldTerminatedAt
	fieldTerminationReason
	fieldTerminatedFlag
	fieldShiftID
	fieldVacancyStatus
	fieldVacancyOpenedAt
	fieldSelectionClosedAt
	fieldReplacementStartedAt
	fieldCount
)

func (m ColumnMap) headers() [fieldCount]string {
	return [fieldCount]string{
		m.PersonID,
		m.PersonName,
		m.RoleTitle,
		m.CostCenter,
		m.Facility,
		m.HiredAt,
		m.TerminatedAt,
		m.TerminationReason,
		m.TerminatedFlag,
		m.ShiftID,
		m.VacancyStatus,
		m.VacancyOpenedAt,
		m.SelectionClosedAt,
		m.ReplacementStartedAt,
	}
}

var requiredFields = []field{fieldPersonID, fieldPersonName, fieldRoleTitle, fieldCostCenter, fieldHiredAt}

// columnIndex は論理フィールドごとの列位置です。-1 は列が存在しないことを示します。
type columnIndex [fieldCount]int

// resolveColumns はヘッダー行から列位置を求めます。空白・大文字小文字・アクセントの違いは無視します。
func resolveColumns(header []string, m ColumnMap) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := classify.NormalizeText(h)
		if key == "" {
			continue
		}
		if _, exists := positions[key]; !exists {
			positions[key] = i
		}
	}

	var idx columnIndex
	names := m.headers()
	for f := field(0); f < fieldCount; f++ {
		idx[f] = -1
		if pos, ok := positions[classify.NormalizeText(names[f])]; ok {
			idx[f] = pos
		}
	}

	var missing []string
	for _, f := range requiredFields {
		if idx[f] < 0 {
			missing = append(missing, names[f])
		}
	}
	if len(missing) > 0 {
		return idx, &SchemaError{Missing: missing}
	}
	return idx, nil
}

func (idx columnIndex) value(row []string, f field) string {
	pos := idx[f]
	if pos < 0 || pos >= len(row) {
		return ""
	}
	return row[pos]
}

func (idx columnIndex) has(f field) bool {
	return idx[f] >= 0
}
