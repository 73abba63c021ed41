package classify

// CareLine は施設・コストセンターから導出されるケアライン (サービス系統) です。
type CareLine string

const (
	CareLineUrgent    CareLine = "Urgência e Emergência"
	CareLinePrimary   CareLine = "Atenção Primária (APS)"
	CareLineHospital  CareLine = "Hospitais"
	CareLineCorporate CareLine = "Corporativo"
	CareLineElder     CareLine = "Saúde do Idoso"
	CareLinePrograms  CareLine = "Programas"
	CareLineOther     CareLine = "Outros"
)

// CareLines は定義済みケアラインの一覧です。
var CareLines = []CareLine{
	CareLineUrgent,
	CareLinePrimary,
	CareLineHospital,
	CareLineCorporate,
	CareLineElder,
	CareLinePrograms,
	CareLineOther,
}

// IsFallback はケアラインが「その他」かを返します。
func (c CareLine) IsFallback() bool {
	return c == CareLineOther
}

// ParseCareLine は文字列を CareLine に変換します。
func ParseCareLine(raw string) (CareLine, bool) {
	key := NormalizeText(raw)
	for _, c := range CareLines {
		if NormalizeText(string(c)) == key {
			return c, true
		}
	}
	return "", false
}

var (
	urgentTokens    = []string{"UPA", "PS", "PA", "PRONTO SOCORRO", "PRONTO ATENDIMENTO", "SAMU", "URGENCIA", "EMERGENCIA"}
	primaryTokens   = []string{"UBS", "USF", "ESF", "APS", "ATENCAO BASICA", "ATENCAO PRIMARIA", "SAUDE DA FAMILIA"}
	hospitalTokens  = []string{"HOSPITAL", "HOSPITALAR", "HOSP", "HM", "MATERNIDADE"}
	corporateTokens = []string{"SEDE", "CORPORATIVO", "MATRIZ", "ESCRITORIO", "ADMINISTRACAO CENTRAL"}
	elderTokens     = []string{"PAI"}
	programTokens   = []string{"AMA", "AMB", "AMBULATORIO", "PROGRAMA", "PROGRAMAS"}
)

// CareLineRule は単語列 (前後に空白を持つ tokenText) に対する判定規則です。
type CareLineRule struct {
	CareLine CareLine
	Match    func(tokens string) bool
}

func anyTokens(phrases []string) func(string) bool {
	return func(tokens string) bool {
		return containsAnyToken(tokens, phrases)
	}
}

// CareLineRules は上から順に評価され、最初に一致した規則のケアラインが採用されます。
var CareLineRules = []CareLineRule{
	{CareLine: CareLineUrgent, Match: anyTokens(urgentTokens)},
	{CareLine: CareLinePrimary, Match: anyTokens(primaryTokens)},
	{CareLine: CareLineHospital, Match: anyTokens(hospitalTokens)},
	{CareLine: CareLineCorporate, Match: anyTokens(corporateTokens)},
	{CareLine: CareLineElder, Match: anyTokens(elderTokens)},
	{CareLine: CareLinePrograms, Match: func(tokens string) bool {
		if containsAnyToken(tokens, urgentTokens) || containsAnyToken(tokens, hospitalTokens) {
			return false
		}
		return containsAnyToken(tokens, programTokens)
	}},
}

// MatchCareLine は規則表のみで施設名とコストセンターを分類します。
func MatchCareLine(rules []CareLineRule, facility, costCenter string) CareLine {
	tokens := tokenText(facility + " " + costCenter)
	if tokens == "" {
		return CareLineOther
	}
	for _, rule := range rules {
		if rule.Match(tokens) {
			return rule.CareLine
		}
	}
	return CareLineOther
}
