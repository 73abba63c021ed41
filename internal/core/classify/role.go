package classify

// RoleCategory は職位タイトルから導出される階層的な職種カテゴリです。
type RoleCategory string

const (
	RoleDirector       RoleCategory = "DIRETOR"
	RoleManager        RoleCategory = "GERENTE"
	RoleSupervisor     RoleCategory = "SUPERVISOR"
	RoleCoordinator    RoleCategory = "COORDENADOR"
	RoleAdvisor        RoleCategory = "ASSESSOR"
	RolePhysician      RoleCategory = "MEDICOS"
	RoleNursing        RoleCategory = "ENFERMAGEM"
	RoleTechnician     RoleCategory = "TÉCNICO"
	RoleApprentice     RoleCategory = "APRENDIZ"
	RoleAdministrative RoleCategory = "ADMINISTRATIVO"
	RoleAlliedHealth   RoleCategory = "MULTIDISCIPLINAR"
	RoleOperational    RoleCategory = "OPERACIONAL"
	// RoleAutonomous は手動補正でのみ付与されるカテゴリです。
	RoleAutonomous   RoleCategory = "AUTONOMO"
	RoleOther        RoleCategory = "OUTROS"
	RoleUnclassified RoleCategory = "Não Classificado"
)

// RoleCategories は定義済みカテゴリの一覧です。補正ファイルの検証に利用します。
var RoleCategories = []RoleCategory{
	RoleDirector,
	RoleManager,
	RoleSupervisor,
	RoleCoordinator,
	RoleAdvisor,
	RolePhysician,
	RoleNursing,
	RoleTechnician,
	RoleApprentice,
	RoleAdministrative,
	RoleAlliedHealth,
	RoleOperational,
	RoleAutonomous,
	RoleOther,
	RoleUnclassified,
}

// IsFallback はカテゴリが未分類系 (OUTROS / Não Classificado) かを返します。
func (c RoleCategory) IsFallback() bool {
	return c == RoleOther || c == RoleUnclassified
}

// ParseRoleCategory は文字列を RoleCategory に変換します。アクセントと大文字小文字は区別しません。
func ParseRoleCategory(raw string) (RoleCategory, bool) {
	key := NormalizeText(raw)
	for _, c := range RoleCategories {
		if NormalizeText(string(c)) == key {
			return c, true
		}
	}
	return "", false
}

// RoleRule はキーワードのいずれかを含むタイトルを Category に分類する規則です。
type RoleRule struct {
	Category RoleCategory
	Keywords []string
}

// RoleRules は評価順に並んだ職種判定表です。先に一致した規則が優先されるため、順序自体が優先度になります。
// キーワードは NormalizeText 済みの表記で記述し、部分一致で判定します。
var RoleRules = []RoleRule{
	{Category: RoleDirector, Keywords: []string{"DIRETOR"}},
	{Category: RoleManager, Keywords: []string{"GERENTE"}},
	{Category: RoleSupervisor, Keywords: []string{"SUPERVISOR", "SUPERINTENDENTE"}},
	{Category: RoleCoordinator, Keywords: []string{"COORDENADOR", "COORD."}},
	{Category: RoleSupervisor, Keywords: []string{"LIDER"}},
	{Category: RoleAdvisor, Keywords: []string{"ASSESSOR"}},
	{Category: RolePhysician, Keywords: []string{
		"MEDICO", "CIRURGIAO", "PSIQUIATRA", "PEDIATRA", "GINECOLOGISTA", "DERMATOLOGISTA",
		"FISIATRA", "GERIATRA", "NEUROLOGISTA", "OFTALMOLOGISTA", "ORTOPEDISTA", "REUMATOLOGISTA",
		"DENTISTA", "ODONTO",
	}},
	{Category: RoleNursing, Keywords: []string{"ENFERMAGEM", "ENFERMEIR"}},
	{Category: RoleTechnician, Keywords: []string{"TECNICO", "TEC.", "TECNOLOGO"}},
	{Category: RoleApprentice, Keywords: []string{"APRENDIZ"}},
	{Category: RoleAdministrative, Keywords: []string{
		"ANALISTA", "ASSISTENTE", "ADVOGADO", "COMPRADOR", "CONTROLLER", "ESCRITURARIO", "FATURISTA",
		"SECRETARIA", "FINANCEIRO", "PESSOAL", "RH", "DP", "OUVIDORIA", "ALMOXARIFE", "RECEPCIONISTA",
		"TESOUREIRO", "TELEFONISTA", "PATRIMONIO", "ADM", "ADMINISTRADOR",
	}},
	{Category: RoleAlliedHealth, Keywords: []string{
		"FISIOTERAPEUTA", "FONOAUDIOLOGO", "PSICOLOGO", "NUTRICIONISTA", "SOCIAL", "FARMACEUTICO",
		"BIOMEDICO", "BIOQUIMICO", "EDUCADOR FISICO", "TERAPEUTA OCUPACIONAL", "MUSICOTERAPEUTA",
		"PSICOPEDAGOGO",
	}},
	{Category: RoleOperational, Keywords: []string{
		"ACOMPANHANTE", "AGENTE", "AJUDANTE", "ARQUIVISTA", "ATENDENTE", "AUXILIAR", "COPEIR",
		"COSTUREIRA", "COZINHEIR", "CUIDADOR", "ENCARREGADO", "ESTAGIARIO", "FAXINEIR", "INSTRUMENTADOR",
		"JARDINEIRO", "LIMPADOR", "MAQUEIRO", "MENSAGEIRO", "MERENDEIRA", "MOTORISTA", "OFICIAL",
		"OPERADOR", "PORTEIRO", "RECREADOR", "ROUPEIRO", "SERVENTE", "VIGIA", "CONTROLADOR", "MANUTENCAO",
	}},
}

// roleExclusionMarkers を含むタイトルは正規雇用ではないため、規則表の結果に関わらず未分類になります。
var roleExclusionMarkers = []string{"AUTONOMO", "IMPLANTACAO"}

// MatchRole は規則表のみでタイトルを分類します。補正マップは参照しません。
func MatchRole(rules []RoleRule, title string) RoleCategory {
	text := NormalizeText(title)
	if text == "" {
		return RoleUnclassified
	}

	category := RoleOther
	for _, rule := range rules {
		if containsAny(text, rule.Keywords) {
			category = rule.Category
			break
		}
	}

	if containsAny(text, roleExclusionMarkers) {
		return RoleUnclassified
	}
	return category
}
