package classify

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Overrides は手動補正ツールが保存したタイトル・施設名ごとの分類結果です。規則表より優先されます。
type Overrides struct {
	Roles     map[string]RoleCategory
	CareLines map[string]CareLine
}

// Engine は補正マップと規則表を組み合わせた分類器です。生成後は変更されないため並行利用できます。
type Engine struct {
	roleRules     []RoleRule
	careLineRules []CareLineRule
	roles         map[string]RoleCategory
	careLines     map[string]CareLine
}

// NewEngine は既定の規則表で Engine を生成します。overrides は nil でも構いません。
func NewEngine(overrides *Overrides) *Engine {
	e := &Engine{
		roleRules:     RoleRules,
		careLineRules: CareLineRules,
		roles:         make(map[string]RoleCategory),
		careLines:     make(map[string]CareLine),
	}
	if overrides == nil {
		return e
	}
	for title, category := range overrides.Roles {
		e.roles[strings.TrimSpace(title)] = category
		if key := NormalizeText(title); key != "" {
			if _, exists := e.roles[key]; !exists {
				e.roles[key] = category
			}
		}
	}
	for facility, line := range overrides.CareLines {
		e.careLines[strings.TrimSpace(facility)] = line
		if key := NormalizeText(facility); key != "" {
			if _, exists := e.careLines[key]; !exists {
				e.careLines[key] = line
			}
		}
	}
	return e
}

// ClassifyRole はタイトルの職種カテゴリを返します。常に何らかのカテゴリを返します。
func (e *Engine) ClassifyRole(title string) RoleCategory {
	if category, ok := lookup(e.roles, title); ok {
		return category
	}
	return MatchRole(e.roleRules, title)
}

// ClassifyCareLine は施設名とコストセンターからケアラインを返します。
func (e *Engine) ClassifyCareLine(facility, costCenter string) CareLine {
	if line, ok := lookup(e.careLines, facility); ok {
		return line
	}
	return MatchCareLine(e.careLineRules, facility, costCenter)
}

func lookup[T any](m map[string]T, raw string) (T, bool) {
	var zero T
	if len(m) == 0 {
		return zero, false
	}
	if v, ok := m[strings.TrimSpace(raw)]; ok {
		return v, true
	}
	key := NormalizeText(raw)
	if key == "" {
		return zero, false
	}
	v, ok := m[key]
	return v, ok
}

// LoadOverrides は職種補正ファイルとケアライン補正ファイルを読み込みます。
// 各ファイルは「キー: カテゴリ」のフラットなマップで、JSON も YAML として読み込めます。空のパスは無視します。
func LoadOverrides(rolePath, careLinePath string) (*Overrides, error) {
	out := &Overrides{}

	if rolePath != "" {
		raw, err := readFlatMap(rolePath)
		if err != nil {
			return nil, err
		}
		out.Roles = make(map[string]RoleCategory, len(raw))
		for title, value := range raw {
			category, ok := ParseRoleCategory(value)
			if !ok {
				return nil, fmt.Errorf("classify: role override %q -> %q: %w", title, value, ErrUnknownCategory)
			}
			out.Roles[title] = category
		}
	}

	if careLinePath != "" {
		raw, err := readFlatMap(careLinePath)
		if err != nil {
			return nil, err
		}
		out.CareLines = make(map[string]CareLine, len(raw))
		for facility, value := range raw {
			line, ok := ParseCareLine(value)
			if !ok {
				return nil, fmt.Errorf("classify: care line override %q -> %q: %w", facility, value, ErrUnknownCategory)
			}
			out.CareLines[facility] = line
		}
	}

	return out, nil
}

func readFlatMap(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("classify: read overrides %s: %w", path, err)
	}
	var m map[string]string
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("classify: parse overrides %s: %w", path, err)
	}
	return m, nil
}
