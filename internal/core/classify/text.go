package classify

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText は大文字化・アクセント除去・空白の正規化を行い、キーワード照合用の文字列を返します。
func NormalizeText(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}

	decomposed := norm.NFD.String(trimmed)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// tokenText は英数字以外を区切りとして単語境界付きの文字列を生成します。
// 返却値は前後に空白を持つため " TOKEN " の部分一致で単語単位の照合ができます。
func tokenText(s string) string {
	normalized := NormalizeText(s)
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(fields) == 0 {
		return ""
	}
	return " " + strings.Join(fields, " ") + " "
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func containsAnyToken(tokens string, phrases []string) bool {
	if tokens == "" {
		return false
	}
	for _, p := range phrases {
		if strings.Contains(tokens, " "+p+" ") {
			return true
		}
	}
	return false
}
