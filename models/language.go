// models/language.go
package models

import "fmt"

// Language is the closed set of translation languages. LangAll is only
// meaningful as a query selector and is never stored on a row.
type Language string

const (
	LangEN  Language = "en"
	LangRU  Language = "ru"
	LangAll Language = "all"
)

// SupportedLanguages lists the concrete languages in response order.
var SupportedLanguages = []Language{LangEN, LangRU}

// ParseLanguage validates a language code coming from a request.
func ParseLanguage(s string) (Language, error) {
	switch Language(s) {
	case LangEN, LangRU, LangAll:
		return Language(s), nil
	}
	return "", fmt.Errorf("unknown language %q", s)
}

// IsConcrete reports whether l names a single stored language (not the
// "all" selector).
func (l Language) IsConcrete() bool {
	return l == LangEN || l == LangRU
}
