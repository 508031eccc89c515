package reconciliation

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName приводит имя из журнала или справочника к форме для сравнения:
// нижний регистр, без диакритики, одиночные пробелы
// "  José   PÉREZ " -> "jose perez"
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}

// containsWords проверяет, что phrase входит в name целыми словами
func containsWords(name, phrase string) bool {
	if phrase == "" {
		return false
	}
	return strings.Contains(" "+name+" ", " "+phrase+" ")
}
