package pix

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize transliterates s to upper-case ASCII. Accents are stripped and
// letters of other scripts are spelled out in their closest ASCII form, so
// "Иван" becomes "IVAN". Every whitespace rune becomes one plain space and
// leading and trailing spaces are trimmed; inner runs are kept as written.
func Normalize(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), runes.Map(blankSpace))
	decomposed, _, err := transform.String(t, s)
	if err != nil {
		decomposed = s
	}

	ascii := strings.Map(printableASCII, unidecode.Unidecode(decomposed))
	return strings.ToUpper(strings.TrimSpace(ascii))
}

func blankSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return ' '
	}
	return r
}

func printableASCII(r rune) rune {
	if r >= utf8.RuneSelf || unicode.IsControl(r) {
		return -1
	}
	return r
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
