package gotypes

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/erraggy/apish/internal/stringutil"
)

// maxCommentLength truncates descriptions copied into Go comments.
const maxCommentLength = 200

// goKeywords cannot be used as identifiers. Predeclared names such as
// "error" can be shadowed and are left alone.
var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// exportedName converts a model name, field identifier or enum value into
// an exported Go identifier:
//
//	pet_owner  -> PetOwner
//	guinea pig -> GuineaPig
//	42         -> T42
func exportedName(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	caser := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(caser.String(w))
	}
	name := b.String()
	if name == "" {
		return "Value"
	}
	if first := []rune(name)[0]; !unicode.IsLetter(first) {
		name = "T" + name
	}
	if !stringutil.IsGoIdentifier(name) {
		// non-ASCII letters are valid Go but keep output portable
		name = asciiOnly(name)
		if name[0] >= '0' && name[0] <= '9' {
			name = "T" + name
		}
	}
	if goKeywords[strings.ToLower(name)] {
		name += "_"
	}
	return name
}

func asciiOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "Value"
	}
	return b.String()
}

// uniqueNamer hands out names that have not been used yet by appending a
// counter to repeats.
type uniqueNamer map[string]bool

func (u uniqueNamer) name(base string) string {
	name := base
	for i := 2; u[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	u[name] = true
	return name
}

// cleanComment flattens a description for a single-line Go comment.
func cleanComment(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if runes := []rune(s); len(runes) > maxCommentLength {
		s = string(runes[:maxCommentLength-3]) + "..."
	}
	return s
}
