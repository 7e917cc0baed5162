package openapi

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// OperationID derives an operation id from a verb and a path when the
// document does not declare one:
//
//	get    /pets           -> getPets
//	get    /pets/{id}      -> getPetsById
//	delete /user-profiles  -> deleteUserProfiles
//	put    /pets/{petId}   -> putPetsByPetId
func OperationID(verb, path string) string {
	caser := cases.Title(language.English, cases.NoLower)

	var b strings.Builder
	b.WriteString(strings.ToLower(verb))
	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			continue
		}
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			b.WriteString("By")
			segment = segment[1 : len(segment)-1]
		}
		for _, word := range splitWords(segment) {
			b.WriteString(caser.String(word))
		}
	}
	return b.String()
}

// splitWords splits on anything that is not a letter or digit.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
