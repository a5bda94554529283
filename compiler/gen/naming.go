package gen

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
)

// Accessor returns the Go method name for a node label or relationship type.
//
//	Person    => Person
//	WORKS_AT  => WorksAt
//	has-owner => HasOwner
//	2FA       => Kind2fa
func Accessor(kind string) string {
	words := strings.FieldsFunc(kind, func(r rune) bool {
		return r > unicode.MaxASCII || !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, w := range words {
		if w == strings.ToUpper(w) {
			words[i] = strings.ToLower(w)
		}
	}
	name := inflect.Camelize(strings.Join(words, "_"))
	if name == "" || !unicode.IsLetter(rune(name[0])) {
		name = "Kind" + name
	}
	return name
}

// Accessors returns the method names of kinds. Kinds whose names differ only
// by case or punctuation would collide; the lexicographically first raw kind
// keeps the plain name and later ones get a numeric suffix:
//
//	KNOWS => Knows
//	Knows => Knows2
func Accessors(kinds []string) map[string]string {
	sorted := append([]string(nil), kinds...)
	sort.Strings(sorted)
	var (
		fold  = cases.Fold()
		used  = make(map[string]bool, len(sorted))
		names = make(map[string]string, len(sorted))
	)
	for _, kind := range sorted {
		if _, ok := names[kind]; ok {
			continue
		}
		base := Accessor(kind)
		name := base
		for i := 2; used[fold.String(name)]; i++ {
			name = base + strconv.Itoa(i)
		}
		used[fold.String(name)] = true
		names[kind] = name
	}
	return names
}
