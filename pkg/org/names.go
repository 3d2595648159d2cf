package org

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldName normalises a name for comparison: accents stripped, case folded,
// inner whitespace collapsed. "  Éloïse   DUPONT " folds to "eloise dupont".
func FoldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(cases.Fold().String(out)), " ")
}

// MatchName reports whether query names the person first/last, written either
// as "First Last" or "Last First".
func MatchName(query, first, last string) bool {
	q := FoldName(query)
	if q == "" {
		return false
	}
	f, l := FoldName(first), FoldName(last)
	return q == strings.TrimSpace(f+" "+l) || q == strings.TrimSpace(l+" "+f)
}

// FindManager returns the manager whose name matches query.
func (o *Organization) FindManager(query string) (Person, bool) {
	for _, p := range o.People {
		if p.IsManager && MatchName(query, p.FirstName, p.LastName) {
			return p, true
		}
	}
	return Person{}, false
}

// FindSquad returns the squad whose name matches query, ignoring case and
// accents.
func (o *Organization) FindSquad(query string) (Squad, bool) {
	q := FoldName(query)
	if q == "" {
		return Squad{}, false
	}
	for _, s := range o.Squads {
		if FoldName(s.Name) == q {
			return s, true
		}
	}
	return Squad{}, false
}

// FindPersonByName returns the first person named first/last, in either order.
func (o *Organization) FindPersonByName(first, last string) (Person, bool) {
	full := first + " " + last
	for _, p := range o.People {
		if MatchName(full, p.FirstName, p.LastName) {
			return p, true
		}
	}
	return Person{}, false
}
