// Package keywords provides case-insensitive multi-pattern substring matching
// over fixed, ordered keyword tables. A table is compiled once into an
// Aho-Corasick automaton so a text is scanned in a single pass no matter how
// many terms the table holds.
package keywords

import (
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"golang.org/x/text/cases"
)

// Group is a named concept and the synonym forms that signal it.
type Group struct {
	Name  string
	Terms []string
}

// Table is an ordered list of groups. Results always follow table order,
// never the order in which terms occur in the text.
type Table struct {
	groups []Group

	// dictionary holds each distinct folded term once; refs maps a
	// dictionary index back to every (group, term) pair that uses it.
	dictionary []string
	refs       [][]termRef

	mu      sync.Mutex // ahocorasick.Matcher.Match mutates internal counters
	matcher *ahocorasick.Matcher
}

type termRef struct {
	group int
	term  int
}

// Hits is the result of scanning one text against a table.
type Hits struct {
	table  *Table
	groups []bool
	terms  [][]bool
}

// NewTable compiles the given groups into a matcher.
func NewTable(groups ...Group) *Table {
	t := &Table{groups: groups}

	index := make(map[string]int)
	for gi, g := range groups {
		for ti, term := range g.Terms {
			folded := Fold(term)
			if folded == "" {
				continue
			}
			di, ok := index[folded]
			if !ok {
				di = len(t.dictionary)
				index[folded] = di
				t.dictionary = append(t.dictionary, folded)
				t.refs = append(t.refs, nil)
			}
			t.refs[di] = append(t.refs[di], termRef{group: gi, term: ti})
		}
	}

	if len(t.dictionary) > 0 {
		t.matcher = ahocorasick.NewStringMatcher(t.dictionary)
	}
	return t
}

// Terms builds a table where every term is its own group, named after the term.
func Terms(terms ...string) *Table {
	groups := make([]Group, 0, len(terms))
	for _, term := range terms {
		groups = append(groups, Group{Name: term, Terms: []string{term}})
	}
	return NewTable(groups...)
}

// Fold returns the case-folded form of s used for all comparisons.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Scan runs the matcher over text once.
func (t *Table) Scan(text string) Hits {
	h := Hits{
		table:  t,
		groups: make([]bool, len(t.groups)),
		terms:  make([][]bool, len(t.groups)),
	}
	for gi, g := range t.groups {
		h.terms[gi] = make([]bool, len(g.Terms))
	}
	if t.matcher == nil || text == "" {
		return h
	}

	folded := Fold(text)
	t.mu.Lock()
	found := t.matcher.Match([]byte(folded))
	t.mu.Unlock()

	for _, di := range found {
		if di < 0 || di >= len(t.refs) {
			continue
		}
		for _, ref := range t.refs[di] {
			h.groups[ref.group] = true
			h.terms[ref.group][ref.term] = true
		}
	}
	return h
}

// Match returns the names of matched groups in table order.
func (t *Table) Match(text string) []string {
	return t.Scan(text).Groups()
}

// MatchTerms returns every matched term, in table order, as written in the table.
func (t *Table) MatchTerms(text string) []string {
	return t.Scan(text).Terms()
}

// Has reports whether the named group matched.
func (h Hits) Has(name string) bool {
	for gi, g := range h.table.groups {
		if g.Name == name && h.groups[gi] {
			return true
		}
	}
	return false
}

// Any reports whether at least one group matched.
func (h Hits) Any() bool {
	for _, ok := range h.groups {
		if ok {
			return true
		}
	}
	return false
}

// Groups returns the matched group names in table order.
func (h Hits) Groups() []string {
	out := make([]string, 0)
	for gi, g := range h.table.groups {
		if h.groups[gi] {
			out = append(out, g.Name)
		}
	}
	return out
}

// Terms returns the matched terms in table order.
func (h Hits) Terms() []string {
	out := make([]string, 0)
	for gi, g := range h.table.groups {
		for ti, term := range g.Terms {
			if h.terms[gi][ti] {
				out = append(out, term)
			}
		}
	}
	return out
}
