package core

import (
	"sort"
	"strings"
)

// AliasMap maps a temp view name (lower-cased) to the base names it was
// built from, deduplicated in first-seen order.
type AliasMap map[string][]string

// Set records the lineage of alias, replacing any previous entry.
func (m AliasMap) Set(alias string, sources []string) {
	m[strings.ToLower(alias)] = Dedupe(sources)
}

// Lookup returns the lineage of name, matched case-insensitively.
func (m AliasMap) Lookup(name string) ([]string, bool) {
	sources, ok := m[strings.ToLower(name)]
	return sources, ok
}

// Len returns the number of aliases.
func (m AliasMap) Len() int {
	return len(m)
}

// Aliases returns the alias names in sorted order.
func (m AliasMap) Aliases() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
