package lineage

import (
	"strings"

	"github.com/leapstack-labs/joinlineage/pkg/core"
)

// aliasMarkers are substrings conventionally used for staging and
// intermediate objects.
var aliasMarkers = []string{
	"tmp_", "temp_", "stg_", "cte_", "#",
	"_tmp", "_join", "_merged", "_intermediate",
}

// IsAliasName reports whether name looks like an intermediate object.
// This is a textual heuristic, independent of any alias map.
func IsAliasName(name string) bool {
	n := strings.ToLower(name)
	for _, marker := range aliasMarkers {
		if strings.Contains(n, marker) {
			return true
		}
	}
	return false
}

// Expand substitutes known aliases in sources with their base names,
// drops alias-shaped names and deduplicates. Substituted names are not
// expanded again.
func Expand(sources []string, aliases core.AliasMap) []string {
	expanded := make([]string, 0, len(sources))
	for _, s := range sources {
		if s == "" {
			continue
		}
		if base, ok := aliases.Lookup(s); ok {
			expanded = append(expanded, base...)
			continue
		}
		expanded = append(expanded, s)
	}

	kept := expanded[:0]
	for _, name := range expanded {
		if !IsAliasName(name) {
			kept = append(kept, name)
		}
	}
	return core.Dedupe(kept)
}

// Resolve rewrites the SourceObjects of every join in place and returns
// the same records. All other fields are left untouched.
func Resolve(joins []core.JoinRecord, aliases core.AliasMap) []core.JoinRecord {
	if joins == nil {
		return []core.JoinRecord{}
	}
	for i := range joins {
		joins[i].SourceObjects = Expand(joins[i].SourceObjects, aliases)
		joins[i].Normalize()
	}
	return joins
}
