package extract

import (
	"log/slog"
	"regexp"

	"github.com/leapstack-labs/joinlineage/pkg/core"
)

// tempViewPattern matches df.createOrReplaceTempView("name") and the
// Global variant, capturing the frame handle and the view name.
var tempViewPattern = regexp.MustCompile(`(?i)(\w+)\.createOrReplace(?:Global)?TempView\(["'](\w+)["']\)`)

func directReadPattern(handle string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(handle) +
		`\s*=\s*spark\.read\.(?:table|format|parquet).*?["'](\w+)["']`)
}

func joinAssignPattern(handle string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(handle) + `\s*=\s*(\w+)\.join\((\w+)`)
}

// AliasExtractor builds temp view lineage from document text.
type AliasExtractor struct {
	logger *slog.Logger
}

// NewAliasExtractor creates an alias lineage extractor.
func NewAliasExtractor(logger *slog.Logger) *AliasExtractor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AliasExtractor{logger: logger}
}

// Extract scans docs in order and maps every declared temp view to the
// names its frame was built from. A later declaration of the same view
// replaces the earlier one.
func (a *AliasExtractor) Extract(docs []core.Document) core.AliasMap {
	lineage := core.AliasMap{}
	for _, doc := range docs {
		for _, m := range tempViewPattern.FindAllStringSubmatch(doc.Content, -1) {
			handle, view := m[1], m[2]
			sources := frameSources(doc.Content, handle)
			if len(sources) == 0 {
				a.logger.Debug("no sources found for temp view", "view", view, "frame", handle, "file", doc.Path)
			}
			lineage.Set(view, sources)
		}
	}
	return lineage
}

// frameSources finds what handle was assigned from: direct reads first,
// then binary joins whose two operands may themselves be aliases.
func frameSources(code, handle string) []string {
	var sources []string
	for _, m := range directReadPattern(handle).FindAllStringSubmatch(code, -1) {
		sources = append(sources, m[1])
	}
	if len(sources) > 0 {
		return sources
	}
	for _, m := range joinAssignPattern(handle).FindAllStringSubmatch(code, -1) {
		sources = append(sources, m[1], m[2])
	}
	return sources
}

// ExtractAliasLineage is a convenience wrapper around AliasExtractor.
func ExtractAliasLineage(docs []core.Document) core.AliasMap {
	return NewAliasExtractor(nil).Extract(docs)
}
