package extract

import (
	"strings"
	"text/template"
)

var joinPrompt = template.Must(template.New("joins").Parse(
	"You are a data engineering code analyzer.\n" +
		"Extract all JOIN operations (SQL or DataFrame) from the following code.\n" +
		"Return a JSON array where each element has: file, type, source_objects, join_keys, condition, join_style.\n" +
		"If no joins found, return an empty list.\n\n" +
		"Code from {{.File}}:\n{{.Code}}"))

// JoinPrompt renders the extraction prompt for one chunk of file.
func JoinPrompt(file, code string) string {
	var b strings.Builder
	// The template only references two string fields; execution cannot fail.
	_ = joinPrompt.Execute(&b, struct{ File, Code string }{File: file, Code: code})
	return b.String()
}
