package core

// RepoRef identifies a repository to scan.
type RepoRef struct {
	// Locator is a clone URL or a local directory path
	Locator string `json:"repo_url" yaml:"repo_url"`
	// Branch to check out; empty means the loader default
	Branch string `json:"branch,omitempty" yaml:"branch,omitempty"`
}

// Document is one source file of the corpus. Immutable once loaded.
type Document struct {
	Path    string
	Content string
}

// Chunk is a bounded-size slice of a Document's text.
type Chunk struct {
	// SourcePath refers back to Document.Path
	SourcePath string
	Text       string
	// Ordinal is the chunk's position within its document
	Ordinal int
}
