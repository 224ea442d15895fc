// Package core defines the shared language of the join lineage system.
//
// This package contains:
//   - Corpus entities (Document, Chunk, RepoRef)
//   - Join records as produced by extraction and rewritten by resolution
//   - The alias lineage map built from temp view declarations
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
