// Package pipeline runs the join lineage stages over one repository.
//
// The topology is fixed at construction:
//
//	load_corpus -> {extract_joins, extract_lineage} -> resolve_lineage
//
// Stages in the same level run concurrently. Each stage computes its
// outputs without touching shared state and hands back a commit that the
// executor applies under a lock, so a stage never observes a partial write
// and never starts before the keys it requires are present.
package pipeline
