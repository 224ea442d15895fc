// Package extract finds joins and temp view lineage in a code corpus.
//
// Join extraction asks a text oracle about each chunk and parses its JSON
// answer; it is best effort, and a chunk whose call or answer fails simply
// contributes no joins. Alias lineage extraction is purely textual and
// scans whole documents for temp view declarations.
package extract
