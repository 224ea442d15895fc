// Package lineage resolves join operands through temp view aliases.
//
// Resolution is a single substitution pass: every operand that names a
// known alias is replaced by the alias's base names, then any name that
// still looks like an intermediate object is dropped and the result is
// deduplicated.
//
// # Basic Usage
//
//	aliases := core.AliasMap{}
//	aliases.Set("stg_orders", []string{"orders", "customers"})
//
//	resolved := lineage.Resolve(joins, aliases)
//	for _, j := range resolved {
//	    fmt.Println(j.Type, j.SourceObjects)
//	}
//
// An alias whose expansion contains another alias is not expanded again.
package lineage
