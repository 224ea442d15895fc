// Command joinlineage discovers joins in a code repository and resolves
// their dataset lineage.
package main

import (
	"os"

	"github.com/leapstack-labs/joinlineage/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
