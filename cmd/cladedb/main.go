// Package main provides the cladedb CLI application.
// cladedb manages the lifecycle of the CladeCanvas PostgreSQL
// database: schema, tree topology and enrichment metadata.
package main

import (
	"os"
)

var (
	// Version is set by build flags
	Version = "dev"
)

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
