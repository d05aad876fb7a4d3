// Package commands implements the pgtypes command line tool.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the pgtypes root command
func NewRootCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pgtypes",
		Short: "PostgreSQL type metadata cache and lookup tool",
		Long: `pgtypes resolves PostgreSQL type metadata (oid, array oid, regtype,
array delimiter) from a live server or from the builtin registry, and
can persist resolved types in Redis so other processes skip the
catalog query.`,
	}

	cmd.AddCommand(newFetchCommand())
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newVersionCommand(version))

	return cmd
}
