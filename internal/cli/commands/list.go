package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/pgtypes/internal/cli/ui"
	"github.com/conduit-lang/pgtypes/pkg/postgres"
)

var listJSONFlag bool

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the builtin type registry",
		RunE:  runList,
	}

	cmd.Flags().BoolVar(&listJSONFlag, "json", false, "Print the registry as JSON")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	types := postgres.Types.Types()
	sort.Slice(types, func(i, j int) bool { return types[i].OID < types[j].OID })

	if listJSONFlag {
		out := make([]map[string]any, len(types))
		for i, typ := range types {
			out[i] = map[string]any{
				"name":      typ.Name,
				"oid":       typ.OID,
				"array_oid": typ.ArrayOID,
				"regtype":   typ.Regtype,
				"delimiter": typ.Delimiter,
			}
		}
		payload, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(payload))
		return nil
	}

	table := ui.NewTable(os.Stdout, []string{"NAME", "OID", "ARRAY OID", "REGTYPE"}, nil)
	for _, typ := range types {
		table.AddRow(typ.Name,
			strconv.FormatUint(uint64(typ.OID), 10),
			strconv.FormatUint(uint64(typ.ArrayOID), 10),
			typ.Regtype)
	}
	table.Render()

	return nil
}
