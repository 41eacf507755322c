package resolve

import (
	"strings"

	"github.com/roach88/aivia/internal/ir"
)

// DefaultKey is the key name used when nothing better is known.
const DefaultKey = "ID"

// PrimaryKey returns the key column of table. Lookup order:
//  1. explicit primary_key on the schema table
//  2. overrides (known table -> key map)
//  3. first column ending in _ID or named ID
//  4. DefaultKey
//
// Unknown tables skip steps 1 and 3.
func PrimaryKey(schema *ir.Schema, table string, overrides map[string]string) string {
	tbl, known := schema.Table(table)
	if known && tbl.PrimaryKey != "" {
		return tbl.PrimaryKey
	}
	if k := overrides[table]; k != "" {
		return k
	}
	if known {
		for _, c := range tbl.Columns {
			upper := strings.ToUpper(c.Name)
			if strings.HasSuffix(upper, "_ID") || upper == DefaultKey {
				return c.Name
			}
		}
	}
	return DefaultKey
}
