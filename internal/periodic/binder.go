package periodic

import (
	"database/sql"
	"fmt"
	"time"
)

// bindParameters produces the named-argument list for a plan built from the
// given relation and options. The reserved window parameters come first in a
// fixed order, followed by the relation's filter arguments, so identical
// inputs always yield an identical statement and argument list.
func bindParameters(relation Relation, opts Options) ([]any, error) {
	args := []any{
		sql.Named(paramWindowStart, formatTimestamp(opts.WindowStart)),
		sql.Named(paramWindowEnd, formatTimestamp(opts.WindowEnd)),
		sql.Named(paramTimezoneOffset, int64(opts.TimezoneOffset)),
	}

	seen := map[string]bool{
		paramWindowStart:    true,
		paramWindowEnd:      true,
		paramTimezoneOffset: true,
	}

	for _, arg := range relation.args {
		if arg.Name == "" {
			return nil, fmt.Errorf("relation filter argument is missing a name")
		}
		if seen[arg.Name] {
			return nil, fmt.Errorf(
				"relation filter parameter '%s' is reserved or already bound", arg.Name,
			)
		}
		seen[arg.Name] = true
		args = append(args, arg)
	}

	return args, nil
}

// formatTimestamp renders a window bound for a DuckDB TIMESTAMP cast: UTC,
// microsecond precision, no zone suffix.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05.000000")
}
