package periodic

import (
	"fmt"
	"time"
)

// defaultTimeColumn is the bucketing column when Options.TimeColumn is left
// empty.
const defaultTimeColumn = "created_at"

// Options describes one periodic aggregation request. Construct once per
// call; the builder never mutates it.
type Options struct {
	// Operation is the aggregate applied to ColumnName within each bucket.
	Operation Operation

	// ColumnName is the column the aggregate operation is applied to.
	ColumnName string

	// IntervalUnit is the bucket granularity.
	IntervalUnit IntervalUnit

	// WindowStart and WindowEnd are the inclusive UTC bounds of the
	// reporting window. An inverted window (start after end) is not
	// rejected here; it produces an empty grid and therefore an empty
	// series.
	WindowStart time.Time
	WindowEnd   time.Time

	// TimezoneOffset shifts bucket boundaries into the caller's local
	// timezone before truncation, in signed seconds east of UTC.
	TimezoneOffset int

	// Cumulative selects running totals instead of per-bucket totals.
	Cumulative bool

	// TimeColumn overrides the bucketing column. Defaults to created_at.
	TimeColumn string
}

// Validate rejects requests that could never produce a well-formed plan:
// interval units and operations outside their closed sets, and column names
// that cannot be safely quoted as identifiers. Validation happens before any
// plan text is assembled, so a malformed request never reaches the database.
func (opts Options) Validate() error {
	if !opts.IntervalUnit.IsValid() {
		return fmt.Errorf("interval unit must be one of: day, week, month, year")
	}
	if !opts.Operation.IsValid() {
		return fmt.Errorf("aggregate operation must be one of: count, sum, min, max")
	}
	if opts.ColumnName == "" {
		return fmt.Errorf("aggregate column name cannot be empty")
	}
	if err := validateIdentifier(opts.ColumnName); err != nil {
		return fmt.Errorf("invalid aggregate column: %w", err)
	}
	if err := validateIdentifier(opts.timeColumn()); err != nil {
		return fmt.Errorf("invalid time column: %w", err)
	}
	return nil
}

func (opts Options) timeColumn() string {
	if opts.TimeColumn == "" {
		return defaultTimeColumn
	}
	return opts.TimeColumn
}
