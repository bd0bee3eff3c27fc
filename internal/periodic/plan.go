package periodic

import "fmt"

// Named parameters reserved by the plan. Relation filters must not reuse
// these names.
const (
	paramWindowStart    = "window_start"
	paramWindowEnd      = "window_end"
	paramTimezoneOffset = "tz_offset"
)

// buildPlan assembles the series statement as four stages:
//
//  1. grid: one row per expected bucket boundary across the shifted window,
//     with a null placeholder value. This is what makes buckets without data
//     representable at all.
//  2. bucketed: the upstream relation projected to (shifted truncated
//     timestamp, aggregate) and grouped per bucket. Deliberately unbounded
//     in time: cumulative totals must see rows that precede the window.
//  3. filled: grid and data rows unioned, then folded to one value per
//     bucket by the fill combiner as a window function. ORDER BY bucket
//     gives a running total; PARTITION BY bucket gives per-bucket totals.
//     DISTINCT collapses the grid/data row pair a bucket can produce.
//  4. trim: restrict to the truncated window bounds and order ascending.
//     The trim must stay after the window pass, otherwise boundary buckets
//     of a cumulative series lose the preceding rows they depend on.
//
// Only enum-derived tokens and validated quoted identifiers are placed in
// plan text; every runtime value flows through a named parameter.
func buildPlan(relation Relation, opts Options) (string, error) {
	unit := opts.IntervalUnit.String()

	bucketExpr := fmt.Sprintf(
		"date_trunc('%s', %s + to_seconds($%s))",
		unit, quoteIdentifier(opts.timeColumn()), paramTimezoneOffset,
	)

	bucketed, err := relation.project(
		bucketExpr+" AS bucket",
		opts.Operation.aggregate(quoteIdentifier(opts.ColumnName))+" AS value",
	)
	if err != nil {
		return "", err
	}

	frame := "PARTITION BY bucket"
	if opts.Cumulative {
		frame = "ORDER BY bucket"
	}

	windowStart := truncatedBound(unit, paramWindowStart)
	windowEnd := truncatedBound(unit, paramWindowEnd)

	plan := fmt.Sprintf(`
WITH grid AS (
	SELECT
		UNNEST(generate_series(%[1]s, %[2]s, INTERVAL '%[3]s')) AS bucket,
		CAST(NULL AS BIGINT) AS value
),
bucketed AS (
	%[4]s GROUP BY bucket
),
filled AS (
	SELECT DISTINCT
		bucket,
		CAST(COALESCE(%[5]s(value) OVER (%[6]s), 0) AS BIGINT) AS value
	FROM (
		SELECT bucket, value FROM grid
		UNION ALL
		SELECT bucket, value FROM bucketed
	)
)
SELECT bucket, value
FROM filled
WHERE bucket BETWEEN %[1]s AND %[2]s
ORDER BY bucket`,
		windowStart,
		windowEnd,
		opts.IntervalUnit.Step(),
		bucketed,
		opts.Operation.fill(),
		frame,
	)

	return plan, nil
}

// truncatedBound shifts a window bound parameter into local time and
// truncates it to the bucket unit, the same derivation applied to row
// timestamps. Applying the identical expression on both sides keeps the
// grid, the data buckets, and the final trim aligned.
func truncatedBound(unit, param string) string {
	return fmt.Sprintf(
		"date_trunc('%s', $%s::TIMESTAMP + to_seconds($%s))",
		unit, param, paramTimezoneOffset,
	)
}
