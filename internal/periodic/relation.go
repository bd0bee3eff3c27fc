package periodic

import (
	"database/sql"
	"fmt"
	"strings"
)

// Relation is an already-filtered view over a source table. The series
// builder only ever reads it: it projects the bucketing and aggregate
// expressions on top of the existing filters, never altering them.
//
// Filter conditions reference named parameters ($name); their values are
// passed as sql.Named arguments so they compose with the plan's own named
// parameters in a single statement.
type Relation struct {
	source     string
	conditions []string
	args       []sql.NamedArg
}

// NewRelation returns a relation over all rows of the given table.
func NewRelation(table string) Relation {
	return Relation{source: table}
}

// Where returns a copy of the relation with an additional filter condition.
// Conditions are combined with AND.
func (relation Relation) Where(condition string, args ...sql.NamedArg) Relation {
	conditions := make([]string, 0, len(relation.conditions)+1)
	conditions = append(conditions, relation.conditions...)
	conditions = append(conditions, condition)

	combined := make([]sql.NamedArg, 0, len(relation.args)+len(args))
	combined = append(combined, relation.args...)
	combined = append(combined, args...)

	return Relation{source: relation.source, conditions: conditions, args: combined}
}

// project returns the relation as a SELECT over the given expressions,
// preserving its filters.
func (relation Relation) project(expressions ...string) (string, error) {
	if err := validateIdentifier(relation.source); err != nil {
		return "", fmt.Errorf("invalid relation source: %w", err)
	}

	var query strings.Builder
	query.WriteString("SELECT ")
	query.WriteString(strings.Join(expressions, ", "))
	query.WriteString(" FROM ")
	query.WriteString(quoteIdentifier(relation.source))

	if len(relation.conditions) > 0 {
		query.WriteString(" WHERE (")
		query.WriteString(strings.Join(relation.conditions, ") AND ("))
		query.WriteString(")")
	}

	return query.String(), nil
}

// Must only be interpolated into plan text after validateIdentifier has
// accepted the identifier.
func quoteIdentifier(identifier string) string {
	return `"` + identifier + `"`
}

func validateIdentifier(identifier string) error {
	if strings.ContainsRune(identifier, '"') {
		return fmt.Errorf("'%s' contains \", which cannot be quoted as an identifier", identifier)
	}
	return nil
}
