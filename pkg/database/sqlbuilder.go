package database

import (
	"fmt"
	"strings"

	"github.com/huandu/go-sqlbuilder"
)

func NewSelectBuilder() *sqlbuilder.SelectBuilder {
	return sqlbuilder.PostgreSQL.NewSelectBuilder()
}

func NewInsertBuilder() *sqlbuilder.InsertBuilder {
	return sqlbuilder.PostgreSQL.NewInsertBuilder()
}

func NewUpdateBuilder() *sqlbuilder.UpdateBuilder {
	return sqlbuilder.PostgreSQL.NewUpdateBuilder()
}

func NewDeleteBuilder() *sqlbuilder.DeleteBuilder {
	return sqlbuilder.PostgreSQL.NewDeleteBuilder()
}

// OnConflictUpdate appends an upsert clause that overwrites updateColumns
// with the proposed row when conflictColumns collide.
func OnConflictUpdate(ib *sqlbuilder.InsertBuilder, conflictColumns []string, updateColumns ...string) {
	assignments := make([]string, len(updateColumns))
	for i, col := range updateColumns {
		assignments[i] = fmt.Sprintf("%s = EXCLUDED.%s", col, col)
	}
	ib.SQL(fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s", strings.Join(conflictColumns, ", "), strings.Join(assignments, ", ")))
}

// OnConflictDoNothing skips rows that violate a unique constraint.
func OnConflictDoNothing(ib *sqlbuilder.InsertBuilder) {
	ib.SQL("ON CONFLICT DO NOTHING")
}

// ContainsPattern builds a case-insensitive LIKE pattern. Wildcards in the
// input are escaped.
func ContainsPattern(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(replacer.Replace(strings.TrimSpace(value))) + "%"
}

// Args converts a string slice into builder arguments for IN clauses.
func Args(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
