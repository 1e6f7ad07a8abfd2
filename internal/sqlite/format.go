package sqlite

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// identifierPattern matches the table and column names the formatter accepts.
// Names are spliced into statement text, so anything else is rejected.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// FormatAttributes renders attrs for an INSERT or an UPDATE statement.
//
// Insert form (update false) returns "(c1, c2)" and "(?, ?)", one
// placeholder per attribute in input order. Update form returns
// "c1 = ?, c2 = ?" and an empty second value. The attribute order is the
// bind order at the call site.
//
// An empty attribute list has no valid rendering in either form and returns
// ErrEmptyAttributes.
func FormatAttributes(attrs []types.Attribute, update bool) (string, string, error) {
	if len(attrs) == 0 {
		return "", "", types.ErrEmptyAttributes
	}
	for _, a := range attrs {
		if !identifierPattern.MatchString(a.Name) {
			return "", "", fmt.Errorf("%w: %q", types.ErrInvalidColumn, a.Name)
		}
	}

	var clause strings.Builder
	clause.Grow(len(attrs) * 10)

	if update {
		for i, a := range attrs {
			if i > 0 {
				clause.WriteString(", ")
			}
			clause.WriteString(a.Name)
			clause.WriteString(" = ?")
		}
		return clause.String(), "", nil
	}

	var values strings.Builder
	values.Grow(len(attrs) * 3)
	clause.WriteByte('(')
	values.WriteByte('(')
	for i, a := range attrs {
		if i > 0 {
			clause.WriteString(", ")
			values.WriteString(", ")
		}
		clause.WriteString(a.Name)
		values.WriteByte('?')
	}
	clause.WriteByte(')')
	values.WriteByte(')')
	return clause.String(), values.String(), nil
}

// formatWhere renders where as "a = ? AND b = ?" for UPDATE and DELETE.
// Every attribute needs a name and a value; an empty where would touch the
// whole table.
func formatWhere(where []types.Attribute) (string, error) {
	if len(where) == 0 {
		return "", types.ErrEmptyWhere
	}
	for _, w := range where {
		if w.Name == "" || w.Value == "" {
			return "", types.ErrEmptyWhere
		}
	}
	return formatFilter(where)
}

// formatFilter renders filter as an equality conjunction for SELECT. An
// empty filter renders as "".
func formatFilter(filter []types.Attribute) (string, error) {
	parts := make([]string, len(filter))
	for i, f := range filter {
		if !identifierPattern.MatchString(f.Name) {
			return "", fmt.Errorf("%w: %q", types.ErrInvalidColumn, f.Name)
		}
		parts[i] = f.Name + " = ?"
	}
	return strings.Join(parts, " AND "), nil
}

// checkTable validates a table name before it is spliced into a statement.
func checkTable(table string) error {
	if table == "" {
		return types.ErrEmptyTable
	}
	if !identifierPattern.MatchString(table) {
		return fmt.Errorf("%w: %q", types.ErrInvalidTable, table)
	}
	return nil
}
