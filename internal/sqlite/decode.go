package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// unknownValue is the string form of any column value whose native type has
// no text mapping.
const unknownValue = "Unknown"

// decodeValue maps a native column value to its string form. The boolean is
// false for NULL, which has no string form and is left out of the row.
func decodeValue(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case string:
		return x, true
	default:
		return unknownValue, true
	}
}

// scanRow reads the current row of rows into a types.Row.
func scanRow(rows *sql.Rows, columns []string) (types.Row, error) {
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scanning row: %w", err)
	}

	row := make(types.Row, len(columns))
	for i, col := range columns {
		if s, ok := decodeValue(values[i]); ok {
			row[col] = s
		}
	}
	return row, nil
}
