package sqlite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func attrs(names ...string) []types.Attribute {
	out := make([]types.Attribute, len(names))
	for i, n := range names {
		out[i] = types.Attr(n, "v"+n)
	}
	return out
}

func TestFormatAttributesInsert(t *testing.T) {
	tests := []struct {
		name       string
		attrs      []types.Attribute
		wantClause string
		wantValues string
	}{
		{
			name:       "single attribute has no separator",
			attrs:      attrs("title"),
			wantClause: "(title)",
			wantValues: "(?)",
		},
		{
			name:       "two attributes",
			attrs:      attrs("title", "description"),
			wantClause: "(title, description)",
			wantValues: "(?, ?)",
		},
		{
			name:       "order follows input",
			attrs:      attrs("status", "user_id", "title", "priority"),
			wantClause: "(status, user_id, title, priority)",
			wantValues: "(?, ?, ?, ?)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, values, err := FormatAttributes(tt.attrs, false)
			require.NoError(t, err)
			assert.Equal(t, tt.wantClause, clause)
			assert.Equal(t, tt.wantValues, values)
			assert.Equal(t, len(tt.attrs), strings.Count(values, "?"))
		})
	}
}

func TestFormatAttributesUpdate(t *testing.T) {
	tests := []struct {
		name  string
		attrs []types.Attribute
		want  string
	}{
		{name: "single attribute", attrs: attrs("name"), want: "name = ?"},
		{name: "three attributes", attrs: attrs("name", "color", "user_id"), want: "name = ?, color = ?, user_id = ?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, second, err := FormatAttributes(tt.attrs, true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, clause)
			assert.Empty(t, second)
		})
	}
}

func TestFormatAttributesPlaceholderCount(t *testing.T) {
	for n := 1; n <= 12; n++ {
		names := make([]string, n)
		for i := range names {
			names[i] = "c" + strings.Repeat("x", i)
		}
		clause, values, err := FormatAttributes(attrs(names...), false)
		require.NoError(t, err)
		assert.Equal(t, n, strings.Count(values, "?"), "n=%d", n)
		assert.Equal(t, "("+strings.Join(names, ", ")+")", clause)
	}
}

func TestFormatAttributesEmpty(t *testing.T) {
	for _, update := range []bool{false, true} {
		clause, values, err := FormatAttributes(nil, update)
		assert.ErrorIs(t, err, types.ErrEmptyAttributes)
		assert.Empty(t, clause)
		assert.Empty(t, values)
	}
}

func TestFormatAttributesInvalidColumn(t *testing.T) {
	bad := []types.Attribute{types.Attr("title", "x"), types.Attr("id; DROP TABLE users", "1")}
	_, _, err := FormatAttributes(bad, false)
	assert.ErrorIs(t, err, types.ErrInvalidColumn)

	_, _, err = FormatAttributes([]types.Attribute{types.Attr("", "x")}, true)
	assert.ErrorIs(t, err, types.ErrInvalidColumn)
}

func TestFormatWhere(t *testing.T) {
	got, err := formatWhere([]types.Attribute{types.Attr("task_id", "1"), types.Attr("tag_id", "2")})
	require.NoError(t, err)
	assert.Equal(t, "task_id = ? AND tag_id = ?", got)

	_, err = formatWhere(nil)
	assert.ErrorIs(t, err, types.ErrEmptyWhere)

	_, err = formatWhere([]types.Attribute{types.Attr("id", "")})
	assert.ErrorIs(t, err, types.ErrEmptyWhere)

	_, err = formatWhere([]types.Attribute{types.Attr("", "1")})
	assert.ErrorIs(t, err, types.ErrEmptyWhere)
}

func TestFormatFilter(t *testing.T) {
	got, err := formatFilter(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = formatFilter([]types.Attribute{types.Attr("username", "")})
	require.NoError(t, err, "select filters may compare against empty text")
	assert.Equal(t, "username = ?", got)
}

func TestCheckTable(t *testing.T) {
	assert.ErrorIs(t, checkTable(""), types.ErrEmptyTable)
	assert.ErrorIs(t, checkTable("users u"), types.ErrInvalidTable)
	assert.NoError(t, checkTable(types.TaskTagsTable))
}
