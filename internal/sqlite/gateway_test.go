package sqlite

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/internal/logger"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// setupGateway connects a Gateway to a fresh database file under t.TempDir
// and closes it when the test ends.
func setupGateway(t *testing.T) *Gateway {
	t.Helper()
	g := NewGateway(Options{})
	require.NoError(t, g.Connect(filepath.Join(t.TempDir(), "taskboard.db")))
	t.Cleanup(func() { g.Close() })
	return g
}

func insertUser(t *testing.T, g *Gateway, username string) int64 {
	t.Helper()
	id, err := g.InsertValues(types.Params{
		Table: types.UsersTable,
		Attributes: []types.Attribute{
			types.Attr("username", username),
			types.Attr("email", username+"@example.com"),
			types.Attr("password", "hash"),
		},
	})
	require.NoError(t, err)
	return id
}

func TestConnectBootstrapsSchema(t *testing.T) {
	g := setupGateway(t)

	assert.True(t, g.Connected())
	for _, name := range types.StandardTableNames {
		ok, err := tableExists(g.db, name)
		require.NoError(t, err)
		assert.True(t, ok, "table %s should exist", name)
	}
}

func TestConnectTwiceIsNoop(t *testing.T) {
	var buf bytes.Buffer
	g := NewGateway(Options{Logger: logger.New(logger.Options{Out: &buf})})
	path := filepath.Join(t.TempDir(), "a.db")

	require.NoError(t, g.Connect(path))
	t.Cleanup(func() { g.Close() })

	require.NoError(t, g.Connect(filepath.Join(t.TempDir(), "b.db")))
	assert.Equal(t, path, g.Path(), "second connect keeps the first database")
	assert.Contains(t, buf.String(), "already connected")
}

func TestCloseTwiceIsNoop(t *testing.T) {
	var buf bytes.Buffer
	g := NewGateway(Options{Logger: logger.New(logger.Options{Out: &buf})})
	require.NoError(t, g.Connect(filepath.Join(t.TempDir(), "x.db")))

	require.NoError(t, g.Close())
	assert.False(t, g.Connected())

	require.NoError(t, g.Close())
	assert.Contains(t, buf.String(), "already closed")
}

func TestOperationsWhileDisconnected(t *testing.T) {
	g := NewGateway(Options{})
	params := types.Params{Table: types.TagsTable, Attributes: []types.Attribute{types.Attr("name", "x")}}
	where := types.Attr("id", "1")

	_, err := g.InsertValues(params)
	assert.ErrorIs(t, err, types.ErrNotConnected)

	assert.ErrorIs(t, g.UpdateValues(params, where), types.ErrNotConnected)
	assert.ErrorIs(t, g.DeleteRow(params, where), types.ErrNotConnected)

	_, err = g.FindAllRows(params)
	assert.ErrorIs(t, err, types.ErrNotConnected)

	_, err = g.FindRowByAttributes(params)
	assert.ErrorIs(t, err, types.ErrNotConnected)
}

func TestSchemaRunsOnlyWhenBootstrapTableMissing(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "board.db")

	first := filepath.Join(dir, "first.sql")
	require.NoError(t, os.WriteFile(first, []byte(
		"CREATE TABLE users (id INTEGER PRIMARY KEY, username TEXT);\nCREATE TABLE marker (n INTEGER);"), 0o644))

	g := NewGateway(Options{SchemaFile: first})
	require.NoError(t, g.Connect(dbPath))
	require.NoError(t, g.Close())

	// A broken script would fail if it ran; users exists so it must not.
	broken := filepath.Join(dir, "broken.sql")
	require.NoError(t, os.WriteFile(broken, []byte("THIS IS NOT SQL;"), 0o644))

	g = NewGateway(Options{SchemaFile: broken})
	require.NoError(t, g.Connect(dbPath))
	defer g.Close()

	ok, err := tableExists(g.db, "marker")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSchemaFileErrors(t *testing.T) {
	dir := t.TempDir()

	g := NewGateway(Options{SchemaFile: filepath.Join(dir, "missing.sql")})
	err := g.Connect(filepath.Join(dir, "a.db"))
	assert.ErrorIs(t, err, types.ErrSchemaFile)
	assert.False(t, g.Connected(), "failed connect releases the handle")

	broken := filepath.Join(dir, "broken.sql")
	require.NoError(t, os.WriteFile(broken, []byte("CREATE TABLE (;"), 0o644))
	g = NewGateway(Options{SchemaFile: broken})
	err = g.Connect(filepath.Join(dir, "b.db"))
	require.Error(t, err)
	assert.False(t, g.Connected())
}

func TestConnectCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "board.db")
	g := NewGateway(Options{})
	require.NoError(t, g.Connect(path))
	defer g.Close()

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestMemoryDatabase(t *testing.T) {
	g := NewGateway(Options{})
	require.NoError(t, g.Connect(MemoryPath))
	defer g.Close()

	id := insertUser(t, g, "memory")
	row, err := g.FindRowByAttributes(types.Params{
		Table:      types.UsersTable,
		Attributes: []types.Attribute{types.Attr("id", strconv.FormatInt(id, 10))},
	})
	require.NoError(t, err)
	assert.Equal(t, "memory", row["username"])
}

func TestInsertAndFindRow(t *testing.T) {
	g := setupGateway(t)

	id := insertUser(t, g, "alice")
	assert.Equal(t, int64(1), id)

	row, err := g.FindRowByAttributes(types.Params{
		Table:      types.UsersTable,
		Attributes: []types.Attribute{types.Attr("id", "1")},
	})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "1", row["id"])
	assert.Equal(t, "alice", row["username"])
	assert.Equal(t, "alice@example.com", row["email"])
	assert.Contains(t, row, "created_at", "defaults are returned")
}

func TestFindRowAbsentIsNotAnError(t *testing.T) {
	g := setupGateway(t)

	row, err := g.FindRowByAttributes(types.Params{
		Table:      types.UsersTable,
		Attributes: []types.Attribute{types.Attr("id", "99")},
	})
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestFindRowRequiresAttributes(t *testing.T) {
	g := setupGateway(t)

	_, err := g.FindRowByAttributes(types.Params{Table: types.UsersTable})
	assert.ErrorIs(t, err, types.ErrEmptyAttributes)
}

func TestFindRowMatchesAllAttributes(t *testing.T) {
	g := setupGateway(t)

	for _, pair := range [][2]string{{"1", "3"}, {"1", "4"}, {"2", "3"}} {
		_, err := g.InsertValues(types.Params{
			Table:      types.TaskTagsTable,
			Attributes: []types.Attribute{types.Attr("task_id", pair[0]), types.Attr("tag_id", pair[1])},
		})
		require.NoError(t, err)
	}

	row, err := g.FindRowByAttributes(types.Params{
		Table:      types.TaskTagsTable,
		Attributes: []types.Attribute{types.Attr("task_id", "2"), types.Attr("tag_id", "4")},
	})
	require.NoError(t, err)
	assert.Nil(t, row)

	row, err = g.FindRowByAttributes(types.Params{
		Table:      types.TaskTagsTable,
		Attributes: []types.Attribute{types.Attr("task_id", "2"), types.Attr("tag_id", "3")},
	})
	require.NoError(t, err)
	assert.Equal(t, types.Row{"task_id": "2", "tag_id": "3"}, row)
}

func TestFindAllRowsOrderAndFilter(t *testing.T) {
	g := setupGateway(t)

	names := []string{"carol", "alice", "bob"}
	for _, n := range names {
		insertUser(t, g, n)
	}

	rows, err := g.FindAllRows(types.Params{Table: types.UsersTable})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, n := range names {
		assert.Equal(t, n, rows[i]["username"], "insertion order")
	}

	rows, err = g.FindAllRows(types.Params{
		Table:      types.UsersTable,
		Attributes: []types.Attribute{types.Attr("username", "bob")},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "3", rows[0]["id"])
}

func TestFindAllRowsEmptyTable(t *testing.T) {
	g := setupGateway(t)

	rows, err := g.FindAllRows(types.Params{Table: types.TagsTable})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestUpdateValues(t *testing.T) {
	g := setupGateway(t)
	insertUser(t, g, "alice")
	insertUser(t, g, "bob")

	err := g.UpdateValues(types.Params{
		Table:      types.UsersTable,
		Attributes: []types.Attribute{types.Attr("username", "alicia"), types.Attr("email", "alicia@example.com")},
	}, types.Attr("id", "1"))
	require.NoError(t, err)

	rows, err := g.FindAllRows(types.Params{Table: types.UsersTable})
	require.NoError(t, err)
	assert.Equal(t, "alicia", rows[0]["username"])
	assert.Equal(t, "alicia@example.com", rows[0]["email"])
	assert.Equal(t, "bob", rows[1]["username"], "other rows untouched")
}

func TestWhereValueIsBound(t *testing.T) {
	g := setupGateway(t)
	insertUser(t, g, "alice")
	insertUser(t, g, "bob")

	err := g.UpdateValues(types.Params{
		Table:      types.UsersTable,
		Attributes: []types.Attribute{types.Attr("username", "pwned")},
	}, types.Attr("id", "1 OR 1=1"))
	require.NoError(t, err)

	err = g.DeleteRow(types.Params{Table: types.UsersTable}, types.Attr("id", "0 OR 1=1"))
	require.NoError(t, err)

	rows, err := g.FindAllRows(types.Params{Table: types.UsersTable})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "alice", rows[0]["username"])
	assert.Equal(t, "bob", rows[1]["username"])
}

func TestUpdatePreconditions(t *testing.T) {
	g := setupGateway(t)
	set := []types.Attribute{types.Attr("username", "x")}

	assert.ErrorIs(t, g.UpdateValues(types.Params{Attributes: set}, types.Attr("id", "1")), types.ErrEmptyTable)
	assert.ErrorIs(t, g.UpdateValues(types.Params{Table: types.UsersTable}, types.Attr("id", "1")), types.ErrEmptyAttributes)
	assert.ErrorIs(t, g.UpdateValues(types.Params{Table: types.UsersTable, Attributes: set}), types.ErrEmptyWhere)
	assert.ErrorIs(t, g.UpdateValues(types.Params{Table: types.UsersTable, Attributes: set}, types.Attr("id", "")), types.ErrEmptyWhere)
}

func TestInsertPreconditions(t *testing.T) {
	g := setupGateway(t)

	_, err := g.InsertValues(types.Params{Attributes: []types.Attribute{types.Attr("name", "x")}})
	assert.ErrorIs(t, err, types.ErrEmptyTable)

	_, err = g.InsertValues(types.Params{Table: types.TagsTable})
	assert.ErrorIs(t, err, types.ErrEmptyAttributes)
}

func TestDeleteRow(t *testing.T) {
	g := setupGateway(t)
	insertUser(t, g, "alice")
	insertUser(t, g, "bob")

	require.NoError(t, g.DeleteRow(types.Params{Table: types.UsersTable}, types.Attr("id", "1")))
	require.NoError(t, g.DeleteRow(types.Params{Table: types.UsersTable}, types.Attr("id", "1")), "absent row is not an error")

	rows, err := g.FindAllRows(types.Params{Table: types.UsersTable})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "bob", rows[0]["username"])

	assert.ErrorIs(t, g.DeleteRow(types.Params{Table: types.UsersTable}), types.ErrEmptyWhere)
}

func TestStatementErrorCarriesEngineText(t *testing.T) {
	g := setupGateway(t)

	_, err := g.InsertValues(types.Params{
		Table:      "missing_table",
		Attributes: []types.Attribute{types.Attr("name", "x")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such table")

	_, err = g.InsertValues(types.Params{
		Table:      types.UsersTable,
		Attributes: []types.Attribute{types.Attr("username", "only")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOT NULL")
}

func TestRowDecoding(t *testing.T) {
	g := setupGateway(t)

	_, err := g.db.Exec("CREATE TABLE samples (i INTEGER, r REAL, t TEXT, b BLOB, n TEXT)")
	require.NoError(t, err)
	_, err = g.db.Exec("INSERT INTO samples VALUES (?, ?, ?, ?, NULL)", 7, 2.5, "text", []byte{1, 2, 3})
	require.NoError(t, err)

	rows, err := g.FindAllRows(types.Params{Table: "samples"})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, types.Row{
		"i": "7",
		"r": "2.5",
		"t": "text",
		"b": unknownValue,
	}, rows[0])
	assert.NotContains(t, rows[0], "n", "NULL columns are absent")
}

func TestTextBoundIntegersDecodeBack(t *testing.T) {
	g := setupGateway(t)

	_, err := g.InsertValues(types.Params{
		Table: types.TasksTable,
		Attributes: []types.Attribute{
			types.Attr("user_id", "1"),
			types.Attr("title", "t"),
			types.Attr("description", "d"),
			types.Attr("priority", "2"),
			types.Attr("limited_date", "1700000000"),
		},
	})
	require.NoError(t, err)

	row, err := g.FindRowByAttributes(types.Params{
		Table:      types.TasksTable,
		Attributes: []types.Attribute{types.Attr("priority", "2")},
	})
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "1700000000", row["limited_date"])
	assert.Equal(t, "0", row["status"])
}
