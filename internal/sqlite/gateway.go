// Package sqlite implements the Store Gateway on top of SQLite.
//
// The gateway owns exactly one connection, opened by Connect and released by
// Close. Every statement is prepared, bound with text parameters, executed
// once and finalized on every exit path.
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/taskboard/internal/logger"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// driverName is the database/sql driver registered by modernc.org/sqlite.
const driverName = "sqlite"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Compile-time interface check.
var _ types.Store = (*Gateway)(nil)

// Options configures a Gateway.
type Options struct {
	// SchemaFile is read and executed on first Connect instead of the
	// embedded schema when set.
	SchemaFile string

	// Logger receives lifecycle and statement logs. Nil discards them.
	Logger *logger.Logger
}

// Gateway implements types.Store. It is either disconnected (db is nil) or
// connected. It does no locking; callers serialize access.
type Gateway struct {
	db         *sql.DB
	path       string
	schemaFile string
	log        *logger.Logger
}

// NewGateway returns a disconnected Gateway.
func NewGateway(opts Options) *Gateway {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Gateway{
		schemaFile: opts.SchemaFile,
		log:        log,
	}
}

// Connect opens the database at path. When the bootstrap table is missing
// the schema script runs once. Connecting twice logs a warning and returns
// nil. On any failure the handle is released before returning.
func (g *Gateway) Connect(path string) error {
	g.log.Info("Connecting to the local database {}", path)

	if g.db != nil {
		g.log.Warn("Database is already connected to {}", g.path)
		return nil
	}

	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating database directory: %w", err)
			}
		}
	}

	db, err := sql.Open(driverName, path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	// One connection for the process lifetime; an in-memory database only
	// exists on the connection that created it.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("opening database: %w", err)
	}

	exists, err := tableExists(db, types.BootstrapTable)
	if err != nil {
		db.Close()
		return err
	}
	if !exists {
		if err := g.executeSchema(db); err != nil {
			db.Close()
			return err
		}
	}

	g.db = db
	g.path = path
	g.log.Info("Database connected successfully")
	return nil
}

// Close releases the connection. Closing a disconnected Gateway logs a
// warning and returns nil.
func (g *Gateway) Close() error {
	if g.db == nil {
		g.log.Warn("Database is already closed or not connected")
		return nil
	}
	if err := g.db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	g.db = nil
	g.path = ""
	g.log.Info("Database closed successfully")
	return nil
}

// Connected reports whether the Gateway holds an open connection.
func (g *Gateway) Connected() bool {
	return g.db != nil
}

// Path returns the path of the open database, or "" when disconnected.
func (g *Gateway) Path() string {
	return g.path
}

// InsertValues inserts params.Attributes into params.Table and returns the
// new rowid.
func (g *Gateway) InsertValues(params types.Params) (int64, error) {
	if err := checkTable(params.Table); err != nil {
		return 0, err
	}
	columns, placeholders, err := FormatAttributes(params.Attributes, false)
	if err != nil {
		return 0, err
	}
	if g.db == nil {
		return 0, types.ErrNotConnected
	}

	query := "INSERT INTO " + params.Table + " " + columns + " VALUES " + placeholders
	res, err := g.exec(query, params.Values())
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading insert id: %w", err)
	}
	return id, nil
}

// UpdateValues sets params.Attributes on the rows of params.Table matching
// every where attribute. Attribute values bind first, where values after.
func (g *Gateway) UpdateValues(params types.Params, where ...types.Attribute) error {
	if err := checkTable(params.Table); err != nil {
		return err
	}
	assignments, _, err := FormatAttributes(params.Attributes, true)
	if err != nil {
		return err
	}
	cond, err := formatWhere(where)
	if err != nil {
		return err
	}
	if g.db == nil {
		return types.ErrNotConnected
	}

	query := "UPDATE " + params.Table + " SET " + assignments + " WHERE " + cond
	args := append(params.Values(), types.AttributeValues(where)...)
	_, err = g.exec(query, args)
	return err
}

// DeleteRow deletes the rows of params.Table matching every where attribute.
// The statement succeeding is success, whether or not a row existed.
func (g *Gateway) DeleteRow(params types.Params, where ...types.Attribute) error {
	if err := checkTable(params.Table); err != nil {
		return err
	}
	cond, err := formatWhere(where)
	if err != nil {
		return err
	}
	if g.db == nil {
		return types.ErrNotConnected
	}

	query := "DELETE FROM " + params.Table + " WHERE " + cond
	_, err = g.exec(query, types.AttributeValues(where))
	return err
}

// FindAllRows returns the rows of params.Table in insertion order. When
// params.Attributes is non-empty each attribute is an equality predicate.
func (g *Gateway) FindAllRows(params types.Params) ([]types.Row, error) {
	if err := checkTable(params.Table); err != nil {
		return nil, err
	}
	query, err := selectQuery(params)
	if err != nil {
		return nil, err
	}
	if g.db == nil {
		return nil, types.ErrNotConnected
	}

	return g.query(query, params.Values(), 0)
}

// FindRowByAttributes returns the first row of params.Table matching
// equality on params.Attributes, or nil when none matches. Absence is not an
// error.
func (g *Gateway) FindRowByAttributes(params types.Params) (types.Row, error) {
	if err := checkTable(params.Table); err != nil {
		return nil, err
	}
	if len(params.Attributes) == 0 {
		return nil, types.ErrEmptyAttributes
	}
	query, err := selectQuery(params)
	if err != nil {
		return nil, err
	}
	if g.db == nil {
		return nil, types.ErrNotConnected
	}

	rows, err := g.query(query+" LIMIT 1", params.Values(), 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func selectQuery(params types.Params) (string, error) {
	query := "SELECT * FROM " + params.Table
	cond, err := formatFilter(params.Attributes)
	if err != nil {
		return "", err
	}
	if cond != "" {
		query += " WHERE " + cond
	}
	return query + " ORDER BY rowid", nil
}

// exec prepares, binds and runs a statement that returns no rows.
func (g *Gateway) exec(query string, args []any) (sql.Result, error) {
	g.log.Debug("Executing SQL statement: {}", query)

	stmt, err := g.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(args...)
	if err != nil {
		return nil, fmt.Errorf("executing statement: %w", err)
	}
	return res, nil
}

// query prepares and runs a SELECT, mapping every result row. A positive
// limit stops reading after that many rows.
func (g *Gateway) query(query string, args []any, limit int) ([]types.Row, error) {
	g.log.Debug("Executing SQL statement: {}", query)

	stmt, err := g.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, fmt.Errorf("executing statement: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	result := []types.Row{}
	for rows.Next() {
		row, err := scanRow(rows, columns)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return result, nil
}

// tableExists reports whether a table called name exists in db.
func tableExists(db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRow(
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking table %s: %w", name, err)
	}
	return count > 0, nil
}

// executeSchema runs the configured schema file, or the embedded schema.
func (g *Gateway) executeSchema(db *sql.DB) error {
	script := schemaSQL
	source := "embedded schema"
	if g.schemaFile != "" {
		data, err := os.ReadFile(g.schemaFile)
		if err != nil {
			return fmt.Errorf("%w %s: %w", types.ErrSchemaFile, g.schemaFile, err)
		}
		script = string(data)
		source = g.schemaFile
	}
	if len(script) == 0 {
		return fmt.Errorf("%w %s: empty", types.ErrSchemaFile, source)
	}

	if _, err := db.Exec(script); err != nil {
		return fmt.Errorf("executing %s: %w", source, err)
	}
	g.log.Debug("SQL file executed successfully: {}", source)
	return nil
}
