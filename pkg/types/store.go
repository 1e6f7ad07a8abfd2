package types

// Store owns the single database connection and executes every statement.
// A Store is either disconnected or connected; data operations on a
// disconnected Store return ErrNotConnected.
//
// Store does no internal locking. Callers embedding it in a concurrent host
// must serialize access themselves.
type Store interface {
	// Connect opens the database file at path and bootstraps the schema the
	// first time. Connecting an already connected Store is a no-op.
	Connect(path string) error

	// Close releases the connection. Closing twice is a no-op.
	Close() error

	// Connected reports whether Connect has succeeded and Close has not
	// been called since.
	Connected() bool

	// InsertValues inserts one row and returns the engine-assigned rowid.
	InsertValues(params Params) (int64, error)

	// UpdateValues sets params.Attributes on the rows matching every where
	// attribute. Where values are bound, never concatenated.
	UpdateValues(params Params, where ...Attribute) error

	// DeleteRow deletes the rows matching every where attribute. Deleting
	// nothing is not an error.
	DeleteRow(params Params, where ...Attribute) error

	// FindAllRows returns every row of params.Table in insertion order,
	// filtered by equality on params.Attributes when present.
	FindAllRows(params Params) ([]Row, error)

	// FindRowByAttributes returns the first row matching equality on
	// params.Attributes, or nil when no row matches.
	FindRowByAttributes(params Params) (Row, error)
}
