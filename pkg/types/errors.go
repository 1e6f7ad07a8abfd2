package types

import "errors"

// Store lifecycle errors.
var (
	ErrNotConnected = errors.New("database is not connected")
	ErrSchemaFile   = errors.New("cannot read schema file")
)

// Statement precondition errors. They are returned before any statement is
// built.
var (
	ErrEmptyTable      = errors.New("table name is empty")
	ErrInvalidTable    = errors.New("invalid table name")
	ErrEmptyAttributes = errors.New("attribute list is empty")
	ErrEmptyWhere      = errors.New("where clause is empty")
	ErrInvalidColumn   = errors.New("invalid column name")
)

// Entity errors.
var (
	ErrNotFound     = errors.New("entity not found")
	ErrTransient    = errors.New("entity has no id")
	ErrInvalidField = errors.New("invalid field value")
	ErrUnchanged    = errors.New("value is the same as the current one")
	ErrNotCreated   = errors.New("entity was not created")
)
