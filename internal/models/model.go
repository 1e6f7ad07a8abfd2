// Package models implements the User, Task and Tag entities on top of a
// types.Store.
//
// Entities are created in memory, populated through their typed Create
// method, and persisted with Save. The first Save inserts a row; later saves
// fetch the stored row, diff it against the in-memory fields and update only
// the changed columns. Save and Delete report failure as false and keep the
// message for GetLastError.
package models

import (
	"fmt"
	"strconv"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Entity is the persistence contract shared by User, Task and Tag.
type Entity interface {
	Save() bool
	Delete() bool
	IsPersisted() bool
	GetLastError() string
	LastErr() error
}

// Compile-time interface checks.
var (
	_ Entity = (*User)(nil)
	_ Entity = (*Task)(nil)
	_ Entity = (*Tag)(nil)
)

// base carries the state every entity shares.
type base struct {
	m         *Manager
	id        int64
	persisted bool
	created   bool
	lastErr   error
}

// ID returns the row id, or 0 for a transient entity.
func (b *base) ID() int64 { return b.id }

// IsPersisted reports whether a matching row exists in the store.
func (b *base) IsPersisted() bool { return b.persisted }

// GetLastError returns the message of the most recent failure. Success does
// not clear it.
func (b *base) GetLastError() string {
	if b.lastErr == nil {
		return ""
	}
	return b.lastErr.Error()
}

// LastErr returns the most recent failure itself, so callers can match it
// with errors.Is. It is nil until something fails.
func (b *base) LastErr() error { return b.lastErr }

// record keeps err as the last error and returns it.
func (b *base) record(err error) error {
	if err != nil {
		b.lastErr = err
	}
	return err
}

// fail records err for a bool-returning operation.
func (b *base) fail(op string, err error) bool {
	b.record(err)
	if b.m != nil {
		b.m.log.Warn("{} failed: {}", op, err)
	}
	return false
}

// bound rejects entities that were not obtained from a Manager. A zero
// User, Task or Tag has no store to write to.
func (b *base) bound() error {
	if b.m == nil {
		return fmt.Errorf("%w: entity has no manager, use Manager.New*", types.ErrNotCreated)
	}
	return nil
}

func (b *base) idString() string {
	return strconv.FormatInt(b.id, 10)
}

// insert adds a row and adopts the id the engine assigned.
func (b *base) insert(table string, attrs []types.Attribute) error {
	if err := b.bound(); err != nil {
		return err
	}
	if !b.created {
		return types.ErrNotCreated
	}
	id, err := b.m.store.InsertValues(types.Params{Table: table, Attributes: attrs})
	if err != nil {
		return err
	}
	b.id = id
	b.persisted = true
	return nil
}

// update writes changes to the entity's row. An empty change set is a
// successful no-op.
func (b *base) update(table string, changes []types.Attribute) error {
	if b.id == 0 {
		return types.ErrTransient
	}
	if len(changes) == 0 {
		return nil
	}
	return b.m.store.UpdateValues(
		types.Params{Table: table, Attributes: changes},
		types.Attr(types.ColID, b.idString()),
	)
}

// remove deletes the entity's row and marks it transient in the store.
func (b *base) remove(table string) error {
	if err := b.bound(); err != nil {
		return err
	}
	if b.id == 0 {
		return types.ErrTransient
	}
	err := b.m.store.DeleteRow(types.Params{Table: table}, types.Attr(types.ColID, b.idString()))
	if err != nil {
		return err
	}
	b.persisted = false
	return nil
}

// hydrate marks an entity loaded from row as persisted.
func (b *base) hydrate(m *Manager, row types.Row) error {
	id, err := rowInt(row, types.ColID)
	if err != nil {
		return err
	}
	b.m = m
	b.id = id
	b.persisted = true
	b.created = true
	return nil
}

// rowInt decodes an integer column. A missing column is an error; the
// schema declares every column the entities read NOT NULL.
func rowInt(row types.Row, column string) (int64, error) {
	v, ok := row[column]
	if !ok {
		return 0, fmt.Errorf("decoding row: column %s missing", column)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decoding row: column %s: %w", column, err)
	}
	return n, nil
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
