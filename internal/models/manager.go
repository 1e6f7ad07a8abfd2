package models

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/taskboard/internal/logger"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Manager builds entities bound to a store and implements the finders and
// the task/tag join operations.
type Manager struct {
	store  types.Store
	hasher Hasher
	log    *logger.Logger
	now    func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithHasher replaces the bcrypt hasher.
func WithHasher(h Hasher) Option {
	return func(m *Manager) { m.hasher = h }
}

// WithLogger sets the logger used for failure reports.
func WithLogger(l *logger.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithClock sets the time source for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager returns a Manager over store. The store must be connected
// before any entity is saved or looked up.
func NewManager(store types.Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		hasher: DefaultHasher,
		log:    logger.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewUser returns a transient User.
func (m *Manager) NewUser() *User {
	return &User{base: base{m: m}}
}

// NewTask returns a transient Task.
func (m *Manager) NewTask() *Task {
	return &Task{base: base{m: m}}
}

// NewTag returns a transient Tag.
func (m *Manager) NewTag() *Tag {
	return &Tag{base: base{m: m}}
}

// FindUserByID returns the user with id, or nil when there is none.
func (m *Manager) FindUserByID(id int64) (*User, error) {
	row, err := m.findOne(types.UsersTable, types.Attr(types.ColID, formatInt(id)))
	if err != nil || row == nil {
		return nil, err
	}
	return m.userFromRow(row)
}

// FindUserByUsername returns the first user called username, or nil.
func (m *Manager) FindUserByUsername(username string) (*User, error) {
	row, err := m.findOne(types.UsersTable, types.Attr(colUsername, username))
	if err != nil || row == nil {
		return nil, err
	}
	return m.userFromRow(row)
}

// FindTaskByID returns the task with id, or nil when there is none.
func (m *Manager) FindTaskByID(id int64) (*Task, error) {
	row, err := m.findOne(types.TasksTable, types.Attr(types.ColID, formatInt(id)))
	if err != nil || row == nil {
		return nil, err
	}
	return m.taskFromRow(row)
}

// FindTagByID returns the tag with id, or nil when there is none.
func (m *Manager) FindTagByID(id int64) (*Tag, error) {
	row, err := m.findOne(types.TagsTable, types.Attr(types.ColID, formatInt(id)))
	if err != nil || row == nil {
		return nil, err
	}
	return m.tagFromRow(row)
}

// GetAllTaskByUserID returns the tasks owned by userID in insertion order.
func (m *Manager) GetAllTaskByUserID(userID int64) ([]*Task, error) {
	rows, err := m.store.FindAllRows(types.Params{
		Table:      types.TasksTable,
		Attributes: []types.Attribute{types.Attr(types.ColUserID, formatInt(userID))},
	})
	if err != nil {
		return nil, err
	}
	tasks := make([]*Task, 0, len(rows))
	for _, row := range rows {
		t, err := m.taskFromRow(row)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// GetAllTagsOfUser returns the tags owned by userID in insertion order.
func (m *Manager) GetAllTagsOfUser(userID int64) ([]*Tag, error) {
	rows, err := m.store.FindAllRows(types.Params{
		Table:      types.TagsTable,
		Attributes: []types.Attribute{types.Attr(types.ColUserID, formatInt(userID))},
	})
	if err != nil {
		return nil, err
	}
	tags := make([]*Tag, 0, len(rows))
	for _, row := range rows {
		t, err := m.tagFromRow(row)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, nil
}

// GetAllTagsOfTask returns the tags assigned to taskID in assignment order.
// Join rows pointing at a missing tag are skipped.
func (m *Manager) GetAllTagsOfTask(taskID int64) ([]*Tag, error) {
	rows, err := m.store.FindAllRows(types.Params{
		Table:      types.TaskTagsTable,
		Attributes: []types.Attribute{types.Attr(types.ColTaskID, formatInt(taskID))},
	})
	if err != nil {
		return nil, err
	}
	tags := make([]*Tag, 0, len(rows))
	for _, row := range rows {
		tagID, err := rowInt(row, types.ColTagID)
		if err != nil {
			return nil, err
		}
		tag, err := m.FindTagByID(tagID)
		if err != nil {
			return nil, err
		}
		if tag == nil {
			continue
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// AssignTagToTask links taskID and tagID. Assigning an existing pair is a
// success and adds no row.
func (m *Manager) AssignTagToTask(taskID, tagID int64) error {
	if taskID == 0 || tagID == 0 {
		return types.ErrTransient
	}
	has, err := m.TaskHasTag(taskID, tagID)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = m.store.InsertValues(types.Params{
		Table:      types.TaskTagsTable,
		Attributes: joinAttributes(taskID, tagID),
	})
	if err != nil {
		return fmt.Errorf("assigning tag %d to task %d: %w", tagID, taskID, err)
	}
	return nil
}

// RemoveTagOfTask unlinks taskID and tagID. Removing an absent pair is not
// an error.
func (m *Manager) RemoveTagOfTask(taskID, tagID int64) error {
	if taskID == 0 || tagID == 0 {
		return types.ErrTransient
	}
	err := m.store.DeleteRow(types.Params{Table: types.TaskTagsTable}, joinAttributes(taskID, tagID)...)
	if err != nil {
		return fmt.Errorf("removing tag %d from task %d: %w", tagID, taskID, err)
	}
	return nil
}

// TaskHasTag reports whether the pair is linked.
func (m *Manager) TaskHasTag(taskID, tagID int64) (bool, error) {
	row, err := m.findOne(types.TaskTagsTable, joinAttributes(taskID, tagID)...)
	if err != nil {
		return false, err
	}
	return row != nil, nil
}

func (m *Manager) findOne(table string, attrs ...types.Attribute) (types.Row, error) {
	return m.store.FindRowByAttributes(types.Params{Table: table, Attributes: attrs})
}

func joinAttributes(taskID, tagID int64) []types.Attribute {
	return []types.Attribute{
		types.Attr(types.ColTaskID, formatInt(taskID)),
		types.Attr(types.ColTagID, formatInt(tagID)),
	}
}
