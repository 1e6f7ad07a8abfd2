package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Task columns.
const (
	colTitle       = "title"
	colDescription = "description"
	colPriority    = "priority"
	colStatus      = "status"
	colLimitedDate = "limited_date"
)

// Priority is stored as its integer value.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

var priorityNames = []string{"LOW", "MEDIUM", "HIGH"}

func (p Priority) String() string {
	if p < 0 || int(p) >= len(priorityNames) {
		return "Priority(" + strconv.Itoa(int(p)) + ")"
	}
	return priorityNames[p]
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool { return p >= PriorityLow && p <= PriorityHigh }

// ParsePriority accepts a name (any case) or the stored integer.
func ParsePriority(s string) (Priority, error) {
	n, err := parseEnum(s, priorityNames)
	if err != nil {
		return 0, fmt.Errorf("%w: priority %q", types.ErrInvalidField, s)
	}
	return Priority(n), nil
}

func (p Priority) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Priority) UnmarshalText(b []byte) error {
	v, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Status is stored as its integer value.
type Status int

const (
	StatusPending Status = iota
	StatusInProgress
	StatusDone
)

var statusNames = []string{"PENDING", "IN_PROGRESS", "DONE"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
	return statusNames[s]
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool { return s >= StatusPending && s <= StatusDone }

// ParseStatus accepts a name (any case) or the stored integer.
func ParseStatus(s string) (Status, error) {
	n, err := parseEnum(s, statusNames)
	if err != nil {
		return 0, fmt.Errorf("%w: status %q", types.ErrInvalidField, s)
	}
	return Status(n), nil
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func parseEnum(s string, names []string) (int, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range names {
		if upper == name {
			return i, nil
		}
	}
	n, err := strconv.Atoi(upper)
	if err != nil {
		return 0, err
	}
	if n < 0 || n >= len(names) {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// TaskAttributes is the input of Task.Create.
type TaskAttributes struct {
	UserID      int64    `json:"user_id" validate:"gt=0"`
	Title       string   `json:"title" validate:"required,min=1,max=50"`
	Description string   `json:"description" validate:"required,min=1,max=255"`
	Priority    Priority `json:"priority" validate:"gte=0,lte=2"`
	Status      Status   `json:"status" validate:"gte=0,lte=2"`
	LimitDate   int64    `json:"limited_date"`
}

// Task is a unit of work owned by a user.
type Task struct {
	base
	userID      int64
	title       string
	description string
	priority    Priority
	status      Status
	limitDate   int64
	createdAt   int64
	updatedAt   int64
}

// TaskView is the exported form of a Task for JSON output.
type TaskView struct {
	ID          int64    `json:"id"`
	UserID      int64    `json:"user_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
	LimitDate   int64    `json:"limited_date"`
	CreatedAt   int64    `json:"created_at"`
	UpdatedAt   int64    `json:"updated_at"`
}

// Create validates attrs and populates the task.
func (t *Task) Create(attrs TaskAttributes) error {
	if err := checkStruct(attrs); err != nil {
		return t.record(err)
	}
	t.userID = attrs.UserID
	t.title = attrs.Title
	t.description = attrs.Description
	t.priority = attrs.Priority
	t.status = attrs.Status
	t.limitDate = attrs.LimitDate
	t.created = true
	return nil
}

func (t *Task) UserID() int64       { return t.userID }
func (t *Task) Title() string       { return t.title }
func (t *Task) Description() string { return t.description }
func (t *Task) Priority() Priority  { return t.priority }
func (t *Task) Status() Status      { return t.status }
func (t *Task) LimitDate() int64    { return t.limitDate }
func (t *Task) CreatedAt() int64    { return t.createdAt }
func (t *Task) UpdatedAt() int64    { return t.updatedAt }

// View returns the JSON form of t.
func (t *Task) View() TaskView {
	return TaskView{
		ID:          t.id,
		UserID:      t.userID,
		Title:       t.title,
		Description: t.description,
		Priority:    t.priority,
		Status:      t.status,
		LimitDate:   t.limitDate,
		CreatedAt:   t.createdAt,
		UpdatedAt:   t.updatedAt,
	}
}

// SetTitle changes the title; it must be 1 to 50 characters.
func (t *Task) SetTitle(title string) error {
	if err := checkField(colTitle, title, ruleTitle); err != nil {
		return t.record(err)
	}
	t.title = title
	return nil
}

// SetDescription changes the description; it must be 1 to 255 characters.
func (t *Task) SetDescription(description string) error {
	if err := checkField(colDescription, description, ruleDescription); err != nil {
		return t.record(err)
	}
	t.description = description
	return nil
}

func (t *Task) SetPriority(p Priority) error {
	if !p.Valid() {
		return t.record(fmt.Errorf("%w: priority %d", types.ErrInvalidField, int(p)))
	}
	t.priority = p
	return nil
}

func (t *Task) SetStatus(s Status) error {
	if !s.Valid() {
		return t.record(fmt.Errorf("%w: status %d", types.ErrInvalidField, int(s)))
	}
	t.status = s
	return nil
}

func (t *Task) SetLimitDate(date int64) error {
	t.limitDate = date
	return nil
}

// GetUser returns the owner. An owner that no longer exists is ErrNotFound.
func (t *Task) GetUser() (*User, error) {
	if err := t.bound(); err != nil {
		return nil, t.record(err)
	}
	u, err := t.m.FindUserByID(t.userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, t.record(fmt.Errorf("%w: user %d owning task %d", types.ErrNotFound, t.userID, t.id))
	}
	return u, nil
}

// Save inserts the task on first call and afterwards updates the columns
// that differ from the stored row.
func (t *Task) Save() bool {
	if err := t.save(); err != nil {
		return t.fail("Saving task", err)
	}
	return true
}

func (t *Task) save() error {
	if err := t.bound(); err != nil {
		return err
	}
	if !t.persisted {
		now := t.m.now().Unix()
		err := t.insert(types.TasksTable, []types.Attribute{
			types.Attr(types.ColUserID, formatInt(t.userID)),
			types.Attr(colTitle, t.title),
			types.Attr(colDescription, t.description),
			types.Attr(colLimitedDate, formatInt(t.limitDate)),
			types.Attr(colPriority, strconv.Itoa(int(t.priority))),
			types.Attr(colStatus, strconv.Itoa(int(t.status))),
			types.Attr(types.ColCreatedAt, formatInt(now)),
			types.Attr(types.ColUpdatedAt, formatInt(now)),
		})
		if err != nil {
			return err
		}
		t.createdAt, t.updatedAt = now, now
		return nil
	}

	if t.id == 0 {
		return types.ErrTransient
	}
	current, err := t.m.FindTaskByID(t.id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("%w: task %d", types.ErrNotFound, t.id)
	}

	var changes []types.Attribute
	if current.title != t.title {
		changes = append(changes, types.Attr(colTitle, t.title))
	}
	if current.description != t.description {
		changes = append(changes, types.Attr(colDescription, t.description))
	}
	if current.limitDate != t.limitDate {
		changes = append(changes, types.Attr(colLimitedDate, formatInt(t.limitDate)))
	}
	if current.priority != t.priority {
		changes = append(changes, types.Attr(colPriority, strconv.Itoa(int(t.priority))))
	}
	if current.status != t.status {
		changes = append(changes, types.Attr(colStatus, strconv.Itoa(int(t.status))))
	}
	if len(changes) == 0 {
		return nil
	}

	now := t.m.now().Unix()
	changes = append(changes, types.Attr(types.ColUpdatedAt, formatInt(now)))
	if err := t.update(types.TasksTable, changes); err != nil {
		return err
	}
	t.updatedAt = now
	return nil
}

// Delete removes the task row, then its tag assignments.
func (t *Task) Delete() bool {
	if err := t.remove(types.TasksTable); err != nil {
		return t.fail("Deleting task", err)
	}
	err := t.m.store.DeleteRow(types.Params{Table: types.TaskTagsTable}, types.Attr(types.ColTaskID, t.idString()))
	if err != nil {
		return t.fail("Deleting task tags", err)
	}
	return true
}

func (m *Manager) taskFromRow(row types.Row) (*Task, error) {
	t := &Task{
		title:       row[colTitle],
		description: row[colDescription],
	}
	if err := t.hydrate(m, row); err != nil {
		return nil, err
	}
	ints := []struct {
		col string
		dst *int64
	}{
		{types.ColUserID, &t.userID},
		{colLimitedDate, &t.limitDate},
		{types.ColCreatedAt, &t.createdAt},
		{types.ColUpdatedAt, &t.updatedAt},
	}
	for _, f := range ints {
		v, err := rowInt(row, f.col)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}
	p, err := rowInt(row, colPriority)
	if err != nil {
		return nil, err
	}
	s, err := rowInt(row, colStatus)
	if err != nil {
		return nil, err
	}
	t.priority = Priority(p)
	t.status = Status(s)
	return t, nil
}
