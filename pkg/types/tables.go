package types

// Table names of the taskboard schema.
const (
	UsersTable    = "users"
	TasksTable    = "tasks"
	TagsTable     = "tags"
	TaskTagsTable = "task_tags"
)

// BootstrapTable is checked on Connect; when it is missing the schema
// script runs.
const BootstrapTable = UsersTable

// StandardTableNames lists all table names for enumeration.
var StandardTableNames = []string{
	UsersTable,
	TasksTable,
	TagsTable,
	TaskTagsTable,
}

// Column names shared across tables.
const (
	ColID        = "id"
	ColUserID    = "user_id"
	ColTaskID    = "task_id"
	ColTagID     = "tag_id"
	ColCreatedAt = "created_at"
	ColUpdatedAt = "updated_at"
)
