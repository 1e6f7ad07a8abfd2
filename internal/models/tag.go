package models

import (
	"fmt"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Tag columns.
const (
	colName  = "name"
	colColor = "color"
)

// TagAttributes is the input of Tag.Create.
type TagAttributes struct {
	UserID int64  `json:"user_id" validate:"gt=0"`
	Name   string `json:"name" validate:"required,min=1,max=20"`
	Color  string `json:"color" validate:"required,min=1,max=20,tag_color"`
}

// Tag is a colored label a user attaches to tasks.
type Tag struct {
	base
	userID int64
	name   string
	color  string
}

// TagView is the exported form of a Tag for JSON output.
type TagView struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}

// Create validates attrs and populates the tag.
func (t *Tag) Create(attrs TagAttributes) error {
	if err := checkStruct(attrs); err != nil {
		return t.record(err)
	}
	t.userID = attrs.UserID
	t.name = attrs.Name
	t.color = attrs.Color
	t.created = true
	return nil
}

func (t *Tag) UserID() int64 { return t.userID }
func (t *Tag) Name() string  { return t.name }
func (t *Tag) Color() string { return t.color }

// View returns the JSON form of t.
func (t *Tag) View() TagView {
	return TagView{ID: t.id, UserID: t.userID, Name: t.name, Color: t.color}
}

func (t *Tag) SetName(name string) error {
	if err := checkField(colName, name, ruleTagName); err != nil {
		return t.record(err)
	}
	t.name = name
	return nil
}

// SetColor accepts #RRGGBB or #RGB.
func (t *Tag) SetColor(color string) error {
	if err := checkField(colColor, color, ruleTagColor); err != nil {
		return t.record(err)
	}
	t.color = color
	return nil
}

// Save inserts the tag on first call and afterwards updates the columns
// that differ from the stored row.
func (t *Tag) Save() bool {
	if err := t.save(); err != nil {
		return t.fail("Saving tag", err)
	}
	return true
}

func (t *Tag) save() error {
	if err := t.bound(); err != nil {
		return err
	}
	if !t.persisted {
		return t.insert(types.TagsTable, []types.Attribute{
			types.Attr(types.ColUserID, formatInt(t.userID)),
			types.Attr(colName, t.name),
			types.Attr(colColor, t.color),
		})
	}

	current, err := t.m.FindTagByID(t.id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("%w: tag %d", types.ErrNotFound, t.id)
	}

	var changes []types.Attribute
	if current.name != t.name {
		changes = append(changes, types.Attr(colName, t.name))
	}
	if current.color != t.color {
		changes = append(changes, types.Attr(colColor, t.color))
	}
	return t.update(types.TagsTable, changes)
}

// Delete removes the tag row and then every assignment of the tag. The
// assignments are left alone when the tag row cannot be deleted.
func (t *Tag) Delete() bool {
	if err := t.remove(types.TagsTable); err != nil {
		return t.fail("Deleting tag", err)
	}
	err := t.m.store.DeleteRow(types.Params{Table: types.TaskTagsTable}, types.Attr(types.ColTagID, t.idString()))
	if err != nil {
		return t.fail("Deleting tag assignments", err)
	}
	return true
}

func (m *Manager) tagFromRow(row types.Row) (*Tag, error) {
	t := &Tag{
		name:  row[colName],
		color: row[colColor],
	}
	if err := t.hydrate(m, row); err != nil {
		return nil, err
	}
	userID, err := rowInt(row, types.ColUserID)
	if err != nil {
		return nil, err
	}
	t.userID = userID
	return t, nil
}
