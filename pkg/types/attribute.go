package types

// Attribute is a single column/value pair used to build a statement.
// Values are always carried as text; integers and enumerations are
// stringified by the caller before binding.
type Attribute struct {
	Name  string
	Value string
}

// Params groups the target table with the ordered attributes of a statement.
// For inserts and updates the attribute order is the bind order.
type Params struct {
	Table      string
	Attributes []Attribute
}

// Row maps column names to their string form. NULL columns have no key.
type Row map[string]string

// Attr is shorthand for building an Attribute.
func Attr(name, value string) Attribute {
	return Attribute{Name: name, Value: value}
}

// Values returns the attribute values in bind order as driver arguments.
func (p Params) Values() []any {
	return attributeValues(p.Attributes)
}

func attributeValues(attrs []Attribute) []any {
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a.Value
	}
	return args
}

// AttributeValues returns the values of attrs as driver arguments.
func AttributeValues(attrs []Attribute) []any {
	return attributeValues(attrs)
}
