package dataset

// Schema is the read-only view of a dataset's columns that validation needs.
// Implementations must not change between calls made during one validation.
type Schema interface {
	// ColumnNames returns every column name exactly once.
	ColumnNames() []string
	// ColumnType returns the declared type of name, or ok=false if the
	// column does not exist.
	ColumnType(name string) (TypeDescriptor, bool)
}

// Columns is an ordered, in-memory Schema. The zero value is not usable; use
// NewColumns.
type Columns struct {
	order []string
	types map[string]TypeDescriptor
}

// NewColumns returns an empty Columns.
func NewColumns() *Columns {
	return &Columns{types: make(map[string]TypeDescriptor)}
}

// Add appends a column. Adding a name that already exists replaces its type
// and keeps its original position.
func (c *Columns) Add(name string, t TypeDescriptor) *Columns {
	if _, ok := c.types[name]; !ok {
		c.order = append(c.order, name)
	}
	c.types[name] = t
	return c
}

// ColumnNames returns the column names in insertion order.
func (c *Columns) ColumnNames() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// ColumnType implements Schema.
func (c *Columns) ColumnType(name string) (TypeDescriptor, bool) {
	t, ok := c.types[name]
	return t, ok
}

// Len returns the number of columns.
func (c *Columns) Len() int {
	return len(c.order)
}

// Compile-time check that Columns satisfies the interface.
var _ Schema = (*Columns)(nil)
