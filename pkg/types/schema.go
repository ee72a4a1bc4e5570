package types

import "fmt"

// ColumnType is a column's declared type: Int, Float, or Varchar(n).
// Width is 8 for Int/Float and exactly n for Varchar(n).
type ColumnType struct {
	Kind  Kind
	Width int
}

func IntType() ColumnType   { return ColumnType{Kind: Int, Width: 8} }
func FloatType() ColumnType { return ColumnType{Kind: Float, Width: 8} }

// VarcharType returns a Varchar(n) type. n must be at least 1 — the slot
// always reserves one byte for the NUL terminator.
func VarcharType(n int) (ColumnType, error) {
	if n < 1 {
		return ColumnType{}, fmt.Errorf("varchar width must be > 0, got %d", n)
	}
	return ColumnType{Kind: Text, Width: n}, nil
}

func (t ColumnType) String() string {
	if t.Kind == Text {
		return fmt.Sprintf("VARCHAR(%d)", t.Width)
	}
	return t.Kind.String()
}

// Column is one schema entry: its name, its type, and whether it is the
// table's primary key (always true for index 0, false elsewhere).
type Column struct {
	Name string
	Type ColumnType
	PK   bool
}

func NewIntColumn(name string, pk bool) Column   { return Column{Name: name, Type: IntType(), PK: pk} }
func NewFloatColumn(name string, pk bool) Column { return Column{Name: name, Type: FloatType(), PK: pk} }

func NewVarcharColumn(name string, width int, pk bool) (Column, error) {
	t, err := VarcharType(width)
	if err != nil {
		return Column{}, err
	}
	return Column{Name: name, Type: t, PK: pk}, nil
}

// Schema is a table's immutable column list plus its name. Column 0 is
// always the primary key.
type Schema struct {
	TableName string
	Columns   []Column
}

// NewSchema validates that columns are non-empty, that names are unique,
// and that exactly the first column is marked PK.
func NewSchema(tableName string, columns []Column) (*Schema, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %q must declare at least one column", tableName)
	}
	seen := make(map[string]bool, len(columns))
	for i, c := range columns {
		if seen[c.Name] {
			return nil, fmt.Errorf("duplicate column %q in table %q", c.Name, tableName)
		}
		seen[c.Name] = true
		if i == 0 && !c.PK {
			return nil, fmt.Errorf("internal error: first column of %q must be primary key", tableName)
		}
		if i > 0 && c.PK {
			return nil, fmt.Errorf("internal error: only the first column of %q may be primary key", tableName)
		}
	}
	return &Schema{TableName: tableName, Columns: columns}, nil
}

// RowWidth is the sum of every column's width — the size of one packed row.
func (s *Schema) RowWidth() int {
	w := 0
	for _, c := range s.Columns {
		w += c.Type.Width
	}
	return w
}

// Offset returns the byte offset of column index i within a packed row.
func (s *Schema) Offset(i int) int {
	off := 0
	for j := 0; j < i; j++ {
		off += s.Columns[j].Type.Width
	}
	return off
}

// IndexOf returns the position of a column by name, or -1.
func (s *Schema) IndexOf(name string) int {
	for i, c := range s.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// EncodeRow packs one value per column, in schema order, into a fresh
// row-sized buffer.
func (s *Schema) EncodeRow(values []Value) ([]byte, error) {
	if len(values) != len(s.Columns) {
		return nil, fmt.Errorf("expected %d values, got %d", len(s.Columns), len(values))
	}
	buf := make([]byte, s.RowWidth())
	off := 0
	for i, c := range s.Columns {
		if err := encodeInto(buf[off:off+c.Type.Width], values[i], c.Type); err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}
		off += c.Type.Width
	}
	return buf, nil
}

// DecodeRow unpacks every column of a row buffer, in schema order.
func (s *Schema) DecodeRow(row []byte) []Value {
	values := make([]Value, len(s.Columns))
	off := 0
	for i, c := range s.Columns {
		values[i] = decodeFrom(row[off:off+c.Type.Width], c.Type)
		off += c.Type.Width
	}
	return values
}

// DecodeColumn unpacks only column index i out of a row buffer.
func (s *Schema) DecodeColumn(row []byte, i int) Value {
	off := s.Offset(i)
	return decodeFrom(row[off:off+s.Columns[i].Type.Width], s.Columns[i].Type)
}
