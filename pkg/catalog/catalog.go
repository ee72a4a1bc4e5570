// Package catalog holds the in-memory table store: named tables, each a
// schema plus a packed row buffer, with primary-key uniqueness enforced on
// every insert and update.
package catalog

import (
	"fmt"

	"github.com/Chahine-tech/miniql/pkg/types"
)

// DefaultInitialCapacity is the row capacity a freshly created table
// starts with before it ever needs to grow.
const DefaultInitialCapacity = 16

// DefaultMaxTables bounds how many tables a Catalog will hold.
const DefaultMaxTables = 128

// Table is one named table: its immutable schema and a dense, packed row
// buffer. Capacity doubles whenever an insert would overflow it.
type Table struct {
	Schema   *types.Schema
	rows     []byte // nb_rows * RowWidth() bytes, packed
	nbRows   int
	capacity int
}

// RestoreRaw rebuilds a Table directly from already-decoded snapshot
// fields (pkg/snapshot), skipping the normal capacity-doubling path since
// the file already recorded the capacity it was saved with.
func RestoreRaw(schema *types.Schema, rows []byte, nbRows, capacity int) *Table {
	width := schema.RowWidth()
	buf := make([]byte, width*capacity)
	copy(buf, rows)
	return &Table{Schema: schema, rows: buf, nbRows: nbRows, capacity: capacity}
}

func newTable(schema *types.Schema, initialCapacity int) *Table {
	width := schema.RowWidth()
	return &Table{
		Schema:   schema,
		rows:     make([]byte, width*initialCapacity),
		nbRows:   0,
		capacity: initialCapacity,
	}
}

// NumRows reports how many live rows the table currently holds.
func (t *Table) NumRows() int { return t.nbRows }

// Capacity reports the table's current row capacity.
func (t *Table) Capacity() int { return t.capacity }

func (t *Table) rowSlot(index int) []byte {
	w := t.Schema.RowWidth()
	return t.rows[index*w : (index+1)*w]
}

func (t *Table) grow() {
	t.capacity *= 2
	w := t.Schema.RowWidth()
	grown := make([]byte, w*t.capacity)
	copy(grown, t.rows[:w*t.nbRows])
	t.rows = grown
}

// Row returns the decoded values of row index.
func (t *Table) Row(index int) []types.Value {
	return t.Schema.DecodeRow(t.rowSlot(index))
}

// RawRow returns the packed bytes of row index, read-only.
func (t *Table) RawRow(index int) []byte {
	return t.rowSlot(index)
}

// insert appends an already-encoded row, growing capacity if needed. The
// caller has already validated arity and primary-key constraints.
func (t *Table) insert(encoded []byte) {
	if t.nbRows == t.capacity {
		t.grow()
	}
	copy(t.rowSlot(t.nbRows), encoded)
	t.nbRows++
}

// pkValueAt returns the primary-key value of row index (column 0).
func (t *Table) pkValueAt(index int) types.Value {
	return t.Schema.DecodeColumn(t.rowSlot(index), 0)
}

// hasPKConflict reports whether pk already appears as a live row's primary
// key, skipping row index `exclude` (pass -1 to exclude nothing).
func (t *Table) hasPKConflict(pk types.Value, exclude int) bool {
	for i := 0; i < t.nbRows; i++ {
		if i == exclude {
			continue
		}
		if t.pkValueAt(i).Equal(pk) {
			return true
		}
	}
	return false
}

// Insert validates arity, primary-key non-emptiness and uniqueness, encodes
// the row, and appends it.
func (t *Table) Insert(values []types.Value) error {
	if len(values) != len(t.Schema.Columns) {
		return fmt.Errorf("expected %d values, got %d", len(t.Schema.Columns), len(values))
	}
	pk := values[0]
	if pk.Kind == types.Text && pk.S == "" {
		return fmt.Errorf("primary key can't be null")
	}
	if t.hasPKConflict(pk, -1) {
		return fmt.Errorf("primary key must be unique")
	}
	encoded, err := t.Schema.EncodeRow(values)
	if err != nil {
		return err
	}
	t.insert(encoded)
	return nil
}

// Predicate decides whether a decoded row should be kept/matched.
type Predicate func(row []types.Value) (bool, error)

// Delete removes every row matching pred (nil means "match everything"),
// scanning from the last row to the first and compacting over deletions —
// mirroring the reference engine's last-to-first sweep.
func (t *Table) Delete(pred Predicate) (int, error) {
	if pred == nil {
		removed := t.nbRows
		t.nbRows = 0
		return removed, nil
	}
	removed := 0
	w := t.Schema.RowWidth()
	for i := t.nbRows - 1; i >= 0; i-- {
		match, err := pred(t.Row(i))
		if err != nil {
			return removed, err
		}
		if !match {
			continue
		}
		copy(t.rows[i*w:], t.rows[(i+1)*w:t.nbRows*w])
		t.nbRows--
		removed++
	}
	return removed, nil
}

// Assignment is one SET clause: the target column index and its new value.
type Assignment struct {
	ColIndex int
	Value    types.Value
}

// Update applies assignments to every row matching pred. Primary-key
// writes are validated before anything is written (two-pass: validate,
// then write) so a mid-scan PK conflict cannot leave the table partially
// mutated; a row being updated to its own current PK value is allowed.
// Since a single SET clause assigns the same literal to every matched row,
// two or more matched rows colliding on that new value is caught simply by
// rejecting a PK-touching UPDATE that matches more than one row — the
// one-row case is still checked against every other live row's current
// value.
func (t *Table) Update(assignments []Assignment, pred Predicate) error {
	matched := make([]int, 0, t.nbRows)
	for i := 0; i < t.nbRows; i++ {
		ok, err := func() (bool, error) {
			if pred == nil {
				return true, nil
			}
			return pred(t.Row(i))
		}()
		if err != nil {
			return err
		}
		if ok {
			matched = append(matched, i)
		}
	}

	for _, a := range assignments {
		if a.ColIndex != 0 {
			continue
		}
		if a.Value.Kind == types.Text && a.Value.S == "" {
			return fmt.Errorf("primary key can't be null")
		}
		if len(matched) > 1 {
			return fmt.Errorf("primary key must be unique")
		}
		for _, rowIdx := range matched {
			if t.hasPKConflict(a.Value, rowIdx) {
				return fmt.Errorf("primary key must be unique")
			}
		}
	}

	for _, rowIdx := range matched {
		slot := t.rowSlot(rowIdx)
		values := t.Schema.DecodeRow(slot)
		for _, a := range assignments {
			values[a.ColIndex] = a.Value
		}
		encoded, err := t.Schema.EncodeRow(values)
		if err != nil {
			return err
		}
		copy(slot, encoded)
	}
	return nil
}

// Catalog is the named-table store. Table name comparison is exact and
// case-sensitive.
type Catalog struct {
	tables          map[string]*Table
	order           []string // insertion order, for stable .tables listing
	initialCapacity int
	maxTables       int
}

func New(initialCapacity, maxTables int) *Catalog {
	if initialCapacity <= 0 {
		initialCapacity = DefaultInitialCapacity
	}
	if maxTables <= 0 {
		maxTables = DefaultMaxTables
	}
	return &Catalog{
		tables:          make(map[string]*Table),
		initialCapacity: initialCapacity,
		maxTables:       maxTables,
	}
}

// Create registers a new table under schema.TableName.
func (c *Catalog) Create(schema *types.Schema) error {
	if _, exists := c.tables[schema.TableName]; exists {
		return fmt.Errorf("duplicate table %q", schema.TableName)
	}
	if len(c.tables) >= c.maxTables {
		return fmt.Errorf("catalog is full (max %d tables)", c.maxTables)
	}
	c.tables[schema.TableName] = newTable(schema, c.initialCapacity)
	c.order = append(c.order, schema.TableName)
	return nil
}

// Drop removes a table by name, preserving the relative order of the rest.
func (c *Catalog) Drop(name string) error {
	if _, exists := c.tables[name]; !exists {
		return fmt.Errorf("unknown table %q", name)
	}
	delete(c.tables, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Find looks up a table by exact name.
func (c *Catalog) Find(name string) (*Table, bool) {
	t, ok := c.tables[name]
	return t, ok
}

// Clear drops every resident table.
func (c *Catalog) Clear() int {
	n := len(c.order)
	c.tables = make(map[string]*Table)
	c.order = nil
	return n
}

// Names returns table names in creation order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// RestoreTable inserts a fully reconstructed table during snapshot load,
// bypassing capacity defaults (the snapshot carries its own capacity).
// Per spec.md §9's documented wart, this does NOT reject a name already
// present — a reloaded table silently replaces the resident one.
func (c *Catalog) RestoreTable(name string, t *Table) {
	if _, exists := c.tables[name]; !exists {
		c.order = append(c.order, name)
	}
	c.tables[name] = t
}
