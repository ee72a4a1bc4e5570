// Package executor dispatches a parsed ast.Tree against a catalog: it
// builds schemas for CREATE, validates and writes rows for
// INSERT/UPDATE/DELETE, walks predicate trees for WHERE clauses, and
// renders SELECT results.
package executor

import (
	"fmt"
	"io"

	"github.com/Chahine-tech/miniql/pkg/ast"
	"github.com/Chahine-tech/miniql/pkg/catalog"
	"github.com/Chahine-tech/miniql/pkg/types"
)

// Executor runs statements against a single catalog, writing SELECT
// output to out.
type Executor struct {
	Catalog *catalog.Catalog
	out     io.Writer
}

func New(cat *catalog.Catalog, out io.Writer) *Executor {
	return &Executor{Catalog: cat, out: out}
}

// Execute dispatches on the statement tree's root node kind.
func (e *Executor) Execute(tree *ast.Tree) error {
	if tree.Root == ast.None {
		return runtimeErrorf("empty statement")
	}
	root := tree.At(tree.Root)
	switch root.Kind {
	case ast.Create:
		return e.execCreate(tree, root)
	case ast.Insert:
		return e.execInsert(tree, root)
	case ast.Select:
		return e.execSelect(tree, root)
	case ast.Update:
		return e.execUpdate(tree, root)
	case ast.Delete:
		return e.execDelete(tree, root)
	case ast.Drop:
		return e.execDrop(tree, root)
	default:
		return runtimeErrorf("unexpected root node kind")
	}
}

func literalValue(node *ast.Node) (types.Value, error) {
	switch node.Kind {
	case ast.IntLit:
		return types.NewInt(node.IntVal), nil
	case ast.FloatLit:
		return types.NewFloat(node.FloatVal), nil
	case ast.StringLit:
		return types.NewText(node.Lexeme), nil
	default:
		return types.Value{}, runtimeErrorf("expected a literal value")
	}
}

// execCreate walks the column/type chain built by parser.parseCreate and
// registers a new table.
func (e *Executor) execCreate(tree *ast.Tree, root *ast.Node) error {
	tableNode, ok := tree.Get(root.Left)
	if !ok || tableNode.Kind != ast.TableName {
		return runtimeErrorf("expected a tablename node")
	}
	declared := int(tableNode.IntVal)
	if declared == 0 {
		return runtimeErrorf("CREATE TABLE requires at least one column")
	}

	columns := make([]types.Column, 0, declared)
	colIdx := tableNode.Left
	for colIdx != ast.None {
		colNode := tree.At(colIdx)
		typeNode, ok := tree.Get(colNode.Left)
		if !ok {
			return runtimeErrorf("column %q is missing a type", colNode.Lexeme)
		}
		pk := colNode.Kind == ast.ColNamePK

		var col types.Column
		var nextCol int
		switch typeNode.Lexeme {
		case "INT":
			col = types.NewIntColumn(colNode.Lexeme, pk)
			nextCol = typeNode.Left
		case "FLOAT":
			col = types.NewFloatColumn(colNode.Lexeme, pk)
			nextCol = typeNode.Left
		case "VARCHAR":
			widthNode, ok := tree.Get(typeNode.Left)
			if !ok {
				return runtimeErrorf("VARCHAR column %q is missing a width", colNode.Lexeme)
			}
			var err error
			col, err = types.NewVarcharColumn(colNode.Lexeme, int(widthNode.IntVal), pk)
			if err != nil {
				return runtimeErrorf("%s", err)
			}
			nextCol = widthNode.Left
		default:
			return runtimeErrorf("unknown column type %q", typeNode.Lexeme)
		}
		columns = append(columns, col)
		colIdx = nextCol
	}

	schema, err := types.NewSchema(tableNode.Lexeme, columns)
	if err != nil {
		return runtimeErrorf("%s", err)
	}
	if err := e.Catalog.Create(schema); err != nil {
		return runtimeErrorf("%s", err)
	}
	return nil
}

// execInsert walks the literal chain attached to the tablename node and
// appends one row.
func (e *Executor) execInsert(tree *ast.Tree, root *ast.Node) error {
	tableNode, ok := tree.Get(root.Left)
	if !ok || tableNode.Kind != ast.TableName {
		return runtimeErrorf("expected a tablename node")
	}
	table, ok := e.Catalog.Find(tableNode.Lexeme)
	if !ok {
		return runtimeErrorf("unknown table %q", tableNode.Lexeme)
	}

	var values []types.Value
	litIdx := tableNode.Left
	for litIdx != ast.None {
		node := tree.At(litIdx)
		v, err := literalValue(node)
		if err != nil {
			return err
		}
		values = append(values, v)
		litIdx = node.Left
	}

	if err := table.Insert(values); err != nil {
		return runtimeErrorf("%s", err)
	}
	return nil
}

// resolveWhere returns a catalog.Predicate bound to the Condition node
// hanging off a tablename node's Right, or nil if there is no WHERE.
func resolveWhere(tree *ast.Tree, tableNode *ast.Node, schema *types.Schema) (catalog.Predicate, error) {
	if tableNode.Right == ast.None {
		return nil, nil
	}
	condNode, ok := tree.Get(tableNode.Right)
	if !ok || condNode.Kind != ast.Condition {
		return nil, runtimeErrorf("expected a CONDITION node")
	}
	boolRoot := condNode.Left
	if boolRoot == ast.None {
		return nil, runtimeErrorf("WHERE clause has no condition")
	}
	return func(row []types.Value) (bool, error) {
		return evalPredicate(tree, boolRoot, schema, row)
	}, nil
}

// execSelect resolves the projection list (expanding * to schema order),
// then prints a column-aligned table of every matching row.
func (e *Executor) execSelect(tree *ast.Tree, root *ast.Node) error {
	tableNode, ok := tree.Get(root.Left)
	if !ok || tableNode.Kind != ast.TableName {
		return runtimeErrorf("expected a tablename node")
	}
	table, ok := e.Catalog.Find(tableNode.Lexeme)
	if !ok {
		return runtimeErrorf("unknown table %q", tableNode.Lexeme)
	}
	schema := table.Schema

	var projection []int // column indices, in print order
	projNode, hasProj := tree.Get(tableNode.Left)
	if !hasProj {
		return runtimeErrorf("SELECT is missing a projection")
	}
	if projNode.Kind == ast.AllCols {
		for i := range schema.Columns {
			projection = append(projection, i)
		}
	} else {
		idx := tableNode.Left
		for idx != ast.None {
			node := tree.At(idx)
			ci := schema.IndexOf(node.Lexeme)
			if ci < 0 {
				return runtimeErrorf("unknown column %q", node.Lexeme)
			}
			projection = append(projection, ci)
			idx = node.Left
		}
	}

	pred, err := resolveWhere(tree, &tableNode, schema)
	if err != nil {
		return err
	}

	headers := make([]string, len(projection))
	for i, ci := range projection {
		headers[i] = schema.Columns[ci].Name
	}

	var matched [][]string
	for i := 0; i < table.NumRows(); i++ {
		row := table.Row(i)
		if pred != nil {
			ok, err := pred(row)
			if err != nil {
				printTable(e.out, headers, matched)
				return err
			}
			if !ok {
				continue
			}
		}
		cells := make([]string, len(projection))
		for j, ci := range projection {
			cells[j] = row[ci].String()
		}
		matched = append(matched, cells)
	}
	printTable(e.out, headers, matched)
	return nil
}

// execUpdate resolves SET assignments to column indices and delegates the
// two-pass PK-safe write to catalog.Table.Update.
func (e *Executor) execUpdate(tree *ast.Tree, root *ast.Node) error {
	tableNode, ok := tree.Get(root.Left)
	if !ok || tableNode.Kind != ast.TableName {
		return runtimeErrorf("expected a tablename node")
	}
	table, ok := e.Catalog.Find(tableNode.Lexeme)
	if !ok {
		return runtimeErrorf("unknown table %q", tableNode.Lexeme)
	}
	schema := table.Schema

	setNode, ok := tree.Get(tableNode.Left)
	if !ok || setNode.Kind != ast.Set {
		return runtimeErrorf("expected a SET node")
	}

	var assignments []catalog.Assignment
	idx := setNode.Left
	for idx != ast.None {
		node := tree.At(idx)
		ci := schema.IndexOf(node.Lexeme)
		if ci < 0 {
			return runtimeErrorf("unknown column %q", node.Lexeme)
		}
		litNode, ok := tree.Get(node.Right)
		if !ok {
			return runtimeErrorf("assignment to %q is missing a value", node.Lexeme)
		}
		v, err := literalValue(&litNode)
		if err != nil {
			return err
		}
		assignments = append(assignments, catalog.Assignment{ColIndex: ci, Value: v})
		idx = node.Left
	}

	pred, err := resolveWhere(tree, &tableNode, schema)
	if err != nil {
		return err
	}
	if err := table.Update(assignments, pred); err != nil {
		return runtimeErrorf("%s", err)
	}
	return nil
}

// execDelete removes every row matching the WHERE predicate (or every row,
// absent one).
func (e *Executor) execDelete(tree *ast.Tree, root *ast.Node) error {
	tableNode, ok := tree.Get(root.Left)
	if !ok || tableNode.Kind != ast.TableName {
		return runtimeErrorf("expected a tablename node")
	}
	table, ok := e.Catalog.Find(tableNode.Lexeme)
	if !ok {
		return runtimeErrorf("unknown table %q", tableNode.Lexeme)
	}
	pred, err := resolveWhere(tree, &tableNode, table.Schema)
	if err != nil {
		return err
	}
	if _, err := table.Delete(pred); err != nil {
		return runtimeErrorf("%s", err)
	}
	return nil
}

func (e *Executor) execDrop(tree *ast.Tree, root *ast.Node) error {
	tableNode, ok := tree.Get(root.Left)
	if !ok || tableNode.Kind != ast.TableName {
		return runtimeErrorf("expected a tablename node")
	}
	if err := e.Catalog.Drop(tableNode.Lexeme); err != nil {
		return runtimeErrorf("%s", err)
	}
	return nil
}

// printTable renders a column-aligned result table: header, separator,
// then one line per row — the engine's only output format (no pretty-print
// library; spec.md §4.6 calls for a plain aligned table).
func printTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				fmt.Fprint(w, " | ")
			}
			fmt.Fprintf(w, "%-*s", widths[i], cell)
		}
		fmt.Fprintln(w)
	}

	printRow(headers)
	sep := make([]string, len(headers))
	for i, wd := range widths {
		dashes := make([]byte, wd)
		for j := range dashes {
			dashes[j] = '-'
		}
		sep[i] = string(dashes)
	}
	printRow(sep)
	for _, row := range rows {
		printRow(row)
	}
}
