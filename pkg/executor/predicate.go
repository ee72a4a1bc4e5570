package executor

import (
	"github.com/Chahine-tech/miniql/pkg/ast"
	"github.com/Chahine-tech/miniql/pkg/types"
)

// evalPredicate walks the boolean-expression tree rooted at idx against a
// single decoded row. AND/OR evaluate both children unconditionally (no
// short-circuit is guaranteed — spec.md §4.5); relations are type-checked
// against the column's declared type before comparing.
func evalPredicate(tree *ast.Tree, idx int, schema *types.Schema, row []types.Value) (bool, error) {
	node := tree.At(idx)

	if node.Kind == ast.Comp && (node.Lexeme == "AND" || node.Lexeme == "OR") {
		left, err := evalPredicate(tree, node.Left, schema, row)
		if err != nil {
			return false, err
		}
		right, err := evalPredicate(tree, node.Right, schema, row)
		if err != nil {
			return false, err
		}
		if node.Lexeme == "AND" {
			return left && right, nil
		}
		return left || right, nil
	}

	if node.Kind != ast.Comp {
		return false, runtimeErrorf("expected a comparison node in predicate")
	}
	return evalRelation(tree, node, schema, row)
}

type operand struct {
	isColumn bool
	value    types.Value
	colType  types.ColumnType
}

func resolveOperand(tree *ast.Tree, idx int, schema *types.Schema, row []types.Value) (operand, error) {
	node := tree.At(idx)
	switch node.Kind {
	case ast.ColName:
		ci := schema.IndexOf(node.Lexeme)
		if ci < 0 {
			return operand{}, runtimeErrorf("unknown column %q", node.Lexeme)
		}
		return operand{isColumn: true, value: row[ci], colType: schema.Columns[ci].Type}, nil
	case ast.IntLit:
		return operand{value: types.NewInt(node.IntVal), colType: types.IntType()}, nil
	case ast.FloatLit:
		return operand{value: types.NewFloat(node.FloatVal), colType: types.FloatType()}, nil
	case ast.StringLit:
		return operand{value: types.NewText(node.Lexeme)}, nil
	default:
		return operand{}, runtimeErrorf("unexpected node in predicate operand position")
	}
}

// evalRelation evaluates a single `operand cmp operand` leaf. At least one
// side must be a column reference; the typing rules in spec.md §4.5 are
// enforced against whichever side IS the column.
func evalRelation(tree *ast.Tree, node *ast.Node, schema *types.Schema, row []types.Value) (bool, error) {
	left, err := resolveOperand(tree, node.Left, schema, row)
	if err != nil {
		return false, err
	}
	right, err := resolveOperand(tree, node.Right, schema, row)
	if err != nil {
		return false, err
	}
	if !left.isColumn && !right.isColumn {
		return false, runtimeErrorf("comparison %q requires at least one column operand", node.Lexeme)
	}

	colType := left.colType
	if !left.isColumn {
		colType = right.colType
	}

	if err := checkComparisonAllowed(colType.Kind, node.Lexeme); err != nil {
		return false, err
	}
	if left.value.Kind != right.value.Kind {
		return false, typeErrorf("cannot compare %s and %s", left.value.Kind, right.value.Kind)
	}

	switch node.Lexeme {
	case "=":
		return left.value.Equal(right.value), nil
	case "!=":
		return !left.value.Equal(right.value), nil
	case "<":
		return left.value.Less(right.value), nil
	case "<=":
		return left.value.Less(right.value) || left.value.Equal(right.value), nil
	case ">":
		return right.value.Less(left.value), nil
	case ">=":
		return right.value.Less(left.value) || left.value.Equal(right.value), nil
	default:
		return false, runtimeErrorf("unknown comparison operator %q", node.Lexeme)
	}
}

// checkComparisonAllowed enforces spec.md §4.5's per-type operator set:
// Int allows all six, Float allows only < and > (equality is intentionally
// unsupported — see §9), Text allows only =.
func checkComparisonAllowed(kind types.Kind, cmp string) error {
	switch kind {
	case types.Int:
		return nil
	case types.Float:
		if cmp == "<" || cmp == ">" {
			return nil
		}
		return typeErrorf("FLOAT columns only support < and >, got %q", cmp)
	case types.Text:
		if cmp == "=" {
			return nil
		}
		return typeErrorf("VARCHAR columns only support =, got %q", cmp)
	default:
		return typeErrorf("unknown column kind")
	}
}
