package types

import "testing"

func sampleSchema(t *testing.T) *Schema {
	t.Helper()
	cols := []Column{
		NewIntColumn("a", true),
		NewFloatColumn("b", false),
	}
	varchar, err := NewVarcharColumn("c", 8, false)
	if err != nil {
		t.Fatalf("unexpected error building varchar column: %v", err)
	}
	cols = append(cols, varchar)
	schema, err := NewSchema("u", cols)
	if err != nil {
		t.Fatalf("unexpected error building schema: %v", err)
	}
	return schema
}

func TestSchemaRowWidth(t *testing.T) {
	s := sampleSchema(t)
	if got, want := s.RowWidth(), 8+8+8; got != want {
		t.Errorf("expected row width %d, got %d", want, got)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := sampleSchema(t)
	values := []Value{NewInt(123), NewFloat(4.5), NewText("abc")}
	row, err := s.EncodeRow(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded := s.DecodeRow(row)
	for i, v := range values {
		if !v.Equal(decoded[i]) {
			t.Errorf("column %d: expected %v, got %v", i, v, decoded[i])
		}
	}
}

func TestVarcharTooLongFails(t *testing.T) {
	s := sampleSchema(t)
	_, err := s.EncodeRow([]Value{NewInt(1), NewFloat(1), NewText("way too long for 8")})
	if err == nil {
		t.Fatal("expected an error encoding a string too long for its slot")
	}
}

func TestVarcharWidthMustBePositive(t *testing.T) {
	if _, err := NewVarcharColumn("c", 0, false); err == nil {
		t.Fatal("expected an error for a zero-width varchar column")
	}
}

func TestSchemaRejectsDuplicateColumnNames(t *testing.T) {
	_, err := NewSchema("u", []Column{
		NewIntColumn("a", true),
		NewIntColumn("a", false),
	})
	if err == nil {
		t.Fatal("expected an error for duplicate column names")
	}
}

func TestSchemaRejectsEmptyColumnList(t *testing.T) {
	if _, err := NewSchema("u", nil); err == nil {
		t.Fatal("expected an error for an empty column list")
	}
}

func TestIndexOf(t *testing.T) {
	s := sampleSchema(t)
	if s.IndexOf("b") != 1 {
		t.Errorf("expected column 'b' at index 1, got %d", s.IndexOf("b"))
	}
	if s.IndexOf("nope") != -1 {
		t.Errorf("expected -1 for an unknown column")
	}
}
