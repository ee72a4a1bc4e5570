package executor

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Chahine-tech/miniql/pkg/catalog"
	"github.com/Chahine-tech/miniql/pkg/lexer"
	"github.com/Chahine-tech/miniql/pkg/parser"
	"github.com/Chahine-tech/miniql/pkg/snapshot"
)

// run executes one request against exec and fails the test if it errors
// unexpectedly (wantErr=false) or succeeds unexpectedly (wantErr=true).
func run(t *testing.T, exec *Executor, request string, wantErr bool) {
	t.Helper()
	tokens, err := lexer.Lex(request)
	if err != nil {
		if !wantErr {
			t.Fatalf("%q: unexpected lex error: %v", request, err)
		}
		return
	}
	tree, err := parser.Parse(tokens)
	if err != nil {
		if !wantErr {
			t.Fatalf("%q: unexpected parse error: %v", request, err)
		}
		return
	}
	err = exec.Execute(tree)
	if wantErr && err == nil {
		t.Fatalf("%q: expected an error, got none", request)
	}
	if !wantErr && err != nil {
		t.Fatalf("%q: unexpected error: %v", request, err)
	}
}

func newExecutor() (*Executor, *bytes.Buffer) {
	var buf bytes.Buffer
	cat := catalog.New(16, 128)
	return New(cat, &buf), &buf
}

// Scenario 1: PK uniqueness on INSERT.
func TestScenarioInsertPKUniqueness(t *testing.T) {
	exec, _ := newExecutor()
	run(t, exec, `CREATE TABLE "u" ("a" int pk, "b" int, "c" varchar(32));`, false)
	run(t, exec, `INSERT INTO "u" VALUES (123, 456, 'abc');`, false)
	run(t, exec, `INSERT INTO "u" VALUES (123, 1, 'x');`, true)
}

// Scenario 2: projection + OR predicate across mixed column types.
func TestScenarioSelectProjectionAndOr(t *testing.T) {
	exec, out := newExecutor()
	run(t, exec, `CREATE TABLE "u" ("a" int pk, "b" int, "c" varchar(32));`, false)
	run(t, exec, `INSERT INTO "u" VALUES (123, 456, 'abc');`, false)

	out.Reset()
	run(t, exec, `SELECT "b", "c", "a" FROM "u" WHERE (( "c" = 'abc' ) OR ( "b" = 456 ));`, false)
	text := out.String()
	if !strings.Contains(text, "456") || !strings.Contains(text, "abc") || !strings.Contains(text, "123") {
		t.Errorf("expected the one matching row's values in output, got:\n%s", text)
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) != 3 { // header, separator, one data row
		t.Errorf("expected 3 output lines (header/separator/row), got %d:\n%s", len(lines), text)
	}
}

// Scenario 3: DELETE then SELECT * shows zero data rows.
func TestScenarioDeleteThenSelectEmpty(t *testing.T) {
	exec, out := newExecutor()
	run(t, exec, `CREATE TABLE "u" ("a" int pk, "b" int, "c" varchar(32));`, false)
	run(t, exec, `INSERT INTO "u" VALUES (123, 456, 'abc');`, false)
	run(t, exec, `DELETE FROM "u" WHERE ("b" = 456);`, false)

	out.Reset()
	run(t, exec, `SELECT * FROM "u";`, false)
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 { // header + separator only
		t.Errorf("expected zero data rows after delete, got:\n%s", out.String())
	}
}

// Scenario 4: UPDATE two-pass PK conflict detection.
func TestScenarioUpdatePKConflict(t *testing.T) {
	exec, _ := newExecutor()
	run(t, exec, `CREATE TABLE "u" ("a" int pk, "b" int, "c" varchar(32));`, false)
	run(t, exec, `INSERT INTO "u" VALUES (123, 456, 'abc');`, false)
	run(t, exec, `INSERT INTO "u" VALUES (789, 123, 'defgh');`, false)

	run(t, exec, `UPDATE "u" SET "a" = 999 WHERE ("a" = 123);`, false)
	run(t, exec, `UPDATE "u" SET "a" = 999 WHERE ("a" = 789);`, true)
}

// Scenario 5: DROP TABLE on an empty/absent/present catalog.
func TestScenarioDropTable(t *testing.T) {
	exec, _ := newExecutor()
	run(t, exec, `DROP TABLE "u";`, true)
	run(t, exec, `CREATE TABLE "u" ("a" int pk);`, false)
	run(t, exec, `DROP TABLE "u";`, false)
	run(t, exec, `DROP TABLE "u";`, true)
}

// Scenario 6: snapshot round-trip via .save/.clear/.open equivalents.
func TestScenarioSnapshotRoundTrip(t *testing.T) {
	exec, out := newExecutor()
	run(t, exec, `CREATE TABLE "u" ("a" int pk, "b" int, "c" varchar(32));`, false)
	run(t, exec, `INSERT INTO "u" VALUES (123, 456, 'abc');`, false)

	path := filepath.Join(t.TempDir(), "f.mql")
	if _, err := snapshot.Save(exec.Catalog, path); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	exec.Catalog.Clear()
	if _, err := snapshot.Load(exec.Catalog, path); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	out.Reset()
	run(t, exec, `SELECT * FROM "u";`, false)
	if !strings.Contains(out.String(), "123") || !strings.Contains(out.String(), "abc") {
		t.Errorf("expected the saved row to reappear identically, got:\n%s", out.String())
	}
}

func TestFloatEqualityIsTypeError(t *testing.T) {
	exec, _ := newExecutor()
	run(t, exec, `CREATE TABLE "u" ("a" int pk, "f" float);`, false)
	run(t, exec, `INSERT INTO "u" VALUES (1, 1.5);`, false)
	run(t, exec, `SELECT * FROM "u" WHERE ("f" = 1.5);`, true)
}

func TestTextOnlySupportsEquality(t *testing.T) {
	exec, _ := newExecutor()
	run(t, exec, `CREATE TABLE "u" ("a" int pk, "c" varchar(8));`, false)
	run(t, exec, `INSERT INTO "u" VALUES (1, 'abc');`, false)
	run(t, exec, `SELECT * FROM "u" WHERE ("c" < 'abd');`, true)
}

func TestAndRequiresBothSides(t *testing.T) {
	exec, out := newExecutor()
	run(t, exec, `CREATE TABLE "u" ("a" int pk, "b" int);`, false)
	run(t, exec, `INSERT INTO "u" VALUES (1, 10);`, false)
	run(t, exec, `INSERT INTO "u" VALUES (2, 20);`, false)

	out.Reset()
	run(t, exec, `SELECT "a" FROM "u" WHERE (( "a" = 1 ) AND ( "b" = 10 ));`, false)
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Errorf("expected exactly one matching row, got:\n%s", out.String())
	}
}
