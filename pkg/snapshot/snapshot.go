// Package snapshot serializes and reconstructs a catalog to/from a single
// binary file (spec.md §4.7). The header carries a 4-byte magic and a
// 2-byte version (spec.md §9's recommended versioning, since the reference
// format has none) so a future format change can be detected instead of
// silently misread. All multi-byte integers are little-endian — the
// reference engine's on-disk layout is host-endian and therefore
// unspecified across machines; spec.md §9 directs implementers to pick
// little-endian for portability.
package snapshot

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/Chahine-tech/miniql/pkg/catalog"
	"github.com/Chahine-tech/miniql/pkg/types"
)

var magic = [4]byte{'M', 'Q', 'L', '1'}

const version = uint16(1)

// Save writes every table in cat to path.
func Save(cat *catalog.Catalog, path string) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("snapshot: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := writeDatabase(w, cat); err != nil {
		return 0, fmt.Errorf("snapshot: %w", err)
	}
	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("snapshot: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("snapshot: %w", err)
	}
	return info.Size(), nil
}

// Load reconstructs every table from path and installs it into cat. Per
// spec.md §9's documented wart, Load does NOT clear cat first — callers
// that want a clean restore must call cat.Clear() themselves (the driver's
// `.open` does this).
func Load(cat *catalog.Catalog, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("snapshot: %w", err)
	}
	defer f.Close()

	n, err := readDatabase(bufio.NewReader(f), cat)
	if err != nil {
		return 0, fmt.Errorf("snapshot: %w", err)
	}
	return n, nil
}

func writeDatabase(w io.Writer, cat *catalog.Catalog) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, version); err != nil {
		return err
	}
	names := cat.Names()
	if err := binary.Write(w, binary.LittleEndian, uint64(len(names))); err != nil {
		return err
	}
	for _, name := range names {
		table, _ := cat.Find(name)
		if err := writeTable(w, table); err != nil {
			return err
		}
	}
	return nil
}

func readDatabase(r io.Reader, cat *catalog.Catalog) (int, error) {
	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return 0, fmt.Errorf("reading magic: %w", err)
	}
	if gotMagic != magic {
		return 0, fmt.Errorf("not a miniql snapshot (bad magic)")
	}
	var gotVersion uint16
	if err := binary.Read(r, binary.LittleEndian, &gotVersion); err != nil {
		return 0, fmt.Errorf("reading version: %w", err)
	}
	if gotVersion != version {
		return 0, fmt.Errorf("unsupported snapshot version %d", gotVersion)
	}

	var nbTables uint64
	if err := binary.Read(r, binary.LittleEndian, &nbTables); err != nil {
		return 0, fmt.Errorf("reading table count: %w", err)
	}
	for i := uint64(0); i < nbTables; i++ {
		name, table, err := readTable(r)
		if err != nil {
			return int(i), err
		}
		cat.RestoreTable(name, table)
	}
	return int(nbTables), nil
}

func writeString(w io.Writer, s string) error {
	b := append([]byte(s), 0)
	if err := binary.Write(w, binary.LittleEndian, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	if n > 0 {
		buf = buf[:n-1] // drop the NUL terminator
	}
	return string(buf), nil
}

func writeTable(w io.Writer, t *catalog.Table) error {
	if err := writeSchema(w, t.Schema); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(t.NumRows())); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(t.Capacity())); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(t.Schema.RowWidth())); err != nil {
		return err
	}
	for i := 0; i < t.NumRows(); i++ {
		if _, err := w.Write(t.RawRow(i)); err != nil {
			return err
		}
	}
	return nil
}

func readTable(r io.Reader) (string, *catalog.Table, error) {
	schema, err := readSchema(r)
	if err != nil {
		return "", nil, err
	}
	var nbRows, capacity, rowWidth uint64
	if err := binary.Read(r, binary.LittleEndian, &nbRows); err != nil {
		return "", nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &capacity); err != nil {
		return "", nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &rowWidth); err != nil {
		return "", nil, err
	}
	if int(rowWidth) != schema.RowWidth() {
		return "", nil, fmt.Errorf("table %q: row width mismatch (schema says %d, file says %d)", schema.TableName, schema.RowWidth(), rowWidth)
	}
	rows := make([]byte, rowWidth*nbRows)
	if _, err := io.ReadFull(r, rows); err != nil {
		return "", nil, err
	}
	table := catalog.RestoreRaw(schema, rows, int(nbRows), int(capacity))
	return schema.TableName, table, nil
}

func writeSchema(w io.Writer, s *types.Schema) error {
	if err := writeString(w, s.TableName); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(s.Columns))); err != nil {
		return err
	}
	for _, c := range s.Columns {
		if err := writeString(w, c.Name); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(c.Type.Kind)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint64(c.Type.Width)); err != nil {
			return err
		}
		pk := byte(0)
		if c.PK {
			pk = 1
		}
		if _, err := w.Write([]byte{pk}); err != nil {
			return err
		}
	}
	return nil
}

func readSchema(r io.Reader) (*types.Schema, error) {
	name, err := readString(r)
	if err != nil {
		return nil, err
	}
	var nbCols uint64
	if err := binary.Read(r, binary.LittleEndian, &nbCols); err != nil {
		return nil, err
	}
	columns := make([]types.Column, nbCols)
	for i := range columns {
		colName, err := readString(r)
		if err != nil {
			return nil, err
		}
		var kind uint32
		if err := binary.Read(r, binary.LittleEndian, &kind); err != nil {
			return nil, err
		}
		var width uint64
		if err := binary.Read(r, binary.LittleEndian, &width); err != nil {
			return nil, err
		}
		var pkByte [1]byte
		if _, err := io.ReadFull(r, pkByte[:]); err != nil {
			return nil, err
		}
		columns[i] = types.Column{
			Name: colName,
			Type: types.ColumnType{Kind: types.Kind(kind), Width: int(width)},
			PK:   pkByte[0] == 1,
		}
	}
	return types.NewSchema(name, columns)
}
