package driver

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Chahine-tech/miniql/pkg/snapshot"
)

// cmdTables prints every resident table's schema — name, then one line per
// column with its type and PK marker.
func (d *Driver) cmdTables() error {
	names := d.cat.Names()
	if len(names) == 0 {
		fmt.Fprintln(d.out, "No table set.")
		return nil
	}
	for _, name := range names {
		table, _ := d.cat.Find(name)
		fmt.Fprintf(d.out, "Table %q (%d rows):\n", name, table.NumRows())
		for _, col := range table.Schema.Columns {
			marker := ""
			if col.PK {
				marker = " PK"
			}
			fmt.Fprintf(d.out, "  %-20s %-12s%s\n", col.Name, col.Type.String(), marker)
		}
	}
	return nil
}

func (d *Driver) cmdSave(path string) error {
	if path == "" {
		return fmt.Errorf("Runtime error: .save requires a filename: .save data.mql")
	}
	d.logger.Info("saving catalog to %s", path)
	n, err := snapshot.Save(d.cat, path)
	if err != nil {
		d.logger.Error("saving %s failed: %s", path, err)
		return fmt.Errorf("Runtime error: %s", err)
	}
	d.logger.Info("wrote %d bytes to %s", n, path)
	fmt.Fprintf(d.out, "Wrote %d tables accounting for %d bytes to %s\n", len(d.cat.Names()), n, path)
	return nil
}

func (d *Driver) cmdOpen(path string) error {
	if path == "" {
		return fmt.Errorf("Runtime error: .open requires a filename: .open data.mql")
	}
	d.logger.Info("loading catalog from %s", path)
	// Per spec.md §9's recommended fix, `.open` implicitly clears the
	// resident catalog first instead of merging into it.
	d.cat.Clear()
	n, err := snapshot.Load(d.cat, path)
	if err != nil {
		d.logger.Error("loading %s failed: %s", path, err)
		return fmt.Errorf("Runtime error: %s", err)
	}
	d.logger.Info("loaded %d tables from %s", n, path)
	fmt.Fprintf(d.out, "Read %s and found %d tables:\n", path, n)
	return d.cmdTables()
}

func (d *Driver) cmdClear() error {
	if len(d.cat.Names()) == 0 {
		fmt.Fprintln(d.out, "No table to clear.")
		return nil
	}
	n := d.cat.Clear()
	fmt.Fprintf(d.out, "Cleared %d tables\n", n)
	return nil
}

// cmdRead streams path line by line, feeding each non-blank line to
// RunRequest and stopping at the first failure. A line invoking `.read`
// itself is rejected.
func (d *Driver) cmdRead(path string) error {
	if path == "" {
		return fmt.Errorf("Runtime error: .read requires a filename: .read requests.mql")
	}
	if d.readDepth > 0 {
		return fmt.Errorf("Runtime error: .read cannot execute itself")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("Runtime error: opening %s: %s", path, err)
	}
	defer f.Close()

	d.logger.Info("reading requests from %s", path)
	d.readDepth++
	defer func() { d.readDepth-- }()

	executed := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ".read") {
			return fmt.Errorf("Runtime error: .read cannot execute itself")
		}
		if err := d.RunRequest(line); err != nil {
			d.logger.Error("%s: line %q failed: %s", path, line, err)
			return fmt.Errorf("line %q failed: %w", line, err)
		}
		executed++
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	d.logger.Info("executed %d requests from %s", executed, path)
	return nil
}
