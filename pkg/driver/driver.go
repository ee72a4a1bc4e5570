// Package driver implements the line-oriented REPL: it reads requests,
// dispatches the dot-prefixed meta-commands (.tables, .save, .open, .read,
// .clear, .help, .exit), and otherwise hands the line to the
// lexer/parser/executor pipeline.
package driver

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/Chahine-tech/miniql/internal/config"
	"github.com/Chahine-tech/miniql/internal/logging"
	"github.com/Chahine-tech/miniql/pkg/catalog"
	"github.com/Chahine-tech/miniql/pkg/executor"
	"github.com/Chahine-tech/miniql/pkg/lexer"
	"github.com/Chahine-tech/miniql/pkg/parser"
)

// ErrExit is returned by RunRequest when the request was `.exit`; callers
// running an interactive loop should stop on it without treating it as a
// failure.
var ErrExit = errors.New("exit requested")

const banner = `miniql — a small SQL-like engine. Type .help for commands.`

const helpText = `Requests end with ';'. Meta-commands start with '.':
  .exit             terminate
  .tables           list every table's schema
  .save <file>      serialize the catalog to <file>
  .open <file>      deserialize the catalog from <file>
  .read <file>      execute each non-blank line in <file> as a request
  .clear            drop all tables
  .help             print this message
Lines starting with '#' are comments and are skipped.`

// Driver owns the catalog and executor for one REPL session.
type Driver struct {
	cat    *catalog.Catalog
	exec   *executor.Executor
	out    io.Writer
	color  bool
	logger *logging.Logger

	readDepth int // guards against `.read` invoking itself
}

// New builds a Driver writing results to a colorable stdout-like writer.
func New(cfg *config.Config, logger *logging.Logger, rawOut *os.File) *Driver {
	out := io.Writer(rawOut)
	color := cfg.Color
	if color {
		if !isatty.IsTerminal(rawOut.Fd()) && !isatty.IsCygwinTerminal(rawOut.Fd()) {
			color = false
		}
		out = colorable.NewColorable(rawOut)
	}
	cat := catalog.New(cfg.InitialCapacity, cfg.MaxTables)
	return &Driver{
		cat:    cat,
		exec:   executor.New(cat, out),
		out:    out,
		color:  color,
		logger: logger,
	}
}

// NewWithWriter builds a Driver over an arbitrary writer (used by the
// tests) with color disabled.
func NewWithWriter(cfg *config.Config, logger *logging.Logger, out io.Writer) *Driver {
	cat := catalog.New(cfg.InitialCapacity, cfg.MaxTables)
	return &Driver{
		cat:    cat,
		exec:   executor.New(cat, out),
		out:    out,
		color:  false,
		logger: logger,
	}
}

func (d *Driver) colorize(code, text string) string {
	if !d.color {
		return text
	}
	return "\x1b[" + code + "m" + text + "\x1b[0m"
}

func (d *Driver) printError(err error) {
	fmt.Fprintln(d.out, d.colorize("31", err.Error()))
	var se *lexer.SyntaxError
	if errors.As(err, &se) && se.Column >= 1 {
		fmt.Fprintln(d.out, se.Text)
		fmt.Fprintln(d.out, strings.Repeat(" ", se.Column-1)+"^")
	}
}

// RunInteractive prints the banner and prompt, then reads requests from in
// until `.exit` or EOF.
func (d *Driver) RunInteractive(in io.Reader, prompt string) {
	fmt.Fprintln(d.out, banner)
	scanner := bufio.NewScanner(in)
	fmt.Fprint(d.out, prompt)
	for scanner.Scan() {
		line := scanner.Text()
		if err := d.RunRequest(line); err != nil {
			if errors.Is(err, ErrExit) {
				return
			}
			d.printError(err)
		}
		fmt.Fprint(d.out, prompt)
	}
}

// RunRequest executes a single line: a comment or blank line is a no-op, a
// `.`-prefixed line is a meta-command, anything else is lexed, parsed and
// executed as a statement.
func (d *Driver) RunRequest(line string) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}
	if strings.HasPrefix(trimmed, ".") {
		return d.runMetaCommand(trimmed)
	}
	return d.runStatement(trimmed)
}

func (d *Driver) runStatement(text string) error {
	tokens, err := lexer.Lex(text)
	if err != nil {
		return err
	}
	tree, err := parser.Parse(tokens)
	if err != nil {
		return err
	}
	return d.exec.Execute(tree)
}

func (d *Driver) runMetaCommand(line string) error {
	fields := strings.Fields(line)
	cmd := fields[0]
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch cmd {
	case ".exit":
		return ErrExit
	case ".tables":
		return d.cmdTables()
	case ".save":
		return d.cmdSave(arg)
	case ".open":
		return d.cmdOpen(arg)
	case ".read":
		return d.cmdRead(arg)
	case ".clear":
		return d.cmdClear()
	case ".help":
		fmt.Fprintln(d.out, helpText)
		return nil
	default:
		fmt.Fprintf(d.out, "unknown meta-command %q\n", cmd)
		return nil
	}
}
