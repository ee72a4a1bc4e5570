// Command miniql is the engine's entry point: an interactive REPL by
// default, or a non-interactive runner of a request file when -f/--file
// is given.
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/Chahine-tech/miniql/internal/config"
	"github.com/Chahine-tech/miniql/internal/logging"
	"github.com/Chahine-tech/miniql/pkg/driver"
)

var version = "dev"

type options struct {
	Config  string `long:"config" description:"YAML config file (prompt, color, snapshot_dir, initial_capacity, max_tables)" value-name:"file"`
	File    string `short:"f" long:"file" description:"Run requests from this file non-interactively instead of reading stdin" value-name:"file"`
	NoColor bool   `long:"no-color" description:"Disable colorized output regardless of config/tty"`
	Version bool   `long:"version" description:"Show version and exit"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[options]"
	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}

	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	cfg := config.LoadOrDefault(opts.Config)
	if opts.NoColor {
		cfg.Color = false
	}

	logger := logging.New(os.Stderr)

	if opts.File != "" {
		os.Exit(runNonInteractive(cfg, logger, opts.File))
	}

	d := driver.New(cfg, logger, os.Stdout)
	d.RunInteractive(os.Stdin, cfg.Prompt)
}

// runNonInteractive executes a request file and returns the process exit
// code: 0 on success, 1 if any request failed (spec.md §6: "non-interactive
// failure modes exit with non-zero").
func runNonInteractive(cfg *config.Config, logger *logging.Logger, path string) int {
	d := driver.New(cfg, logger, os.Stdout)
	if err := d.RunRequest(".read " + path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
