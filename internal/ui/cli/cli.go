package cli

import (
	"flag"
	"io"
)

type cliOptions struct {
	configPath   string
	once         bool
	watch        bool
	verbose      bool
	version      bool
	format       string
	history      bool
	historyLimit int
	historyTSV   string
	args         []string
}

func parseOptions(args []string, output io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("codegrader", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.configPath, "config", "", "Path to config file (default ./codegrader.toml when present)")
	fs.BoolVar(&opts.once, "once", false, "Run a single analysis and exit (default)")
	fs.BoolVar(&opts.watch, "watch", false, "Re-analyze whenever Java sources change")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")
	fs.StringVar(&opts.format, "format", "", "Print the report to stdout as markdown, sarif, tsv, json or yaml")
	fs.BoolVar(&opts.history, "history", false, "Record the run and print the run history trend (enables db)")
	fs.IntVar(&opts.historyLimit, "history-limit", 20, "Number of recent runs shown by --history")
	fs.StringVar(&opts.historyTSV, "history-tsv", "", "Write the run history trend as TSV to this path (requires --history)")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}
