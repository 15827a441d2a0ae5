// Package cli implements the devtrack command line interface.
package cli

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/appdna/devtrack/internal/session"
)

const helpFlag = "--help"

// Run is the main entry point. Returns exit code.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string) int {
	o := NewIO(out, errOut)

	if len(args) < 2 {
		printUsage(o)

		return 0
	}

	globals := flag.NewFlagSet("devtrack", flag.ContinueOnError)
	globals.SetOutput(&strings.Builder{})
	globals.SetInterspersed(false)

	workDir := globals.StringP("cwd", "C", "", "Run as if started in this directory")
	modelPath := globals.String("model", "", "Path to the model file")
	configPath := globals.String("config", "", "Path to a .devtrack.json config file")

	err := globals.Parse(args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(o)

			return 0
		}

		o.ErrPrintln("error:", err)

		return 1
	}

	remaining := globals.Args()
	if len(remaining) == 0 {
		printUsage(o)

		return 0
	}

	name := remaining[0]
	if name == "-h" || name == helpFlag || name == "help" {
		printUsage(o)

		return 0
	}

	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	a := &App{
		In:         in,
		Log:        logger,
		Sessions:   session.NewRegistry(),
		workDir:    *workDir,
		modelFlag:  *modelPath,
		configFlag: *configPath,
	}
	defer a.Sessions.CloseAll()

	for _, cmd := range commands() {
		if cmd.Name() == name {
			return cmd.Run(a, o, remaining[1:])
		}
	}

	o.ErrPrintln("error: unknown command:", name)
	printUsage(o)

	return 1
}

// commands builds a fresh command table. Flag sets hold parse state, so
// they are never shared between invocations.
func commands() []*Command {
	return []*Command{
		cmdView(),
		cmdExport(),
		cmdSet(),
		cmdBulkStatus(),
		cmdBulkPriority(),
		cmdBulkPoints(),
		cmdBulkAssign(),
		cmdBulkSprint(),
		cmdQueue(),
		cmdSprint(),
		cmdAssign(),
		cmdUnassign(),
		cmdMapping(),
		cmdForecast(),
		cmdConfig(),
	}
}

func printUsage(o *IO) {
	o.Println("Usage: devtrack [global flags] <command> [args]")
	o.Println()
	o.Println("Track development status of user stories next to an AppDNA model.")
	o.Println()
	o.Println("Commands:")

	for _, cmd := range commands() {
		o.Println(cmd.HelpLine())
	}

	o.Println()
	o.Println("Global flags:")
	o.Println("  -C, --cwd <dir>            Run as if started in this directory")
	o.Println("      --model <file>         Path to the model file")
	o.Println("      --config <file>        Path to a .devtrack.json config file")
	o.Println()
	o.Println("Run 'devtrack <command> --help' for command details.")
}
