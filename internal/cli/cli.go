package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/vk/objtree/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("objtree", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
objtree - A minimal recursive build orchestrator.

Usage:
  objtree -src SOURCE_ROOT -out OUTPUT_ROOT -config FLAGS_FILE [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	srcFlag := flagSet.String("src", "", "Root of the source tree to build.")
	outFlag := flagSet.String("out", "", "Root of the output tree; mirrors the source tree.")
	configFlag := flagSet.String("config", "", "Path to the configuration-flag source (.hcl or .config).")
	includeFlag := flagSet.String("include", "", "Root include path passed to every compile.")
	ccFlag := flagSet.String("cc", "", "External compiler binary (default: $OBJTREE_CC, then 'cc').")
	workersFlag := flagSet.Int("workers", runtime.NumCPU(), "Number of concurrent compiler invocations.")
	failFastFlag := flagSet.Bool("fail-fast", false, "Stop launching new work after the first failure.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if *srcFlag == "" && *outFlag == "" && *configFlag == "" {
		slog.Debug("No arguments provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		SourceRoot:  *srcFlag,
		OutputRoot:  *outFlag,
		ConfigPath:  *configFlag,
		IncludeRoot: *includeFlag,
		CC:          *ccFlag,
		Workers:     *workersFlag,
		FailFast:    *failFastFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return config, false, nil
}
