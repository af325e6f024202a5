package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUnknownCommand is returned by help for a command that does not exist.
var ErrUnknownCommand = errors.New("unknown command")

func main() {
	ctx, stop := notifyContext(context.Background())
	code := run(ctx, os.Args[1:], DefaultEnv())
	stop()
	os.Exit(code)
}

// run dispatches args (without the program name) and returns the exit code.
// Arguments that are not a command name go to convert.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	var err error
	switch args[0] {
	case "convert":
		err = runConvert(ctx, args[1:], env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "nb2html %s\n", Version)
	case "help", "-h", "--help":
		err = runHelp(args[1:], env)
	case "completion":
		err = runCompletion(args[1:], env)
	case "doctor":
		return runDoctorCmd(args[1:], env)
	default:
		err = runConvert(ctx, args, env)
	}

	if err != nil {
		fmt.Fprintln(env.Stderr, errorWithHint(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}
