package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/pragermh/mol-mod-import/internal/cli"
	"github.com/pragermh/mol-mod-import/pkg/asvdb"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(asvdb.ExitPanic)
		}
	}()

	if os.Getenv("ASVDB_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(asvdb.ExitCodeForError(err))
	}
}
