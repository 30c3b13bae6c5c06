package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tuniweather/weatherapp/cmd"
	"github.com/tuniweather/weatherapp/internal/app"
	"github.com/tuniweather/weatherapp/internal/runtime"
)

// Set at build time with -ldflags "-X main.version=... -X main.buildDate=..."
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	rt := runtime.New(version, buildDate)
	a := app.New(rt)
	defer a.Close()

	// Ctrl-C cancels in-flight requests instead of killing the process mid-write.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cmd.RootCommand(a)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
