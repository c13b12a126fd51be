package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tokenpulse/internal/cli"

	"github.com/joho/godotenv"
)

var (
	loadEnvFunc = godotenv.Load
	executeFunc = cli.Execute
	exitFunc    = os.Exit
)

func main() {
	exitFunc(run())
}

// run returns the process exit code. An interrupt that drains cleanly exits 0.
func run() int {
	_ = loadEnvFunc()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := executeFunc(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "tokenpulse:", err)
		return 1
	}
	return 0
}
