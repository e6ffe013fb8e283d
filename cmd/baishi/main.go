package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/doeshing/baishi/internal/infrastructure/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx, cli.Options{Verbose: isVerbose()}, os.Args[1:])
	stop()
	os.Exit(code)
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("BAISHI_DEBUG"), "1") || strings.EqualFold(os.Getenv("BAISHI_DEBUG"), "true")
}
