package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/doeshing/wxq/internal/infrastructure/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, lazy := cli.NewRootCmd(ctx, cli.Options{Verbose: isVerbose()})
	err := root.ExecuteContext(ctx)
	_ = lazy.Close()

	if err != nil {
		if !errors.Is(err, cli.ErrLookupFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("WXQ_DEBUG"), "1") || strings.EqualFold(os.Getenv("WXQ_DEBUG"), "true")
}
