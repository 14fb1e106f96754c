package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"admin-dashboard/internal/shell"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := shell.Execute(ctx, os.Args[1:], shell.Options{})
	stop()

	os.Exit(code)
}
