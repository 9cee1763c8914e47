package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnzdotmx/lessonflowai/cmd"
	"github.com/gnzdotmx/lessonflowai/internal/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()

	if err != nil {
		utils.LogError("Error: %s", err)
	}
	os.Exit(cmd.ExitCode(err))
}
