package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/lessonplan-backend/internal/app"
	"github.com/yungbote/lessonplan-backend/internal/platform/shutdown"
)

func main() {
	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	shutdown.ForceExitOnSecondSignal(ctx, func() {
		a.Log.Warn("Second signal received, exiting without drain")
	})

	if err := a.Run(ctx); err != nil {
		a.Log.Error("Server exited with error", "error", err)
		a.Close()
		os.Exit(1)
	}
	a.Log.Info("Server stopped")
}
