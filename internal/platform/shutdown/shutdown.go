package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// NotifyContext is canceled on SIGINT or SIGTERM.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// ForceExitOnSecondSignal exits with code 1 if another signal arrives after ctx
// was canceled by the first one, so a stuck drain can be interrupted.
func ForceExitOnSecondSignal(ctx context.Context, onForce func()) {
	go func() {
		<-ctx.Done()
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, signals...)
		<-ch
		if onForce != nil {
			onForce()
		}
		os.Exit(1)
	}()
}
