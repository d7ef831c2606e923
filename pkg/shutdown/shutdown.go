// Package shutdown ties a process to SIGINT/SIGTERM and stops its servers
// within a bounded grace period.
package shutdown

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
)

// Grace is how long servers get to finish in-flight work once a stop begins.
const Grace = 5 * time.Second

// WithSignals returns a context cancelled by the first SIGINT or SIGTERM.
// The cancel func also stops signal delivery.
func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// GRPC drains s and falls back to a hard Stop when ctx ends first, which
// closes open streams. It reports whether the drain finished.
func GRPC(ctx context.Context, s *grpc.Server) bool {
	drained := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(drained)
	}()

	select {
	case <-drained:
		return true
	case <-ctx.Done():
		s.Stop()
		<-drained
		return false
	}
}

// HTTP shuts srv down and closes whatever connections remain when ctx ends.
func HTTP(ctx context.Context, srv *http.Server) error {
	if err := srv.Shutdown(ctx); err != nil {
		srv.Close()
		return err
	}
	return nil
}
