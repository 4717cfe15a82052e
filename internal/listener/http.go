package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"syscall"
	"time"
)

const DefaultShutdownTimeout = 10 * time.Second

// HTTPListener serves a handler until its context is cancelled.
type HTTPListener struct {
	port            uint16
	handler         http.Handler
	shutdownTimeout time.Duration

	addr chan net.Addr
}

type HTTPListenerOpt func(*HTTPListener)

// WithShutdownTimeout bounds how long in-flight requests get to finish.
func WithShutdownTimeout(d time.Duration) HTTPListenerOpt {
	return func(l *HTTPListener) {
		l.shutdownTimeout = d
	}
}

func NewHTTPListener(port uint16, handler http.Handler, opts ...HTTPListenerOpt) *HTTPListener {
	l := &HTTPListener{
		port:            port,
		handler:         handler,
		shutdownTimeout: DefaultShutdownTimeout,
		addr:            make(chan net.Addr, 1),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Addr blocks until the listener is bound and returns its address.
func (l *HTTPListener) Addr(ctx context.Context) (net.Addr, error) {
	select {
	case a := <-l.addr:
		l.addr <- a
		return a, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *HTTPListener) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", l.port))
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("port %d is already in use (another server running?)", l.port)
		}
		return fmt.Errorf("listening on port %d: %w", l.port, err)
	}
	l.addr <- ln.Addr()

	svr := &http.Server{
		Handler:           l.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	// done signals that Start is returning (either success or failure)
	done := make(chan struct{})
	defer close(done)

	shutdownErr := make(chan error, 1)
	go func() {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.shutdownTimeout)
			defer cancel()
			shutdownErr <- svr.Shutdown(shutdownCtx)
		case <-done:
		}
	}()

	slog.InfoContext(ctx, "http listener started", "addr", ln.Addr().String())

	err = svr.Serve(ln)
	if !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving http on port %d: %w", l.port, err)
	}

	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("shutting down http listener: %w", err)
	}
	return nil
}
