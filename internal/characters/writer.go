package characters

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultQueueSize    = 256
	DefaultWriteTimeout = 5 * time.Second
)

type locationWrite struct {
	userID     string
	locationID string
}

// Writer persists location changes in the background. Writes are best
// effort: a full queue drops the write and a failed write is only logged.
type Writer struct {
	saver   LocationSaver
	queue   chan locationWrite
	timeout time.Duration
}

type WriterOpt func(*Writer)

// WithQueueSize sets how many pending writes may be buffered.
func WithQueueSize(n int) WriterOpt {
	return func(w *Writer) {
		if n > 0 {
			w.queue = make(chan locationWrite, n)
		}
	}
}

// WithWriteTimeout bounds each individual write.
func WithWriteTimeout(d time.Duration) WriterOpt {
	return func(w *Writer) {
		if d > 0 {
			w.timeout = d
		}
	}
}

func NewWriter(saver LocationSaver, opts ...WriterOpt) *Writer {
	w := &Writer{
		saver:   saver,
		queue:   make(chan locationWrite, DefaultQueueSize),
		timeout: DefaultWriteTimeout,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Enqueue schedules a location write without blocking. It reports whether
// the write was accepted.
func (w *Writer) Enqueue(userID, locationID string) bool {
	select {
	case w.queue <- locationWrite{userID: userID, locationID: locationID}:
		return true
	default:
		slog.Warn("location write queue full, dropping write", "userId", userID, "location", locationID)
		return false
	}
}

// Start drains the queue until ctx is cancelled, then flushes whatever is
// still pending.
func (w *Writer) Start(ctx context.Context) error {
	slog.InfoContext(ctx, "location writer started", "queue", cap(w.queue))

	for {
		select {
		case <-ctx.Done():
			w.flush(context.WithoutCancel(ctx))
			return nil
		case lw := <-w.queue:
			w.write(ctx, lw)
		}
	}
}

func (w *Writer) flush(ctx context.Context) {
	for {
		select {
		case lw := <-w.queue:
			w.write(ctx, lw)
		default:
			return
		}
	}
}

func (w *Writer) write(ctx context.Context, lw locationWrite) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if err := w.saver.SaveLocation(ctx, lw.userID, lw.locationID); err != nil {
		slog.WarnContext(ctx, "saving location failed", "userId", lw.userID, "location", lw.locationID, "error", err)
	}
}
