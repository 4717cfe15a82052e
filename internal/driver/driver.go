package driver

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultTickLength = 5 * time.Minute
)

// Ticker is periodic work run by the driver.
type Ticker interface {
	Tick(context.Context) error
}

// Driver calls every Ticker once per tick until its context is cancelled.
type Driver struct {
	tickLength time.Duration
	tickers    []Ticker
}

type DriverOpt func(*Driver)

func WithTickLength(tickLength time.Duration) DriverOpt {
	return func(d *Driver) {
		d.tickLength = tickLength
	}
}

func NewDriver(tickers []Ticker, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		tickers:    tickers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Driver) Start(ctx context.Context) error {
	slog.InfoContext(ctx, "driver started", "tick", d.tickLength)

	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

func (d *Driver) Tick(ctx context.Context) error {
	for _, t := range d.tickers {
		if err := t.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}
