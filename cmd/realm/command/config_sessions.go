package command

import (
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-realm/internal/driver"
	"github.com/pixil98/go-realm/internal/game"
)

type SessionsConfig struct {
	IdleTimeout   string `json:"idle_timeout" yaml:"idle_timeout" env:"IDLE_TIMEOUT"`
	SweepInterval string `json:"sweep_interval" yaml:"sweep_interval" env:"SWEEP_INTERVAL"`
}

func (c *SessionsConfig) validate() error {
	el := errors.NewErrorList()

	if _, err := c.idleTimeout(); err != nil {
		el.Add(err)
	}
	if _, err := c.sweepInterval(); err != nil {
		el.Add(err)
	}

	return el.Err()
}

func (c *SessionsConfig) idleTimeout() (time.Duration, error) {
	return parseDuration("sessions: idle_timeout", c.IdleTimeout, game.DefaultIdleTimeout)
}

func (c *SessionsConfig) sweepInterval() (time.Duration, error) {
	return parseDuration("sessions: sweep_interval", c.SweepInterval, driver.DefaultTickLength)
}
