package command

import (
	"fmt"
	"net/http"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-realm/internal/listener"
)

type HTTPConfig struct {
	Port            uint16 `json:"port" yaml:"port" env:"PORT"`
	ShutdownTimeout string `json:"shutdown_timeout" yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

func (c *HTTPConfig) validate() error {
	el := errors.NewErrorList()

	if c.Port == 0 {
		el.Add(fmt.Errorf("http: port must be set to a positive integer"))
	}
	if _, err := parseDuration("http: shutdown_timeout", c.ShutdownTimeout, listener.DefaultShutdownTimeout); err != nil {
		el.Add(err)
	}

	return el.Err()
}

func (c *HTTPConfig) buildListener(h http.Handler) (*listener.HTTPListener, error) {
	d, err := parseDuration("http: shutdown_timeout", c.ShutdownTimeout, listener.DefaultShutdownTimeout)
	if err != nil {
		return nil, err
	}
	return listener.NewHTTPListener(c.Port, h, listener.WithShutdownTimeout(d)), nil
}
