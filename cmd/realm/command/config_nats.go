package command

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-realm/internal/messaging"
)

type NatsConfig struct {
	Host         string `json:"host" yaml:"host" env:"HOST"`
	Port         int    `json:"port" yaml:"port" env:"PORT"`
	StartTimeout string `json:"start_timeout" yaml:"start_timeout" env:"START_TIMEOUT"`
}

func (n *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if n.Port < -1 || n.Port > 65535 {
		el.Add(fmt.Errorf("nats: port %d out of range", n.Port))
	}
	if _, err := parseDuration("nats: start_timeout", n.StartTimeout, messaging.DefaultStartTimeout); err != nil {
		el.Add(err)
	}

	return el.Err()
}

func (n *NatsConfig) buildNatsServer() (*messaging.NatsServer, error) {
	d, err := parseDuration("nats: start_timeout", n.StartTimeout, messaging.DefaultStartTimeout)
	if err != nil {
		return nil, err
	}

	opts := []messaging.NatsServerOpt{messaging.WithStartTimeout(d)}
	if n.Host != "" {
		opts = append(opts, messaging.WithHost(n.Host))
	}
	if n.Port != 0 {
		opts = append(opts, messaging.WithPort(n.Port))
	}

	return messaging.NewNatsServer(opts...)
}
