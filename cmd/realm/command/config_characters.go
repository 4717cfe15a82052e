package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-realm/internal/characters"
)

const (
	CharacterDriverSQLite = "sqlite"
	CharacterDriverFile   = "file"
)

type CharactersConfig struct {
	Driver       string `json:"driver" yaml:"driver" env:"DRIVER"`
	Path         string `json:"path" yaml:"path" env:"PATH"`
	QueueSize    int    `json:"queue_size" yaml:"queue_size" env:"QUEUE_SIZE"`
	WriteTimeout string `json:"write_timeout" yaml:"write_timeout" env:"WRITE_TIMEOUT"`
}

func (c *CharactersConfig) validate() error {
	el := errors.NewErrorList()

	switch c.Driver {
	case CharacterDriverSQLite, CharacterDriverFile:
		if c.Path == "" {
			el.Add(fmt.Errorf("characters: path is required"))
		}
	default:
		el.Add(fmt.Errorf("characters: unknown driver %q (expected %q or %q)", c.Driver, CharacterDriverSQLite, CharacterDriverFile))
	}

	if c.QueueSize < 0 {
		el.Add(fmt.Errorf("characters: queue_size must not be negative"))
	}
	if _, err := c.writeTimeout(); err != nil {
		el.Add(err)
	}

	return el.Err()
}

func (c *CharactersConfig) writeTimeout() (time.Duration, error) {
	return parseDuration("characters: write_timeout", c.WriteTimeout, characters.DefaultWriteTimeout)
}

// buildStore opens the configured character store. The returned func
// releases it once every worker has stopped.
func (c *CharactersConfig) buildStore() (characters.Store, func() error, error) {
	switch c.Driver {
	case CharacterDriverSQLite:
		db, err := characters.OpenSQLite(c.Path)
		if err != nil {
			return nil, nil, err
		}
		return characters.NewSQLiteStore(db), db.Close, nil
	case CharacterDriverFile:
		s, err := characters.OpenFileStore(c.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown character driver %q", c.Driver)
	}
}

func (c *CharactersConfig) buildWriter(saver characters.LocationSaver) (*characters.Writer, error) {
	timeout, err := c.writeTimeout()
	if err != nil {
		return nil, err
	}

	opts := []characters.WriterOpt{characters.WithWriteTimeout(timeout)}
	if c.QueueSize > 0 {
		opts = append(opts, characters.WithQueueSize(c.QueueSize))
	}
	return characters.NewWriter(saver, opts...), nil
}
