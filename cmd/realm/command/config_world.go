package command

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/world"
)

type WorldConfig struct {
	Path        string   `json:"path" yaml:"path" env:"PATH"`
	EntryPoints []string `json:"entry_points" yaml:"entry_points" env:"ENTRY_POINTS" envSeparator:","`
}

func (c *WorldConfig) validate() error {
	el := errors.NewErrorList()

	if c.Path == "" {
		el.Add(fmt.Errorf("world: path is required"))
	} else if _, err := os.Stat(c.Path); err != nil {
		el.Add(fmt.Errorf("world: invalid path %q: %w", c.Path, err))
	}

	for i, id := range c.EntryPoints {
		if id == "" {
			el.Add(fmt.Errorf("world: entry point %d is empty", i))
		}
	}

	return el.Err()
}

func (c *WorldConfig) entryPoints() []string {
	if len(c.EntryPoints) == 0 {
		return game.DefaultEntryPoints
	}
	return c.EntryPoints
}

// buildWorld loads the graph and the placer over it. A graph that fails to
// load stops startup; entry points that do not resolve are only logged, and
// placements that pick one fail.
func (c *WorldConfig) buildWorld(r *game.Registry) (*world.Graph, *game.Placer, error) {
	g, err := world.Load(c.Path)
	if err != nil {
		return nil, nil, err
	}

	placer := game.NewPlacer(g, r, c.entryPoints())
	if err := placer.Validate(); err != nil {
		slog.Error("invalid entry points", "error", err)
	}

	slog.Info("world loaded", "name", g.Meta().Name, "version", g.Meta().Version, "locations", g.Len())
	return g, placer, nil
}
