package command

import (
	"fmt"
	"net/http"

	"github.com/pixil98/go-service"

	"github.com/pixil98/go-realm/internal/api"
	"github.com/pixil98/go-realm/internal/driver"
	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/messaging"
	"github.com/pixil98/go-realm/internal/player"
	"github.com/pixil98/go-realm/internal/tools"
)

// WorkerList names every long running worker of the process.
type WorkerList map[string]service.Worker

// BuildWorkers assembles the process from cfg. The returned cleanup func
// must be called after every worker has stopped.
func BuildWorkers(cfg *Config) (WorkerList, func() error, error) {
	registry := game.NewRegistry()

	graph, placer, err := cfg.World.buildWorld(registry)
	if err != nil {
		return nil, nil, fmt.Errorf("loading world: %w", err)
	}

	idleTimeout, err := cfg.Sessions.idleTimeout()
	if err != nil {
		return nil, nil, err
	}
	sweepInterval, err := cfg.Sessions.sweepInterval()
	if err != nil {
		return nil, nil, err
	}

	nats, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, nil, fmt.Errorf("creating nats server: %w", err)
	}

	store, closeStore, err := cfg.Characters.buildStore()
	if err != nil {
		return nil, nil, fmt.Errorf("opening character store: %w", err)
	}
	writer, err := cfg.Characters.buildWriter(store)
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}

	manager := player.NewManager(graph, registry, placer,
		player.WithCharacterStore(store),
		player.WithLocationWriter(writer),
		player.WithPublisher(messaging.NewNatsPublisher(nats)),
		player.WithIdleTimeout(idleTimeout),
	)

	mux := http.NewServeMux()
	mux.Handle("/", api.NewServer(manager, api.WithEventSource(nats)).Handler())
	mux.Handle("/mcp", tools.Handler(tools.NewServer(manager)))

	httpListener, err := cfg.HTTP.buildListener(mux)
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}

	return WorkerList{
		"nats":   nats,
		"writer": writer,
		"driver": driver.NewDriver([]driver.Ticker{manager}, driver.WithTickLength(sweepInterval)),
		"http":   httpListener,
	}, closeStore, nil
}
