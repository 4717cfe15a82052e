package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pixil98/go-realm/internal/display"
	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/player"
)

const (
	ServerName    = "realm"
	ServerVersion = "0.1.0"
)

// World is the slice of the world the narrative tools act on.
type World interface {
	Spawn(ctx context.Context, userID, name, preferred string) (game.Session, error)
	Move(ctx context.Context, userID, target string) (game.Session, error)
	Despawn(ctx context.Context, userID string) bool
	State(userID string) (player.State, bool)
	WorldStats() game.WorldStats
}

type enterInput struct {
	UserID              string `json:"userId" jsonschema:"the player's user id"`
	Name                string `json:"name,omitempty" jsonschema:"display name, defaults to the player's character name"`
	PreferredLocationID string `json:"preferredLocationId,omitempty" jsonschema:"location to appear at, if it exists"`
}

type userInput struct {
	UserID string `json:"userId" jsonschema:"the player's user id"`
}

type moveInput struct {
	UserID     string `json:"userId" jsonschema:"the player's user id"`
	LocationID string `json:"locationId" jsonschema:"id of a location connected to the current one"`
}

type noInput struct{}

// NewServer builds the MCP server exposing the world as narrative tools.
func NewServer(w World) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: ServerVersion}, nil)
	t := &toolset{world: w}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "enter_world",
		Description: "Place the player in the world, or confirm where they already are.",
	}, t.enterWorld)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "look_around",
		Description: "Look around the current location to see what is nearby, including other players, NPCs, objects, and exits.",
	}, t.lookAround)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "move_to",
		Description: "Move the player to a location directly connected to where they stand.",
	}, t.moveTo)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "leave_world",
		Description: "Remove the player from the world.",
	}, t.leaveWorld)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "world_stats",
		Description: "Summarise the world and how many adventurers are in it.",
	}, t.worldStats)

	return server
}

// Handler serves server over the streamable HTTP transport.
func Handler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
}

type toolset struct {
	world World
}

func text(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

func failure(msg string) *mcp.CallToolResult {
	res := text(msg)
	res.IsError = true
	return res
}

func checkUser(id string) *mcp.CallToolResult {
	if _, err := uuid.Parse(id); err != nil {
		return failure("userId must be a uuid")
	}
	return nil
}

func (t *toolset) enterWorld(ctx context.Context, _ *mcp.CallToolRequest, in enterInput) (*mcp.CallToolResult, any, error) {
	if res := checkUser(in.UserID); res != nil {
		return res, nil, nil
	}

	s, err := t.world.Spawn(ctx, in.UserID, in.Name, in.PreferredLocationID)
	switch {
	case errors.Is(err, player.ErrNoCharacter):
		return failure("No player character found. Please create a character first."), nil, nil
	case err != nil:
		return failure(fmt.Sprintf("Unable to enter the world: %v", err)), nil, nil
	}

	st, ok := t.world.State(in.UserID)
	if !ok {
		return text(fmt.Sprintf("%s enters the world.", s.Name)), nil, nil
	}
	return text(fmt.Sprintf("%s is at %s.", s.Name, st.Location.Name)), nil, nil
}

func (t *toolset) lookAround(_ context.Context, _ *mcp.CallToolRequest, in userInput) (*mcp.CallToolResult, any, error) {
	if res := checkUser(in.UserID); res != nil {
		return res, nil, nil
	}

	st, ok := t.world.State(in.UserID)
	if !ok {
		return failure("You are not currently in the world. Please wait a moment for your character to be placed."), nil, nil
	}

	others := make([]string, 0, len(st.OtherPlayers))
	for _, o := range st.OtherPlayers {
		others = append(others, o.Name)
	}

	desc, err := display.RenderLocation(display.LocationView{
		Location: st.Location,
		Others:   others,
		Exits:    st.ConnectedLocations,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("rendering location: %w", err)
	}
	return text(desc), nil, nil
}

func (t *toolset) moveTo(ctx context.Context, _ *mcp.CallToolRequest, in moveInput) (*mcp.CallToolResult, any, error) {
	if res := checkUser(in.UserID); res != nil {
		return res, nil, nil
	}

	s, err := t.world.Move(ctx, in.UserID, in.LocationID)
	switch {
	case errors.Is(err, game.ErrNoSession):
		return failure("You are not in the world yet."), nil, nil
	case errors.Is(err, game.ErrNotConnected):
		return failure("You can't get there from here. Look around to see the exits."), nil, nil
	case errors.Is(err, game.ErrInvalidLocation):
		return failure("That place does not exist."), nil, nil
	case err != nil:
		return nil, nil, err
	}

	st, ok := t.world.State(in.UserID)
	if !ok {
		return text(fmt.Sprintf("%s moves on.", s.Name)), nil, nil
	}
	return text(fmt.Sprintf("%s arrives at %s.", s.Name, st.Location.Name)), nil, nil
}

func (t *toolset) leaveWorld(ctx context.Context, _ *mcp.CallToolRequest, in userInput) (*mcp.CallToolResult, any, error) {
	if res := checkUser(in.UserID); res != nil {
		return res, nil, nil
	}

	if !t.world.Despawn(ctx, in.UserID) {
		return text("You were not in the world."), nil, nil
	}
	return text("You leave the world."), nil, nil
}

func (t *toolset) worldStats(_ context.Context, _ *mcp.CallToolRequest, _ noInput) (*mcp.CallToolResult, any, error) {
	st := t.world.WorldStats()
	msg, err := display.ExpandTemplate(
		`{{ .WorldName }} (v{{ .WorldVersion }}): {{ .TotalLocations }} locations, {{ .ActiveSessions }} {{ if eq .ActiveSessions 1 }}adventurer{{ else }}adventurers{{ end }} exploring.`,
		st)
	if err != nil {
		return nil, nil, err
	}
	return text(msg), nil, nil
}
