package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/pixil98/go-realm/internal/characters"
	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/player"
)

const maxBodyBytes = 64 * 1024

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func validUserID(id string) error {
	if id == "" {
		return fmt.Errorf("userId is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("userId must be a uuid")
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

type worldDataResponse struct {
	envelope
	player.Snapshot
}

func (s *Server) handleWorldData(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, worldDataResponse{
		envelope: envelope{Success: true},
		Snapshot: s.world.Snapshot(),
	})
}

type statsResponse struct {
	envelope
	game.WorldStats
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statsResponse{
		envelope:   envelope{Success: true},
		WorldStats: s.world.WorldStats(),
	})
}

type locationResponse struct {
	envelope
	game.LocationInfo
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("locationId")
	info, ok := s.world.LocationInfo(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("location %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, locationResponse{
		envelope:     envelope{Success: true},
		LocationInfo: info,
	})
}

type spawnRequest struct {
	UserID              string `json:"userId"`
	Name                string `json:"name"`
	PreferredLocationID string `json:"preferredLocationId"`
}

type sessionResponse struct {
	envelope
	Player *game.Session `json:"player,omitempty"`
}

func (s *Server) handleSpawn(w http.ResponseWriter, r *http.Request) {
	var req spawnRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validUserID(req.UserID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := s.world.Spawn(r.Context(), req.UserID, req.Name, req.PreferredLocationID)
	if err != nil {
		writeError(w, http.StatusBadRequest, spawnFailure(err))
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		envelope: envelope{Success: true, Message: fmt.Sprintf("%s entered the world", sess.Name)},
		Player:   &sess,
	})
}

func spawnFailure(err error) string {
	switch {
	case errors.Is(err, player.ErrNoCharacter):
		return "No player character found. Please create a character first."
	case errors.Is(err, game.ErrNoValidSpawn):
		return "No valid spawn location available."
	default:
		return err.Error()
	}
}

type moveRequest struct {
	UserID           string `json:"userId"`
	TargetLocationID string `json:"targetLocationId"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validUserID(req.UserID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.TargetLocationID == "" {
		writeError(w, http.StatusBadRequest, "targetLocationId is required")
		return
	}

	sess, err := s.world.Move(r.Context(), req.UserID, req.TargetLocationID)
	if err != nil {
		writeError(w, http.StatusBadRequest, moveFailure(err))
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		envelope: envelope{Success: true, Message: fmt.Sprintf("moved to %s", sess.LocationID)},
		Player:   &sess,
	})
}

func moveFailure(err error) string {
	switch {
	case errors.Is(err, game.ErrNoSession):
		return "You are not in the world. Spawn first."
	case errors.Is(err, game.ErrNotConnected):
		return "You can't get there from here."
	case errors.Is(err, game.ErrInvalidLocation):
		return "That location does not exist."
	default:
		return err.Error()
	}
}

type despawnRequest struct {
	UserID string `json:"userId"`
}

type despawnResponse struct {
	envelope
	Removed bool `json:"removed"`
}

func (s *Server) handleDespawn(w http.ResponseWriter, r *http.Request) {
	var req despawnRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validUserID(req.UserID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg := "Player was not in the world"
	removed := s.world.Despawn(r.Context(), req.UserID)
	if removed {
		msg = "Player despawned"
	}
	writeJSON(w, http.StatusOK, despawnResponse{
		envelope: envelope{Success: true, Message: msg},
		Removed:  removed,
	})
}

type stateResponse struct {
	envelope
	player.State
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if err := validUserID(userID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	st, ok := s.world.State(userID)
	if !ok {
		writeError(w, http.StatusNotFound, "Player not found in world")
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{
		envelope: envelope{Success: true},
		State:    st,
	})
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if err := validUserID(userID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !s.world.Touch(userID) {
		writeError(w, http.StatusNotFound, "Player not found in world")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

type createCharacterRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Class  string `json:"characterClass"`
}

type characterResponse struct {
	envelope
	Character *characters.Character `json:"character,omitempty"`
}

func (s *Server) handleCreateCharacter(w http.ResponseWriter, r *http.Request) {
	var req createCharacterRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validUserID(req.UserID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := s.world.CreateCharacter(r.Context(), req.UserID, req.Name, req.Class)
	if errors.Is(err, characters.ErrCharacterExists) {
		writeError(w, http.StatusConflict, "Player already exists")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, characterResponse{
		envelope:  envelope{Success: true},
		Character: c,
	})
}
