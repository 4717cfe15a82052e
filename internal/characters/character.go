package characters

import (
	"errors"
	"fmt"
	"time"

	errlist "github.com/pixil98/go-errors"
)

var (
	ErrCharacterNotFound = errors.New("character not found")
	ErrCharacterExists   = errors.New("player already exists")
)

const (
	DefaultLevel        = 1
	DefaultHealth       = 100
	DefaultAbilityScore = 10
)

// Stats holds a character's six ability scores.
type Stats struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// DefaultStats returns the ability scores of a freshly created character.
func DefaultStats() Stats {
	return Stats{
		Strength:     DefaultAbilityScore,
		Dexterity:    DefaultAbilityScore,
		Constitution: DefaultAbilityScore,
		Intelligence: DefaultAbilityScore,
		Wisdom:       DefaultAbilityScore,
		Charisma:     DefaultAbilityScore,
	}
}

// Character is the durable player record owned by the character store.
// Location is the last location written back by the world; it may be empty
// or name a location the current world no longer has.
type Character struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Name       string    `json:"name"`
	Class      string    `json:"characterClass"`
	Level      int       `json:"level"`
	Health     int       `json:"health"`
	MaxHealth  int       `json:"maxHealth"`
	Experience int       `json:"experience"`
	Location   string    `json:"location,omitempty"`
	Stats      Stats     `json:"stats"`
	Active     bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewCharacter returns an active level one character with default stats.
func NewCharacter(userID, name, class string) *Character {
	return &Character{
		UserID:    userID,
		Name:      name,
		Class:     class,
		Level:     DefaultLevel,
		Health:    DefaultHealth,
		MaxHealth: DefaultHealth,
		Stats:     DefaultStats(),
		Active:    true,
	}
}

func (c *Character) Validate() error {
	el := errlist.NewErrorList()

	if c.UserID == "" {
		el.Add(fmt.Errorf("user id is required"))
	}
	if c.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if c.Class == "" {
		el.Add(fmt.Errorf("character class is required"))
	}
	if c.Level < 1 {
		el.Add(fmt.Errorf("level must be at least 1"))
	}
	if c.MaxHealth < 1 {
		el.Add(fmt.Errorf("max health must be positive"))
	}
	if c.Health > c.MaxHealth {
		el.Add(fmt.Errorf("health %d exceeds max health %d", c.Health, c.MaxHealth))
	}

	return el.Err()
}
