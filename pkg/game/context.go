package game

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Resources tracks the agent's one-shot consumables. Each flag starts
// true if the role grants the ability, flips to false on use, and is
// never reset within a session.
type Resources struct {
	Antidote bool `json:"antidote,omitempty"`
	Poison   bool `json:"poison,omitempty"`
	Shot     bool `json:"shot,omitempty"`
}

// resourcesFor returns the starting resource flags for a role. Guard
// protection is repeatable and carries no flag; its only constraint is
// LastGuarded.
func resourcesFor(role Role) Resources {
	switch role {
	case RoleWitch:
		return Resources{Antidote: true, Poison: true}
	case RoleHunter, RoleWolfKing:
		return Resources{Shot: true}
	default:
		return Resources{}
	}
}

// Context is the per-session state all engine components read and
// write. It exclusively owns its Entity collection; nothing is shared
// across sessions.
type Context struct {
	ID     uuid.UUID `json:"id"`
	SelfID string    `json:"self_id"`
	Role   Role      `json:"role"`
	Round  int       `json:"round"`

	Entities   map[string]*Entity `json:"entities"`
	Alive      map[string]bool    `json:"alive"`
	Eliminated map[string]bool    `json:"eliminated,omitempty"`

	Resources Resources `json:"resources"`

	// LastGuarded is the target of the previous night's guard action.
	// Most rule sets forbid guarding the same player twice in a row.
	LastGuarded string `json:"last_guarded,omitempty"`

	// WolfAllies holds known teammates when playing a wolf role.
	WolfAllies []string `json:"wolf_allies,omitempty"`

	// History is an append-only log of observed game events, newest
	// last, used for speech prompts.
	History []string `json:"history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewContext creates a session context for the given self role and the
// full player roster. Every player (including self) is tracked as an
// entity starting at neutral trust.
func NewContext(selfID string, role Role, players []string) *Context {
	c := &Context{
		ID:         uuid.New(),
		SelfID:     selfID,
		Role:       role,
		Round:      1,
		Entities:   make(map[string]*Entity, len(players)),
		Alive:      make(map[string]bool, len(players)),
		Eliminated: make(map[string]bool),
		Resources:  resourcesFor(role),
		CreatedAt:  time.Now(),
	}
	for _, id := range players {
		c.Entities[id] = NewEntity(id)
		c.Alive[id] = true
	}
	if _, ok := c.Entities[selfID]; !ok {
		c.Entities[selfID] = NewEntity(selfID)
		c.Alive[selfID] = true
	}
	return c
}

// Entity returns the tracked entity for id, creating it at neutral
// trust on first observation.
func (c *Context) Entity(id string) *Entity {
	if e, ok := c.Entities[id]; ok {
		return e
	}
	e := NewEntity(id)
	c.Entities[id] = e
	if !c.Eliminated[id] {
		c.Alive[id] = true
	}
	return e
}

// StartRound advances the round counter. Rounds never go backwards.
func (c *Context) StartRound(round int) {
	if round > c.Round {
		c.Round = round
	}
}

// Eliminate moves an entity from the alive set to the eliminated set.
// Eliminating an unknown or already-eliminated entity is a no-op.
func (c *Context) Eliminate(id string) {
	if _, ok := c.Entities[id]; !ok {
		return
	}
	delete(c.Alive, id)
	c.Eliminated[id] = true
}

// IsAlive reports whether the entity is currently in the game.
func (c *Context) IsAlive(id string) bool {
	return c.Alive[id]
}

// AliveCount returns the number of living entities.
func (c *Context) AliveCount() int {
	return len(c.Alive)
}

// AliveIDs returns the living entity ids in stable sorted order.
func (c *Context) AliveIDs() []string {
	ids := make([]string, 0, len(c.Alive))
	for id := range c.Alive {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Phase derives the current game phase from round and alive count.
func (c *Context) Phase() Phase {
	return derivePhase(c.Round, c.AliveCount())
}

// Verify records an oracle result for an entity and pins its trust to
// the corresponding extreme. Also backfills TargetHostile on every
// recorded vote against this entity.
func (c *Context) Verify(id string, alignment Alignment) {
	e := c.Entity(id)
	e.Verified = alignment
	switch alignment {
	case AlignmentHostile:
		e.Trust = TrustMin
	case AlignmentAlly:
		e.Trust = TrustMax
	}
	hostile := alignment == AlignmentHostile
	for _, other := range c.Entities {
		for i := range other.Evidence.Votes {
			if other.Evidence.Votes[i].Target == id && other.Evidence.Votes[i].TargetHostile == nil {
				h := hostile
				other.Evidence.Votes[i].TargetHostile = &h
			}
		}
	}
}

// IsWolfAlly reports whether id is a known teammate of a wolf-side self.
func (c *Context) IsWolfAlly(id string) bool {
	for _, a := range c.WolfAllies {
		if a == id {
			return true
		}
	}
	return false
}

// Log appends an event line to the session history.
func (c *Context) Log(format string, args ...any) {
	c.History = append(c.History, fmt.Sprintf(format, args...))
}

// CheckInvariants verifies that the alive and eliminated sets are
// disjoint and cover all known entities. Intended for tests; a healthy
// session can never reach a violating state through the public API.
func (c *Context) CheckInvariants() error {
	for id := range c.Alive {
		if c.Eliminated[id] {
			return fmt.Errorf("entity %s is both alive and eliminated", id)
		}
	}
	for id := range c.Entities {
		if !c.Alive[id] && !c.Eliminated[id] {
			return fmt.Errorf("entity %s is neither alive nor eliminated", id)
		}
	}
	return nil
}
